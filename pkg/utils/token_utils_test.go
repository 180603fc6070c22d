package utils

import (
	"strconv"
	"testing"
)

func TestGenerateSecureTokenLength(t *testing.T) {
	token, err := GenerateSecureToken(16)
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 32 { // hex doubles the byte count
		t.Errorf("len = %d, want 32", len(token))
	}
}

func TestGenerateRideOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := GenerateRideOTP()
		if err != nil {
			t.Fatal(err)
		}
		if len(otp) != 4 {
			t.Fatalf("otp %q is not 4 digits", otp)
		}
		n, err := strconv.Atoi(otp)
		if err != nil {
			t.Fatalf("otp %q is not numeric: %v", otp, err)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("otp %d out of [1000, 9999]", n)
		}
	}
}
