package models

import "time"

// User is the rider-side actor. Identity is keyed by email (unique) and,
// for OAuth signups, by the external auth-provider id.
type User struct {
	ID             string    `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	MobileNumber   string    `json:"mobile_number,omitempty" db:"mobile_number"`
	SocketID       *string   `json:"socket_id,omitempty" db:"socket_id"`
	AuthProvider   string    `json:"auth_provider" db:"auth_provider"`
	AuthProviderID string    `json:"-" db:"auth_provider_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type SignupRequest struct {
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	MobileNumber string `json:"mobile_number" validate:"omitempty,min=7,max=20"`
	SocketID     string `json:"socket_id,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the signed bearer token and the sanitized identity.
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	User        *User    `json:"user,omitempty"`
	Captain     *Captain `json:"captain,omitempty"`
}

// UserUpdateData defines fields that can be updated for a rider profile.
type UserUpdateData struct {
	FullName     *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	MobileNumber *string `json:"mobile_number,omitempty" validate:"omitempty,min=7,max=20"`
}
