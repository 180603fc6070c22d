package models

import "time"

// RideStatus enumerates the states a ride moves through.
type RideStatus string

const (
	RideStatusPending   RideStatus = "PENDING"
	RideStatusAccepted  RideStatus = "ACCEPTED"
	RideStatusOngoing   RideStatus = "ONGOING"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// ValidRideStatus reports whether s is a member of the status enum.
func ValidRideStatus(s RideStatus) bool {
	switch s {
	case RideStatusPending, RideStatusAccepted, RideStatusOngoing, RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// Ride is the central trip record.
//
// CaptainID is nil until a captain accepts. UserID, Pickup, Destination and
// Fare never change after creation. The OTP is generated once at request time
// and survives every later transition, including retry.
type Ride struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	CaptainID   *string    `json:"captain_id,omitempty" db:"captain_id"`
	Pickup      string     `json:"pickup" db:"pickup"`
	Destination string     `json:"destination" db:"destination"`
	Fare        float64    `json:"fare" db:"fare"`
	Distance    *float64   `json:"distance,omitempty" db:"distance"`
	Duration    *int       `json:"duration,omitempty" db:"duration"`
	Status      RideStatus `json:"status" db:"status"`
	OTP         string     `json:"otp" db:"otp"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// RequestRideRequest is the body for POST /rides/request.
// Pickup and destination are opaque location descriptors; fare is precomputed
// by the caller, the core does no trip economics.
type RequestRideRequest struct {
	Pickup      string  `json:"pickup" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	Fare        float64 `json:"fare" validate:"required,gte=0"`
}

// OverrideStatusRequest is the body for the admin-only status override.
type OverrideStatusRequest struct {
	Status RideStatus `json:"status" validate:"required,oneof=PENDING ACCEPTED ONGOING COMPLETED CANCELLED"`
}

// RideStatusResponse is the projection returned by GET /rides/status/:rideId.
type RideStatusResponse struct {
	Status RideStatus `json:"status"`
}
