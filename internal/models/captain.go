package models

import "time"

// CaptainStatus enumerates captain availability states. SUSPENDED denies
// login; the other states do not gate ride actions.
type CaptainStatus string

const (
	CaptainStatusActive    CaptainStatus = "ACTIVE"
	CaptainStatusInactive  CaptainStatus = "INACTIVE"
	CaptainStatusSuspended CaptainStatus = "SUSPENDED"
	CaptainStatusBusy      CaptainStatus = "BUSY"
)

// Captain is the driver-side actor with at most one Vehicle and one Location.
type Captain struct {
	ID           string        `json:"id" db:"id"`
	Email        string        `json:"email" db:"email"`
	FirstName    string        `json:"first_name" db:"first_name"`
	LastName     string        `json:"last_name" db:"last_name"`
	PasswordHash string        `json:"-" db:"password_hash"`
	SocketID     *string       `json:"socket_id,omitempty" db:"socket_id"`
	Status       CaptainStatus `json:"status" db:"status"`
	Vehicle      *Vehicle      `json:"vehicle,omitempty"`
	Location     *Location     `json:"location,omitempty"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// Vehicle is a captain's registered car. Plate is unique system-wide and
// stored upper-cased.
type Vehicle struct {
	ID          string `json:"id" db:"id"`
	CaptainID   string `json:"-" db:"captain_id"`
	Color       string `json:"color" db:"color"`
	Plate       string `json:"plate" db:"plate"`
	Capacity    int    `json:"capacity" db:"capacity"`
	VehicleType string `json:"vehicle_type" db:"vehicle_type"`
}

// Location is a captain's last reported position.
type Location struct {
	ID        string  `json:"id" db:"id"`
	CaptainID string  `json:"-" db:"captain_id"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

type VehiclePayload struct {
	Color       string `json:"color" validate:"required,min=2,max=50"`
	Plate       string `json:"plate" validate:"required,min=2,max=20"`
	Capacity    int    `json:"capacity" validate:"required,gt=0,max=50"`
	VehicleType string `json:"vehicle_type" validate:"required,oneof=SEDAN SUV VAN"`
}

type LocationPayload struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// RegisterCaptainRequest is the body for POST /captain/register. Vehicle and
// location are optional; when present they are created in the same
// transaction as the captain row.
type RegisterCaptainRequest struct {
	Email     string           `json:"email" validate:"required,email"`
	FirstName string           `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string           `json:"last_name" validate:"required,min=2,max=50"`
	Password  string           `json:"password" validate:"required,min=8"`
	SocketID  *string          `json:"socket_id,omitempty"`
	Vehicle   *VehiclePayload  `json:"vehicle,omitempty" validate:"omitempty"`
	Location  *LocationPayload `json:"location,omitempty" validate:"omitempty"`
}

// UpdateCaptainStatusRequest changes availability. SUSPENDED is not
// self-assignable.
type UpdateCaptainStatusRequest struct {
	Status CaptainStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE BUSY"`
}
