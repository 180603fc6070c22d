package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned when required input is missing or malformed.
	// It is a client error, not a not-found.
	ErrValidation = errors.New("missing or malformed input")

	// ErrRideConflict is returned when a ride transition's precondition did not
	// hold at write time: the ride does not exist in the expected status, or is
	// held by another captain. The losing side of a concurrent accept sees this.
	ErrRideConflict = errors.New("ride not found in expected state")

	// ErrConflict is returned when a uniqueness rule is violated
	// (duplicate email, vehicle plate or socket id).
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrCaptainSuspended is returned when a suspended captain tries to log in.
	ErrCaptainSuspended = errors.New("captain account is suspended")

	// ErrForbidden is returned when the actor is not permitted to trigger
	// the requested operation.
	ErrForbidden = errors.New("actor not permitted")

	// ErrTransient is returned for store timeouts and connection failures.
	// The caller may safely retry.
	ErrTransient = errors.New("temporary store failure")
)

// ErrorResponse is the JSON error body. Code is a stable machine-readable
// classification; Message is for humans and may change.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
