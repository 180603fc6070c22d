package rides

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ride-hailing/internal/models"
	"ride-hailing/internal/observability"
	"ride-hailing/pkg/utils"
)

// ServiceInterface defines the ride operations, one per transition plus the
// read projections and the admin override.
type ServiceInterface interface {
	Request(ctx context.Context, userID string, req models.RequestRideRequest) (*models.Ride, error)
	Accept(ctx context.Context, rideID, captainID string) (*models.Ride, error)
	Decline(ctx context.Context, rideID, captainID string) (*models.Ride, error)
	Start(ctx context.Context, rideID, captainID string) (*models.Ride, error)
	Complete(ctx context.Context, rideID, captainID string) (*models.Ride, error)
	Cancel(ctx context.Context, rideID, userID string) (*models.Ride, error)
	Retry(ctx context.Context, rideID string) (*models.Ride, error)

	GetRide(ctx context.Context, rideID string) (*models.Ride, error)
	GetStatus(ctx context.Context, rideID string) (models.RideStatus, error)
	ListForUser(ctx context.Context, userID string, page, limit int) ([]*models.Ride, int, error)
	ListForCaptain(ctx context.Context, captainID string, page, limit int) ([]*models.Ride, int, error)

	OverrideStatus(ctx context.Context, rideID string, status models.RideStatus) (*models.Ride, error)
}

// Service implements the ride orchestration logic.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new ride service.
func NewService(repo RepositoryInterface) ServiceInterface {
	return &Service{repo: repo}
}

// Request creates a PENDING ride with a freshly generated OTP.
func (s *Service) Request(ctx context.Context, userID string, req models.RequestRideRequest) (*models.Ride, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", models.ErrValidation)
	}
	if req.Pickup == "" || req.Destination == "" {
		return nil, fmt.Errorf("%w: pickup and destination are required", models.ErrValidation)
	}
	if req.Fare < 0 {
		return nil, fmt.Errorf("%w: fare must be non-negative", models.ErrValidation)
	}

	otp, err := utils.GenerateRideOTP()
	if err != nil {
		observability.RideTransitionsTotal.WithLabelValues("request", observability.OutcomeError).Inc()
		return nil, fmt.Errorf("service.Request: %w", err)
	}

	ride, err := s.repo.Create(ctx, userID, req.Pickup, req.Destination, req.Fare, otp)
	if err != nil {
		observability.RideTransitionsTotal.WithLabelValues("request", observability.OutcomeError).Inc()
		return nil, fmt.Errorf("service.Request: %w", err)
	}
	observability.RideTransitionsTotal.WithLabelValues("request", observability.OutcomeOK).Inc()
	return ride, nil
}

func (s *Service) Accept(ctx context.Context, rideID, captainID string) (*models.Ride, error) {
	return s.transition(ctx, ActionAccept, rideID, captainID)
}

func (s *Service) Decline(ctx context.Context, rideID, captainID string) (*models.Ride, error) {
	return s.transition(ctx, ActionDecline, rideID, captainID)
}

func (s *Service) Start(ctx context.Context, rideID, captainID string) (*models.Ride, error) {
	return s.transition(ctx, ActionStart, rideID, captainID)
}

func (s *Service) Complete(ctx context.Context, rideID, captainID string) (*models.Ride, error) {
	return s.transition(ctx, ActionComplete, rideID, captainID)
}

func (s *Service) Cancel(ctx context.Context, rideID, userID string) (*models.Ride, error) {
	return s.transition(ctx, ActionCancel, rideID, userID)
}

// Retry resets a CANCELLED ride back to PENDING with the captain cleared.
// The OTP and fare survive untouched.
func (s *Service) Retry(ctx context.Context, rideID string) (*models.Ride, error) {
	if rideID == "" {
		return nil, fmt.Errorf("%w: rideId is required", models.ErrValidation)
	}
	tr, _ := Resolve(ActionRetry)
	return s.apply(ctx, tr, rideID, "")
}

// transition runs one actor-bound row of the state machine.
func (s *Service) transition(ctx context.Context, action Action, rideID, actorID string) (*models.Ride, error) {
	if rideID == "" {
		return nil, fmt.Errorf("%w: rideId is required", models.ErrValidation)
	}
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor id is required", models.ErrValidation)
	}
	tr, ok := Resolve(action)
	if !ok {
		return nil, fmt.Errorf("%w: unknown ride action %q", models.ErrValidation, action)
	}
	return s.apply(ctx, tr, rideID, actorID)
}

func (s *Service) apply(ctx context.Context, tr Transition, rideID, actorID string) (*models.Ride, error) {
	ride, err := s.repo.ApplyTransition(ctx, rideID, actorID, tr)
	if err != nil {
		outcome := observability.OutcomeError
		if errors.Is(err, models.ErrRideConflict) {
			outcome = observability.OutcomeConflict
		}
		observability.RideTransitionsTotal.WithLabelValues(string(tr.Action), outcome).Inc()
		if errors.Is(err, models.ErrRideConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service.%s: %w", tr.Action, err)
	}
	observability.RideTransitionsTotal.WithLabelValues(string(tr.Action), observability.OutcomeOK).Inc()
	return ride, nil
}

// GetRide retrieves a single ride snapshot.
func (s *Service) GetRide(ctx context.Context, rideID string) (*models.Ride, error) {
	if rideID == "" {
		return nil, fmt.Errorf("%w: rideId is required", models.ErrValidation)
	}
	ride, err := s.repo.FindByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.GetRide: %w", err)
	}
	return ride, nil
}

// GetStatus returns only the ride's current status.
func (s *Service) GetStatus(ctx context.Context, rideID string) (models.RideStatus, error) {
	ride, err := s.GetRide(ctx, rideID)
	if err != nil {
		return "", err
	}
	return ride.Status, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, page, limit int) ([]*models.Ride, int, error) {
	if userID == "" {
		return nil, 0, fmt.Errorf("%w: userId is required", models.ErrValidation)
	}
	page, limit = clampPage(page, limit)
	return s.repo.ListByUserID(ctx, userID, page, limit)
}

func (s *Service) ListForCaptain(ctx context.Context, captainID string, page, limit int) ([]*models.Ride, int, error) {
	if captainID == "" {
		return nil, 0, fmt.Errorf("%w: captainId is required", models.ErrValidation)
	}
	page, limit = clampPage(page, limit)
	return s.repo.ListByCaptainID(ctx, captainID, page, limit)
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// OverrideStatus is the reconciliation escape hatch. It bypasses the
// transition table, so it is admin-only at the boundary, enum-validated here,
// and leaves an audit line.
func (s *Service) OverrideStatus(ctx context.Context, rideID string, status models.RideStatus) (*models.Ride, error) {
	if rideID == "" {
		return nil, fmt.Errorf("%w: rideId is required", models.ErrValidation)
	}
	if !models.ValidRideStatus(status) {
		return nil, fmt.Errorf("%w: unknown ride status %q", models.ErrValidation, status)
	}

	ride, err := s.repo.OverrideStatus(ctx, rideID, status)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service.OverrideStatus: %w", err)
	}
	log.Printf("AUDIT: ride %s status overridden to %s", rideID, status)
	return ride, nil
}
