package rides

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"ride-hailing/internal/models"
	"ride-hailing/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// memRideRepo is an in-memory store with the same compare-and-swap semantics
// as the SQL conditional update: the precondition is evaluated under the lock,
// so concurrent transitions on one ride have at most one winner.
type memRideRepo struct {
	mu    sync.Mutex
	rides map[string]*models.Ride
	seq   int
}

func newMemRideRepo() *memRideRepo {
	return &memRideRepo{rides: make(map[string]*models.Ride)}
}

func (m *memRideRepo) Create(ctx context.Context, userID, pickup, destination string, fare float64, otp string) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now()
	ride := &models.Ride{
		ID:          fmt.Sprintf("ride-%d", m.seq),
		UserID:      userID,
		Pickup:      pickup,
		Destination: destination,
		Fare:        fare,
		Status:      models.RideStatusPending,
		OTP:         otp,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.rides[ride.ID] = ride
	return copyRide(ride), nil
}

func (m *memRideRepo) FindByID(ctx context.Context, rideID string) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyRide(ride), nil
}

func (m *memRideRepo) ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Ride, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Ride
	for _, r := range m.rides {
		if r.UserID == userID {
			out = append(out, copyRide(r))
		}
	}
	return out, len(out), nil
}

func (m *memRideRepo) ListByCaptainID(ctx context.Context, captainID string, page, limit int) ([]*models.Ride, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Ride
	for _, r := range m.rides {
		if r.CaptainID != nil && *r.CaptainID == captainID {
			out = append(out, copyRide(r))
		}
	}
	return out, len(out), nil
}

func (m *memRideRepo) ApplyTransition(ctx context.Context, rideID, actorID string, tr Transition) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride, ok := m.rides[rideID]
	if !ok || ride.Status != tr.From {
		return nil, models.ErrRideConflict
	}
	if tr.MatchCaptain && (ride.CaptainID == nil || *ride.CaptainID != actorID) {
		return nil, models.ErrRideConflict
	}
	if tr.MatchUser && ride.UserID != actorID {
		return nil, models.ErrRideConflict
	}

	ride.Status = tr.To
	if tr.AssignCaptain {
		id := actorID
		ride.CaptainID = &id
	}
	if tr.ClearCaptain {
		ride.CaptainID = nil
	}
	ride.UpdatedAt = time.Now()
	return copyRide(ride), nil
}

func (m *memRideRepo) OverrideStatus(ctx context.Context, rideID string, status models.RideStatus) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return nil, models.ErrNotFound
	}
	ride.Status = status
	return copyRide(ride), nil
}

func copyRide(r *models.Ride) *models.Ride {
	c := *r
	if r.CaptainID != nil {
		id := *r.CaptainID
		c.CaptainID = &id
	}
	return &c
}

var otpPattern = regexp.MustCompile(`^[0-9]{4}$`)

func newTestService() (ServiceInterface, *memRideRepo) {
	repo := newMemRideRepo()
	return NewService(repo), repo
}

func requestRide(t *testing.T, svc ServiceInterface, userID string) *models.Ride {
	t.Helper()
	ride, err := svc.Request(context.Background(), userID, models.RequestRideRequest{
		Pickup:      "A",
		Destination: "B",
		Fare:        100,
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	return ride
}

func TestRequestCreatesPendingRideWithOTP(t *testing.T) {
	svc, _ := newTestService()

	ride := requestRide(t, svc, "u1")
	if ride.Status != models.RideStatusPending {
		t.Errorf("status = %s, want PENDING", ride.Status)
	}
	if ride.UserID != "u1" {
		t.Errorf("userID = %s, want u1", ride.UserID)
	}
	if ride.CaptainID != nil {
		t.Errorf("captainID should be nil on a fresh ride")
	}
	if !otpPattern.MatchString(ride.OTP) {
		t.Errorf("otp %q does not match ^[0-9]{4}$", ride.OTP)
	}
	if ride.Fare != 100 {
		t.Errorf("fare = %v, want 100", ride.Fare)
	}
}

func TestRequestValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Request(ctx, "", models.RequestRideRequest{Pickup: "A", Destination: "B", Fare: 1}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing userId: got %v, want ErrValidation", err)
	}
	if _, err := svc.Request(ctx, "u1", models.RequestRideRequest{Destination: "B", Fare: 1}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing pickup: got %v, want ErrValidation", err)
	}
	if _, err := svc.Request(ctx, "u1", models.RequestRideRequest{Pickup: "A", Destination: "B", Fare: -5}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("negative fare: got %v, want ErrValidation", err)
	}
}

func TestAcceptAssignsCaptain(t *testing.T) {
	svc, _ := newTestService()
	ride := requestRide(t, svc, "u1")

	accepted, err := svc.Accept(context.Background(), ride.ID, "c1")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if accepted.Status != models.RideStatusAccepted {
		t.Errorf("status = %s, want ACCEPTED", accepted.Status)
	}
	if accepted.CaptainID == nil || *accepted.CaptainID != "c1" {
		t.Errorf("captainID = %v, want c1", accepted.CaptainID)
	}
}

func TestSecondAcceptConflicts(t *testing.T) {
	svc, _ := newTestService()
	ride := requestRide(t, svc, "u1")

	if _, err := svc.Accept(context.Background(), ride.ID, "c1"); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := svc.Accept(context.Background(), ride.ID, "c2"); !errors.Is(err, models.ErrRideConflict) {
		t.Fatalf("second accept: got %v, want ErrRideConflict", err)
	}
}

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	svc, repo := newTestService()
	ride := requestRide(t, svc, "u1")

	const captainCount = 16
	var wg sync.WaitGroup
	errs := make([]error, captainCount)
	for i := 0; i < captainCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(context.Background(), ride.ID, fmt.Sprintf("c%d", i))
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, models.ErrRideConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
	if conflicts != captainCount-1 {
		t.Fatalf("conflicts = %d, want %d", conflicts, captainCount-1)
	}

	final, err := repo.FindByID(context.Background(), ride.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.Status != models.RideStatusAccepted || final.CaptainID == nil {
		t.Fatalf("final ride = %+v, want ACCEPTED with a captain", final)
	}
}

func TestStartRequiresAcceptingCaptain(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ride := requestRide(t, svc, "u1")

	// start before accept
	if _, err := svc.Start(ctx, ride.ID, "c1"); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("start on PENDING: got %v, want ErrRideConflict", err)
	}

	if _, err := svc.Accept(ctx, ride.ID, "c1"); err != nil {
		t.Fatal(err)
	}

	// a different captain cannot start
	if _, err := svc.Start(ctx, ride.ID, "c2"); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("start by wrong captain: got %v, want ErrRideConflict", err)
	}

	ongoing, err := svc.Start(ctx, ride.ID, "c1")
	if err != nil {
		t.Fatalf("start by accepting captain: %v", err)
	}
	if ongoing.Status != models.RideStatusOngoing {
		t.Errorf("status = %s, want ONGOING", ongoing.Status)
	}
}

func TestCompleteRequiresOngoingAndCaptainMatch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ride := requestRide(t, svc, "u1")

	if _, err := svc.Accept(ctx, ride.ID, "c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Complete(ctx, ride.ID, "c1"); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("complete on ACCEPTED: got %v, want ErrRideConflict", err)
	}
	if _, err := svc.Start(ctx, ride.ID, "c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Complete(ctx, ride.ID, "c2"); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("complete by wrong captain: got %v, want ErrRideConflict", err)
	}

	done, err := svc.Complete(ctx, ride.ID, "c1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.RideStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", done.Status)
	}
	if done.OTP != ride.OTP {
		t.Errorf("otp changed across transitions: %q -> %q", ride.OTP, done.OTP)
	}
}

func TestCancelOnlyWhilePending(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ride := requestRide(t, svc, "u1")
	if _, err := svc.Cancel(ctx, ride.ID, "u2"); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("cancel by non-owner: got %v, want ErrRideConflict", err)
	}
	cancelled, err := svc.Cancel(ctx, ride.ID, "u1")
	if err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if cancelled.Status != models.RideStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	// once accepted, cancellation is closed off
	ride2 := requestRide(t, svc, "u1")
	if _, err := svc.Accept(ctx, ride2.ID, "c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Cancel(ctx, ride2.ID, "u1"); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("cancel after accept: got %v, want ErrRideConflict", err)
	}
}

func TestDeclineRecordsCancellationWithCaptain(t *testing.T) {
	svc, _ := newTestService()
	ride := requestRide(t, svc, "u1")

	declined, err := svc.Decline(context.Background(), ride.ID, "c1")
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if declined.Status != models.RideStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", declined.Status)
	}
	if declined.CaptainID == nil || *declined.CaptainID != "c1" {
		t.Errorf("declining captain not attributed: %v", declined.CaptainID)
	}
}

func TestRetryResetsCancelledRide(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ride := requestRide(t, svc, "u1")

	if _, err := svc.Retry(ctx, ride.ID); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("retry on PENDING: got %v, want ErrRideConflict", err)
	}

	if _, err := svc.Decline(ctx, ride.ID, "c1"); err != nil {
		t.Fatal(err)
	}

	retried, err := svc.Retry(ctx, ride.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried.Status != models.RideStatusPending {
		t.Errorf("status = %s, want PENDING", retried.Status)
	}
	if retried.CaptainID != nil {
		t.Errorf("captainID = %v, want cleared", retried.CaptainID)
	}
	if retried.OTP != ride.OTP {
		t.Errorf("otp changed on retry: %q -> %q", ride.OTP, retried.OTP)
	}
	if retried.Fare != ride.Fare {
		t.Errorf("fare changed on retry: %v -> %v", ride.Fare, retried.Fare)
	}
}

func TestCompletedRideIsTerminal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ride := requestRide(t, svc, "u1")

	for _, step := range []func() (*models.Ride, error){
		func() (*models.Ride, error) { return svc.Accept(ctx, ride.ID, "c1") },
		func() (*models.Ride, error) { return svc.Start(ctx, ride.ID, "c1") },
		func() (*models.Ride, error) { return svc.Complete(ctx, ride.ID, "c1") },
	} {
		if _, err := step(); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := svc.Accept(ctx, ride.ID, "c2"); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("accept on COMPLETED: got %v, want ErrRideConflict", err)
	}
	if _, err := svc.Retry(ctx, ride.ID); !errors.Is(err, models.ErrRideConflict) {
		t.Errorf("retry on COMPLETED: got %v, want ErrRideConflict", err)
	}
}

func TestTransitionValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Accept(ctx, "", "c1"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing rideId: got %v, want ErrValidation", err)
	}
	if _, err := svc.Accept(ctx, "ride-1", ""); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing captainId: got %v, want ErrValidation", err)
	}
	if _, err := svc.Retry(ctx, ""); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing rideId on retry: got %v, want ErrValidation", err)
	}
}

func TestGetStatusAndNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ride := requestRide(t, svc, "u1")

	status, err := svc.GetStatus(ctx, ride.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status != models.RideStatusPending {
		t.Errorf("status = %s, want PENDING", status)
	}

	if _, err := svc.GetRide(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown ride: got %v, want ErrNotFound", err)
	}
}

// failingCreateRepo simulates a store outage on ride creation.
type failingCreateRepo struct {
	*memRideRepo
}

func (f *failingCreateRepo) Create(ctx context.Context, userID, pickup, destination string, fare float64, otp string) (*models.Ride, error) {
	return nil, errors.New("store down")
}

func TestRequestFailureRecordsErrorOutcome(t *testing.T) {
	counter := observability.RideTransitionsTotal.WithLabelValues("request", observability.OutcomeError)
	before := testutil.ToFloat64(counter)

	svc := NewService(&failingCreateRepo{newMemRideRepo()})
	_, err := svc.Request(context.Background(), "u1", models.RequestRideRequest{
		Pickup:      "A",
		Destination: "B",
		Fare:        100,
	})
	if err == nil {
		t.Fatal("want error when the store rejects the insert")
	}

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("request/error samples recorded = %v, want 1", got)
	}
}

func TestOverrideStatusValidatesEnum(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ride := requestRide(t, svc, "u1")

	if _, err := svc.OverrideStatus(ctx, ride.ID, models.RideStatus("TELEPORTED")); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bogus status: got %v, want ErrValidation", err)
	}

	overridden, err := svc.OverrideStatus(ctx, ride.ID, models.RideStatusCompleted)
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if overridden.Status != models.RideStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", overridden.Status)
	}
}
