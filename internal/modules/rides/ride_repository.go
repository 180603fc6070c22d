package rides

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ride-hailing/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rideColumns = `id, user_id, captain_id, pickup, destination, fare, distance, duration, status, otp, created_at, updated_at`

// RepositoryInterface defines the contract for the ride store.
type RepositoryInterface interface {
	Create(ctx context.Context, userID, pickup, destination string, fare float64, otp string) (*models.Ride, error)
	FindByID(ctx context.Context, rideID string) (*models.Ride, error)
	ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Ride, int, error)
	ListByCaptainID(ctx context.Context, captainID string, page, limit int) ([]*models.Ride, int, error)

	// ApplyTransition performs the single atomic conditional update for tr.
	// The filter carries the expected prior status plus the captain/user match
	// where the transition demands one; zero affected rows means the
	// precondition did not hold at write time and surfaces as ErrRideConflict.
	ApplyTransition(ctx context.Context, rideID, actorID string, tr Transition) (*models.Ride, error)

	// OverrideStatus writes an arbitrary (enum-validated) status. Reserved for
	// the admin reconciliation path.
	OverrideStatus(ctx context.Context, rideID string, status models.RideStatus) (*models.Ride, error)
}

// Repository implements RepositoryInterface on Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new ride repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// scanRide is a helper to scan a row into a Ride model.
func scanRide(row pgx.Row) (*models.Ride, error) {
	var ride models.Ride
	err := row.Scan(
		&ride.ID,
		&ride.UserID,
		&ride.CaptainID,
		&ride.Pickup,
		&ride.Destination,
		&ride.Fare,
		&ride.Distance,
		&ride.Duration,
		&ride.Status,
		&ride.OTP,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

// wrapStoreErr classifies low-level pgx failures. Timeouts and dead
// connections become ErrTransient so the boundary can signal "retry".
func wrapStoreErr(op string, err error) error {
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, models.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Create inserts a new PENDING ride.
func (r *Repository) Create(ctx context.Context, userID, pickup, destination string, fare float64, otp string) (*models.Ride, error) {
	query := `
		INSERT INTO rides (user_id, pickup, destination, fare, status, otp)
		VALUES ($1, $2, $3, $4, 'PENDING', $5)
		RETURNING ` + rideColumns

	ride, err := scanRide(r.db.QueryRow(ctx, query, userID, pickup, destination, fare, otp))
	if err != nil {
		return nil, wrapStoreErr("repository.CreateRide", err)
	}
	return ride, nil
}

// FindByID retrieves a single ride.
func (r *Repository) FindByID(ctx context.Context, rideID string) (*models.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.db.QueryRow(ctx, query, rideID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, wrapStoreErr("repository.FindByID", err)
	}
	return ride, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Ride, int, error) {
	return r.list(ctx, "user_id", userID, page, limit)
}

func (r *Repository) ListByCaptainID(ctx context.Context, captainID string, page, limit int) ([]*models.Ride, int, error) {
	return r.list(ctx, "captain_id", captainID, page, limit)
}

func (r *Repository) list(ctx context.Context, column, actorID string, page, limit int) ([]*models.Ride, int, error) {
	offset := (page - 1) * limit
	query := fmt.Sprintf(`
		SELECT %s FROM rides
		WHERE %s = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, rideColumns, column)

	rows, err := r.db.Query(ctx, query, actorID, limit, offset)
	if err != nil {
		return nil, 0, wrapStoreErr("repository.ListRides.Query", err)
	}
	defer rows.Close()

	var rideList []*models.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, 0, wrapStoreErr("repository.ListRides.Scan", err)
		}
		rideList = append(rideList, ride)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM rides WHERE %s = $1", column)
	if err := r.db.QueryRow(ctx, countQuery, actorID).Scan(&total); err != nil {
		return nil, 0, wrapStoreErr("repository.ListRides.Count", err)
	}

	return rideList, total, nil
}

// ApplyTransition builds and executes the conditional update for tr. The
// whole precondition lives in the WHERE clause, so two concurrent writers can
// never both succeed: the second one's filter matches zero rows.
func (r *Repository) ApplyTransition(ctx context.Context, rideID, actorID string, tr Transition) (*models.Ride, error) {
	setClauses := []string{"status = $1", "updated_at = NOW()"}
	whereClauses := []string{"id = $2", "status = $3"}
	args := []interface{}{tr.To, rideID, tr.From}
	argIdx := 4

	if tr.AssignCaptain {
		setClauses = append(setClauses, fmt.Sprintf("captain_id = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	}
	if tr.ClearCaptain {
		setClauses = append(setClauses, "captain_id = NULL")
	}
	if tr.MatchCaptain {
		whereClauses = append(whereClauses, fmt.Sprintf("captain_id = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	}
	if tr.MatchUser {
		whereClauses = append(whereClauses, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE rides SET %s
		WHERE %s
		RETURNING %s`,
		strings.Join(setClauses, ", "), strings.Join(whereClauses, " AND "), rideColumns)

	ride, err := scanRide(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Not found, wrong status, or held by another captain. One error:
			// the caller cannot distinguish losing a race from a stale view.
			return nil, models.ErrRideConflict
		}
		return nil, wrapStoreErr("repository.ApplyTransition", err)
	}
	return ride, nil
}

// OverrideStatus writes status unconditionally (id filter only).
func (r *Repository) OverrideStatus(ctx context.Context, rideID string, status models.RideStatus) (*models.Ride, error) {
	query := `
		UPDATE rides SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + rideColumns

	ride, err := scanRide(r.db.QueryRow(ctx, query, status, rideID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, wrapStoreErr("repository.OverrideStatus", err)
	}
	return ride, nil
}
