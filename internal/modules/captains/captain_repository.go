package captains

import (
	"context"
	"errors"
	"fmt"

	"ride-hailing/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for interacting with captain storage.
type RepositoryInterface interface {
	FindByID(ctx context.Context, captainID string) (*models.Captain, error)
	FindByEmail(ctx context.Context, email string) (*models.Captain, error)

	// CreateWithAssets inserts the captain and its optional vehicle and
	// location rows inside ONE transaction: either all rows exist afterwards
	// or none do. Uniqueness of email, plate and socket id is checked inside
	// the same transaction, with the unique constraints as the backstop.
	CreateWithAssets(ctx context.Context, captain *models.Captain, passwordHash string) (*models.Captain, error)

	UpdateStatus(ctx context.Context, captainID string, status models.CaptainStatus) (*models.Captain, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const captainColumns = `c.id, c.email, c.first_name, c.last_name, c.password_hash, c.socket_id, c.status, c.created_at, c.updated_at`

// findOne loads a captain with its vehicle and location joined in.
func (r *Repository) findOne(ctx context.Context, where string, arg interface{}) (*models.Captain, error) {
	query := `
		SELECT ` + captainColumns + `,
			v.id, v.color, v.plate, v.capacity, v.vehicle_type,
			l.id, l.latitude, l.longitude
		FROM captains c
		LEFT JOIN vehicles v ON v.captain_id = c.id
		LEFT JOIN locations l ON l.captain_id = c.id
		WHERE ` + where

	captain := &models.Captain{}
	var (
		vehicleID, vehicleColor, vehiclePlate, vehicleType *string
		vehicleCapacity                                    *int
		locationID                                         *string
		latitude, longitude                                *float64
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&captain.ID, &captain.Email, &captain.FirstName, &captain.LastName,
		&captain.PasswordHash, &captain.SocketID, &captain.Status,
		&captain.CreatedAt, &captain.UpdatedAt,
		&vehicleID, &vehicleColor, &vehiclePlate, &vehicleCapacity, &vehicleType,
		&locationID, &latitude, &longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindCaptain: %w", err)
	}

	if vehicleID != nil {
		captain.Vehicle = &models.Vehicle{
			ID:          *vehicleID,
			CaptainID:   captain.ID,
			Color:       *vehicleColor,
			Plate:       *vehiclePlate,
			Capacity:    *vehicleCapacity,
			VehicleType: *vehicleType,
		}
	}
	if locationID != nil {
		captain.Location = &models.Location{
			ID:        *locationID,
			CaptainID: captain.ID,
			Latitude:  *latitude,
			Longitude: *longitude,
		}
	}
	return captain, nil
}

func (r *Repository) FindByID(ctx context.Context, captainID string) (*models.Captain, error) {
	return r.findOne(ctx, "c.id = $1", captainID)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Captain, error) {
	return r.findOne(ctx, "c.email = $1", email)
}

func (r *Repository) CreateWithAssets(ctx context.Context, captain *models.Captain, passwordHash string) (*models.Captain, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateWithAssets.Begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Existence checks run inside the transaction; the unique constraints
	// catch whatever slips between check and insert.
	var taken bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM captains WHERE email = $1)`, captain.Email).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateWithAssets.CheckEmail: %w", err)
	}
	if taken {
		return nil, models.ErrConflict
	}

	if captain.Vehicle != nil {
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE plate = $1)`, captain.Vehicle.Plate).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("repository.CreateWithAssets.CheckPlate: %w", err)
		}
		if taken {
			return nil, models.ErrConflict
		}
	}

	if captain.SocketID != nil {
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM captains WHERE socket_id = $1)`, *captain.SocketID).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("repository.CreateWithAssets.CheckSocket: %w", err)
		}
		if taken {
			return nil, models.ErrConflict
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO captains (email, first_name, last_name, password_hash, socket_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		captain.Email, captain.FirstName, captain.LastName, passwordHash, captain.SocketID, captain.Status,
	).Scan(&captain.ID, &captain.CreatedAt, &captain.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreateWithAssets.InsertCaptain: %w", err)
	}

	if captain.Vehicle != nil {
		captain.Vehicle.CaptainID = captain.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO vehicles (captain_id, color, plate, capacity, vehicle_type)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			captain.ID, captain.Vehicle.Color, captain.Vehicle.Plate, captain.Vehicle.Capacity, captain.Vehicle.VehicleType,
		).Scan(&captain.Vehicle.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, models.ErrConflict
			}
			return nil, fmt.Errorf("repository.CreateWithAssets.InsertVehicle: %w", err)
		}
	}

	if captain.Location != nil {
		captain.Location.CaptainID = captain.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO locations (captain_id, latitude, longitude)
			VALUES ($1, $2, $3)
			RETURNING id`,
			captain.ID, captain.Location.Latitude, captain.Location.Longitude,
		).Scan(&captain.Location.ID)
		if err != nil {
			return nil, fmt.Errorf("repository.CreateWithAssets.InsertLocation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreateWithAssets.Commit: %w", err)
	}
	return captain, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, captainID string, status models.CaptainStatus) (*models.Captain, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE captains SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, captainID)
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}
	return r.FindByID(ctx, captainID)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
