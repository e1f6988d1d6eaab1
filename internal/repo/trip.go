package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all trips ordered by start_date descending, nulls last.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListByIDs returns the trips whose IDs are in ids, ordered by id.
	// Missing IDs are silently omitted.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripCols = `id, name, description, start_date, end_date, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, description, start_date, end_date)
		VALUES (@name, @description, @start_date, @end_date)
		RETURNING ` + tripCols

	args := pgx.NamedArgs{
		"name":        trip.Name,
		"description": trip.Description,
		"start_date":  trip.StartDate, // nil becomes NULL
		"end_date":    trip.EndDate,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripCols + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripCols + ` FROM trips ORDER BY start_date DESC NULLS LAST, name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	return collectTrips(rows, "repo.TripRepo.List")
}

func (r *pgTripRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Trip, error) {
	if len(ids) == 0 {
		return []domain.Trip{}, nil
	}

	const q = `SELECT ` + tripCols + ` FROM trips WHERE id = ANY(@ids) ORDER BY id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByIDs: %w", err)
	}
	defer rows.Close()

	return collectTrips(rows, "repo.TripRepo.ListByIDs")
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name        = @name,
		    description = @description,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripCols

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"name":        trip.Name,
		"description": trip.Description,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func collectTrips(rows pgx.Rows, op string) ([]domain.Trip, error) {
	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t          domain.Trip
		id         pgtype.UUID
		start, end pgtype.Date
	)

	err := s.Scan(&id, &t.Name, &t.Description, &start, &end, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = datePtr(start)
	t.EndDate = datePtr(end)
	return t, nil
}
