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

// AdventureRepo defines the persistence operations for Adventures.
type AdventureRepo interface {
	// Create inserts a new adventure and returns the persisted record.
	Create(ctx context.Context, adv domain.Adventure) (domain.Adventure, error)

	// GetByID retrieves a single adventure by its UUID primary key.
	// Returns domain.ErrNotFound if no adventure with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Adventure, error)

	// List returns all adventures ordered by start_date descending, nulls last.
	List(ctx context.Context) ([]domain.Adventure, error)

	// Update overwrites the mutable fields of an existing adventure.
	// Returns domain.ErrNotFound if no adventure with that ID exists.
	Update(ctx context.Context, adv domain.Adventure) (domain.Adventure, error)

	// Delete removes an adventure by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgAdventureRepo struct {
	db db
}

// NewAdventureRepo constructs an AdventureRepo backed by the provided db connection.
func NewAdventureRepo(db db) AdventureRepo {
	return &pgAdventureRepo{db: db}
}

const adventureCols = `id, name, category, notes, latitude, longitude,
		osm_name, osm_id, osm_country, osm_state, start_date, end_date, created_at, updated_at`

func adventureArgs(a domain.Adventure) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":        a.Name,
		"category":    categoryOrDefault(a.Category),
		"notes":       a.Notes,
		"latitude":    a.Latitude,
		"longitude":   a.Longitude,
		"osm_name":    a.OSMName,
		"osm_id":      a.OSMID,
		"osm_country": a.OSMCountry,
		"osm_state":   a.OSMState,
		"start_date":  a.StartDate,
		"end_date":    a.EndDate,
	}
}

func (r *pgAdventureRepo) Create(ctx context.Context, adv domain.Adventure) (domain.Adventure, error) {
	const q = `
		INSERT INTO adventures (name, category, notes, latitude, longitude,
		                        osm_name, osm_id, osm_country, osm_state, start_date, end_date)
		VALUES (@name, @category, @notes, @latitude, @longitude,
		        @osm_name, @osm_id, @osm_country, @osm_state, @start_date, @end_date)
		RETURNING ` + adventureCols

	result, err := scanAdventure(r.db.QueryRow(ctx, q, adventureArgs(adv)))
	if err != nil {
		return domain.Adventure{}, fmt.Errorf("repo.AdventureRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgAdventureRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Adventure, error) {
	const q = `SELECT ` + adventureCols + ` FROM adventures WHERE id = @id`

	result, err := scanAdventure(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Adventure{}, fmt.Errorf("repo.AdventureRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgAdventureRepo) List(ctx context.Context) ([]domain.Adventure, error) {
	const q = `SELECT ` + adventureCols + ` FROM adventures ORDER BY start_date DESC NULLS LAST, name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.AdventureRepo.List: %w", err)
	}
	defer rows.Close()

	advs := []domain.Adventure{}
	for rows.Next() {
		a, err := scanAdventure(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AdventureRepo.List: scan: %w", err)
		}
		advs = append(advs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AdventureRepo.List: rows: %w", err)
	}
	return advs, nil
}

func (r *pgAdventureRepo) Update(ctx context.Context, adv domain.Adventure) (domain.Adventure, error) {
	const q = `
		UPDATE adventures
		SET name        = @name,
		    category    = @category,
		    notes       = @notes,
		    latitude    = @latitude,
		    longitude   = @longitude,
		    osm_name    = @osm_name,
		    osm_id      = @osm_id,
		    osm_country = @osm_country,
		    osm_state   = @osm_state,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + adventureCols

	args := adventureArgs(adv)
	args["id"] = adv.ID

	result, err := scanAdventure(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Adventure{}, fmt.Errorf("repo.AdventureRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgAdventureRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM adventures WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.AdventureRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AdventureRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanAdventure maps a single database row into a domain.Adventure.
func scanAdventure(s scanner) (domain.Adventure, error) {
	var (
		a          domain.Adventure
		id         pgtype.UUID
		lat, lon   pgtype.Float8
		start, end pgtype.Date
	)

	err := s.Scan(&id, &a.Name, &a.Category, &a.Notes, &lat, &lon,
		&a.OSMName, &a.OSMID, &a.OSMCountry, &a.OSMState, &start, &end,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Adventure{}, domain.ErrNotFound
		}
		return domain.Adventure{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.Latitude = float8Ptr(lat)
	a.Longitude = float8Ptr(lon)
	a.StartDate = datePtr(start)
	a.EndDate = datePtr(end)
	return a, nil
}
