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

// StopRepo defines the persistence operations for Stops.
type StopRepo interface {
	// Create inserts a new stop and returns the persisted record.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop by its UUID primary key.
	// Returns domain.ErrNotFound if no stop with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Stop, error)

	// ListByTripID returns all stops for a trip ordered by start_date
	// ascending, nulls last.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)

	// Update overwrites the mutable fields of an existing stop.
	// Returns domain.ErrNotFound if no stop with that ID exists.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopCols = `id, trip_id, leg_id, node_id, name, category, notes,
		latitude, longitude, osm_name, osm_id, osm_country, osm_state, start_date, end_date`

func stopArgs(s domain.Stop) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":     s.TripID,
		"leg_id":      s.LegID,
		"node_id":     s.NodeID,
		"name":        s.Name,
		"category":    categoryOrDefault(s.Category),
		"notes":       s.Notes,
		"latitude":    s.Latitude,
		"longitude":   s.Longitude,
		"osm_name":    s.OSMName,
		"osm_id":      s.OSMID,
		"osm_country": s.OSMCountry,
		"osm_state":   s.OSMState,
		"start_date":  s.StartDate,
		"end_date":    s.EndDate,
	}
}

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (trip_id, leg_id, node_id, name, category, notes,
		                   latitude, longitude, osm_name, osm_id, osm_country, osm_state,
		                   start_date, end_date)
		VALUES (@trip_id, @leg_id, @node_id, @name, @category, @notes,
		        @latitude, @longitude, @osm_name, @osm_id, @osm_country, @osm_state,
		        @start_date, @end_date)
		RETURNING ` + stopCols

	result, err := scanStop(r.db.QueryRow(ctx, q, stopArgs(stop)))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Stop, error) {
	const q = `SELECT ` + stopCols + ` FROM stops WHERE id = @id`

	result, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopCols + `
		FROM stops
		WHERE trip_id = @trip_id
		ORDER BY start_date ASC NULLS LAST, name ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		st, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByTripID: scan: %w", err)
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: rows: %w", err)
	}
	return stops, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET trip_id     = @trip_id,
		    leg_id      = @leg_id,
		    node_id     = @node_id,
		    name        = @name,
		    category    = @category,
		    notes       = @notes,
		    latitude    = @latitude,
		    longitude   = @longitude,
		    osm_name    = @osm_name,
		    osm_id      = @osm_id,
		    osm_country = @osm_country,
		    osm_state   = @osm_state,
		    start_date  = @start_date,
		    end_date    = @end_date
		WHERE id = @id
		RETURNING ` + stopCols

	args := stopArgs(stop)
	args["id"] = stop.ID

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM stops WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st                 domain.Stop
		id, tripID         pgtype.UUID
		legID, nodeID      pgtype.UUID
		lat, lon           pgtype.Float8
		startDate, endDate pgtype.Date
	)

	err := s.Scan(&id, &tripID, &legID, &nodeID, &st.Name, &st.Category, &st.Notes,
		&lat, &lon, &st.OSMName, &st.OSMID, &st.OSMCountry, &st.OSMState, &startDate, &endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}

	st.ID = uuid.UUID(id.Bytes)
	st.TripID = uuidPtr(tripID)
	st.LegID = uuidPtr(legID)
	st.NodeID = uuidPtr(nodeID)
	st.Latitude = float8Ptr(lat)
	st.Longitude = float8Ptr(lon)
	st.StartDate = datePtr(startDate)
	st.EndDate = datePtr(endDate)
	return st, nil
}
