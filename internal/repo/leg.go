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

// LegRepo defines the persistence operations for Legs and their per-mode
// detail rows (flight_details, car_details).
type LegRepo interface {
	// Create inserts a new leg and returns the persisted record
	// (without detail rows — use SetFlightDetail / SetCarDetail).
	Create(ctx context.Context, leg domain.Leg) (domain.Leg, error)

	// GetByID retrieves a single leg with its detail rows joined in.
	// Returns domain.ErrNotFound if no leg with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Leg, error)

	// ListByTripID returns all legs for a trip, with detail rows, ordered by
	// date ascending, nulls last.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error)

	// Update overwrites the mutable fields of an existing leg.
	// Returns domain.ErrNotFound if no leg with that ID exists.
	Update(ctx context.Context, leg domain.Leg) (domain.Leg, error)

	// Delete removes a leg by ID; detail rows cascade.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetFlightDetail upserts the flight_details row for a leg.
	SetFlightDetail(ctx context.Context, legID uuid.UUID, d domain.FlightDetail) error

	// SetCarDetail upserts the car_details row for a leg.
	SetCarDetail(ctx context.Context, legID uuid.UUID, d domain.CarDetail) error
}

type pgLegRepo struct {
	db db
}

// NewLegRepo constructs a LegRepo backed by the provided db connection.
func NewLegRepo(db db) LegRepo {
	return &pgLegRepo{db: db}
}

// legCols joins flight and car detail columns onto every read so a single
// scanLeg handles all read paths.
const legCols = `
		l.id, l.trip_id, l.type, l.notes, l.date, l.start_node_id, l.end_node_id,
		l.start_osm_name, l.start_osm_id, l.start_osm_country, l.start_osm_state,
		l.end_osm_name, l.end_osm_id, l.end_osm_country, l.end_osm_state, l.miles,
		fd.airline, fd.flight_number, fd.start_airport, fd.end_airport, fd.flight_time,
		cd.driving_time_seconds, cd.polyline`

const legJoins = `
		LEFT JOIN flight_details fd ON fd.leg_id = l.id
		LEFT JOIN car_details cd ON cd.leg_id = l.id`

func legArgs(l domain.Leg) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":           l.TripID,
		"type":              string(l.Type),
		"notes":             l.Notes,
		"date":              l.Date,
		"start_node_id":     l.StartNodeID,
		"end_node_id":       l.EndNodeID,
		"start_osm_name":    l.StartOSMName,
		"start_osm_id":      l.StartOSMID,
		"start_osm_country": l.StartOSMCountry,
		"start_osm_state":   l.StartOSMState,
		"end_osm_name":      l.EndOSMName,
		"end_osm_id":        l.EndOSMID,
		"end_osm_country":   l.EndOSMCountry,
		"end_osm_state":     l.EndOSMState,
		"miles":             l.Miles,
	}
}

func (r *pgLegRepo) Create(ctx context.Context, leg domain.Leg) (domain.Leg, error) {
	const q = `
		INSERT INTO legs (trip_id, type, notes, date, start_node_id, end_node_id,
		                  start_osm_name, start_osm_id, start_osm_country, start_osm_state,
		                  end_osm_name, end_osm_id, end_osm_country, end_osm_state, miles)
		VALUES (@trip_id, @type, @notes, @date, @start_node_id, @end_node_id,
		        @start_osm_name, @start_osm_id, @start_osm_country, @start_osm_state,
		        @end_osm_name, @end_osm_id, @end_osm_country, @end_osm_state, @miles)
		RETURNING id`

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, legArgs(leg)).Scan(&id); err != nil {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.Create: %w", err)
	}

	created, err := r.GetByID(ctx, uuid.UUID(id.Bytes))
	if err != nil {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgLegRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Leg, error) {
	const q = `SELECT ` + legCols + ` FROM legs l` + legJoins + ` WHERE l.id = @id`

	result, err := scanLeg(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgLegRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error) {
	const q = `
		SELECT ` + legCols + `
		FROM legs l` + legJoins + `
		WHERE l.trip_id = @trip_id
		ORDER BY l.date ASC NULLS LAST, l.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.LegRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	legs := []domain.Leg{}
	for rows.Next() {
		l, err := scanLeg(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LegRepo.ListByTripID: scan: %w", err)
		}
		legs = append(legs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LegRepo.ListByTripID: rows: %w", err)
	}
	return legs, nil
}

func (r *pgLegRepo) Update(ctx context.Context, leg domain.Leg) (domain.Leg, error) {
	const q = `
		UPDATE legs
		SET trip_id           = @trip_id,
		    type              = @type,
		    notes             = @notes,
		    date              = @date,
		    start_node_id     = @start_node_id,
		    end_node_id       = @end_node_id,
		    start_osm_name    = @start_osm_name,
		    start_osm_id      = @start_osm_id,
		    start_osm_country = @start_osm_country,
		    start_osm_state   = @start_osm_state,
		    end_osm_name      = @end_osm_name,
		    end_osm_id        = @end_osm_id,
		    end_osm_country   = @end_osm_country,
		    end_osm_state     = @end_osm_state,
		    miles             = @miles
		WHERE id = @id`

	args := legArgs(leg)
	args["id"] = leg.ID

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.Update: %w", domain.ErrNotFound)
	}

	updated, err := r.GetByID(ctx, leg.ID)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.Update: %w", err)
	}
	return updated, nil
}

func (r *pgLegRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM legs WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.LegRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LegRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgLegRepo) SetFlightDetail(ctx context.Context, legID uuid.UUID, d domain.FlightDetail) error {
	const q = `
		INSERT INTO flight_details (leg_id, airline, flight_number, start_airport, end_airport, flight_time)
		VALUES (@leg_id, @airline, @flight_number, @start_airport, @end_airport, @flight_time)
		ON CONFLICT (leg_id) DO UPDATE
		SET airline       = EXCLUDED.airline,
		    flight_number = EXCLUDED.flight_number,
		    start_airport = EXCLUDED.start_airport,
		    end_airport   = EXCLUDED.end_airport,
		    flight_time   = EXCLUDED.flight_time`

	args := pgx.NamedArgs{
		"leg_id":        legID,
		"airline":       d.Airline,
		"flight_number": d.FlightNumber,
		"start_airport": d.StartAirport,
		"end_airport":   d.EndAirport,
		"flight_time":   d.FlightTime,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.LegRepo.SetFlightDetail: %w", err)
	}
	return nil
}

func (r *pgLegRepo) SetCarDetail(ctx context.Context, legID uuid.UUID, d domain.CarDetail) error {
	const q = `
		INSERT INTO car_details (leg_id, driving_time_seconds, polyline)
		VALUES (@leg_id, @driving_time_seconds, @polyline)
		ON CONFLICT (leg_id) DO UPDATE
		SET driving_time_seconds = EXCLUDED.driving_time_seconds,
		    polyline             = EXCLUDED.polyline`

	args := pgx.NamedArgs{
		"leg_id":               legID,
		"driving_time_seconds": d.DrivingTimeSeconds,
		"polyline":             d.Polyline,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.LegRepo.SetCarDetail: %w", err)
	}
	return nil
}

// scanLeg maps a joined legs/flight_details/car_details row into a domain.Leg.
// Detail struct pointers are set only when the corresponding row exists.
func scanLeg(s scanner) (domain.Leg, error) {
	var (
		l                          domain.Leg
		id, tripID                 pgtype.UUID
		startNode, endNode         pgtype.UUID
		date                       pgtype.Date
		miles                      pgtype.Float8
		airline, flightNum         pgtype.Text
		startAirport, endAirport   pgtype.Text
		flightTime, drivingSeconds pgtype.Int4
		polyline                   pgtype.Text
		legType                    string
	)

	err := s.Scan(&id, &tripID, &legType, &l.Notes, &date, &startNode, &endNode,
		&l.StartOSMName, &l.StartOSMID, &l.StartOSMCountry, &l.StartOSMState,
		&l.EndOSMName, &l.EndOSMID, &l.EndOSMCountry, &l.EndOSMState, &miles,
		&airline, &flightNum, &startAirport, &endAirport, &flightTime,
		&drivingSeconds, &polyline)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Leg{}, domain.ErrNotFound
		}
		return domain.Leg{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.TripID = uuidPtr(tripID)
	l.Type = domain.LegType(legType)
	l.Date = datePtr(date)
	l.StartNodeID = uuidPtr(startNode)
	l.EndNodeID = uuidPtr(endNode)
	l.Miles = float8Ptr(miles)

	if airline.Valid || flightNum.Valid || startAirport.Valid || endAirport.Valid || flightTime.Valid {
		l.Flight = &domain.FlightDetail{
			Airline:      airline.String,
			FlightNumber: flightNum.String,
			StartAirport: startAirport.String,
			EndAirport:   endAirport.String,
			FlightTime:   int4Ptr(flightTime),
		}
	}
	if drivingSeconds.Valid || polyline.Valid {
		l.Car = &domain.CarDetail{
			DrivingTimeSeconds: int4Ptr(drivingSeconds),
			Polyline:           polyline.String,
		}
	}
	return l, nil
}
