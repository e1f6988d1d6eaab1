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

// NodeRepo defines the persistence operations for Nodes.
type NodeRepo interface {
	// Create inserts a new node and returns the persisted record.
	Create(ctx context.Context, node domain.Node) (domain.Node, error)

	// GetByID retrieves a single node by its UUID primary key.
	// Returns domain.ErrNotFound if no node with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Node, error)

	// ListByTripID returns all nodes for a trip ordered by arrival_date
	// ascending, nulls last. Invisible nodes are included; callers that need
	// to hide them filter on the flag.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Node, error)

	// Update overwrites the mutable fields of an existing node.
	// Returns domain.ErrNotFound if no node with that ID exists.
	Update(ctx context.Context, node domain.Node) (domain.Node, error)

	// Delete removes a node by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgNodeRepo struct {
	db db
}

// NewNodeRepo constructs a NodeRepo backed by the provided db connection.
func NewNodeRepo(db db) NodeRepo {
	return &pgNodeRepo{db: db}
}

const nodeCols = `id, trip_id, name, description, notes, arrival_date, departure_date,
		latitude, longitude, osm_name, osm_id, osm_country, osm_state, invisible`

func nodeArgs(n domain.Node) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":        n.TripID,
		"name":           n.Name,
		"description":    n.Description,
		"notes":          n.Notes,
		"arrival_date":   n.ArrivalDate,
		"departure_date": n.DepartureDate,
		"latitude":       n.Latitude,
		"longitude":      n.Longitude,
		"osm_name":       n.OSMName,
		"osm_id":         n.OSMID,
		"osm_country":    n.OSMCountry,
		"osm_state":      n.OSMState,
		"invisible":      n.Invisible,
	}
}

func (r *pgNodeRepo) Create(ctx context.Context, node domain.Node) (domain.Node, error) {
	const q = `
		INSERT INTO nodes (trip_id, name, description, notes, arrival_date, departure_date,
		                   latitude, longitude, osm_name, osm_id, osm_country, osm_state, invisible)
		VALUES (@trip_id, @name, @description, @notes, @arrival_date, @departure_date,
		        @latitude, @longitude, @osm_name, @osm_id, @osm_country, @osm_state, @invisible)
		RETURNING ` + nodeCols

	result, err := scanNode(r.db.QueryRow(ctx, q, nodeArgs(node)))
	if err != nil {
		return domain.Node{}, fmt.Errorf("repo.NodeRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgNodeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Node, error) {
	const q = `SELECT ` + nodeCols + ` FROM nodes WHERE id = @id`

	result, err := scanNode(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Node{}, fmt.Errorf("repo.NodeRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgNodeRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Node, error) {
	const q = `
		SELECT ` + nodeCols + `
		FROM nodes
		WHERE trip_id = @trip_id
		ORDER BY arrival_date ASC NULLS LAST, name ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.NodeRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	nodes := []domain.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.NodeRepo.ListByTripID: scan: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NodeRepo.ListByTripID: rows: %w", err)
	}
	return nodes, nil
}

func (r *pgNodeRepo) Update(ctx context.Context, node domain.Node) (domain.Node, error) {
	const q = `
		UPDATE nodes
		SET trip_id        = @trip_id,
		    name           = @name,
		    description    = @description,
		    notes          = @notes,
		    arrival_date   = @arrival_date,
		    departure_date = @departure_date,
		    latitude       = @latitude,
		    longitude      = @longitude,
		    osm_name       = @osm_name,
		    osm_id         = @osm_id,
		    osm_country    = @osm_country,
		    osm_state      = @osm_state,
		    invisible      = @invisible
		WHERE id = @id
		RETURNING ` + nodeCols

	args := nodeArgs(node)
	args["id"] = node.ID

	result, err := scanNode(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Node{}, fmt.Errorf("repo.NodeRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgNodeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM nodes WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.NodeRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NodeRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanNode maps a single database row into a domain.Node.
func scanNode(s scanner) (domain.Node, error) {
	var (
		n            domain.Node
		id, tripID   pgtype.UUID
		arrival, dep pgtype.Date
		lat, lon     pgtype.Float8
	)

	err := s.Scan(&id, &tripID, &n.Name, &n.Description, &n.Notes, &arrival, &dep,
		&lat, &lon, &n.OSMName, &n.OSMID, &n.OSMCountry, &n.OSMState, &n.Invisible)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Node{}, domain.ErrNotFound
		}
		return domain.Node{}, err
	}

	n.ID = uuid.UUID(id.Bytes)
	n.TripID = uuidPtr(tripID)
	n.ArrivalDate = datePtr(arrival)
	n.DepartureDate = datePtr(dep)
	n.Latitude = float8Ptr(lat)
	n.Longitude = float8Ptr(lon)
	return n, nil
}
