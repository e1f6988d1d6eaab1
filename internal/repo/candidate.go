package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// TargetColumn names a column list items can be matched against. Values are
// interpolated into SQL, so they are restricted to this fixed enum — never
// build one from user input.
type TargetColumn string

const (
	TargetName       TargetColumn = "name"
	TargetOSMName    TargetColumn = "osm_name"
	TargetOSMCountry TargetColumn = "osm_country"
	TargetOSMState   TargetColumn = "osm_state"
)

// CandidateRepo runs the coarse store-side queries for list matching.
// Each method fetches, in one query per entity type, every row that could
// satisfy at least one list item; precise per-item attribution happens
// in-process in the service layer. Invisible nodes are always excluded.
type CandidateRepo interface {
	// ByPattern fetches nodes, stops, and adventures whose col matches any of
	// the given case-insensitive regex patterns (Postgres ~*).
	ByPattern(ctx context.Context, col TargetColumn, patterns []string) (domain.CandidateSet, error)

	// ByOSMID fetches nodes, stops, and adventures whose osm_id is in ids.
	ByOSMID(ctx context.Context, ids []string) (domain.CandidateSet, error)

	// ByMonth fetches nodes, stops, and adventures whose date range overlaps
	// [first, last] inclusive.
	ByMonth(ctx context.Context, first, last time.Time) (domain.CandidateSet, error)

	// ByTag fetches nodes and stops whose lowercased col equals any of the
	// given lowercase values. Adventures are not tagged with country/state
	// rollups and are not queried.
	ByTag(ctx context.Context, col TargetColumn, values []string) (domain.CandidateSet, error)
}

type pgCandidateRepo struct {
	db db
}

// NewCandidateRepo constructs a CandidateRepo backed by the provided db connection.
func NewCandidateRepo(db db) CandidateRepo {
	return &pgCandidateRepo{db: db}
}

// Per-entity SELECT prefixes. Every candidate query returns the same shape:
// id, name, osm_name, target, start date, end date, trip id, trip name.
// Adventures have no trip linkage, so those columns are NULL/empty constants.
const (
	nodeCandidate = `
		SELECT n.id, n.name, n.osm_name, %s AS target,
		       n.arrival_date, n.departure_date, n.trip_id, COALESCE(t.name, '') AS trip_name
		FROM nodes n
		LEFT JOIN trips t ON t.id = n.trip_id
		WHERE n.invisible IS NOT TRUE AND (%s)`

	stopCandidate = `
		SELECT s.id, s.name, s.osm_name, %s AS target,
		       s.start_date, s.end_date, s.trip_id, COALESCE(t.name, '') AS trip_name
		FROM stops s
		LEFT JOIN trips t ON t.id = s.trip_id
		WHERE %s`

	adventureCandidate = `
		SELECT a.id, a.name, a.osm_name, %s AS target,
		       a.start_date, a.end_date, NULL::uuid AS trip_id, ''::text AS trip_name
		FROM adventures a
		WHERE %s`
)

func (r *pgCandidateRepo) ByPattern(ctx context.Context, col TargetColumn, patterns []string) (domain.CandidateSet, error) {
	if len(patterns) == 0 {
		return domain.CandidateSet{}, nil
	}

	args := pgx.NamedArgs{}
	for i, p := range patterns {
		args[fmt.Sprintf("pat%d", i)] = p
	}

	fetch := func(tmpl, alias string) (string, pgx.NamedArgs) {
		clauses := make([]string, len(patterns))
		for i := range patterns {
			clauses[i] = fmt.Sprintf("%s.%s ~* @pat%d", alias, col, i)
		}
		return fmt.Sprintf(tmpl, alias+"."+string(col), strings.Join(clauses, " OR ")), args
	}

	var set domain.CandidateSet
	var err error

	q, a := fetch(nodeCandidate, "n")
	if set.Nodes, err = r.candidates(ctx, q, a); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByPattern: nodes: %w", err)
	}
	q, a = fetch(stopCandidate, "s")
	if set.Stops, err = r.candidates(ctx, q, a); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByPattern: stops: %w", err)
	}
	q, a = fetch(adventureCandidate, "a")
	if set.Adventures, err = r.candidates(ctx, q, a); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByPattern: adventures: %w", err)
	}
	return set, nil
}

func (r *pgCandidateRepo) ByOSMID(ctx context.Context, ids []string) (domain.CandidateSet, error) {
	if len(ids) == 0 {
		return domain.CandidateSet{}, nil
	}

	args := pgx.NamedArgs{"ids": ids}

	var set domain.CandidateSet
	var err error

	q := fmt.Sprintf(nodeCandidate, "n.osm_id", "n.osm_id = ANY(@ids)")
	if set.Nodes, err = r.candidates(ctx, q, args); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByOSMID: nodes: %w", err)
	}
	q = fmt.Sprintf(stopCandidate, "s.osm_id", "s.osm_id = ANY(@ids)")
	if set.Stops, err = r.candidates(ctx, q, args); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByOSMID: stops: %w", err)
	}
	q = fmt.Sprintf(adventureCandidate, "a.osm_id", "a.osm_id = ANY(@ids)")
	if set.Adventures, err = r.candidates(ctx, q, args); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByOSMID: adventures: %w", err)
	}
	return set, nil
}

// monthOverlap builds the inclusive range-overlap predicate for a pair of
// date columns: either endpoint falls inside the month, or the range spans it.
func monthOverlap(start, end string) string {
	return fmt.Sprintf(`(
		(%[1]s BETWEEN @first AND @last) OR (%[2]s BETWEEN @first AND @last)
		OR (%[1]s <= @first AND %[2]s >= @last)
	)`, start, end)
}

func (r *pgCandidateRepo) ByMonth(ctx context.Context, first, last time.Time) (domain.CandidateSet, error) {
	args := pgx.NamedArgs{"first": first, "last": last}

	var set domain.CandidateSet
	var err error

	q := fmt.Sprintf(nodeCandidate, "''::text", monthOverlap("n.arrival_date", "n.departure_date"))
	if set.Nodes, err = r.candidates(ctx, q, args); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByMonth: nodes: %w", err)
	}
	q = fmt.Sprintf(stopCandidate, "''::text", monthOverlap("s.start_date", "s.end_date"))
	if set.Stops, err = r.candidates(ctx, q, args); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByMonth: stops: %w", err)
	}
	q = fmt.Sprintf(adventureCandidate, "''::text", monthOverlap("a.start_date", "a.end_date"))
	if set.Adventures, err = r.candidates(ctx, q, args); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByMonth: adventures: %w", err)
	}
	return set, nil
}

func (r *pgCandidateRepo) ByTag(ctx context.Context, col TargetColumn, values []string) (domain.CandidateSet, error) {
	if len(values) == 0 {
		return domain.CandidateSet{}, nil
	}

	args := pgx.NamedArgs{"values": values}

	var set domain.CandidateSet
	var err error

	q := fmt.Sprintf(nodeCandidate,
		fmt.Sprintf("LOWER(n.%s)", col),
		fmt.Sprintf("n.%[1]s <> '' AND LOWER(n.%[1]s) = ANY(@values)", col))
	if set.Nodes, err = r.candidates(ctx, q, args); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByTag: nodes: %w", err)
	}
	q = fmt.Sprintf(stopCandidate,
		fmt.Sprintf("LOWER(s.%s)", col),
		fmt.Sprintf("s.%[1]s <> '' AND LOWER(s.%[1]s) = ANY(@values)", col))
	if set.Stops, err = r.candidates(ctx, q, args); err != nil {
		return domain.CandidateSet{}, fmt.Errorf("repo.CandidateRepo.ByTag: stops: %w", err)
	}
	return set, nil
}

// candidates runs one prepared candidate query and scans all rows.
func (r *pgCandidateRepo) candidates(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// scanCandidate maps one candidate row into a domain.Candidate.
func scanCandidate(s scanner) (domain.Candidate, error) {
	var (
		c          domain.Candidate
		id, tripID pgtype.UUID
		start, end pgtype.Date
	)

	err := s.Scan(&id, &c.Name, &c.OSMName, &c.Target, &start, &end, &tripID, &c.TripName)
	if err != nil {
		return domain.Candidate{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.StartDate = datePtr(start)
	c.EndDate = datePtr(end)
	c.TripID = uuidPtr(tripID)
	return c, nil
}
