package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// SearchQuery carries the prepared predicate inputs for the global search
// query. The service layer owns tokenization and heuristics; this struct is
// purely what the SQL needs.
type SearchQuery struct {
	// Pattern is the primary "%substring%" ILIKE pattern — the whole cleaned
	// query for single-token searches, the first token otherwise.
	Pattern string

	// MonthPattern is "%YYYY-MM%" when a month/year hint was parsed from the
	// query, nil otherwise. It widens the date-field matches.
	MonthPattern *string

	// Tokens, when non-empty, are ANDed against each entity's concatenated
	// text blob as "%token%" ILIKE patterns. The service leaves this empty for
	// single-token and month-only queries.
	Tokens []string

	// Limit bounds the SQL result set. Required, positive.
	Limit int
}

// SearchRepo runs the unified cross-entity search query.
type SearchRepo interface {
	// Search returns matching trips, visible nodes, legs, and stops ordered
	// by matched-field count descending, date descending (nulls last), then
	// title, limited to q.Limit rows.
	Search(ctx context.Context, q SearchQuery) ([]domain.SearchResult, error)
}

type pgSearchRepo struct {
	db db
}

// NewSearchRepo constructs a SearchRepo backed by the provided db connection.
func NewSearchRepo(db db) SearchRepo {
	return &pgSearchRepo{db: db}
}

// Concatenated text blobs per entity kind, used for multi-token AND matching.
// Text columns are NOT NULL so only dates and joined columns need COALESCE.
const (
	tripBlob = `(t.name || ' ' || t.description || ' ' ||
		COALESCE(t.start_date::text,'') || ' ' || COALESCE(t.end_date::text,''))`

	nodeBlob = `(n.name || ' ' || n.description || ' ' || n.notes || ' ' ||
		n.osm_name || ' ' || n.osm_country || ' ' || n.osm_state || ' ' ||
		COALESCE(n.arrival_date::text,'') || ' ' || COALESCE(n.departure_date::text,''))`

	legBlob = `(l.notes || ' ' || l.type || ' ' ||
		l.start_osm_name || ' ' || l.end_osm_name || ' ' ||
		l.start_osm_country || ' ' || l.end_osm_country || ' ' ||
		l.start_osm_state || ' ' || l.end_osm_state || ' ' ||
		COALESCE(l.date::text,'') || ' ' ||
		COALESCE(fd.airline,'') || ' ' || COALESCE(fd.flight_number,'') || ' ' ||
		COALESCE(fd.start_airport,'') || ' ' || COALESCE(fd.end_airport,''))`

	stopBlob = `(s.name || ' ' || s.notes || ' ' || s.category || ' ' ||
		s.osm_name || ' ' || s.osm_country || ' ' || s.osm_state || ' ' ||
		COALESCE(s.start_date::text,'') || ' ' || COALESCE(s.end_date::text,''))`
)

// tokenClause builds the multi-token AND filter for one entity blob:
// the blob must contain the primary pattern and every token.
// Returns "" when no tokens apply.
func tokenClause(blob string, ntokens int) string {
	if ntokens == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("AND (" + blob + " ILIKE @p")
	for i := 0; i < ntokens; i++ {
		fmt.Fprintf(&b, " AND %s ILIKE @tk%d", blob, i)
	}
	b.WriteString(")")
	return b.String()
}

// dateMatch builds the matched-field test for a date column: the primary
// pattern, or the month pattern when one was supplied.
func dateMatch(col string) string {
	return fmt.Sprintf("(%[1]s::text ILIKE @p OR (@mp::text IS NOT NULL AND %[1]s::text ILIKE @mp))", col)
}

func (r *pgSearchRepo) Search(ctx context.Context, q SearchQuery) ([]domain.SearchResult, error) {
	args := pgx.NamedArgs{
		"p":     q.Pattern,
		"mp":    q.MonthPattern,
		"limit": q.Limit,
	}
	for i, tk := range q.Tokens {
		args[fmt.Sprintf("tk%d", i)] = "%" + tk + "%"
	}
	n := len(q.Tokens)

	sql := fmt.Sprintf(searchSQL,
		dateMatch("t.start_date"), dateMatch("t.end_date"), tokenClause(tripBlob, n),
		dateMatch("n.arrival_date"), dateMatch("n.departure_date"), tokenClause(nodeBlob, n),
		dateMatch("l.date"), tokenClause(legBlob, n),
		dateMatch("s.start_date"), dateMatch("s.end_date"), tokenClause(stopBlob, n),
	)

	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("repo.SearchRepo.Search: %w", err)
	}
	defer rows.Close()

	results := []domain.SearchResult{}
	for rows.Next() {
		res, err := scanSearchResult(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SearchRepo.Search: scan: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SearchRepo.Search: rows: %w", err)
	}
	return results, nil
}

// searchSQL unions the four entity kinds into a common result shape.
// matched_fields records which columns hit, both as a relevance signal
// (its length drives ordering) and for UI highlighting.
//
// The format verbs are, in order: trip start/end date matches + trip token
// clause, node arrival/departure matches + node token clause, leg date match
// + leg token clause, stop start/end matches + stop token clause.
const searchSQL = `
	WITH results AS (
		SELECT
			'trip'::text AS type,
			t.id,
			NULL::uuid AS trip_id,
			t.name AS title,
			t.description AS subtitle,
			t.start_date AS date,
			ARRAY_REMOVE(ARRAY[
				CASE WHEN t.name ILIKE @p THEN 'name' END,
				CASE WHEN t.description ILIKE @p THEN 'description' END,
				CASE WHEN %s THEN 'start_date' END,
				CASE WHEN %s THEN 'end_date' END
			], NULL) AS matched_fields
		FROM trips t
		WHERE (
			t.name ILIKE @p OR t.description ILIKE @p OR
			t.start_date::text ILIKE @p OR t.end_date::text ILIKE @p OR
			(@mp::text IS NOT NULL AND (t.start_date::text ILIKE @mp OR t.end_date::text ILIKE @mp))
		)
		%s

		UNION ALL
		SELECT
			'node'::text,
			n.id,
			n.trip_id,
			n.name,
			COALESCE(NULLIF(n.description,''), NULLIF(n.notes,''), NULLIF(n.osm_name,''), ''),
			COALESCE(n.arrival_date, n.departure_date),
			ARRAY_REMOVE(ARRAY[
				CASE WHEN n.name ILIKE @p THEN 'name' END,
				CASE WHEN n.description ILIKE @p THEN 'description' END,
				CASE WHEN n.notes ILIKE @p THEN 'notes' END,
				CASE WHEN n.osm_name ILIKE @p THEN 'osm_name' END,
				CASE WHEN n.osm_country ILIKE @p THEN 'osm_country' END,
				CASE WHEN n.osm_state ILIKE @p THEN 'osm_state' END,
				CASE WHEN %s THEN 'arrival_date' END,
				CASE WHEN %s THEN 'departure_date' END
			], NULL)
		FROM nodes n
		WHERE n.invisible IS NOT TRUE AND (
			n.name ILIKE @p OR n.description ILIKE @p OR n.notes ILIKE @p OR
			n.osm_name ILIKE @p OR n.osm_country ILIKE @p OR n.osm_state ILIKE @p OR
			n.arrival_date::text ILIKE @p OR n.departure_date::text ILIKE @p OR
			(@mp::text IS NOT NULL AND (n.arrival_date::text ILIKE @mp OR n.departure_date::text ILIKE @mp))
		)
		%s

		UNION ALL
		SELECT
			'leg'::text,
			l.id,
			l.trip_id,
			(COALESCE(ns.name, NULLIF(l.start_osm_name,''), 'Unknown') || ' → ' ||
			 COALESCE(ne.name, NULLIF(l.end_osm_name,''), 'Unknown')),
			CASE
				WHEN l.type = 'flight' AND fd.airline IS NOT NULL THEN
					(fd.airline || COALESCE(' ' || NULLIF(fd.flight_number,''), '') ||
					 COALESCE(' (' || l.miles::int || ' mi)', ''))
				ELSE (l.type || COALESCE(' (' || l.miles::int || ' mi)', ''))
			END,
			l.date,
			ARRAY_REMOVE(ARRAY[
				CASE WHEN l.notes ILIKE @p THEN 'notes' END,
				CASE WHEN l.type ILIKE @p THEN 'type' END,
				CASE WHEN l.start_osm_name ILIKE @p THEN 'start_osm_name' END,
				CASE WHEN l.end_osm_name ILIKE @p THEN 'end_osm_name' END,
				CASE WHEN l.start_osm_country ILIKE @p THEN 'start_osm_country' END,
				CASE WHEN l.end_osm_country ILIKE @p THEN 'end_osm_country' END,
				CASE WHEN l.start_osm_state ILIKE @p THEN 'start_osm_state' END,
				CASE WHEN l.end_osm_state ILIKE @p THEN 'end_osm_state' END,
				CASE WHEN %s THEN 'date' END,
				CASE WHEN fd.airline ILIKE @p THEN 'airline' END,
				CASE WHEN fd.flight_number ILIKE @p THEN 'flight_number' END,
				CASE WHEN fd.start_airport ILIKE @p THEN 'start_airport' END,
				CASE WHEN fd.end_airport ILIKE @p THEN 'end_airport' END
			], NULL)
		FROM legs l
		LEFT JOIN nodes ns ON ns.id = l.start_node_id
		LEFT JOIN nodes ne ON ne.id = l.end_node_id
		LEFT JOIN flight_details fd ON fd.leg_id = l.id
		WHERE (
			l.notes ILIKE @p OR l.type ILIKE @p OR
			l.start_osm_name ILIKE @p OR l.end_osm_name ILIKE @p OR
			l.start_osm_country ILIKE @p OR l.end_osm_country ILIKE @p OR
			l.start_osm_state ILIKE @p OR l.end_osm_state ILIKE @p OR
			l.date::text ILIKE @p OR
			(@mp::text IS NOT NULL AND l.date::text ILIKE @mp) OR
			fd.airline ILIKE @p OR fd.flight_number ILIKE @p OR
			fd.start_airport ILIKE @p OR fd.end_airport ILIKE @p
		)
		%s

		UNION ALL
		SELECT
			'stop'::text,
			s.id,
			s.trip_id,
			s.name,
			s.category,
			s.start_date,
			ARRAY_REMOVE(ARRAY[
				CASE WHEN s.name ILIKE @p THEN 'name' END,
				CASE WHEN s.notes ILIKE @p THEN 'notes' END,
				CASE WHEN s.category ILIKE @p THEN 'category' END,
				CASE WHEN s.osm_name ILIKE @p THEN 'osm_name' END,
				CASE WHEN s.osm_country ILIKE @p THEN 'osm_country' END,
				CASE WHEN s.osm_state ILIKE @p THEN 'osm_state' END,
				CASE WHEN %s THEN 'start_date' END,
				CASE WHEN %s THEN 'end_date' END
			], NULL)
		FROM stops s
		WHERE (
			s.name ILIKE @p OR s.notes ILIKE @p OR s.category ILIKE @p OR
			s.osm_name ILIKE @p OR s.osm_country ILIKE @p OR s.osm_state ILIKE @p OR
			s.start_date::text ILIKE @p OR s.end_date::text ILIKE @p OR
			(@mp::text IS NOT NULL AND (s.start_date::text ILIKE @mp OR s.end_date::text ILIKE @mp))
		)
		%s
	)
	SELECT type, id, trip_id, title, subtitle, date, matched_fields
	FROM results
	ORDER BY COALESCE(array_length(matched_fields, 1), 0) DESC, date DESC NULLS LAST, title ASC
	LIMIT @limit`

// scanSearchResult maps one unified search row into a domain.SearchResult.
func scanSearchResult(s scanner) (domain.SearchResult, error) {
	var (
		res        domain.SearchResult
		typ        string
		id, tripID pgtype.UUID
		subtitle   pgtype.Text
		date       pgtype.Date
	)

	err := s.Scan(&typ, &id, &tripID, &res.Title, &subtitle, &date, &res.MatchedFields)
	if err != nil {
		return domain.SearchResult{}, err
	}

	res.Type = domain.SearchResultType(typ)
	res.ID = uuid.UUID(id.Bytes)
	res.TripID = uuidPtr(tripID)
	res.Subtitle = subtitle.String
	res.Date = datePtr(date)
	if res.MatchedFields == nil {
		res.MatchedFields = []string{}
	}
	return res, nil
}
