package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/dateparse"
	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
)

const (
	// maxSearchTokens caps how many query tokens feed the AND filter.
	maxSearchTokens = 8

	searchDefaultLimit = 50
	searchMaxLimit     = 200
)

// SearchService turns free-text queries into SQL predicate inputs, runs the
// unified search, and post-processes the results: parent-trip association and
// the final relevance ordering.
type SearchService struct {
	search repo.SearchRepo
	trips  repo.TripRepo
}

// NewSearchService constructs a SearchService backed by the provided repos.
func NewSearchService(search repo.SearchRepo, trips repo.TripRepo) *SearchService {
	return &SearchService{search: search, trips: trips}
}

// Search runs a global search across trips, nodes, legs, and stops.
//
// Queries shorter than two characters return an empty result set rather than
// an error. ILIKE metacharacters are stripped from the raw query so user
// input can never widen a pattern. A non-positive limit falls back to the
// default; anything above the maximum is clamped.
//
// When a month/year can be parsed out of the query ("march 2023", "2023-03",
// "3/2023"), date columns additionally match on the canonical "YYYY-MM-"
// prefix, so date searches hit even though dates are stored numerically.
// A query that is nothing but such a date hint skips multi-token filtering,
// since its tokens ("march", "2023") rarely co-occur in one text blob.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if limit < 1 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}

	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []domain.SearchResult{}, nil
	}
	cleaned := stripMeta(query)
	if len(strings.TrimSpace(cleaned)) < 2 {
		return []domain.SearchResult{}, nil
	}

	tokens := tokenize(cleaned)

	var monthPattern *string
	if year, month, ok := dateparse.ExtractMonthYear(query); ok {
		mp := fmt.Sprintf("%s-%%", dateparse.CanonicalMonth(year, month))
		monthPattern = &mp
	}

	q := repo.SearchQuery{
		Pattern:      "%" + cleaned + "%",
		MonthPattern: monthPattern,
		Limit:        limit,
	}
	if len(tokens) > 1 && !isMonthOnly(tokens, monthPattern != nil) {
		q.Tokens = tokens
		q.Pattern = "%" + tokens[0] + "%"
	}

	results, err := s.search.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service.SearchService.Search: %w", err)
	}

	results, err = s.associateTrips(ctx, results)
	if err != nil {
		return nil, fmt.Errorf("service.SearchService.Search: %w", err)
	}

	sortResults(results)
	return results, nil
}

// associateTrips appends the parent trip of every non-trip result whose trip
// is not already present, tagged with the synthetic "associated" field so the
// UI can group components under their trip. Runs after the SQL limit: the
// association is context, not a competing result.
func (s *SearchService) associateTrips(ctx context.Context, results []domain.SearchResult) ([]domain.SearchResult, error) {
	present := map[uuid.UUID]bool{}
	for _, r := range results {
		if r.Type == domain.ResultTrip {
			present[r.ID] = true
		}
	}

	missing := []uuid.UUID{}
	seen := map[uuid.UUID]bool{}
	for _, r := range results {
		if r.TripID == nil || present[*r.TripID] || seen[*r.TripID] {
			continue
		}
		seen[*r.TripID] = true
		missing = append(missing, *r.TripID)
	}
	if len(missing) == 0 {
		return results, nil
	}

	trips, err := s.trips.ListByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, t := range trips {
		results = append(results, domain.SearchResult{
			Type:          domain.ResultTrip,
			ID:            t.ID,
			Title:         t.Name,
			Subtitle:      t.Description,
			Date:          t.StartDate,
			MatchedFields: []string{domain.AssociatedField},
		})
	}
	return results, nil
}

// sortResults orders by matched-field count descending, date descending with
// nil dates last, then title. Same ordering as the SQL; reapplied because
// association appends rows after the ordered query.
func sortResults(results []domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if len(a.MatchedFields) != len(b.MatchedFields) {
			return len(a.MatchedFields) > len(b.MatchedFields)
		}
		switch {
		case a.Date == nil && b.Date == nil:
		case a.Date == nil:
			return false
		case b.Date == nil:
			return true
		case !a.Date.Equal(*b.Date):
			return a.Date.After(*b.Date)
		}
		return a.Title < b.Title
	})
}

// stripMeta removes ILIKE metacharacters from user input.
func stripMeta(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '%' || r == '_' {
			return -1
		}
		return r
	}, s)
}

// tokenize lowercases and splits the cleaned query on whitespace, keeping
// only the alphanumeric core of each token, capped at maxSearchTokens.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := []string{}
	for _, f := range fields {
		var b strings.Builder
		for _, r := range f {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if b.Len() == 0 {
			continue
		}
		tokens = append(tokens, b.String())
		if len(tokens) == maxSearchTokens {
			break
		}
	}
	return tokens
}

// isMonthOnly reports whether the query is essentially just a date reference:
// a month/year hint was parsed, there are at most three tokens, and at least
// one of them is a bare year or month name.
func isMonthOnly(tokens []string, hasHint bool) bool {
	if !hasHint || len(tokens) > 3 {
		return false
	}
	for _, tk := range tokens {
		if dateparse.IsBareYear(tk) || dateparse.IsMonthName(tk) {
			return true
		}
	}
	return false
}
