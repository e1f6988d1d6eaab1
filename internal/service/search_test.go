package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
	"github.com/jpalmer/traveldex/backend/internal/service"
)

// mockSearchRepo is a test double for repo.SearchRepo that records the last
// query it received.
type mockSearchRepo struct {
	lastQuery *repo.SearchQuery
	results   []domain.SearchResult
	err       error
}

func (m *mockSearchRepo) Search(_ context.Context, q repo.SearchQuery) ([]domain.SearchResult, error) {
	m.lastQuery = &q
	if m.results == nil {
		return []domain.SearchResult{}, m.err
	}
	return m.results, m.err
}

var _ repo.SearchRepo = (*mockSearchRepo)(nil)

// ---- helpers ---------------------------------------------------------------

// noTrips is a trip repo for searches whose results need no association.
func noTrips() *mockTripRepo {
	return &mockTripRepo{
		listByIDs: func(_ context.Context, ids []uuid.UUID) ([]domain.Trip, error) {
			return []domain.Trip{}, nil
		},
	}
}

func searchDate(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

// ---- query preparation -----------------------------------------------------

func TestSearchService_ShortQuery_Empty(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	for _, q := range []string{"", "x", "  a  ", "%_"} {
		results, err := svc.Search(context.Background(), q, 0)

		require.NoError(t, err, "query %q", q)
		assert.Empty(t, results, "query %q", q)
	}
	assert.Nil(t, search.lastQuery, "no SQL should run for short queries")
}

func TestSearchService_SingleToken(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	_, err := svc.Search(context.Background(), "tokyo", 0)

	require.NoError(t, err)
	require.NotNil(t, search.lastQuery)
	assert.Equal(t, "%tokyo%", search.lastQuery.Pattern)
	assert.Empty(t, search.lastQuery.Tokens, "single-token searches skip the AND filter")
	assert.Nil(t, search.lastQuery.MonthPattern)
	assert.Equal(t, 50, search.lastQuery.Limit)
}

func TestSearchService_StripsMetacharacters(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	_, err := svc.Search(context.Background(), "to%kyo_", 0)

	require.NoError(t, err)
	require.NotNil(t, search.lastQuery)
	assert.Equal(t, "%tokyo%", search.lastQuery.Pattern)
}

func TestSearchService_MultiToken(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	_, err := svc.Search(context.Background(), "Grand Canyon trip!", 0)

	require.NoError(t, err)
	require.NotNil(t, search.lastQuery)
	assert.Equal(t, "%grand%", search.lastQuery.Pattern, "primary pattern narrows to the first token")
	assert.Equal(t, []string{"grand", "canyon", "trip"}, search.lastQuery.Tokens)
}

func TestSearchService_TokenCap(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	_, err := svc.Search(context.Background(), "a1 b2 c3 d4 e5 f6 g7 h8 i9 j10", 0)

	require.NoError(t, err)
	require.NotNil(t, search.lastQuery)
	assert.Len(t, search.lastQuery.Tokens, 8)
}

func TestSearchService_MonthHint(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	_, err := svc.Search(context.Background(), "march 2023", 0)

	require.NoError(t, err)
	require.NotNil(t, search.lastQuery)
	require.NotNil(t, search.lastQuery.MonthPattern)
	assert.Equal(t, "2023-03-%", *search.lastQuery.MonthPattern)
	// "march 2023" is purely a date reference, so its tokens are not ANDed:
	// "march" and "2023" never co-occur in one text blob.
	assert.Empty(t, search.lastQuery.Tokens)
	assert.Equal(t, "%march 2023%", search.lastQuery.Pattern)
}

func TestSearchService_MetacharacterInsideDate_NoMonthHint(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	// The hint is parsed from the raw query, so "aug %2025" is not a date
	// reference even though stripping the "%" would make it one.
	_, err := svc.Search(context.Background(), "aug %2025", 0)

	require.NoError(t, err)
	require.NotNil(t, search.lastQuery)
	assert.Nil(t, search.lastQuery.MonthPattern)
	assert.Equal(t, []string{"aug", "2025"}, search.lastQuery.Tokens)
	assert.Equal(t, "%aug%", search.lastQuery.Pattern)
}

func TestSearchService_MonthHintWithOtherWords_KeepsTokens(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	// A hint parses, but with four tokens this is a real multi-word search.
	_, err := svc.Search(context.Background(), "hiking trip march 2023", 0)

	require.NoError(t, err)
	require.NotNil(t, search.lastQuery)
	require.NotNil(t, search.lastQuery.MonthPattern)
	assert.Equal(t, []string{"hiking", "trip", "march", "2023"}, search.lastQuery.Tokens)
}

func TestSearchService_LimitClamping(t *testing.T) {
	search := &mockSearchRepo{}
	svc := service.NewSearchService(search, noTrips())

	_, err := svc.Search(context.Background(), "tokyo", -5)
	require.NoError(t, err)
	assert.Equal(t, 50, search.lastQuery.Limit)

	_, err = svc.Search(context.Background(), "tokyo", 500)
	require.NoError(t, err)
	assert.Equal(t, 200, search.lastQuery.Limit)

	_, err = svc.Search(context.Background(), "tokyo", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, search.lastQuery.Limit)
}

// ---- association -----------------------------------------------------------

func TestSearchService_AssociatesParentTrips(t *testing.T) {
	tripID := uuid.New()
	search := &mockSearchRepo{
		results: []domain.SearchResult{
			{
				Type:          domain.ResultNode,
				ID:            uuid.New(),
				TripID:        &tripID,
				Title:         "Kyoto",
				MatchedFields: []string{"name"},
			},
		},
	}
	trips := &mockTripRepo{
		listByIDs: func(_ context.Context, ids []uuid.UUID) ([]domain.Trip, error) {
			assert.Equal(t, []uuid.UUID{tripID}, ids)
			return []domain.Trip{{ID: tripID, Name: "Japan 2024", StartDate: searchDate(2024, 4, 1)}}, nil
		},
	}
	svc := service.NewSearchService(search, trips)

	results, err := svc.Search(context.Background(), "kyoto", 0)

	require.NoError(t, err)
	require.Len(t, results, 2)

	var trip *domain.SearchResult
	for i := range results {
		if results[i].Type == domain.ResultTrip {
			trip = &results[i]
		}
	}
	require.NotNil(t, trip, "parent trip should be appended")
	assert.Equal(t, tripID, trip.ID)
	assert.Equal(t, "Japan 2024", trip.Title)
	assert.Equal(t, []string{domain.AssociatedField}, trip.MatchedFields)
}

func TestSearchService_NoDuplicateTripAssociation(t *testing.T) {
	tripID := uuid.New()
	search := &mockSearchRepo{
		results: []domain.SearchResult{
			{Type: domain.ResultTrip, ID: tripID, Title: "Japan 2024", MatchedFields: []string{"name"}},
			{Type: domain.ResultNode, ID: uuid.New(), TripID: &tripID, Title: "Kyoto", MatchedFields: []string{"name"}},
		},
	}
	trips := &mockTripRepo{
		listByIDs: func(_ context.Context, ids []uuid.UUID) ([]domain.Trip, error) {
			t.Fatalf("ListByIDs should not be called when the trip already matched: %v", ids)
			return nil, nil
		},
	}
	svc := service.NewSearchService(search, trips)

	results, err := svc.Search(context.Background(), "japan", 0)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

// ---- ordering --------------------------------------------------------------

func TestSearchService_SortByMatchCountThenDate(t *testing.T) {
	search := &mockSearchRepo{
		results: []domain.SearchResult{
			{Type: domain.ResultStop, ID: uuid.New(), Title: "One Field", Date: searchDate(2025, 1, 1), MatchedFields: []string{"name"}},
			{Type: domain.ResultNode, ID: uuid.New(), Title: "Three Fields", Date: searchDate(2023, 1, 1), MatchedFields: []string{"name", "notes", "osm_name"}},
			{Type: domain.ResultNode, ID: uuid.New(), Title: "No Date", MatchedFields: []string{"name"}},
			{Type: domain.ResultNode, ID: uuid.New(), Title: "Newer One Field", Date: searchDate(2025, 6, 1), MatchedFields: []string{"name"}},
		},
	}
	svc := service.NewSearchService(search, noTrips())

	results, err := svc.Search(context.Background(), "anything", 0)

	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "Three Fields", results[0].Title, "more matched fields wins regardless of date")
	assert.Equal(t, "Newer One Field", results[1].Title)
	assert.Equal(t, "One Field", results[2].Title)
	assert.Equal(t, "No Date", results[3].Title, "nil dates sort last")
}

func TestSearchService_SortTieBreakByTitle(t *testing.T) {
	date := searchDate(2025, 1, 1)
	search := &mockSearchRepo{
		results: []domain.SearchResult{
			{Type: domain.ResultNode, ID: uuid.New(), Title: "Zurich", Date: date, MatchedFields: []string{"name"}},
			{Type: domain.ResultNode, ID: uuid.New(), Title: "Amsterdam", Date: date, MatchedFields: []string{"name"}},
		},
	}
	svc := service.NewSearchService(search, noTrips())

	results, err := svc.Search(context.Background(), "anything", 0)

	require.NoError(t, err)
	assert.Equal(t, "Amsterdam", results[0].Title)
	assert.Equal(t, "Zurich", results[1].Title)
}
