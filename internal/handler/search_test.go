package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/handler"
)

// mockSearchServicer is a test double for handler.SearchServicer.
type mockSearchServicer struct {
	search func(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

func (m *mockSearchServicer) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	return m.search(ctx, query, limit)
}

var _ handler.SearchServicer = (*mockSearchServicer)(nil)

func newSearchRouter(svc handler.SearchServicer) http.Handler {
	return handler.NewServer(nil, nil, nil, nil, nil, nil, nil, svc).Routes()
}

func TestSearch_200(t *testing.T) {
	results := []domain.SearchResult{
		{Type: domain.ResultTrip, ID: uuid.New(), Title: "Iceland", MatchedFields: []string{"name"}},
		{Type: domain.ResultStop, ID: uuid.New(), Title: "Blue Lagoon", MatchedFields: []string{"name"}},
	}
	var gotQuery string
	var gotLimit int
	svc := &mockSearchServicer{
		search: func(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
			gotQuery, gotLimit = query, limit
			return results, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q="+url.QueryEscape("blue lagoon"), nil)
	rec := httptest.NewRecorder()

	newSearchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "blue lagoon", gotQuery)
	assert.Equal(t, 0, gotLimit, "absent limit defers to the service default")

	var resp []domain.SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, domain.ResultTrip, resp[0].Type)
}

func TestSearch_200_EmptyResults(t *testing.T) {
	svc := &mockSearchServicer{
		search: func(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
			return []domain.SearchResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)
	rec := httptest.NewRecorder()

	newSearchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Must be a JSON array, not null.
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestSearch_PassesLimit(t *testing.T) {
	var gotLimit int
	svc := &mockSearchServicer{
		search: func(_ context.Context, _ string, limit int) ([]domain.SearchResult, error) {
			gotLimit = limit
			return []domain.SearchResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=paris&limit=25", nil)
	rec := httptest.NewRecorder()

	newSearchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, gotLimit)
}

func TestSearch_422_InvalidLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=paris&limit=abc", nil)
	rec := httptest.NewRecorder()

	newSearchRouter(&mockSearchServicer{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
