package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
	"github.com/jpalmer/traveldex/backend/testutil"
)

// newTestTripRepo opens a transaction against the test database and returns a
// TripRepo backed by that transaction. The transaction is automatically rolled
// back when the test finishes, giving free per-test isolation.
func newTestTripRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewTripRepo(tx)
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture() domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		Name:        "Summer Tour",
		Description: "Test description",
		StartDate:   &start,
		EndDate:     &end,
	}
}

func TestTripRepo_Create(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	input := tripFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, input.Description, got.Description)
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(*input.StartDate), "StartDate mismatch")
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(*input.EndDate), "EndDate mismatch")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")
}

func TestTripRepo_Create_NilDates(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	input := tripFixture()
	input.StartDate = nil
	input.EndDate = nil

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
}

func TestTripRepo_GetByID(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	_, err := r.GetByID(ctx, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_List_OrderedByStartDateDesc(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	t1 := tripFixture()
	t1.Name = "First Trip"

	t2 := tripFixture()
	t2.Name = "Second Trip"
	later := t1.StartDate.AddDate(0, 1, 0)
	t2.StartDate = &later

	first, err := r.Create(ctx, t1)
	require.NoError(t, err)
	second, err := r.Create(ctx, t2)
	require.NoError(t, err)

	trips, err := r.List(ctx)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(trips), 2)

	pos := map[uuid.UUID]int{}
	for i, tr := range trips {
		pos[tr.ID] = i
	}
	assert.Less(t, pos[second.ID], pos[first.ID], "later start date should come first")
}

func TestTripRepo_ListByIDs(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	a, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)
	_, err = r.Create(ctx, tripFixture())
	require.NoError(t, err)

	trips, err := r.ListByIDs(ctx, []uuid.UUID{a.ID, uuid.New()})

	require.NoError(t, err)
	// Missing IDs are silently omitted.
	require.Len(t, trips, 1)
	assert.Equal(t, a.ID, trips[0].ID)
}

func TestTripRepo_ListByIDs_Empty(t *testing.T) {
	r := newTestTripRepo(t)

	trips, err := r.ListByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestTripRepo_Update(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	created.Name = "Renamed Tour"
	created.EndDate = nil

	got, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Renamed Tour", got.Name)
	assert.Nil(t, got.EndDate)
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	r := newTestTripRepo(t)

	missing := tripFixture()
	missing.ID = uuid.New()

	_, err := r.Update(context.Background(), missing)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	err = r.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	r := newTestTripRepo(t)

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
