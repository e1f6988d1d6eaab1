package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
	"github.com/jpalmer/traveldex/backend/testutil"
)

// candidateFixtures bundles every repo needed to build a full entity
// hierarchy inside one rolled-back transaction.
type candidateFixtures struct {
	trips      repo.TripRepo
	nodes      repo.NodeRepo
	stops      repo.StopRepo
	adventures repo.AdventureRepo
	candidates repo.CandidateRepo
}

func newCandidateFixtures(t *testing.T) candidateFixtures {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return candidateFixtures{
		trips:      repo.NewTripRepo(tx),
		nodes:      repo.NewNodeRepo(tx),
		stops:      repo.NewStopRepo(tx),
		adventures: repo.NewAdventureRepo(tx),
		candidates: repo.NewCandidateRepo(tx),
	}
}

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCandidateRepo_ByPattern(t *testing.T) {
	f := newCandidateFixtures(t)
	ctx := context.Background()

	trip, err := f.trips.Create(ctx, domain.Trip{Name: "France 2025"})
	require.NoError(t, err)

	_, err = f.nodes.Create(ctx, domain.Node{TripID: &trip.ID, Name: "Paris"})
	require.NoError(t, err)
	_, err = f.nodes.Create(ctx, domain.Node{TripID: &trip.ID, Name: "Paris CDG", Invisible: true})
	require.NoError(t, err)
	_, err = f.nodes.Create(ctx, domain.Node{TripID: &trip.ID, Name: "Lyon"})
	require.NoError(t, err)
	_, err = f.stops.Create(ctx, domain.Stop{TripID: &trip.ID, Name: "Paris Cafe"})
	require.NoError(t, err)
	_, err = f.adventures.Create(ctx, domain.Adventure{Name: "Paris Day Hike"})
	require.NoError(t, err)

	set, err := f.candidates.ByPattern(ctx, repo.TargetName, []string{"paris"})

	require.NoError(t, err)
	require.Len(t, set.Nodes, 1, "invisible nodes must never match")
	assert.Equal(t, "Paris", set.Nodes[0].Name)
	assert.Equal(t, "Paris", set.Nodes[0].Target)
	assert.Equal(t, "France 2025", set.Nodes[0].TripName)
	require.NotNil(t, set.Nodes[0].TripID)
	assert.Equal(t, trip.ID, *set.Nodes[0].TripID)

	require.Len(t, set.Stops, 1)
	assert.Equal(t, "Paris Cafe", set.Stops[0].Name)

	require.Len(t, set.Adventures, 1)
	assert.Equal(t, "Paris Day Hike", set.Adventures[0].Name)
	assert.Nil(t, set.Adventures[0].TripID)
}

func TestCandidateRepo_ByPattern_MultiplePatternsUnion(t *testing.T) {
	f := newCandidateFixtures(t)
	ctx := context.Background()

	_, err := f.nodes.Create(ctx, domain.Node{Name: "Oslo"})
	require.NoError(t, err)
	_, err = f.nodes.Create(ctx, domain.Node{Name: "Bergen"})
	require.NoError(t, err)
	_, err = f.nodes.Create(ctx, domain.Node{Name: "Helsinki"})
	require.NoError(t, err)

	set, err := f.candidates.ByPattern(ctx, repo.TargetName, []string{"oslo", "bergen"})

	require.NoError(t, err)
	assert.Len(t, set.Nodes, 2, "one coarse query covers all patterns")
}

func TestCandidateRepo_ByPattern_Empty(t *testing.T) {
	f := newCandidateFixtures(t)

	set, err := f.candidates.ByPattern(context.Background(), repo.TargetName, nil)

	require.NoError(t, err)
	assert.Zero(t, set.Count())
}

func TestCandidateRepo_ByOSMID(t *testing.T) {
	f := newCandidateFixtures(t)
	ctx := context.Background()

	_, err := f.nodes.Create(ctx, domain.Node{Name: "Paris", OSMID: "R71525"})
	require.NoError(t, err)
	_, err = f.nodes.Create(ctx, domain.Node{Name: "Berlin", OSMID: "R62422"})
	require.NoError(t, err)
	_, err = f.stops.Create(ctx, domain.Stop{Name: "Louvre", OSMID: "W12345"})
	require.NoError(t, err)

	set, err := f.candidates.ByOSMID(ctx, []string{"R71525", "W12345"})

	require.NoError(t, err)
	require.Len(t, set.Nodes, 1)
	assert.Equal(t, "R71525", set.Nodes[0].Target)
	require.Len(t, set.Stops, 1)
	assert.Equal(t, "W12345", set.Stops[0].Target)
	assert.Empty(t, set.Adventures)
}

func TestCandidateRepo_ByMonth(t *testing.T) {
	f := newCandidateFixtures(t)
	ctx := context.Background()

	// Inside February 2024.
	_, err := f.nodes.Create(ctx, domain.Node{
		Name:          "Kyoto",
		ArrivalDate:   date(2024, 2, 10),
		DepartureDate: date(2024, 2, 14),
	})
	require.NoError(t, err)
	// Spans the whole month.
	_, err = f.stops.Create(ctx, domain.Stop{
		Name:      "Long Stay",
		StartDate: date(2024, 1, 15),
		EndDate:   date(2024, 3, 15),
	})
	require.NoError(t, err)
	// Outside the month entirely.
	_, err = f.nodes.Create(ctx, domain.Node{
		Name:          "Osaka",
		ArrivalDate:   date(2024, 4, 1),
		DepartureDate: date(2024, 4, 5),
	})
	require.NoError(t, err)

	first := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	set, err := f.candidates.ByMonth(ctx, first, last)

	require.NoError(t, err)
	require.Len(t, set.Nodes, 1)
	assert.Equal(t, "Kyoto", set.Nodes[0].Name)
	require.Len(t, set.Stops, 1)
	assert.Equal(t, "Long Stay", set.Stops[0].Name)
}

func TestCandidateRepo_ByTag(t *testing.T) {
	f := newCandidateFixtures(t)
	ctx := context.Background()

	_, err := f.nodes.Create(ctx, domain.Node{Name: "Paris", OSMCountry: "France"})
	require.NoError(t, err)
	_, err = f.nodes.Create(ctx, domain.Node{Name: "Nowhere"}) // empty country never matches
	require.NoError(t, err)
	_, err = f.stops.Create(ctx, domain.Stop{Name: "Eiffel Tower", OSMCountry: "FRANCE"})
	require.NoError(t, err)
	_, err = f.adventures.Create(ctx, domain.Adventure{Name: "Alps Hike", OSMCountry: "France"})
	require.NoError(t, err)

	set, err := f.candidates.ByTag(ctx, repo.TargetOSMCountry, []string{"france"})

	require.NoError(t, err)
	require.Len(t, set.Nodes, 1)
	// Target carries the lowercased tag for in-process bucketing.
	assert.Equal(t, "france", set.Nodes[0].Target)
	require.Len(t, set.Stops, 1)
	assert.Equal(t, "france", set.Stops[0].Target)
	assert.Empty(t, set.Adventures, "adventures are not part of tag matching")
}
