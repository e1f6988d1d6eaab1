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

// mockListRepo is a hand-written test double for repo.ListRepo.
type mockListRepo struct {
	create       func(ctx context.Context, list domain.List) (domain.List, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.List, error)
	list         func(ctx context.Context) ([]domain.List, error)
	update       func(ctx context.Context, list domain.List) (domain.List, error)
	setOverrides func(ctx context.Context, id uuid.UUID, overrides []string) (domain.List, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockListRepo) Create(ctx context.Context, list domain.List) (domain.List, error) {
	return m.create(ctx, list)
}
func (m *mockListRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.List, error) {
	return m.getByID(ctx, id)
}
func (m *mockListRepo) List(ctx context.Context) ([]domain.List, error) {
	return m.list(ctx)
}
func (m *mockListRepo) Update(ctx context.Context, list domain.List) (domain.List, error) {
	return m.update(ctx, list)
}
func (m *mockListRepo) SetOverrides(ctx context.Context, id uuid.UUID, overrides []string) (domain.List, error) {
	return m.setOverrides(ctx, id, overrides)
}
func (m *mockListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.ListRepo = (*mockListRepo)(nil)

// mockCandidateRepo is a test double for repo.CandidateRepo. It records the
// arguments of the last call so tests can assert on the queries the matcher
// would have issued.
type mockCandidateRepo struct {
	byPattern func(ctx context.Context, col repo.TargetColumn, patterns []string) (domain.CandidateSet, error)
	byOSMID   func(ctx context.Context, ids []string) (domain.CandidateSet, error)
	byMonth   func(ctx context.Context, first, last time.Time) (domain.CandidateSet, error)
	byTag     func(ctx context.Context, col repo.TargetColumn, values []string) (domain.CandidateSet, error)
}

func (m *mockCandidateRepo) ByPattern(ctx context.Context, col repo.TargetColumn, patterns []string) (domain.CandidateSet, error) {
	return m.byPattern(ctx, col, patterns)
}
func (m *mockCandidateRepo) ByOSMID(ctx context.Context, ids []string) (domain.CandidateSet, error) {
	return m.byOSMID(ctx, ids)
}
func (m *mockCandidateRepo) ByMonth(ctx context.Context, first, last time.Time) (domain.CandidateSet, error) {
	return m.byMonth(ctx, first, last)
}
func (m *mockCandidateRepo) ByTag(ctx context.Context, col repo.TargetColumn, values []string) (domain.CandidateSet, error) {
	return m.byTag(ctx, col, values)
}

var _ repo.CandidateRepo = (*mockCandidateRepo)(nil)

// ---- helpers ---------------------------------------------------------------

// storedList returns a mockListRepo whose GetByID always returns the given
// list and whose SetOverrides echoes the new overrides back.
func storedList(list domain.List) *mockListRepo {
	return &mockListRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.List, error) { return list, nil },
		update:  func(_ context.Context, l domain.List) (domain.List, error) { return l, nil },
		setOverrides: func(_ context.Context, _ uuid.UUID, overrides []string) (domain.List, error) {
			l := list
			l.ManualOverrides = overrides
			return l, nil
		},
	}
}

func nodeCandidate(name, target string) domain.Candidate {
	return domain.Candidate{ID: uuid.New(), Name: name, Target: target}
}

// ---- ParseItems ------------------------------------------------------------

func TestParseItems_SplitTrimDedupe(t *testing.T) {
	got := service.ParseItems("Paris, paris,\nLONDON,,  Rome  ")

	// Dedup is case-insensitive but the first-seen casing survives.
	assert.Equal(t, []string{"Paris", "LONDON", "Rome"}, got)
}

func TestParseItems_Empty(t *testing.T) {
	assert.Empty(t, service.ParseItems(""))
	assert.Empty(t, service.ParseItems(" , ,\n"))
}

// ---- CanonicalizeItems -----------------------------------------------------

func TestCanonicalizeItems_DateList(t *testing.T) {
	items := []string{"January 2024", "Feb 2024", "2024-03", "invalidtoken"}

	got := service.CanonicalizeItems(domain.MatchDate, items)

	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", "invalidtoken"}, got)
}

func TestCanonicalizeItems_NonDateListUntouched(t *testing.T) {
	items := []string{"January 2024", "Paris"}

	got := service.CanonicalizeItems(domain.MatchName, items)

	assert.Equal(t, items, got)
}

// ---- Create ----------------------------------------------------------------

func TestListService_Create_CanonicalizesItems(t *testing.T) {
	var stored domain.List
	lists := &mockListRepo{
		create: func(_ context.Context, l domain.List) (domain.List, error) {
			stored = l
			return l, nil
		},
	}
	svc := service.NewListService(lists, &mockCandidateRepo{})

	_, err := svc.Create(context.Background(), "Months", domain.MatchDate, "January 2024, Feb 2024, Jan 2024")

	require.NoError(t, err)
	// "Jan 2024" duplicates "January 2024" only after canonicalization, so it
	// survives parsing and both canonicalize to the same month.
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-01"}, stored.Items)
}

func TestListService_Create_InvalidMatchType(t *testing.T) {
	svc := service.NewListService(&mockListRepo{}, &mockCandidateRepo{})

	_, err := svc.Create(context.Background(), "Bad", domain.MatchType("bogus"), "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListService_Create_MissingName(t *testing.T) {
	svc := service.NewListService(&mockListRepo{}, &mockCandidateRepo{})

	_, err := svc.Create(context.Background(), "  ", domain.MatchName, "Paris")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Overrides -------------------------------------------------------------

func TestListService_AddOverride(t *testing.T) {
	list := domain.List{ID: uuid.New(), Name: "States", MatchType: domain.MatchOSMState}
	svc := service.NewListService(storedList(list), &mockCandidateRepo{})

	got, err := svc.AddOverride(context.Background(), list.ID, "Alaska")

	require.NoError(t, err)
	assert.Equal(t, []string{"Alaska"}, got.ManualOverrides)
}

func TestListService_AddOverride_Idempotent(t *testing.T) {
	list := domain.List{ID: uuid.New(), ManualOverrides: []string{"Alaska"}}
	calls := 0
	lists := storedList(list)
	lists.setOverrides = func(_ context.Context, _ uuid.UUID, overrides []string) (domain.List, error) {
		calls++
		list.ManualOverrides = overrides
		return list, nil
	}
	svc := service.NewListService(lists, &mockCandidateRepo{})

	got, err := svc.AddOverride(context.Background(), list.ID, "Alaska")

	require.NoError(t, err)
	assert.Equal(t, []string{"Alaska"}, got.ManualOverrides)
	assert.Zero(t, calls, "no write should happen when the override already exists")
}

func TestListService_AddOverride_EmptyItem(t *testing.T) {
	svc := service.NewListService(&mockListRepo{}, &mockCandidateRepo{})

	_, err := svc.AddOverride(context.Background(), uuid.New(), "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListService_RemoveOverride(t *testing.T) {
	list := domain.List{ID: uuid.New(), ManualOverrides: []string{"Alaska", "Hawaii"}}
	svc := service.NewListService(storedList(list), &mockCandidateRepo{})

	got, err := svc.RemoveOverride(context.Background(), list.ID, "Alaska")

	require.NoError(t, err)
	assert.Equal(t, []string{"Hawaii"}, got.ManualOverrides)
}

func TestListService_RemoveOverride_NotPresent(t *testing.T) {
	list := domain.List{ID: uuid.New(), ManualOverrides: []string{"Alaska"}}
	calls := 0
	lists := storedList(list)
	lists.setOverrides = func(_ context.Context, _ uuid.UUID, overrides []string) (domain.List, error) {
		calls++
		return list, nil
	}
	svc := service.NewListService(lists, &mockCandidateRepo{})

	got, err := svc.RemoveOverride(context.Background(), list.ID, "Hawaii")

	require.NoError(t, err)
	assert.Equal(t, []string{"Alaska"}, got.ManualOverrides)
	assert.Zero(t, calls)
}

// ---- GetMatches: name patterns ---------------------------------------------

func TestListService_GetMatches_NamePatterns(t *testing.T) {
	list := domain.List{
		ID:        uuid.New(),
		Name:      "Cities",
		MatchType: domain.MatchName,
		Items:     []string{"Paris", "London"},
	}

	coarse := domain.CandidateSet{
		Nodes: []domain.Candidate{
			nodeCandidate("Paris", "Paris"),
			nodeCandidate("Paris, Texas", "Paris, Texas"),
			nodeCandidate("London", "London"),
		},
	}
	var gotPatterns []string
	candidates := &mockCandidateRepo{
		byPattern: func(_ context.Context, col repo.TargetColumn, patterns []string) (domain.CandidateSet, error) {
			assert.Equal(t, repo.TargetName, col)
			gotPatterns = patterns
			return coarse, nil
		},
	}
	svc := service.NewListService(storedList(list), candidates)

	matches, err := svc.GetMatches(context.Background(), list.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "London"}, gotPatterns)

	// "Paris" matches both Paris rows; "London" matches one.
	assert.Len(t, matches.Entities["Paris"].Nodes, 2)
	assert.Len(t, matches.Entities["London"].Nodes, 1)

	require.Len(t, matches.Summary, 2)
	assert.Equal(t, domain.MatchResult{Item: "Paris", AutoMatchCount: 2, Matched: true}, matches.Summary[0])
	assert.Equal(t, domain.MatchResult{Item: "London", AutoMatchCount: 1, Matched: true}, matches.Summary[1])
}

func TestListService_GetMatches_CaseInsensitivePatterns(t *testing.T) {
	list := domain.List{
		ID:        uuid.New(),
		MatchType: domain.MatchName,
		Items:     []string{"paris"},
	}
	candidates := &mockCandidateRepo{
		byPattern: func(_ context.Context, _ repo.TargetColumn, _ []string) (domain.CandidateSet, error) {
			return domain.CandidateSet{Nodes: []domain.Candidate{nodeCandidate("PARIS", "PARIS")}}, nil
		},
	}
	svc := service.NewListService(storedList(list), candidates)

	matches, err := svc.GetMatches(context.Background(), list.ID)

	require.NoError(t, err)
	assert.Len(t, matches.Entities["paris"].Nodes, 1)
}

func TestListService_GetMatches_InvalidPatternSkipped(t *testing.T) {
	list := domain.List{
		ID:        uuid.New(),
		MatchType: domain.MatchName,
		Items:     []string{"[unclosed", "Paris"},
	}
	var gotPatterns []string
	candidates := &mockCandidateRepo{
		byPattern: func(_ context.Context, _ repo.TargetColumn, patterns []string) (domain.CandidateSet, error) {
			gotPatterns = patterns
			return domain.CandidateSet{Nodes: []domain.Candidate{nodeCandidate("Paris", "Paris")}}, nil
		},
	}
	svc := service.NewListService(storedList(list), candidates)

	matches, err := svc.GetMatches(context.Background(), list.ID)

	require.NoError(t, err)
	// The broken pattern contributes no SQL clause and an empty bucket.
	assert.Equal(t, []string{"Paris"}, gotPatterns)
	assert.Zero(t, matches.Entities["[unclosed"].Count())
	assert.Equal(t, 1, matches.Entities["Paris"].Count())

	assert.False(t, matches.Summary[0].Matched)
	assert.True(t, matches.Summary[1].Matched)
}

func TestListService_GetMatches_OverrideCountsAsMatched(t *testing.T) {
	list := domain.List{
		ID:              uuid.New(),
		MatchType:       domain.MatchName,
		Items:           []string{"Atlantis"},
		ManualOverrides: []string{"Atlantis"},
	}
	candidates := &mockCandidateRepo{
		byPattern: func(_ context.Context, _ repo.TargetColumn, _ []string) (domain.CandidateSet, error) {
			return domain.CandidateSet{}, nil
		},
	}
	svc := service.NewListService(storedList(list), candidates)

	matches, err := svc.GetMatches(context.Background(), list.ID)

	require.NoError(t, err)
	require.Len(t, matches.Summary, 1)
	assert.Equal(t, domain.MatchResult{
		Item:           "Atlantis",
		AutoMatchCount: 0,
		Matched:        true,
		Override:       true,
	}, matches.Summary[0])
}

// ---- GetMatches: osm_id ----------------------------------------------------

func TestListService_GetMatches_OSMID(t *testing.T) {
	list := domain.List{
		ID:        uuid.New(),
		MatchType: domain.MatchOSMID,
		Items:     []string{"R71525", "R62422"},
	}
	candidates := &mockCandidateRepo{
		byOSMID: func(_ context.Context, ids []string) (domain.CandidateSet, error) {
			assert.Equal(t, []string{"R71525", "R62422"}, ids)
			return domain.CandidateSet{
				Nodes: []domain.Candidate{nodeCandidate("Paris", "R71525")},
				Stops: []domain.Candidate{{ID: uuid.New(), Name: "Berlin Stop", Target: "R62422"}},
			}, nil
		},
	}
	svc := service.NewListService(storedList(list), candidates)

	matches, err := svc.GetMatches(context.Background(), list.ID)

	require.NoError(t, err)
	assert.Len(t, matches.Entities["R71525"].Nodes, 1)
	assert.Empty(t, matches.Entities["R71525"].Stops)
	assert.Len(t, matches.Entities["R62422"].Stops, 1)
}

// ---- GetMatches: date ------------------------------------------------------

func TestListService_GetMatches_Date(t *testing.T) {
	list := domain.List{
		ID:        uuid.New(),
		MatchType: domain.MatchDate,
		Items:     []string{"2024-02", "notamonth"},
	}
	var ranges [][2]time.Time
	candidates := &mockCandidateRepo{
		byMonth: func(_ context.Context, first, last time.Time) (domain.CandidateSet, error) {
			ranges = append(ranges, [2]time.Time{first, last})
			return domain.CandidateSet{Nodes: []domain.Candidate{nodeCandidate("Lyon", "")}}, nil
		},
	}
	svc := service.NewListService(storedList(list), candidates)

	matches, err := svc.GetMatches(context.Background(), list.ID)

	require.NoError(t, err)
	// Only the canonical item triggers a query; the leap February range is inclusive.
	require.Len(t, ranges, 1)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ranges[0][0])
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), ranges[0][1])

	assert.Equal(t, 1, matches.Entities["2024-02"].Count())
	assert.Zero(t, matches.Entities["notamonth"].Count())
}

// ---- GetMatches: country/state tags ----------------------------------------

func TestListService_GetMatches_CountryTag(t *testing.T) {
	list := domain.List{
		ID:        uuid.New(),
		MatchType: domain.MatchOSMCountry,
		Items:     []string{"France", "Japan"},
	}
	candidates := &mockCandidateRepo{
		byTag: func(_ context.Context, col repo.TargetColumn, values []string) (domain.CandidateSet, error) {
			assert.Equal(t, repo.TargetOSMCountry, col)
			// Values are lowercased before hitting SQL.
			assert.Equal(t, []string{"france", "japan"}, values)
			return domain.CandidateSet{
				Nodes: []domain.Candidate{nodeCandidate("Paris", "france")},
			}, nil
		},
	}
	svc := service.NewListService(storedList(list), candidates)

	matches, err := svc.GetMatches(context.Background(), list.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, matches.Entities["France"].Count())
	assert.Zero(t, matches.Entities["Japan"].Count())
}
