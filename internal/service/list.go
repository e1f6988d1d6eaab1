package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/dateparse"
	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
)

// itemSplit separates raw list input on commas and newlines.
var itemSplit = regexp.MustCompile(`[,\n]`)

// ParseItems splits raw user-entered list text into trimmed items.
// Empty fragments are dropped and duplicates are removed case-insensitively,
// keeping the first-seen casing and order.
func ParseItems(raw string) []string {
	seen := map[string]bool{}
	items := []string{}
	for _, part := range itemSplit.Split(raw, -1) {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, item)
	}
	return items
}

// CanonicalizeItems maps parsed items to their stored canonical form.
// Date lists normalize each item to "YYYY-MM"; items that don't parse as a
// month/year stay as entered and simply never auto-match. All other match
// types store items verbatim.
func CanonicalizeItems(matchType domain.MatchType, items []string) []string {
	if matchType != domain.MatchDate {
		return items
	}
	out := make([]string, len(items))
	for i, item := range items {
		if year, month, ok := dateparse.ExtractMonthYear(item); ok {
			out[i] = dateparse.CanonicalMonth(year, month)
		} else {
			out[i] = item
		}
	}
	return out
}

// ListUpdate carries the optional fields of a list update.
// Nil fields are left unchanged. Items, when set, is the raw comma/newline
// separated text and replaces the full item list.
type ListUpdate struct {
	Name      *string
	MatchType *domain.MatchType
	Items     *string
}

// ListService implements business logic for Lists: canonicalization at write
// time, match computation at read time, and manual override management.
type ListService struct {
	lists      repo.ListRepo
	candidates repo.CandidateRepo
}

// NewListService constructs a ListService backed by the provided repos.
func NewListService(lists repo.ListRepo, candidates repo.CandidateRepo) *ListService {
	return &ListService{lists: lists, candidates: candidates}
}

// Create parses, canonicalizes, and persists a new list.
// Returns domain.ErrValidation for a blank name or unsupported match type.
func (s *ListService) Create(ctx context.Context, name string, matchType domain.MatchType, rawItems string) (domain.List, error) {
	if strings.TrimSpace(name) == "" {
		return domain.List{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !matchType.Valid() {
		return domain.List{}, fmt.Errorf("%w: invalid match_type %q", domain.ErrValidation, matchType)
	}

	list := domain.List{
		Name:      name,
		MatchType: matchType,
		Items:     CanonicalizeItems(matchType, ParseItems(rawItems)),
	}
	result, err := s.lists.Create(ctx, list)
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single list by ID without computing matches.
func (s *ListService) GetByID(ctx context.Context, id uuid.UUID) (domain.List, error) {
	result, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all lists ordered by name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ListService) List(ctx context.Context) ([]domain.List, error) {
	lists, err := s.lists.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListService.List: %w", err)
	}
	if lists == nil {
		return []domain.List{}, nil
	}
	return lists, nil
}

// Update applies the non-nil fields of upd to an existing list. New items are
// canonicalized against the effective match type (the updated one when the
// update changes it). Items already stored are not re-canonicalized when only
// the match type changes.
func (s *ListService) Update(ctx context.Context, id uuid.UUID, upd ListUpdate) (domain.List, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.Update: %w", err)
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return domain.List{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
		}
		list.Name = *upd.Name
	}
	if upd.MatchType != nil {
		if !upd.MatchType.Valid() {
			return domain.List{}, fmt.Errorf("%w: invalid match_type %q", domain.ErrValidation, *upd.MatchType)
		}
		list.MatchType = *upd.MatchType
	}
	if upd.Items != nil {
		list.Items = CanonicalizeItems(list.MatchType, ParseItems(*upd.Items))
	}

	result, err := s.lists.Update(ctx, list)
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a list by ID.
func (s *ListService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.lists.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ListService.Delete: %w", err)
	}
	return nil
}

// AddOverride marks an item as manually matched. Idempotent: adding an item
// that is already overridden is a no-op. The item need not appear in the
// list's items. Returns domain.ErrValidation for a blank item.
func (s *ListService) AddOverride(ctx context.Context, id uuid.UUID, item string) (domain.List, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return domain.List{}, fmt.Errorf("%w: item is required", domain.ErrValidation)
	}

	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.AddOverride: %w", err)
	}
	if list.HasOverride(item) {
		return list, nil
	}

	result, err := s.lists.SetOverrides(ctx, id, append(list.ManualOverrides, item))
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.AddOverride: %w", err)
	}
	return result, nil
}

// RemoveOverride clears a manual override by exact string match. Idempotent:
// removing an item that is not overridden is a no-op.
func (s *ListService) RemoveOverride(ctx context.Context, id uuid.UUID, item string) (domain.List, error) {
	item = strings.TrimSpace(item)

	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.RemoveOverride: %w", err)
	}

	kept := make([]string, 0, len(list.ManualOverrides))
	for _, o := range list.ManualOverrides {
		if o != item {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(list.ManualOverrides) {
		return list, nil
	}

	result, err := s.lists.SetOverrides(ctx, id, kept)
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.RemoveOverride: %w", err)
	}
	return result, nil
}

// GetMatches loads a list and computes which entities satisfy each item.
//
// Matching is two-phase for the pattern-based types: one coarse OR-filtered
// query per entity type retrieves every row any item could match, then each
// row is attributed in-process to every item whose pattern it satisfies, so
// the query count stays flat in the number of items while attribution stays
// exact. Equality-based types batch with set-membership queries; date items
// are queried per month range since ranges cannot be batched by equality.
func (s *ListService) GetMatches(ctx context.Context, id uuid.UUID) (domain.ListMatches, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return domain.ListMatches{}, fmt.Errorf("service.ListService.GetMatches: %w", err)
	}

	entities := make(map[string]domain.CandidateSet, len(list.Items))
	for _, item := range list.Items {
		entities[item] = emptyCandidateSet()
	}

	switch list.MatchType {
	case domain.MatchName, domain.MatchOSMName:
		err = s.matchByPattern(ctx, list, entities)
	case domain.MatchOSMID:
		err = s.matchByOSMID(ctx, list, entities)
	case domain.MatchDate:
		err = s.matchByDate(ctx, list, entities)
	case domain.MatchOSMCountry, domain.MatchOSMState:
		err = s.matchByTag(ctx, list, entities)
	default:
		return domain.ListMatches{}, fmt.Errorf("%w: invalid match_type %q", domain.ErrValidation, list.MatchType)
	}
	if err != nil {
		return domain.ListMatches{}, fmt.Errorf("service.ListService.GetMatches: %w", err)
	}

	summary := make([]domain.MatchResult, len(list.Items))
	for i, item := range list.Items {
		count := entities[item].Count()
		override := list.HasOverride(item)
		summary[i] = domain.MatchResult{
			Item:           item,
			AutoMatchCount: count,
			Matched:        count > 0 || override,
			Override:       override,
		}
	}

	return domain.ListMatches{List: list, Summary: summary, Entities: entities}, nil
}

// matchByPattern treats every item as a case-insensitive regular expression.
// Items that fail to compile contribute no SQL clause and keep an empty
// bucket — user patterns are best-effort, never an error.
func (s *ListService) matchByPattern(ctx context.Context, list domain.List, entities map[string]domain.CandidateSet) error {
	col := repo.TargetName
	if list.MatchType == domain.MatchOSMName {
		col = repo.TargetOSMName
	}

	compiled := make(map[string]*regexp.Regexp, len(list.Items))
	patterns := []string{}
	for _, item := range list.Items {
		re, err := regexp.Compile("(?i)" + item)
		if err != nil {
			continue
		}
		compiled[item] = re
		patterns = append(patterns, item)
	}
	if len(patterns) == 0 {
		return nil
	}

	set, err := s.candidates.ByPattern(ctx, col, patterns)
	if err != nil {
		return err
	}

	// A single row may satisfy several item patterns; attribute it to each.
	for _, item := range list.Items {
		re := compiled[item]
		if re == nil {
			continue
		}
		entities[item] = bucketWhere(set, func(c domain.Candidate) bool {
			return re.MatchString(c.Target)
		})
	}
	return nil
}

func (s *ListService) matchByOSMID(ctx context.Context, list domain.List, entities map[string]domain.CandidateSet) error {
	if len(list.Items) == 0 {
		return nil
	}
	set, err := s.candidates.ByOSMID(ctx, list.Items)
	if err != nil {
		return err
	}
	for _, item := range list.Items {
		item := item
		entities[item] = bucketWhere(set, func(c domain.Candidate) bool {
			return c.Target == item
		})
	}
	return nil
}

// matchByDate queries each syntactically valid "YYYY-MM" item independently
// for entities whose date range overlaps that calendar month. Items that
// don't parse keep their empty bucket.
func (s *ListService) matchByDate(ctx context.Context, list domain.List, entities map[string]domain.CandidateSet) error {
	for _, item := range list.Items {
		year, month, ok := dateparse.ParseCanonicalMonth(item)
		if !ok {
			continue
		}
		first, last := dateparse.MonthRange(year, month)
		set, err := s.candidates.ByMonth(ctx, first, last)
		if err != nil {
			return err
		}
		entities[item] = set
	}
	return nil
}

func (s *ListService) matchByTag(ctx context.Context, list domain.List, entities map[string]domain.CandidateSet) error {
	if len(list.Items) == 0 {
		return nil
	}
	col := repo.TargetOSMCountry
	if list.MatchType == domain.MatchOSMState {
		col = repo.TargetOSMState
	}

	values := make([]string, len(list.Items))
	for i, item := range list.Items {
		values[i] = strings.ToLower(item)
	}

	set, err := s.candidates.ByTag(ctx, col, values)
	if err != nil {
		return err
	}
	for _, item := range list.Items {
		key := strings.ToLower(item)
		entities[item] = bucketWhere(set, func(c domain.Candidate) bool {
			return c.Target == key
		})
	}
	return nil
}

// bucketWhere filters a coarse candidate set down to the rows satisfying
// pred, preserving entity-type grouping.
func bucketWhere(set domain.CandidateSet, pred func(domain.Candidate) bool) domain.CandidateSet {
	out := emptyCandidateSet()
	for _, c := range set.Nodes {
		if pred(c) {
			out.Nodes = append(out.Nodes, c)
		}
	}
	for _, c := range set.Stops {
		if pred(c) {
			out.Stops = append(out.Stops, c)
		}
	}
	for _, c := range set.Adventures {
		if pred(c) {
			out.Adventures = append(out.Adventures, c)
		}
	}
	return out
}

// emptyCandidateSet returns a set with non-nil slices so empty buckets
// serialize as [] rather than null.
func emptyCandidateSet() domain.CandidateSet {
	return domain.CandidateSet{
		Nodes:      []domain.Candidate{},
		Stops:      []domain.Candidate{},
		Adventures: []domain.Candidate{},
	}
}
