package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchType names the field category a list's items are compared against.
type MatchType string

const (
	MatchName       MatchType = "name"
	MatchOSMName    MatchType = "osm_name"
	MatchOSMID      MatchType = "osm_id"
	MatchDate       MatchType = "date"
	MatchOSMCountry MatchType = "osm_country"
	MatchOSMState   MatchType = "osm_state"
)

// Valid reports whether t is one of the supported match types.
func (t MatchType) Valid() bool {
	switch t {
	case MatchName, MatchOSMName, MatchOSMID, MatchDate, MatchOSMCountry, MatchOSMState:
		return true
	}
	return false
}

// List is a user-defined goal tracker (e.g. "every state visited").
// Items are stored in canonical form: trimmed, case-insensitively deduplicated,
// and — for date lists — normalized to "YYYY-MM". ManualOverrides holds items
// the user has forced to "matched" regardless of automatic matching; entries
// are free-form and need not appear in Items.
type List struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MatchType       MatchType `json:"match_type"`
	Items           []string  `json:"items"`
	ManualOverrides []string  `json:"manual_overrides"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasOverride reports whether item is manually overridden (exact match).
func (l List) HasOverride(item string) bool {
	for _, o := range l.ManualOverrides {
		if o == item {
			return true
		}
	}
	return false
}

// MatchResult is the per-item summary computed on every read of a list's
// detail view. Never persisted.
type MatchResult struct {
	Item           string `json:"item"`
	AutoMatchCount int    `json:"auto_match_count"`
	Matched        bool   `json:"matched"`
	Override       bool   `json:"override"`
}

// Candidate is a node, stop, or adventure row fetched for list matching.
// Target holds the column value the item was compared against (name, osm_name,
// osm_id, or the lowercased country/state tag, depending on the match type).
type Candidate struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	OSMName   string     `json:"osm_name,omitempty"`
	Target    string     `json:"-"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	TripID    *uuid.UUID `json:"trip_id,omitempty"`
	TripName  string     `json:"trip_name,omitempty"`
}

// CandidateSet buckets the candidates matched by a single list item,
// keyed by entity type.
type CandidateSet struct {
	Nodes      []Candidate `json:"nodes"`
	Stops      []Candidate `json:"stops"`
	Adventures []Candidate `json:"adventures"`
}

// Count returns the total number of candidates across all entity types.
func (s CandidateSet) Count() int {
	return len(s.Nodes) + len(s.Stops) + len(s.Adventures)
}

// ListMatches is the full match computation for one list: the stored list,
// one MatchResult per item, and the per-item candidate buckets.
type ListMatches struct {
	List     List                    `json:"list"`
	Summary  []MatchResult           `json:"summary"`
	Entities map[string]CandidateSet `json:"entities"`
}
