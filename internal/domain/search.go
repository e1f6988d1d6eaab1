package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchResultType tags which entity kind a search result came from.
type SearchResultType string

const (
	ResultTrip SearchResultType = "trip"
	ResultNode SearchResultType = "node"
	ResultLeg  SearchResultType = "leg"
	ResultStop SearchResultType = "stop"
)

// AssociatedField is the synthetic matched_fields entry for a parent trip
// appended because one of its components matched, not the trip itself.
const AssociatedField = "associated"

// SearchResult is one row of a global search: a unified view over trips,
// nodes, legs, and stops. MatchedFields lists which columns matched the
// query; its length is the primary relevance signal for ordering.
type SearchResult struct {
	Type          SearchResultType `json:"type"`
	ID            uuid.UUID        `json:"id"`
	TripID        *uuid.UUID       `json:"trip_id,omitempty"` // nil for trips
	Title         string           `json:"title"`
	Subtitle      string           `json:"subtitle,omitempty"`
	Date          *time.Time       `json:"date,omitempty"`
	MatchedFields []string         `json:"matched_fields"`
}
