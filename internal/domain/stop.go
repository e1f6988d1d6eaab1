package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stop is a point of interest visited during a trip — a restaurant, park,
// museum, or similar. A stop is attached to either a leg or a node.
type Stop struct {
	ID         uuid.UUID  `json:"id"`
	TripID     *uuid.UUID `json:"trip_id,omitempty"`
	LegID      *uuid.UUID `json:"leg_id,omitempty"`
	NodeID     *uuid.UUID `json:"node_id,omitempty"`
	Name       string     `json:"name"`
	Category   string     `json:"category,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	OSMName    string     `json:"osm_name,omitempty"`
	OSMID      string     `json:"osm_id,omitempty"`
	OSMCountry string     `json:"osm_country,omitempty"`
	OSMState   string     `json:"osm_state,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// StopCategory is a named category for stops and adventures, with an emoji
// used by map markers.
type StopCategory struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}
