package domain

import (
	"time"

	"github.com/google/uuid"
)

// Adventure is a standalone outing not tied to any trip — a day hike, a
// museum visit from home, and so on. It shares the OSM and date fields of
// nodes and stops so list matching treats all three uniformly.
type Adventure struct {
	ID         uuid.UUID  `json:"id"`
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
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
