package domain

import (
	"time"

	"github.com/google/uuid"
)

// Node is a place visited on a trip — a city, town, or other overnight
// location. OSM fields carry the OpenStreetMap identity of the place so
// different trips through the same city resolve to the same real-world entity.
//
// Invisible nodes are routing helpers (e.g. layover airports) that are kept
// out of maps, list matching, and search.
type Node struct {
	ID            uuid.UUID  `json:"id"`
	TripID        *uuid.UUID `json:"trip_id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ArrivalDate   *time.Time `json:"arrival_date,omitempty"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	OSMName       string     `json:"osm_name,omitempty"`
	OSMID         string     `json:"osm_id,omitempty"`
	OSMCountry    string     `json:"osm_country,omitempty"`
	OSMState      string     `json:"osm_state,omitempty"`
	Invisible     bool       `json:"invisible"`
}
