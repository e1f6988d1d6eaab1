package domain

import (
	"time"

	"github.com/google/uuid"
)

// LegType enumerates the transport modes a leg can use.
type LegType string

const (
	LegFlight LegType = "flight"
	LegCar    LegType = "car"
	LegTrain  LegType = "train"
	LegBus    LegType = "bus"
	LegBoat   LegType = "boat"
	LegOther  LegType = "other"
)

// Valid reports whether t is one of the supported transport modes.
func (t LegType) Valid() bool {
	switch t {
	case LegFlight, LegCar, LegTrain, LegBus, LegBoat, LegOther:
		return true
	}
	return false
}

// Leg is a transport segment between two nodes of a trip.
// Start/End OSM fields are denormalized copies of the endpoint places so the
// leg stays searchable even if a node is later edited or removed.
type Leg struct {
	ID              uuid.UUID  `json:"id"`
	TripID          *uuid.UUID `json:"trip_id,omitempty"`
	Type            LegType    `json:"type"`
	Notes           string     `json:"notes,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	StartNodeID     *uuid.UUID `json:"start_node_id,omitempty"`
	EndNodeID       *uuid.UUID `json:"end_node_id,omitempty"`
	StartOSMName    string     `json:"start_osm_name,omitempty"`
	StartOSMID      string     `json:"start_osm_id,omitempty"`
	StartOSMCountry string     `json:"start_osm_country,omitempty"`
	StartOSMState   string     `json:"start_osm_state,omitempty"`
	EndOSMName      string     `json:"end_osm_name,omitempty"`
	EndOSMID        string     `json:"end_osm_id,omitempty"`
	EndOSMCountry   string     `json:"end_osm_country,omitempty"`
	EndOSMState     string     `json:"end_osm_state,omitempty"`
	Miles           *float64   `json:"miles,omitempty"`

	// Optional per-mode detail rows, populated on reads that join them.
	Flight *FlightDetail `json:"flight_detail,omitempty"`
	Car    *CarDetail    `json:"car_detail,omitempty"`
}

// FlightDetail carries flight-specific fields for a leg of type "flight".
type FlightDetail struct {
	Airline      string `json:"airline,omitempty"`
	FlightNumber string `json:"flight_number,omitempty"`
	StartAirport string `json:"start_airport,omitempty"`
	EndAirport   string `json:"end_airport,omitempty"`
	FlightTime   *int   `json:"flight_time,omitempty"` // minutes
}

// CarDetail carries driving-specific fields for a leg of type "car".
type CarDetail struct {
	DrivingTimeSeconds *int   `json:"driving_time_seconds,omitempty"`
	Polyline           string `json:"polyline,omitempty"` // encoded route geometry
}
