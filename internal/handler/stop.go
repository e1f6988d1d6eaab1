package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// stopRequest is the request body for creating or replacing a stop.
type stopRequest struct {
	TripID     *uuid.UUID `json:"trip_id"`
	LegID      *uuid.UUID `json:"leg_id"`
	NodeID     *uuid.UUID `json:"node_id"`
	Name       string     `json:"name"`
	Category   *string    `json:"category"`
	Notes      *string    `json:"notes"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	OSMName    *string    `json:"osm_name"`
	OSMID      *string    `json:"osm_id"`
	OSMCountry *string    `json:"osm_country"`
	OSMState   *string    `json:"osm_state"`
	StartDate  *jsonDate  `json:"start_date"`
	EndDate    *jsonDate  `json:"end_date"`
}

func (req stopRequest) toDomain(id uuid.UUID) domain.Stop {
	return domain.Stop{
		ID:         id,
		TripID:     req.TripID,
		LegID:      req.LegID,
		NodeID:     req.NodeID,
		Name:       req.Name,
		Category:   derefString(req.Category),
		Notes:      derefString(req.Notes),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		OSMName:    derefString(req.OSMName),
		OSMID:      derefString(req.OSMID),
		OSMCountry: derefString(req.OSMCountry),
		OSMState:   derefString(req.OSMState),
		StartDate:  timePtr(req.StartDate),
		EndDate:    timePtr(req.EndDate),
	}
}

// createStop handles POST /api/stops.
func (s *Server) createStop(w http.ResponseWriter, r *http.Request) {
	var req stopRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.stops.Create(r.Context(), req.toDomain(uuid.Nil))
	if err != nil {
		serviceError(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listStops handles GET /api/stops?trip_id=.
func (s *Server) listStops(w http.ResponseWriter, r *http.Request) {
	tripID, err := queryTripID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	stops, err := s.stops.ListByTripID(r.Context(), tripID)
	if err != nil {
		serviceError(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusOK, stops)
}

// getStop handles GET /api/stops/{id}.
func (s *Server) getStop(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "stop not found")
		return
	}

	stop, err := s.stops.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusOK, stop)
}

// updateStop handles PUT /api/stops/{id}.
func (s *Server) updateStop(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "stop not found")
		return
	}
	var req stopRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.stops.Update(r.Context(), req.toDomain(id))
	if err != nil {
		serviceError(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteStop handles DELETE /api/stops/{id}.
func (s *Server) deleteStop(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "stop not found")
		return
	}

	if err := s.stops.Delete(r.Context(), id); err != nil {
		serviceError(w, r, err, "stop")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
