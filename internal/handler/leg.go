package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// legRequest is the request body for creating or replacing a leg. The nested
// detail objects are optional and only valid for their matching leg type.
type legRequest struct {
	TripID          *uuid.UUID           `json:"trip_id"`
	Type            domain.LegType       `json:"type"`
	Notes           *string              `json:"notes"`
	Date            *jsonDate            `json:"date"`
	StartNodeID     *uuid.UUID           `json:"start_node_id"`
	EndNodeID       *uuid.UUID           `json:"end_node_id"`
	StartOSMName    *string              `json:"start_osm_name"`
	StartOSMID      *string              `json:"start_osm_id"`
	StartOSMCountry *string              `json:"start_osm_country"`
	StartOSMState   *string              `json:"start_osm_state"`
	EndOSMName      *string              `json:"end_osm_name"`
	EndOSMID        *string              `json:"end_osm_id"`
	EndOSMCountry   *string              `json:"end_osm_country"`
	EndOSMState     *string              `json:"end_osm_state"`
	Miles           *float64             `json:"miles"`
	Flight          *domain.FlightDetail `json:"flight_detail"`
	Car             *domain.CarDetail    `json:"car_detail"`
}

func (req legRequest) toDomain(id uuid.UUID) domain.Leg {
	return domain.Leg{
		ID:              id,
		TripID:          req.TripID,
		Type:            req.Type,
		Notes:           derefString(req.Notes),
		Date:            timePtr(req.Date),
		StartNodeID:     req.StartNodeID,
		EndNodeID:       req.EndNodeID,
		StartOSMName:    derefString(req.StartOSMName),
		StartOSMID:      derefString(req.StartOSMID),
		StartOSMCountry: derefString(req.StartOSMCountry),
		StartOSMState:   derefString(req.StartOSMState),
		EndOSMName:      derefString(req.EndOSMName),
		EndOSMID:        derefString(req.EndOSMID),
		EndOSMCountry:   derefString(req.EndOSMCountry),
		EndOSMState:     derefString(req.EndOSMState),
		Miles:           req.Miles,
		Flight:          req.Flight,
		Car:             req.Car,
	}
}

// createLeg handles POST /api/legs.
func (s *Server) createLeg(w http.ResponseWriter, r *http.Request) {
	var req legRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.legs.Create(r.Context(), req.toDomain(uuid.Nil))
	if err != nil {
		serviceError(w, r, err, "leg")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listLegs handles GET /api/legs?trip_id=.
func (s *Server) listLegs(w http.ResponseWriter, r *http.Request) {
	tripID, err := queryTripID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	legs, err := s.legs.ListByTripID(r.Context(), tripID)
	if err != nil {
		serviceError(w, r, err, "leg")
		return
	}
	writeJSON(w, http.StatusOK, legs)
}

// getLeg handles GET /api/legs/{id}.
func (s *Server) getLeg(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "leg not found")
		return
	}

	leg, err := s.legs.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, err, "leg")
		return
	}
	writeJSON(w, http.StatusOK, leg)
}

// updateLeg handles PUT /api/legs/{id}.
func (s *Server) updateLeg(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "leg not found")
		return
	}
	var req legRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.legs.Update(r.Context(), req.toDomain(id))
	if err != nil {
		serviceError(w, r, err, "leg")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteLeg handles DELETE /api/legs/{id}.
func (s *Server) deleteLeg(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "leg not found")
		return
	}

	if err := s.legs.Delete(r.Context(), id); err != nil {
		serviceError(w, r, err, "leg")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
