package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// nodeRequest is the request body for creating or replacing a node.
type nodeRequest struct {
	TripID        *uuid.UUID `json:"trip_id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	Notes         *string    `json:"notes"`
	ArrivalDate   *jsonDate  `json:"arrival_date"`
	DepartureDate *jsonDate  `json:"departure_date"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	OSMName       *string    `json:"osm_name"`
	OSMID         *string    `json:"osm_id"`
	OSMCountry    *string    `json:"osm_country"`
	OSMState      *string    `json:"osm_state"`
	Invisible     bool       `json:"invisible"`
}

func (req nodeRequest) toDomain(id uuid.UUID) domain.Node {
	return domain.Node{
		ID:            id,
		TripID:        req.TripID,
		Name:          req.Name,
		Description:   derefString(req.Description),
		Notes:         derefString(req.Notes),
		ArrivalDate:   timePtr(req.ArrivalDate),
		DepartureDate: timePtr(req.DepartureDate),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		OSMName:       derefString(req.OSMName),
		OSMID:         derefString(req.OSMID),
		OSMCountry:    derefString(req.OSMCountry),
		OSMState:      derefString(req.OSMState),
		Invisible:     req.Invisible,
	}
}

// createNode handles POST /api/nodes.
func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.nodes.Create(r.Context(), req.toDomain(uuid.Nil))
	if err != nil {
		serviceError(w, r, err, "node")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listNodes handles GET /api/nodes?trip_id=.
func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	tripID, err := queryTripID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	nodes, err := s.nodes.ListByTripID(r.Context(), tripID)
	if err != nil {
		serviceError(w, r, err, "node")
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

// getNode handles GET /api/nodes/{id}.
func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "node not found")
		return
	}

	node, err := s.nodes.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, err, "node")
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// updateNode handles PUT /api/nodes/{id}.
func (s *Server) updateNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "node not found")
		return
	}
	var req nodeRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.nodes.Update(r.Context(), req.toDomain(id))
	if err != nil {
		serviceError(w, r, err, "node")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteNode handles DELETE /api/nodes/{id}.
func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "node not found")
		return
	}

	if err := s.nodes.Delete(r.Context(), id); err != nil {
		serviceError(w, r, err, "node")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
