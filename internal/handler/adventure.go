package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// adventureRequest is the request body for creating or replacing an adventure.
type adventureRequest struct {
	Name       string    `json:"name"`
	Category   *string   `json:"category"`
	Notes      *string   `json:"notes"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	OSMName    *string   `json:"osm_name"`
	OSMID      *string   `json:"osm_id"`
	OSMCountry *string   `json:"osm_country"`
	OSMState   *string   `json:"osm_state"`
	StartDate  *jsonDate `json:"start_date"`
	EndDate    *jsonDate `json:"end_date"`
}

func (req adventureRequest) toDomain(id uuid.UUID) domain.Adventure {
	return domain.Adventure{
		ID:         id,
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

// createAdventure handles POST /api/adventures.
func (s *Server) createAdventure(w http.ResponseWriter, r *http.Request) {
	var req adventureRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.adventures.Create(r.Context(), req.toDomain(uuid.Nil))
	if err != nil {
		serviceError(w, r, err, "adventure")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listAdventures handles GET /api/adventures.
func (s *Server) listAdventures(w http.ResponseWriter, r *http.Request) {
	adventures, err := s.adventures.List(r.Context())
	if err != nil {
		serviceError(w, r, err, "adventure")
		return
	}
	writeJSON(w, http.StatusOK, adventures)
}

// getAdventure handles GET /api/adventures/{id}.
func (s *Server) getAdventure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "adventure not found")
		return
	}

	adv, err := s.adventures.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, err, "adventure")
		return
	}
	writeJSON(w, http.StatusOK, adv)
}

// updateAdventure handles PUT /api/adventures/{id}.
func (s *Server) updateAdventure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "adventure not found")
		return
	}
	var req adventureRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.adventures.Update(r.Context(), req.toDomain(id))
	if err != nil {
		serviceError(w, r, err, "adventure")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteAdventure handles DELETE /api/adventures/{id}.
func (s *Server) deleteAdventure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "adventure not found")
		return
	}

	if err := s.adventures.Delete(r.Context(), id); err != nil {
		serviceError(w, r, err, "adventure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
