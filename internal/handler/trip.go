package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// tripRequest is the request body for creating or replacing a trip.
type tripRequest struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	StartDate   *jsonDate `json:"start_date"`
	EndDate     *jsonDate `json:"end_date"`
}

func (req tripRequest) toDomain(id uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:          id,
		Name:        req.Name,
		Description: derefString(req.Description),
		StartDate:   timePtr(req.StartDate),
		EndDate:     timePtr(req.EndDate),
	}
}

// createTrip handles POST /api/trips.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), req.toDomain(uuid.Nil))
	if err != nil {
		serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listTrips handles GET /api/trips.
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// getTrip handles GET /api/trips/{id}.
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// updateTrip handles PUT /api/trips/{id}.
func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "trip not found")
		return
	}
	var req tripRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.trips.Update(r.Context(), req.toDomain(id))
	if err != nil {
		serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteTrip handles DELETE /api/trips/{id}.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		serviceError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
