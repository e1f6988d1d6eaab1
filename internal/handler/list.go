package handler

import (
	"net/http"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/service"
)

// createListRequest is the request body for creating a list. Items is the
// raw comma/newline separated text exactly as typed; parsing and
// canonicalization happen in the service layer.
type createListRequest struct {
	Name      string           `json:"name"`
	MatchType domain.MatchType `json:"match_type"`
	Items     string           `json:"items"`
}

// updateListRequest is the request body for updating a list. Absent fields
// are left unchanged.
type updateListRequest struct {
	Name      *string           `json:"name"`
	MatchType *domain.MatchType `json:"match_type"`
	Items     *string           `json:"items"`
}

// overrideRequest is the request body for adding a manual override.
type overrideRequest struct {
	Item string `json:"item"`
}

// createList handles POST /api/lists.
func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.lists.Create(r.Context(), req.Name, req.MatchType, req.Items)
	if err != nil {
		serviceError(w, r, err, "list")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listLists handles GET /api/lists.
func (s *Server) listLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.lists.List(r.Context())
	if err != nil {
		serviceError(w, r, err, "list")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// getListMatches handles GET /api/lists/{id}. The detail view always carries
// the computed match state, so this returns the list together with its
// per-item summary and candidate buckets.
func (s *Server) getListMatches(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "list not found")
		return
	}

	matches, err := s.lists.GetMatches(r.Context(), id)
	if err != nil {
		serviceError(w, r, err, "list")
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// updateList handles PUT /api/lists/{id}.
func (s *Server) updateList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "list not found")
		return
	}
	var req updateListRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.lists.Update(r.Context(), id, service.ListUpdate{
		Name:      req.Name,
		MatchType: req.MatchType,
		Items:     req.Items,
	})
	if err != nil {
		serviceError(w, r, err, "list")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteList handles DELETE /api/lists/{id}.
func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "list not found")
		return
	}

	if err := s.lists.Delete(r.Context(), id); err != nil {
		serviceError(w, r, err, "list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addListOverride handles POST /api/lists/{id}/overrides.
func (s *Server) addListOverride(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "list not found")
		return
	}
	var req overrideRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.lists.AddOverride(r.Context(), id, req.Item)
	if err != nil {
		serviceError(w, r, err, "list")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// removeListOverride handles DELETE /api/lists/{id}/overrides?item=.
func (s *Server) removeListOverride(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		notFound(w, "list not found")
		return
	}
	item := r.URL.Query().Get("item")
	if item == "" {
		badRequest(w, "item query parameter is required")
		return
	}

	updated, err := s.lists.RemoveOverride(r.Context(), id, item)
	if err != nil {
		serviceError(w, r, err, "list")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
