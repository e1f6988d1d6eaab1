package handler

import (
	"net/http"
	"strconv"
)

// getSearch handles GET /api/search?q=&limit=.
// A query shorter than two characters yields an empty result list, not an
// error. limit defaults to 50 and is capped at 200 by the service.
func (s *Server) getSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	results, err := s.search.Search(r.Context(), q, limit)
	if err != nil {
		serviceError(w, r, err, "search")
		return
	}
	writeJSON(w, http.StatusOK, results)
}
