package handler

import "net/http"

// listCategories handles GET /api/categories.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context())
	if err != nil {
		serviceError(w, r, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
