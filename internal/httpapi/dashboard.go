package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"movemate-admin/internal/fleet"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    sessionFromContext(r.Context()).CurrentUser(),
		"summary": s.deps.Catalog.Summary(),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"user": sessionFromContext(r.Context()).CurrentUser(),
	})
}

func filterFromRequest(r *http.Request) fleet.Filter {
	q := r.URL.Query()
	f := fleet.Filter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	// Malformed numbers fall back to the defaults.
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	return f
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Catalog.ListOrders(filterFromRequest(r)))
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.deps.Catalog.Order(chi.URLParam(r, "id"))
	if err != nil {
		s.catalogError(w, err, "order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (s *Server) handleDrivers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Catalog.ListDrivers(filterFromRequest(r)))
}

func (s *Server) handleDriver(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps.Catalog.Driver(chi.URLParam(r, "id"))
	if err != nil {
		s.catalogError(w, err, "driver")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"driver": d})
}

func (s *Server) catalogError(w http.ResponseWriter, err error, kind string) {
	if errors.Is(err, fleet.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", kind+" not found")
		return
	}
	s.logger.Error("catalog lookup failed", "kind", kind, "error", err)
	writeError(w, http.StatusInternalServerError, "internal", "failed to load "+kind)
}
