package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/hydroponics-core/internal/audit"
	"github.com/nerrad567/hydroponics-core/internal/auth"
)

// handleListSystems returns one page of the caller's systems.
//
// Query parameters:
//   - name: exact match
//   - plant_count, plant_count__gte, plant_count__lte
//   - created_at, created_at__gte, created_at__lte
//   - ordering: name, plant_count or created_at, "-" for descending
//   - page: 1-based page number or "last" (10 systems per page)
func (s *Server) handleListSystems(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())

	res, err := s.service.ListSystems(r.Context(), caller, r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPageResponse(r, res))
}

// handleCreateSystem creates a system owned by the caller.
func (s *Server) handleCreateSystem(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	caller := auth.CallerFromContext(r.Context())

	sys, err := s.service.CreateSystem(r.Context(), caller, body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.systemsCreated.Inc()
	s.auditLog(audit.ActionCreate, audit.EntitySystem, formatID(sys.ID), caller.OwnerID, map[string]any{
		"name":        sys.Name,
		"plant_count": sys.PlantCount,
	})
	writeJSON(w, http.StatusCreated, sys)
}

// handleGetSystem returns one system with its ten most recent readings.
func (s *Server) handleGetSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := systemID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	detail, err := s.service.GetSystem(r.Context(), auth.CallerFromContext(r.Context()), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// handleReplaceSystem is PUT: plant_count is required, missing optional
// fields are reset.
func (s *Server) handleReplaceSystem(w http.ResponseWriter, r *http.Request) {
	s.updateSystem(w, r, false)
}

// handlePatchSystem is PATCH: only the fields present are changed.
func (s *Server) handlePatchSystem(w http.ResponseWriter, r *http.Request) {
	s.updateSystem(w, r, true)
}

func (s *Server) updateSystem(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := systemID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	caller := auth.CallerFromContext(r.Context())

	sys, err := s.service.UpdateSystem(r.Context(), caller, id, body, partial)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.auditLog(audit.ActionUpdate, audit.EntitySystem, formatID(sys.ID), caller.OwnerID, map[string]any{
		"name":        sys.Name,
		"plant_count": sys.PlantCount,
		"partial":     partial,
	})
	writeJSON(w, http.StatusOK, sys)
}

// handleDeleteSystem deletes a system and, by cascade, all its readings.
func (s *Server) handleDeleteSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := systemID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	caller := auth.CallerFromContext(r.Context())

	if err := s.service.DeleteSystem(r.Context(), caller, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.systemsDeleted.Inc()
	s.auditLog(audit.ActionDelete, audit.EntitySystem, formatID(id), caller.OwnerID, nil)
	w.WriteHeader(http.StatusNoContent)
}

// systemID parses the {id} path segment. Anything but a positive integer
// cannot name a system, so callers answer 404.
func systemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
