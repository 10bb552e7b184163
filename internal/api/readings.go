package api

import (
	"net/http"

	"github.com/nerrad567/hydroponics-core/internal/audit"
	"github.com/nerrad567/hydroponics-core/internal/auth"
)

// handleListReadings returns one page of the readings of all the caller's
// systems.
//
// Query parameters:
//   - hydroponic_system: restrict to one system; a system the caller does
//     not own matches nothing
//   - ph, water_temp, tds, created_at, each with __gte and __lte
//   - ordering: ph, water_temp, tds or created_at, "-" for descending
//   - page: 1-based page number or "last" (20 readings per page)
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.ListReadings(r.Context(), auth.CallerFromContext(r.Context()), r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPageResponse(r, res))
}

// handleCreateReading stores a reading under one of the caller's systems.
// Naming another owner's system is a 403; naming no system at all is a 400.
func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	caller := auth.CallerFromContext(r.Context())

	rd, err := s.service.CreateReading(r.Context(), caller, body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.readingsCreated.Inc()
	s.auditLog(audit.ActionCreate, audit.EntityReading, formatID(rd.ID), caller.OwnerID, map[string]any{
		"hydroponic_system": rd.SystemID,
	})
	writeJSON(w, http.StatusCreated, rd)
}
