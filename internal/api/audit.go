package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/nerrad567/hydroponics-core/internal/audit"
	"github.com/nerrad567/hydroponics-core/internal/auth"
	"github.com/nerrad567/hydroponics-core/internal/validation"
)

// auditLog hands an entry to the recorder. Without one, mutations simply
// go unaudited.
func (s *Server) auditLog(action, entityType, entityID, ownerID string, details map[string]any) {
	if s.audit != nil {
		s.audit.Record(action, entityType, entityID, ownerID, details)
	}
}

// handleListAuditLogs serves GET /audit: the caller's own trail, newest
// first. It accepts action, entity_type, limit (default 50, capped at 200)
// and offset. The owner always comes from the token, never the query.
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeInternalError(w, "audit logging not configured")
		return
	}

	filter, err := parseAuditFilter(r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	filter.OwnerID = auth.CallerFromContext(r.Context()).OwnerID

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseAuditFilter(q url.Values) (audit.Filter, error) {
	var verr validation.Error
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
	}

	nonNegative := func(key string) int {
		v := q.Get(key)
		if v == "" {
			return 0
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			verr.Add(key, "A non-negative integer is required.")
			return 0
		}
		return n
	}
	filter.Limit = nonNegative("limit")
	filter.Offset = nonNegative("offset")

	return filter, verr.Err()
}
