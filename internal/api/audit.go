package api

import (
	"net/http"
	"strconv"

	"github.com/spf13/cast"

	"github.com/nerrad567/gray-logic-ems/internal/audit"
)

// handleListAuditLogs returns paginated command history with optional filters.
//
// Query parameters:
//   - device: filter by device name (boiler, thermostat, ...)
//   - source: filter by transport (api, mqtt, console)
//   - failed: "true" returns only commands that did not succeed
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeInternalError(w, "audit logging not configured")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Device:     q.Get("device"),
		Source:     q.Get("source"),
		FailedOnly: cast.ToBool(q.Get("failed")),
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err)
		writeInternalError(w, "failed to list audit logs")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
