package httpapi

import (
	"net/http"
)

// handleAnalyticsSummary aggregates the dashboard counters: tasks and
// machines grouped by status. Simple reductions over the same store, done
// in the services.
func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	taskCounts, err := s.tasks.Summary(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "task summary failed", "error", err)
		writeError(w, err)
		return
	}

	machineCounts, err := s.machines.Summary(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "machine summary failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks":    taskCounts,
		"machines": machineCounts,
	})
}
