package api

import "net/http"

func (s *Server) handleBuildStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"builds":      s.orchestrator.Stats().Snapshot(),
	})
}
