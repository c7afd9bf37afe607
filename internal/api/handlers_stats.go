package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handlePipelineStats(w http.ResponseWriter, r *http.Request) {
	snap := s.orchestrator.Stats().Snapshot()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"latency":     snap,
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
