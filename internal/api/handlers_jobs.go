package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rehierl/html-outliner/internal/doctree"
	"github.com/rehierl/html-outliner/internal/pipeline"
)

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// handleJobOutline returns a completed job's outline. Jobs still running
// answer 409 with their current status.
func (s *Server) handleJobOutline(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
	case pipeline.StatusFailed:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "job failed",
			"job_id": snap.ID,
			"errors": snap.Progress.Errors,
		})
		return
	default:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "job not finished",
			"job_id": snap.ID,
			"status": snap.Status,
		})
		return
	}

	res := job.Result()
	if wantsText(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := doctree.Render(w, res.Tree); err != nil {
			s.log.Warn("render failed", "job_id", snap.ID, "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}
