package handlers

import (
	"errors"
	"net/http"

	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/models"
	"github.com/itaymdigi/Family-Navigator/internal/repository"
)

type JobHandler struct {
	jobs jobRepository
}

func NewJobHandler(jobs jobRepository) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GetJob returns a job to the user who queued it, or to an admin.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "jobID", "job")
	if !ok {
		return
	}

	job, err := h.jobs.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrJobNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	if job.UserID != middleware.GetUserID(ctx) && middleware.GetUserRole(ctx) != models.UserRoleAdmin {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	writeJSON(w, http.StatusOK, job)
}
