package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/models"
	"github.com/itaymdigi/Family-Navigator/internal/repository"
)

func TestJobHandler_Visibility(t *testing.T) {
	_, client := newRedis(t)
	jobs := repository.NewJobRepo(client)
	owner := uuid.New()
	job := &models.Job{UserID: owner, Type: models.JobTypeWeatherRefresh, ReferenceID: uuid.New()}
	require.NoError(t, jobs.Create(context.Background(), job))

	get := func(user uuid.UUID, role string, id string) int {
		rr := httptest.NewRecorder()
		req := withUser(withParams(httptest.NewRequest(http.MethodGet, "/", nil), "jobID", id), user, role)
		NewJobHandler(jobs).GetJob(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, get(owner, models.UserRoleViewer, job.ID.String()))
	assert.Equal(t, http.StatusOK, get(uuid.New(), models.UserRoleAdmin, job.ID.String()))
	assert.Equal(t, http.StatusNotFound, get(uuid.New(), models.UserRoleViewer, job.ID.String()))
	assert.Equal(t, http.StatusNotFound, get(owner, models.UserRoleViewer, uuid.New().String()))
	assert.Equal(t, http.StatusBadRequest, get(owner, models.UserRoleViewer, "nope"))
}
