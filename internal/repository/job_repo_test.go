package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

func newJobRepo(t *testing.T) (*JobRepo, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewJobRepo(client), mr
}

func TestJobRepo_Lifecycle(t *testing.T) {
	repo, mr := newJobRepo(t)
	ctx := context.Background()

	job := &models.Job{UserID: uuid.New(), Type: models.JobTypeWeatherRefresh, TripID: uuid.New(), ReferenceID: uuid.New()}
	require.NoError(t, repo.Create(ctx, job))
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.True(t, mr.Exists("job:"+job.ID.String()))
	assert.Positive(t, mr.TTL("job:"+job.ID.String()))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, got.Status)
	assert.Equal(t, job.ReferenceID, got.ReferenceID)

	require.NoError(t, repo.SetError(ctx, job.ID, "upstream timeout", 2))
	require.NoError(t, repo.UpdateStatus(ctx, job.ID, JobStatusFailed))

	got, err = repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, got.Status)
	assert.Equal(t, 2, got.RetryCount)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "upstream timeout", *got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)
}

func TestJobRepo_NotFound(t *testing.T) {
	repo, _ := newJobRepo(t)
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
}
