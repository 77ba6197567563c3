package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// jobTTL bounds how long finished job records stay queryable.
const jobTTL = 24 * time.Hour

var ErrJobNotFound = errors.New("job not found")

// JobRepo keeps background job records in Redis under job:<id>.
type JobRepo struct {
	redis *redis.Client
}

func NewJobRepo(redisClient *redis.Client) *JobRepo {
	return &JobRepo{redis: redisClient}
}

func jobKey(id uuid.UUID) string { return "job:" + id.String() }

func (r *JobRepo) Create(ctx context.Context, j *models.Job) error {
	j.ID = uuid.New()
	j.Status = JobStatusPending
	j.RetryCount = 0
	j.CreatedAt = time.Now().UTC()
	return r.save(ctx, j)
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	raw, err := r.redis.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	j := &models.Job{}
	if err := json.Unmarshal(raw, j); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return j, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	j, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	j.Status = status
	if status == JobStatusCompleted || status == JobStatusFailed {
		now := time.Now().UTC()
		j.CompletedAt = &now
	}
	return r.save(ctx, j)
}

func (r *JobRepo) SetError(ctx context.Context, id uuid.UUID, message string, retryCount int) error {
	j, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	j.ErrorMessage = &message
	j.RetryCount = retryCount
	return r.save(ctx, j)
}

func (r *JobRepo) save(ctx context.Context, j *models.Job) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return r.redis.Set(ctx, jobKey(j.ID), data, jobTTL).Err()
}
