package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/itaymdigi/Family-Navigator/internal/models"
	"github.com/itaymdigi/Family-Navigator/internal/repository"
	"github.com/itaymdigi/Family-Navigator/internal/services"
)

const (
	MaxRetries   = 3
	popTimeout   = 5 * time.Second
	lockTTL      = 2 * time.Minute
	UpdatePrefix = "user_updates:"

	BroadcastChannel = "family_updates"
)

type jobStore interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetError(ctx context.Context, id uuid.UUID, message string, retryCount int) error
}

type dayStore interface {
	GetDay(ctx context.Context, id uuid.UUID) (*models.TripDay, error)
	UpdateWeather(ctx context.Context, dayID uuid.UUID, icon, temp, desc string) error
}

type stayStore interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Accommodation, error)
}

type forecaster interface {
	Forecast(ctx context.Context, lat, lng float64, date string) (*services.DailyForecast, error)
}

// Pool runs weather-refresh jobs popped from Redis. queue is used for the
// blocking pops; pub carries job state changes to the websocket hub.
type Pool struct {
	queue       *redis.Client
	pub         *redis.Client
	jobs        jobStore
	days        dayStore
	stays       stayStore
	weather     forecaster
	workerCount int
	popTimeout  time.Duration
	errorPause  time.Duration
	backoff     func(retry int) time.Duration
	wg          sync.WaitGroup
}

func NewPool(queue, pub *redis.Client, jobs jobStore, days dayStore, stays stayStore, weather forecaster, workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		queue:       queue,
		pub:         pub,
		jobs:        jobs,
		days:        days,
		stays:       stays,
		weather:     weather,
		workerCount: workerCount,
		popTimeout:  popTimeout,
		errorPause:  time.Second,
		backoff: func(retry int) time.Duration {
			return time.Duration(1<<uint(retry)) * time.Second
		},
	}
}

func QueueName(jobType string) string {
	return "queue:" + jobType
}

// Start launches the workers. They exit when ctx is cancelled; Wait blocks
// until they have.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.worker(ctx, id)
		}(i)
	}
	log.Info("started workers", "count", p.workerCount)
}

func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int) {
	queue := QueueName(models.JobTypeWeatherRefresh)
	for {
		result, err := p.queue.BLPop(ctx, p.popTimeout, queue).Result()
		if ctx.Err() != nil {
			log.Debug("worker shutting down", "worker", id)
			return
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Warn("queue pop failed", "worker", id, "err", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(p.errorPause):
				}
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Error("failed to parse job", "worker", id, "err", err)
			continue
		}

		lockKey := "job_lock:" + job.ID.String()
		locked, err := p.queue.SetNX(ctx, lockKey, id, lockTTL).Result()
		if err != nil || !locked {
			continue
		}

		p.Process(ctx, &job)
		p.queue.Del(context.Background(), lockKey)
	}
}

// Process runs one job to completion, scheduling a retry or reporting the
// failure when it does not succeed.
func (p *Pool) Process(ctx context.Context, job *models.Job) {
	log.Info("processing job", "job", job.ID, "type", job.Type, "attempt", job.RetryCount+1)
	if err := p.jobs.UpdateStatus(ctx, job.ID, repository.JobStatusProcessing); err != nil {
		log.Warn("failed to mark job processing", "job", job.ID, "err", err)
	}

	var (
		update *models.WeatherUpdate
		err    error
	)
	switch job.Type {
	case models.JobTypeWeatherRefresh:
		update, err = p.refreshWeather(ctx, job)
	default:
		err = fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		p.handleFailure(ctx, job, err)
		return
	}
	p.handleSuccess(ctx, job, update)
}

func (p *Pool) refreshWeather(ctx context.Context, job *models.Job) (*models.WeatherUpdate, error) {
	day, err := p.days.GetDay(ctx, job.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get day: %w", err)
	}
	stays, err := p.stays.ListByTrip(ctx, day.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accommodations: %w", err)
	}

	lat, lng := services.ResolveCoordinates(day.Date, stays)
	fc, err := p.weather.Forecast(ctx, lat, lng, day.Date)
	if err != nil {
		return nil, err
	}
	if err := p.days.UpdateWeather(ctx, day.ID, fc.Icon, fc.Temp, fc.Desc); err != nil {
		return nil, fmt.Errorf("failed to save weather: %w", err)
	}

	return &models.WeatherUpdate{
		JobID:   job.ID,
		TripID:  day.TripID,
		DayID:   day.ID,
		Icon:    fc.Icon,
		Temp:    fc.Temp,
		Summary: fc.Desc,
	}, nil
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job, update *models.WeatherUpdate) {
	if err := p.jobs.UpdateStatus(ctx, job.ID, repository.JobStatusCompleted); err != nil {
		log.Warn("failed to mark job completed", "job", job.ID, "err", err)
	}
	p.publish(ctx, BroadcastChannel, models.WSMessage{Type: "weather_updated", Payload: update})
	log.Info("job completed", "job", job.ID, "day", job.ReferenceID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	job.RetryCount++
	errMsg := err.Error()
	_ = p.jobs.SetError(ctx, job.ID, errMsg, job.RetryCount)

	if job.RetryCount < MaxRetries {
		backoff := p.backoff(job.RetryCount)
		log.Warn("job failed, retrying", "job", job.ID, "attempt", job.RetryCount, "backoff", backoff, "err", errMsg)
		_ = p.jobs.UpdateStatus(ctx, job.ID, repository.JobStatusPending)

		jobBytes, _ := json.Marshal(job)
		time.AfterFunc(backoff, func() {
			if err := p.queue.LPush(context.Background(), QueueName(job.Type), string(jobBytes)).Err(); err != nil {
				log.Error("failed to requeue job", "job", job.ID, "err", err)
			}
		})
		return
	}

	log.Error("job failed permanently", "job", job.ID, "err", errMsg)
	_ = p.jobs.UpdateStatus(ctx, job.ID, repository.JobStatusFailed)
	p.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "error",
		Payload: models.ErrorEvent{
			JobID:        job.ID,
			ErrorCode:    "JOB_FAILED",
			ErrorMessage: errMsg,
		},
	})
}

// PublishUpdate sends msg to every websocket the user has open.
func (p *Pool) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	p.publish(ctx, UpdatePrefix+userID.String(), msg)
}

func (p *Pool) publish(ctx context.Context, channel string, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := p.pub.Publish(ctx, channel, data).Err(); err != nil {
		log.Warn("failed to publish update", "channel", channel, "type", msg.Type, "err", err)
	}
}
