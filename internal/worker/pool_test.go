package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/models"
	"github.com/itaymdigi/Family-Navigator/internal/repository"
	"github.com/itaymdigi/Family-Navigator/internal/services"
)

type stubDays struct {
	mu      sync.Mutex
	day     *models.TripDay
	weather []string
}

func (s *stubDays) GetDay(ctx context.Context, id uuid.UUID) (*models.TripDay, error) {
	if s.day == nil || s.day.ID != id {
		return nil, errors.New("no rows in result set")
	}
	return s.day, nil
}

func (s *stubDays) UpdateWeather(ctx context.Context, dayID uuid.UUID, icon, temp, desc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weather = []string{icon, temp, desc}
	return nil
}

type stubStays []*models.Accommodation

func (s stubStays) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Accommodation, error) {
	return s, nil
}

type stubForecast struct {
	mu       sync.Mutex
	err      error
	lat, lng float64
}

func (s *stubForecast) Forecast(ctx context.Context, lat, lng float64, date string) (*services.DailyForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lat, s.lng = lat, lng
	if s.err != nil {
		return nil, s.err
	}
	return &services.DailyForecast{Icon: "🌧️", Temp: "3–13°C", Desc: "גשם"}, nil
}

type fixture struct {
	mr       *miniredis.Miniredis
	client   *redis.Client
	jobs     *repository.JobRepo
	days     *stubDays
	forecast *stubForecast
	pool     *Pool
	job      *models.Job
}

func newFixture(t *testing.T) *fixture {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	lat, lng := 50.08, 14.43
	day := &models.TripDay{ID: uuid.New(), TripID: uuid.New(), DayNumber: 1, Date: "2026-03-26", Title: "Prague"}
	stays := stubStays{{Name: "Prague flat", Dates: "25.3–28.3", Lat: &lat, Lng: &lng, IsSelected: true}}

	f := &fixture{
		mr:       mr,
		client:   client,
		jobs:     repository.NewJobRepo(client),
		days:     &stubDays{day: day},
		forecast: &stubForecast{},
	}
	f.pool = NewPool(client, client, f.jobs, f.days, stays, f.forecast, 1)
	f.pool.backoff = func(int) time.Duration { return 10 * time.Millisecond }
	f.pool.popTimeout = 100 * time.Millisecond

	f.job = &models.Job{UserID: uuid.New(), Type: models.JobTypeWeatherRefresh, TripID: day.TripID, ReferenceID: day.ID}
	require.NoError(t, f.jobs.Create(context.Background(), f.job))
	return f
}

func (f *fixture) subscribe(t *testing.T) <-chan *redis.Message {
	return f.subscribeTo(t, UpdatePrefix+f.job.UserID.String())
}

func (f *fixture) subscribeTo(t *testing.T, channel string) <-chan *redis.Message {
	sub := f.client.Subscribe(context.Background(), channel)
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)
	return sub.Channel()
}

func nextMessage(t *testing.T, ch <-chan *redis.Message) models.WSMessage {
	t.Helper()
	select {
	case m := <-ch:
		var msg models.WSMessage
		require.NoError(t, json.Unmarshal([]byte(m.Payload), &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no update published")
		return models.WSMessage{}
	}
}

func TestProcess_WeatherRefreshSuccess(t *testing.T) {
	f := newFixture(t)
	updates := f.subscribeTo(t, BroadcastChannel)

	f.pool.Process(context.Background(), f.job)

	assert.Equal(t, []string{"🌧️", "3–13°C", "גשם"}, f.days.weather)
	assert.Equal(t, 50.08, f.forecast.lat)
	assert.Equal(t, 14.43, f.forecast.lng)

	stored, err := f.jobs.GetByID(context.Background(), f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.JobStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	msg := nextMessage(t, updates)
	assert.Equal(t, "weather_updated", msg.Type)
	payload := msg.Payload.(map[string]interface{})
	assert.Equal(t, f.job.ReferenceID.String(), payload["day_id"])
	assert.Equal(t, "3–13°C", payload["temp"])
}

func TestProcess_FailureRequeuesWithBackoff(t *testing.T) {
	f := newFixture(t)
	f.forecast.err = errors.New("open-meteo down")

	f.pool.Process(context.Background(), f.job)

	stored, err := f.jobs.GetByID(context.Background(), f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.JobStatusPending, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "open-meteo down", *stored.ErrorMessage)

	require.Eventually(t, func() bool {
		queued, _ := f.mr.List(QueueName(models.JobTypeWeatherRefresh))
		return len(queued) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProcess_FinalFailurePublishesError(t *testing.T) {
	f := newFixture(t)
	updates := f.subscribe(t)
	f.forecast.err = errors.New("open-meteo down")
	f.job.RetryCount = MaxRetries - 1

	f.pool.Process(context.Background(), f.job)

	stored, err := f.jobs.GetByID(context.Background(), f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.JobStatusFailed, stored.Status)
	assert.Equal(t, MaxRetries, stored.RetryCount)

	msg := nextMessage(t, updates)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "JOB_FAILED", msg.Payload.(map[string]interface{})["error_code"])
	assert.False(t, f.mr.Exists(QueueName(models.JobTypeWeatherRefresh)))
}

func TestPool_ConsumesQueue(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.pool.Start(ctx)

	data, err := json.Marshal(f.job)
	require.NoError(t, err)
	require.NoError(t, f.client.LPush(ctx, QueueName(models.JobTypeWeatherRefresh), data).Err())

	require.Eventually(t, func() bool {
		stored, err := f.jobs.GetByID(context.Background(), f.job.ID)
		return err == nil && stored.Status == repository.JobStatusCompleted
	}, 3*time.Second, 20*time.Millisecond)
	assert.False(t, f.mr.Exists("job_lock:"+f.job.ID.String()))

	cancel()
	f.pool.Wait()
}

func TestPool_StopsDuringErrorPause(t *testing.T) {
	broken := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { broken.Close() })

	p := NewPool(broken, broken, nil, nil, nil, nil, 1)
	p.popTimeout = 50 * time.Millisecond
	p.errorPause = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after cancel")
	}
}
