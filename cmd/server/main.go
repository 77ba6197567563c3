package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/itaymdigi/Family-Navigator/internal/config"
	"github.com/itaymdigi/Family-Navigator/internal/database"
	"github.com/itaymdigi/Family-Navigator/internal/handlers"
	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/relay"
	"github.com/itaymdigi/Family-Navigator/internal/repository"
	"github.com/itaymdigi/Family-Navigator/internal/router"
	"github.com/itaymdigi/Family-Navigator/internal/services"
	"github.com/itaymdigi/Family-Navigator/internal/websocket"
	"github.com/itaymdigi/Family-Navigator/internal/worker"
)

func main() {
	log.Info("starting Family Navigator backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration invalid", "err", err)
	}
	if !cfg.IsProduction() {
		log.SetLevel(log.DebugLevel)
	}

	// ──── Step 2: PostgreSQL + migrations ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("PostgreSQL connection failed", "err", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, "migrations"); err != nil {
		log.Fatal("database migration failed", "err", err)
	}

	// ──── Step 3: Redis ────
	redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Redis connection failed", "err", err)
	}
	defer redisClients.Close()
	log.Info("datastores ready")

	// ──── Repositories ────
	userRepo := repository.NewUserRepo(pool)
	tripRepo := repository.NewTripRepo(pool)
	dayRepo := repository.NewDayRepo(pool)
	accommodationRepo := repository.NewAccommodationRepo(pool)
	restaurantRepo := repository.NewRestaurantRepo(pool)
	placeRepo := repository.NewPlaceRepo(pool)
	attractionRepo := repository.NewAttractionRepo(pool)
	familyRepo := repository.NewFamilyRepo(pool)
	photoRepo := repository.NewPhotoRepo(pool)
	currencyRepo := repository.NewCurrencyRepo(pool)
	conversationRepo := repository.NewConversationRepo(pool)
	jobRepo := repository.NewJobRepo(redisClients.Queue)

	// ──── Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth)
	currencyService := services.NewCurrencyService(currencyRepo)
	if err := currencyService.SeedDefaults(ctx); err != nil {
		log.Fatal("currency seed failed", "err", err)
	}
	weatherClient := services.NewWeatherClient(cfg.WeatherBaseURL, nil)

	// ──── Step 4: Chat relay ────
	chatRelay, closeRelay, err := buildRelay(ctx, cfg)
	if err != nil {
		log.Fatal("chat relay setup failed", "err", err)
	}
	defer closeRelay()

	// ──── Step 5: Worker pool + WebSocket hub ────
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	workerPool := worker.NewPool(redisClients.Queue, redisClients.PubSub, jobRepo, dayRepo, accommodationRepo, weatherClient, cfg.WorkerCount)
	workerPool.Start(workerCtx)

	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth)

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	chatLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ──── Step 6: HTTP server ────
	r := router.New(jwtAuth, router.Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		Chat:          handlers.NewChatHandler(chatRelay),
		Trips:         handlers.NewTripHandler(tripRepo),
		Itinerary:     handlers.NewItineraryHandler(dayRepo, jobRepo, redisClients.Queue),
		Jobs:          handlers.NewJobHandler(jobRepo),
		Accommodation: handlers.NewAccommodationHandler(accommodationRepo),
		Restaurants:   handlers.NewRestaurantHandler(restaurantRepo),
		Places:        handlers.NewPlaceHandler(placeRepo),
		Attractions:   handlers.NewAttractionHandler(attractionRepo),
		Family:        handlers.NewFamilyHandler(familyRepo),
		Photos:        handlers.NewPhotoHandler(photoRepo, cfg.StoragePath),
		Currency:      handlers.NewCurrencyHandler(currencyService),
		Conversations: handlers.NewConversationHandler(conversationRepo),
	}, wsHub, router.Options{
		FrontendURL: cfg.FrontendURL,
		StoragePath: cfg.StoragePath,
		AuthLimiter: authLimiter,
		ChatLimiter: chatLimiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("server shutdown incomplete", "err", err)
		}
		wsHub.Shutdown()
		stopWorkers()
	}()

	log.Info("Family Navigator ready", "api", "http://localhost:"+cfg.Port+"/api/v1", "ws", "ws://localhost:"+cfg.Port+"/api/v1/ws")

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", "err", err)
	}
	stopWorkers()
	workerPool.Wait()
}

// buildRelay registers an upstream for every provider with an API key.
func buildRelay(ctx context.Context, cfg *config.Config) (*relay.Relay, func(), error) {
	prompt, err := relay.LoadSystemPrompt(cfg.ChatSystemPromptFile)
	if err != nil {
		return nil, nil, err
	}

	upstreams := map[string]relay.Upstream{}
	closer := func() {}

	if cfg.OpenRouterAPIKey != "" {
		upstreams[relay.ProviderOpenAI] = relay.NewOpenAIUpstream(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, nil)
	}
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		upstreams[relay.ProviderGemini] = relay.NewGeminiUpstream(client)
		closer = func() { client.Close() }
	}

	r := relay.New(cfg.RelayConfig(prompt), upstreams)
	if err := r.Ready(); err != nil {
		log.Warn("chat disabled until an API key is configured", "err", err)
	} else {
		log.Info("chat relay ready", "candidates", len(r.Candidates()))
	}
	return r, closer, nil
}
