package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/itaymdigi/Family-Navigator/internal/handlers"
	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/websocket"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Chat          *handlers.ChatHandler
	Trips         *handlers.TripHandler
	Itinerary     *handlers.ItineraryHandler
	Jobs          *handlers.JobHandler
	Accommodation *handlers.AccommodationHandler
	Restaurants   *handlers.RestaurantHandler
	Places        *handlers.PlaceHandler
	Attractions   *handlers.AttractionHandler
	Family        *handlers.FamilyHandler
	Photos        *handlers.PhotoHandler
	Currency      *handlers.CurrencyHandler
	Conversations *handlers.ConversationHandler
}

type Options struct {
	FrontendURL string
	StoragePath string
	AuthLimiter *middleware.RateLimiter
	ChatLimiter *middleware.RateLimiter
}

func New(jwtAuth *middleware.JWTAuth, h Handlers, wsHub *websocket.Hub, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(opts.FrontendURL))

	authLimiter := opts.AuthLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(10, time.Minute)
	}
	chatLimiter := opts.ChatLimiter
	if chatLimiter == nil {
		chatLimiter = middleware.NewRateLimiter(30, time.Minute)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if opts.StoragePath != "" {
		fs := http.StripPrefix(handlers.UploadURLPrefix, http.FileServer(http.Dir(opts.StoragePath)))
		r.Get(handlers.UploadURLPrefix+"*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})
		})

		// ──── WebSocket (token in query) ────
		r.Get("/ws", wsHub.HandleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			// ──── Chat ────
			r.With(chatLimiter.Middleware).Post("/chat", h.Chat.Stream)

			r.Get("/jobs/{jobID}", h.Jobs.GetJob)

			// ──── Trips and nested collections ────
			r.Route("/trips", func(r chi.Router) {
				r.Get("/", h.Trips.List)
				r.With(middleware.RequireAdmin).Post("/", h.Trips.Create)

				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", h.Trips.Get)
					r.Get("/days", h.Itinerary.ListDays)
					r.Get("/accommodations", h.Accommodation.List)
					r.Get("/restaurants", h.Restaurants.List)
					r.Get("/locations", h.Places.ListLocations)
					r.Get("/documents", h.Places.ListDocuments)
					r.Get("/tips", h.Family.ListTips)
					r.Get("/members", h.Family.ListMembers)
					r.Get("/photos", h.Photos.List)
					r.Post("/photos", h.Photos.Upload)
					r.Get("/conversations", h.Conversations.List)
					r.Post("/conversations", h.Conversations.Create)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Put("/", h.Trips.Update)
						r.Delete("/", h.Trips.Delete)
						r.Post("/days", h.Itinerary.CreateDay)
						r.Post("/accommodations", h.Accommodation.Create)
						r.Post("/restaurants", h.Restaurants.Create)
						r.Post("/locations", h.Places.CreateLocation)
						r.Post("/documents", h.Places.CreateDocument)
						r.Post("/tips", h.Family.CreateTip)
						r.Post("/members", h.Family.CreateMember)
					})
				})
			})

			// ──── Itinerary ────
			r.Route("/days/{dayID}", func(r chi.Router) {
				r.Get("/", h.Itinerary.GetDay)
				r.Get("/events", h.Itinerary.ListEvents)
				r.Get("/attractions", h.Attractions.List)
				r.Post("/weather", h.Itinerary.RefreshWeather)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/", h.Itinerary.UpdateDay)
					r.Delete("/", h.Itinerary.DeleteDay)
					r.Post("/events", h.Itinerary.CreateEvent)
					r.Post("/attractions", h.Attractions.Create)
				})
			})
			r.With(middleware.RequireAdmin).Put("/events/{eventID}", h.Itinerary.UpdateEvent)
			r.With(middleware.RequireAdmin).Delete("/events/{eventID}", h.Itinerary.DeleteEvent)

			// ──── Admin-only single resources ────
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Put("/accommodations/{id}", h.Accommodation.Update)
				r.Delete("/accommodations/{id}", h.Accommodation.Delete)
				r.Put("/accommodations/{id}/select", h.Accommodation.Select)

				r.Put("/restaurants/{id}", h.Restaurants.Update)
				r.Delete("/restaurants/{id}", h.Restaurants.Delete)
				r.Put("/restaurants/{id}/visited", h.Restaurants.ToggleVisited)

				r.Delete("/locations/{id}", h.Places.DeleteLocation)
				r.Put("/documents/{id}", h.Places.UpdateDocument)
				r.Delete("/documents/{id}", h.Places.DeleteDocument)

				r.Put("/attractions/{id}", h.Attractions.Update)
				r.Delete("/attractions/{id}", h.Attractions.Delete)
				r.Delete("/tips/{id}", h.Family.DeleteTip)
				r.Delete("/members/{id}", h.Family.DeleteMember)

				r.Delete("/photos/{id}", h.Photos.Delete)
				r.Put("/currency-rates", h.Currency.Upsert)
			})

			// ──── Currency ────
			r.Get("/currency-rates", h.Currency.List)
			r.Get("/currency-rates/convert", h.Currency.Convert)

			// ──── Conversations ────
			r.Delete("/conversations/{id}", h.Conversations.Delete)
			r.Get("/conversations/{id}/messages", h.Conversations.ListMessages)
			r.Post("/conversations/{id}/messages", h.Conversations.AddMessage)
		})
	})

	return r
}
