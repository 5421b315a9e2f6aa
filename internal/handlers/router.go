package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"adda/internal/feed"
	mw "adda/internal/middleware"
	"adda/internal/store"
)

type Deps struct {
	Store          *store.Store
	Feed           *feed.Service
	Logger         *zap.Logger
	Metrics        *mw.Metrics
	Gatherer       prometheus.Gatherer
	Admin          AdminConfig
	AllowedOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.ZapRequestLogger(d.Logger))
	r.Use(d.Metrics.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	users := NewUserHandler(d.Store, d.Logger)
	confessions := NewConfessionHandler(d.Store, d.Logger)
	bouquets := NewBouquetHandler(d.Store, d.Logger)
	clubs := NewClubHandler(d.Store, d.Logger)
	events := NewEventHandler(d.Store, d.Feed, d.Logger)
	gigs := NewGigHandler(d.Store, d.Logger)
	feeds := NewFeedHandler(d.Store, d.Feed, d.Logger)
	admin := NewAdminHandler(d.Store, d.Feed, d.Logger, d.Metrics, d.Admin)
	authMW := mw.NewAuthMiddleware(d.Admin.JWTSecret)

	r.Get("/healthz", feeds.Health)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/users", users.Create)
		api.Get("/users/me", users.Me)
		api.Get("/users/{id}", users.Get)
		api.Get("/users/{id}/notifications", users.Notifications)

		api.Get("/confessions", confessions.List)
		api.Post("/confessions", confessions.Create)
		api.Post("/confessions/{id}/like", confessions.Like)

		api.Get("/bouquets", bouquets.Inbox)
		api.Post("/bouquets", bouquets.Send)

		api.Get("/clubs", clubs.List)
		api.Post("/clubs", clubs.Create)
		api.Get("/clubs/{id}", clubs.Get)
		api.Post("/clubs/{id}/join", clubs.Join)
		api.Get("/clubs/{id}/posts", clubs.ListPosts)
		api.Post("/clubs/{id}/posts", clubs.CreatePost)

		api.Get("/events", events.List)
		api.Post("/events", events.Create)
		api.Post("/events/{id}/rsvp", events.RSVP)

		api.Get("/gigs", gigs.List)
		api.Post("/gigs", gigs.Create)
		api.Post("/gigs/{id}/apply", gigs.Apply)

		api.Get("/feed", feeds.Feed)
		api.Get("/stats", feeds.Stats)

		api.Post("/admin/login", admin.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAdmin)
			pr.Get("/admin/pending-confessions", admin.PendingConfessions)
			pr.Post("/admin/confessions/{id}/moderate", admin.ModerateConfession)
			pr.Get("/admin/pending-clubs", admin.PendingClubs)
			pr.Post("/admin/clubs/{id}/moderate", admin.ModerateClub)
			pr.Post("/admin/gigs/{id}/status", admin.SetGigStatus)
			pr.Get("/admin/gigs/{id}/applications", admin.GigApplications)
		})
	})
	return r
}
