package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayush/favorites-api/internal/auth"
	"github.com/ayush/favorites-api/internal/catalog"
	"github.com/ayush/favorites-api/internal/middleware"
	"github.com/ayush/favorites-api/internal/models"
	"github.com/ayush/favorites-api/internal/respond"
)

// Deps is everything the router needs, built once in main.
type Deps struct {
	Catalog        *catalog.Handler
	Auth           *auth.Handler
	Sessions       auth.Sessions
	Users          middleware.UserLookup
	Metrics        *middleware.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	// ServiceName names the server spans; defaults to favorites-api.
	ServiceName string
	// AuthDisabled lets anyone mutate any user's favorites (local demo only).
	AuthDisabled bool
}

func NewRouter(d Deps) chi.Router {
	service := d.ServiceName
	if service == "" {
		service = "favorites-api"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(service))
	r.Use(middleware.Logger)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", catalog.Sitemap(r))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	if d.Auth != nil {
		r.Post("/auth/register", d.Auth.Register)
		r.Post("/auth/login", d.Auth.Login)
		r.Post("/auth/logout", d.Auth.Logout)
		r.With(middleware.RequireAuth(d.Sessions, d.Users)).Get("/auth/me", d.Auth.Me)
	}

	c := d.Catalog
	r.Get("/users", c.ListUsers)
	r.Get("/users/{user_id:[0-9]+}/favorites", c.ListFavorites)
	r.Get("/users/{user_id:[0-9]+}/favorites/history", c.History)

	r.Get("/people", c.ListPeople)
	r.Get("/people/{people_id:[0-9]+}", c.GetPerson)
	r.Get("/people/{people_id:[0-9]+}/image", c.Image(models.KindPeople, "people_id"))

	r.Get("/planets", c.ListPlanets)
	r.Get("/planets/{planet_id:[0-9]+}", c.GetPlanet)
	r.Get("/planets/{planet_id:[0-9]+}/image", c.Image(models.KindPlanet, "planet_id"))

	owner := r.With()
	if !d.AuthDisabled {
		owner = r.With(middleware.RequireAuth(d.Sessions, d.Users), middleware.RequireOwner("user_id"))
	}
	owner.Post("/users/{user_id:[0-9]+}/favorites/planet/{planet_id:[0-9]+}", c.AddFavorite(models.KindPlanet, "planet_id"))
	owner.Post("/users/{user_id:[0-9]+}/favorites/people/{people_id:[0-9]+}", c.AddFavorite(models.KindPeople, "people_id"))
	owner.Delete("/users/{user_id:[0-9]+}/favorites/planet/{planet_id:[0-9]+}", c.RemoveFavorite(models.KindPlanet, "planet_id"))
	owner.Delete("/users/{user_id:[0-9]+}/favorites/people/{people_id:[0-9]+}", c.RemoveFavorite(models.KindPeople, "people_id"))

	return r
}
