package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"thunderstore-mod-browser/auth"
	"thunderstore-mod-browser/catalog"
	"thunderstore-mod-browser/db"
)

// Server holds the handlers' collaborators.
type Server struct {
	store     *db.Store
	auth      *auth.Service
	scheduler *catalog.Scheduler
	log       *zap.SugaredLogger
}

// New creates the serving layer.
func New(store *db.Store, authService *auth.Service, scheduler *catalog.Scheduler, log *zap.SugaredLogger) *Server {
	return &Server{
		store:     store,
		auth:      authService,
		scheduler: scheduler,
		log:       log,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.RequireAuth)

		r.Get("/mods", s.handleGetMods)
		r.Get("/categories", s.handleGetCategories)
		r.Post("/ratings", s.handlePostRating)
		r.Get("/ratings", s.handleGetRatedMods)

		// Import control is reserved for the admin account.
		r.Route("/import", func(r chi.Router) {
			r.Use(s.auth.RequireAdmin)

			r.Post("/", s.handleRequestImport)
			r.Get("/status", s.handleImportStatus)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
