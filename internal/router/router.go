package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-notes-api/docs"
	"github.com/FACorreiaa/go-notes-api/internal/api/auth"
	"github.com/FACorreiaa/go-notes-api/internal/api/notes"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            auth.Handler
	NotesHandler           notes.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (request id, logging, recoverer) is applied by the
// caller before mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Access-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("hello world"))
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Public auth routes
	r.Post("/signup", cfg.AuthHandler.Signup)
	r.Post("/signin", cfg.AuthHandler.Signin)

	// Notes are scoped to the token's user
	r.Route("/notes", func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Get("/", cfg.NotesHandler.ListNotes)
		r.Put("/", cfg.NotesHandler.CreateNote)
		r.Patch("/{id}", cfg.NotesHandler.UpdateNote)
		r.Delete("/{id}", cfg.NotesHandler.DeleteNote)
	})

	return r
}
