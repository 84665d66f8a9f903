package router

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vedran77/itemvault/internal/transport/http/handlers"
	"github.com/vedran77/itemvault/internal/transport/http/middleware"
)

type Config struct {
	Auth    *handlers.AuthHandler
	Items   *handlers.ItemHandler
	Health  *handlers.HealthHandler
	Guard   func(http.Handler) http.Handler
	Metrics *middleware.Metrics
	Logger  *slog.Logger

	AllowedOrigins []string
	// UploadDir is served under /uploads/ when set.
	UploadDir string
}

func New(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", cfg.Health.Root)
	r.Get("/health", cfg.Health.Check)

	r.Post("/register", cfg.Auth.Register)
	r.Post("/login", cfg.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(cfg.Guard)

		r.Get("/items", cfg.Items.List)
		r.Post("/items", cfg.Items.Create)
		r.Get("/items/{id}", cfg.Items.Get)
		r.Patch("/items/{id}", cfg.Items.Update)
		r.Delete("/items/{id}", cfg.Items.Delete)
	})

	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(cfg.UploadDir)})))
	}

	return r
}

// filesOnly hides directories so the upload folder cannot be listed.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
