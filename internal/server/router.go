package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/xHacka/login-log-generator/internal/config"
	"github.com/xHacka/login-log-generator/internal/csrf"
	"github.com/xHacka/login-log-generator/internal/generator"
	"github.com/xHacka/login-log-generator/internal/handlers"
	"github.com/xHacka/login-log-generator/internal/logging"
)

// NewRouter wires the browser form (CSRF protected), the JSON API and the
// health check.
func NewRouter(gen *generator.Generator, live *config.Live, log zerolog.Logger) (http.Handler, error) {
	tmpl, err := handlers.ParseTemplates()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(log))
	r.Use(middleware.Recoverer)

	fh := &handlers.FormHandler{Generator: gen, Config: live, Template: tmpl}
	gh := &handlers.GenerateHandler{Generator: gen, Config: live}
	api := &handlers.GenerateHandler{Generator: gen, Config: live, JSONOnly: true}
	hh := &handlers.HealthHandler{Generator: gen}

	r.Group(func(r chi.Router) {
		r.Use(csrf.Protect)
		r.Get("/", fh.ServeHTTP)
		r.Post("/generate", gh.ServeHTTP)
	})
	r.Post("/api/generate", api.ServeHTTP)
	r.Get("/healthz", hh.ServeHTTP)
	return r, nil
}
