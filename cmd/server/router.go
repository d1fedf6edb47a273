package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasksage-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasksage-api/internal/api/middleware"
	"github.com/rs/cors"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	healthHandler := api.NewHealthHandler(app.config.App.Name)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	r.Mount("/tasks", taskHandler.Routes())

	return r
}
