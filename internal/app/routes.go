package app

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"task-logger/internal/common/ratelimit"
	"task-logger/internal/handlers"
	"task-logger/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application. keyFunc
// identifies clients for rateLimiter.
func SetupRoutes(router *mux.Router, h *handlers.Handlers, rateLimiter ratelimit.Limiter, keyFunc func(*http.Request) string) {
	router.Use(middleware.LoggingMiddleware)

	// Health check never touches the row store
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	var addTask http.Handler = http.HandlerFunc(h.AddTask)
	if rateLimiter != nil {
		addTask = ratelimit.HTTPMiddleware(rateLimiter, keyFunc)(addTask)
	}
	router.Handle("/add_task", addTask).Methods(http.MethodPost)
}
