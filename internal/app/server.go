package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"task-logger/internal/handlers"
	"task-logger/internal/server"
)

// RunServer builds the router and the HTTP server around it
func (app *App) RunServer() (*server.Server, http.Handler) {
	h := handlers.New(app.Pipeline, app.Auth)

	router := mux.NewRouter()
	SetupRoutes(router, h, app.InitializeRateLimiter(), app.rateLimitKey())

	srv := server.New(router, app.Config.Port)

	return srv, router
}
