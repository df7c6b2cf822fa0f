// Package rest wires the chi router for the read-only graph API.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"dhammakb/application/navigation"
	"dhammakb/application/ports"
	"dhammakb/interfaces/http/rest/handlers"
	"dhammakb/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	store      ports.GraphStore
	navigator  *navigation.Engine
	logger     *zap.Logger
	enableCORS bool
}

// NewRouter creates a new router instance
func NewRouter(store ports.GraphStore, navigator *navigation.Engine, logger *zap.Logger, enableCORS bool) *Router {
	return &Router{
		store:      store,
		navigator:  navigator,
		logger:     logger,
		enableCORS: enableCORS,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", rt.healthCheck)

		graphHandler := handlers.NewGraphHandler(rt.store, rt.logger)
		r.Get("/lists", graphHandler.ListLists)
		r.Get("/lists/{listID}", graphHandler.GetList)
		r.Get("/dhammas/{dhammaID}", graphHandler.GetDhamma)
		r.Get("/search", graphHandler.Search)

		navHandler := handlers.NewNavigationHandler(rt.navigator, rt.logger)
		r.Get("/navigate/{nodeID}", navHandler.Navigate)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
