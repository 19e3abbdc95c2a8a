package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/casadulce/api/internal/config"
	"github.com/casadulce/api/internal/database"
	"github.com/casadulce/api/internal/handler"
	"github.com/casadulce/api/internal/service"
	"github.com/casadulce/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// WebSocket order feed
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	r.Route("/api", func(r chi.Router) {
		clientHandler := handler.NewClientHandler(queries)
		r.Route("/clients", clientHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(queries)
		r.Route("/products", productHandler.RegisterRoutes)

		orderService := service.NewOrderService(queries)
		orderHandler := handler.NewOrderHandler(orderService, queries, hub)
		r.Route("/orders", orderHandler.RegisterRoutes)
	})

	return r
}
