package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sajipos/api/internal/config"
	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/handler"
	mw "github.com/sajipos/api/internal/middleware"
	"github.com/sajipos/api/internal/service"
	"github.com/sajipos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication, business scoping, and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",       // SvelteKit dev server
			"https://pos.sajipos.com",     // Production waiter app
			"https://stg-pos.sajipos.com", // Staging waiter app
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/businesses/{bid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Services share the pool for transactions and build their stores from
	// whichever DBTX they are handed.
	tableService := service.NewTableService(pool, func(db database.DBTX) service.TableStore {
		return database.New(db)
	})
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})
	paymentService := service.NewPaymentService(pool, func(db database.DBTX) service.PaymentStore {
		return database.New(db)
	})
	eodService := service.NewEodService(pool, func(db database.DBTX) service.EodStore {
		return database.New(db)
	})

	tableHandler := handler.NewTableHandler(tableService, pool, hub)
	orderHandler := handler.NewOrderHandler(orderService, pool, hub)
	paymentHandler := handler.NewPaymentHandler(paymentService, pool)
	eodHandler := handler.NewEodHandler(eodService, pool)
	menuHandler := handler.NewMenuHandler(queries)
	reportsHandler := handler.NewReportsHandler(queries)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Business-scoped routes
		r.Route("/businesses/{bid}", func(r chi.Router) {
			r.Use(mw.RequireBusiness)

			r.Route("/tables", tableHandler.RegisterRoutes)

			r.Route("/orders", func(r chi.Router) {
				orderHandler.RegisterRoutes(r)
				tableHandler.RegisterOrderRoutes(r)
				paymentHandler.RegisterRoutes(r)
			})

			r.Route("/menu", menuHandler.RegisterRoutes)

			// Closing the day and reading its reports is a manager decision
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole("OWNER", "MANAGER"))
				r.Route("/eod", eodHandler.RegisterRoutes)
				r.Route("/reports", reportsHandler.RegisterRoutes)
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
