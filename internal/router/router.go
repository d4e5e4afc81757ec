package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"payment-dashboard/internal/config"
	"payment-dashboard/internal/events"
	"payment-dashboard/internal/handlers"
	"payment-dashboard/internal/middleware"
	"payment-dashboard/internal/services"
)

func SetupRouter(db *sqlx.DB, cfg config.Config, logger zerolog.Logger) *mux.Router {
	authService := services.NewAuthService(cfg.JWTSecret, logger)
	userService := services.NewUserService(db, logger)
	paymentService := services.NewPaymentService(db, logger)
	hub := events.NewHub(logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(rateLimiter.Middleware())

	authRequired := middleware.Authentication(authService, logger)

	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Signup stays public; the listing requires a session.
	r.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	r.Handle("/users", authRequired(http.HandlerFunc(userHandler.GetUsers))).Methods("GET")

	payments := r.PathPrefix("/payments").Subrouter()
	payments.Use(authRequired)
	payments.HandleFunc("", paymentHandler.CreatePayment).Methods("POST")
	payments.HandleFunc("", paymentHandler.GetPayments).Methods("GET")
	payments.HandleFunc("/stats", paymentHandler.GetStats).Methods("GET")
	payments.HandleFunc("/revenue-chart", paymentHandler.GetRevenueChart).Methods("GET")
	payments.HandleFunc("/{id:[0-9]+}", paymentHandler.GetPayment).Methods("GET")

	r.HandleFunc("/ws", hub.HandleWS)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
