package handler

import (
	"github.com/Dan9191/finances-service/internal/metrics"
	"github.com/Dan9191/finances-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the public and owner-scoped routes
func NewRouter(h *Handler, jwtSecret string, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log), metrics.Middleware)

	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Protected routes
	finances := r.PathPrefix("/finances").Subrouter()
	finances.Use(middleware.AuthMiddleware(jwtSecret))
	finances.HandleFunc("/overview", h.GetOverview).Methods("GET")
	finances.HandleFunc("/payments", h.GetRecentPayments).Methods("GET")
	finances.HandleFunc("/comparison", h.GetComparison).Methods("GET")
	return r
}
