package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linkmaxxer/gatekeeper/internal/handlers"
)

// NewRouter sets up the webhook and operator API routes
func NewRouter(webhook *handlers.WebhookHandler, auth *handlers.AuthHandler, grants *handlers.GrantHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", handlers.Home).Methods(http.MethodGet)
	router.HandleFunc("/healthcheck", handlers.HealthCheck).Methods(http.MethodGet)

	// Bot API update intake
	router.HandleFunc("/telegram", webhook.Receive).Methods(http.MethodPost)

	// Operator API
	router.HandleFunc("/api/login", auth.Login).Methods(http.MethodPost)
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(auth.JWTMiddleware)
	protected.HandleFunc("/grants", grants.ListRecent).Methods(http.MethodGet)

	return router
}
