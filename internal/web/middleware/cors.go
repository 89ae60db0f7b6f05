package middleware

import (
	"log"
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS allows cross-origin calls to the API from any origin
func CORS() func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-API-Key", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
}

// Recovery turns handler panics into 500 responses and logs them
func Recovery() func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.Default()),
		handlers.PrintRecoveryStack(true),
	)
}
