package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/orderdesk/pkg/requestid"
)

// CORS applies the desk's allowed-origin policy for the browser front end.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestid.Header},
		ExposedHeaders:   []string{requestid.Header},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
