package middleware

import (
	"net/http"

	"estimate-backend/internal/config"
	"github.com/rs/cors"
)

// NewCORS builds the CORS layer from server config. Content-Disposition is
// exposed so browsers can read filenames on PDF and document downloads.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // preflight cache, seconds
	})

	return c.Handler
}
