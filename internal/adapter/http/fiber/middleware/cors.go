package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seu-repo/ai-secretary/pkg/config"
)

const (
	defaultCORSMethods = "GET,POST,DELETE,OPTIONS"
	defaultCORSHeaders = "Origin,Content-Type,Accept,X-Request-ID"
	defaultCORSExpose  = "Content-Length,X-Request-ID"
	defaultCORSMaxAge  = 86400
)

// NewCORS builds the CORS middleware for the messages and agenda API.
// Credentials are only allowed with an explicit origin list.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	origins := joinOr(cfg.AllowedOrigins, "*")

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = defaultCORSMaxAge
	}

	return fibercors.New(fibercors.Config{
		AllowOrigins:     origins,
		AllowMethods:     joinOr(cfg.AllowedMethods, defaultCORSMethods),
		AllowHeaders:     joinOr(cfg.AllowedHeaders, defaultCORSHeaders),
		ExposeHeaders:    joinOr(cfg.ExposeHeaders, defaultCORSExpose),
		AllowCredentials: cfg.Credentials && origins != "*",
		MaxAge:           maxAge,
	})
}

func joinOr(values []string, def string) string {
	var kept []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return def
	}
	return strings.Join(kept, ",")
}
