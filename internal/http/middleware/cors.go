package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/nordvik-as/sales-api/internal/config"
	"go.uber.org/zap"
)

func isDevelopment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

// CORS builds the cross-origin policy from configuration. The origin list
// resolves in three steps: a "*" entry admits every origin, a non-empty list
// admits exactly those origins, and an empty list admits everything in
// development but nothing anywhere else.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	allowAny := func(r *http.Request, origin string) bool { return origin != "" }
	denyAll := func(r *http.Request, origin string) bool { return false }

	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !isDevelopment(environment) {
			logger.Warn("CORS wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAny
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS origins configured",
			zap.Strings("origins", cfg.AllowedOrigins))
	case isDevelopment(environment):
		options.AllowOriginFunc = allowAny
		logger.Info("CORS allowing all origins in development")
	default:
		// go-chi/cors treats an empty AllowedOrigins as "*", so deny
		// explicitly when nothing is configured outside development.
		options.AllowOriginFunc = denyAll
		logger.Warn("CORS has no allowed origins, cross-origin requests are denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
