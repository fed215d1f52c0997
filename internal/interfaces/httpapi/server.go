package httpapi

import (
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

type RouterConfig struct {
	AdminToken         string
	CORSAllowedOrigins []string
	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler      http.Handler
	PredictionRateLimit *UserRateLimiter
}

func NewRouter(handler *Handler, cfg RouterConfig, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.MetricsHandler)
	registerAdminRoutes(mux, handler, cfg.AdminToken)
	registerUserRoutes(mux, handler, cfg.PredictionRateLimit)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}
