package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// resourceAttributes tag every span and metric with how the engine is run, so
// traces from the memory and postgres backends are never mixed up.
func resourceAttributes(cfg config.Config) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	for _, kv := range []attribute.KeyValue{
		attribute.String("prediction_league.storage", cfg.StorageDriver),
		attribute.String("prediction_league.ranking_policy", cfg.RankingPolicy),
		attribute.Int("prediction_league.finalize_workers", cfg.FinalizeMaxWorkers),
	} {
		if kv.Value.Emit() != "" && kv.Value.Emit() != "0" {
			attrs = append(attrs, kv)
		}
	}
	return attrs
}

// InitUptrace configures global OpenTelemetry trace and metric providers.
// Logs stay on stdout; the exporter is only used for spans and metrics.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func(context.Context) error { return nil }

	if !cfg.UptraceEnabled {
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return noop, nil
	}
	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(resourceAttributes(cfg)...),
		uptrace.WithLoggingEnabled(false),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"storage", cfg.StorageDriver,
	)

	return uptrace.Shutdown, nil
}
