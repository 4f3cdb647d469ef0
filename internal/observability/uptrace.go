package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/speedrun-browser/internal/config"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
)

// startUptrace installs the global OpenTelemetry providers. A missing DSN
// leaves the no-op providers in place.
func startUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if !cfg.UptraceEnabled {
		logger.Debug("disabled", "reason", "UPTRACE_ENABLED=false")
		return nil, nil
	}
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	if dsn == "" {
		logger.Warn("disabled", "reason", "UPTRACE_DSN empty")
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)

	logger.Info("enabled", "service_name", cfg.ServiceName, "environment", cfg.AppEnv)
	return uptrace.Shutdown, nil
}
