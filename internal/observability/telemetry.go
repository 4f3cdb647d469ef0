// Package observability starts the process-wide tracing and profiling hooks:
// Uptrace for OpenTelemetry export, Pyroscope for continuous profiling and a
// private pprof listener.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/speedrun-browser/internal/config"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
)

type stopFunc struct {
	name string
	stop func(context.Context) error
}

// Telemetry owns every hook started by Start.
type Telemetry struct {
	logger *logging.Logger
	stops  []stopFunc
}

// Start brings up each enabled hook. When one fails the ones already running
// are stopped before the error is returned.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (func(context.Context) error, error)
	}{
		{name: "uptrace", start: startUptrace},
		{name: "pyroscope", start: startPyroscope},
		{name: "pprof", start: startPprof},
	}
	for _, step := range steps {
		stop, err := step.start(cfg, logger.Named(step.name))
		if err != nil {
			_ = t.Shutdown(ctx)
			return nil, fmt.Errorf("start %s: %w", step.name, err)
		}
		if stop != nil {
			t.stops = append(t.stops, stopFunc{name: step.name, stop: stop})
		}
	}
	return t, nil
}

// Shutdown stops hooks in reverse start order and flushes pending telemetry.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	for i := len(t.stops) - 1; i >= 0; i-- {
		s := t.stops[i]
		if err := s.stop(ctx); err != nil {
			t.logger.Warn("telemetry shutdown failed", "hook", s.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	t.stops = nil
	return errors.Join(errs...)
}

// Running lists the hooks that started, in start order.
func (t *Telemetry) Running() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.stops))
	for _, s := range t.stops {
		names = append(names, s.name)
	}
	return names
}
