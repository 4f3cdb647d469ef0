package resilience

import (
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
)

// CircuitBreakerConfig describes one upstream's breaker. Zero numeric fields
// fall back to the defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int

	// Name labels transitions reported to OnStateChange.
	Name          string
	OnStateChange func(name string, from, to CircuitState)
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func (cfg CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// Build returns nil when the breaker is disabled; a nil breaker allows every call.
func (cfg CircuitBreakerConfig) Build() *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	cfg = cfg.withDefaults()

	b := NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq)
	b.name = cfg.Name
	b.onChange = cfg.OnStateChange
	return b
}

// LogStateChanges reports transitions at warn level when a breaker opens and
// at info level otherwise.
func LogStateChanges(logger *logging.Logger) func(name string, from, to CircuitState) {
	if logger == nil {
		logger = logging.Default()
	}
	return func(name string, from, to CircuitState) {
		if to == CircuitStateOpen {
			logger.Warn("circuit breaker opened", "breaker", name, "from", string(from))
			return
		}
		logger.Info("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
	}
}
