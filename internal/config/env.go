package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

const (
	EnvSeed          = "CHAINCOMP_SEED"
	EnvMaxRounds     = "CHAINCOMP_MAX_ROUNDS"
	EnvBudgetPolicy  = "CHAINCOMP_BUDGET_POLICY"
	EnvPartitions    = "CHAINCOMP_PARTITIONS"
	EnvKeepSnapshots = "CHAINCOMP_KEEP_SNAPSHOTS"
	EnvThreads       = "CHAINCOMP_THREADS"
	EnvRoundTimeout  = "CHAINCOMP_ROUND_TIMEOUT"
	EnvRetries       = "CHAINCOMP_RETRIES"
	EnvMetricsFile   = "CHAINCOMP_METRICS_FILE"
	EnvLogLevel      = "CHAINCOMP_LOG_LEVEL"
)

// ApplyEnv overlays every CHAINCOMP_* variable that getenv reports as set.
// Malformed values are collected and returned together.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	var errs *multierror.Error
	setInt := func(key string, dst *int) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = v
	}

	if raw := strings.TrimSpace(getenv(EnvSeed)); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			cfg.Engine.Seed = v
		}
	}
	setInt(EnvMaxRounds, &cfg.Engine.MaxRounds)
	if raw := strings.TrimSpace(getenv(EnvBudgetPolicy)); raw != "" {
		cfg.Engine.BudgetPolicy = strings.ToLower(raw)
	}
	setInt(EnvPartitions, &cfg.Store.Partitions)
	setInt(EnvKeepSnapshots, &cfg.Store.KeepSnapshots)
	setInt(EnvThreads, &cfg.Run.Threads)
	if raw := strings.TrimSpace(getenv(EnvRoundTimeout)); raw != "" {
		v, err := time.ParseDuration(raw)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", EnvRoundTimeout, err))
		} else {
			cfg.Run.RoundTimeout = Duration(v)
		}
	}
	setInt(EnvRetries, &cfg.Run.Retries)
	if raw := strings.TrimSpace(getenv(EnvMetricsFile)); raw != "" {
		cfg.Run.MetricsFile = raw
	}
	if raw := strings.TrimSpace(getenv(EnvLogLevel)); raw != "" {
		cfg.Log.Level = raw
	}
	return errs.ErrorOrNil()
}

// ParseLevel maps a level name onto logrus, accepting the usual aliases.
func ParseLevel(raw string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return logrus.TraceLevel, true
	case "debug":
		return logrus.DebugLevel, true
	case "", "info":
		return logrus.InfoLevel, true
	case "warn", "warning":
		return logrus.WarnLevel, true
	case "error":
		return logrus.ErrorLevel, true
	case "fatal":
		return logrus.FatalLevel, true
	case "panic":
		return logrus.PanicLevel, true
	}
	return logrus.InfoLevel, false
}
