package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "chaincomp.toml", `
[engine]
seed = 42
max_rounds = 200

[store]
keep_snapshots = 3

[run]
round_timeout = "90s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 42, cfg.Engine.Seed)
	assert.Equal(t, 200, cfg.Engine.MaxRounds)
	assert.Equal(t, PolicyFail, cfg.Engine.BudgetPolicy, "untouched keys keep defaults")
	assert.Equal(t, 8, cfg.Store.Partitions)
	assert.Equal(t, 3, cfg.Store.KeepSnapshots)
	assert.Equal(t, Duration(90*time.Second), cfg.Run.RoundTimeout)
	assert.Equal(t, 3, cfg.Run.Retries)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "config load failed")

	_, err = Load(writeFile(t, "bad.toml", "[engine\nseed = 1"))
	assert.ErrorContains(t, err, "config parse failed")

	_, err = Load(writeFile(t, "dur.toml", "[run]\nround_timeout = \"soon\""))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, envMap(map[string]string{
		EnvSeed:          "7",
		EnvMaxRounds:     "50",
		EnvBudgetPolicy:  "WARN",
		EnvPartitions:    "3",
		EnvThreads:       "2",
		EnvRoundTimeout:  "1m",
		EnvMetricsFile:   "/tmp/cc.prom",
		EnvLogLevel:      "debug",
		EnvKeepSnapshots: " 4 ",
	}))
	require.NoError(t, err)
	assert.EqualValues(t, 7, cfg.Engine.Seed)
	assert.Equal(t, 50, cfg.Engine.MaxRounds)
	assert.Equal(t, PolicyWarn, cfg.Engine.BudgetPolicy)
	assert.Equal(t, 3, cfg.Store.Partitions)
	assert.Equal(t, 4, cfg.Store.KeepSnapshots)
	assert.Equal(t, 2, cfg.Run.Threads)
	assert.Equal(t, Duration(time.Minute), cfg.Run.RoundTimeout)
	assert.Equal(t, "/tmp/cc.prom", cfg.Run.MetricsFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvCollectsErrors(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, envMap(map[string]string{
		EnvSeed:         "x",
		EnvRetries:      "many",
		EnvRoundTimeout: "later",
		EnvThreads:      "4",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSeed)
	assert.Contains(t, err.Error(), EnvRetries)
	assert.Contains(t, err.Error(), EnvRoundTimeout)
	assert.Equal(t, 4, cfg.Run.Threads, "valid keys still apply")
	assert.Equal(t, 3, cfg.Run.Retries)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Engine.BudgetPolicy = "ignore"
	cfg.Store.Partitions = 0
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget_policy")
	assert.Contains(t, err.Error(), "partitions")
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	t.Setenv(EnvSeed, "1")
	path := writeFile(t, ".env", "CHAINCOMP_SEED=99\nCHAINCOMP_THREADS=5\n")
	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv(EnvThreads) })

	assert.Equal(t, "1", os.Getenv(EnvSeed), "existing variables win")
	assert.Equal(t, "5", os.Getenv(EnvThreads))

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.EqualValues(t, 1, cfg.Engine.Seed)
	assert.Equal(t, 5, cfg.Run.Threads)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
		ok   bool
	}{
		{"", logrus.InfoLevel, true},
		{"WARNING", logrus.WarnLevel, true},
		{" trace ", logrus.TraceLevel, true},
		{"verbose", logrus.InfoLevel, false},
	}
	for _, tc := range tests {
		got, ok := ParseLevel(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}
