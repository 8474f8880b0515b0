package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-stitch/pkg/logging"
	"github.com/dd0wney/cluso-stitch/pkg/stitch"
)

const sampleYAML = `
stitch:
  threshold: 0.5
  precision: 1
  epsilon: 0.001
  heuristic: mip
  select_all_upto: 2
  lookahead: 2
run:
  input_dir: predictions/knapsack/7_40/val
  from: 1000
  to: 1100
  workers: 4
  process_connected: true
output:
  handback_dir: handback
  compress: true
log:
  level: debug
`

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, stitch.ShortestPath, cfg.Stitch.Heuristic)
	assert.Equal(t, 1, cfg.Run.Workers)
	assert.Equal(t, "summary.json", cfg.Output.SummaryFile)
	assert.Equal(t, logging.InfoLevel, cfg.LogLevel())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, stitch.MIP, cfg.Stitch.Heuristic)
	assert.Equal(t, 2, cfg.Stitch.SelectAllUpto)
	assert.Equal(t, 2, cfg.Stitch.Lookahead)
	assert.Equal(t, 1000, cfg.Run.From)
	assert.Equal(t, 1100, cfg.Run.To)
	assert.Equal(t, 4, cfg.Run.Workers)
	assert.True(t, cfg.Run.ProcessConnected)
	assert.True(t, cfg.Output.Compress)
	assert.Equal(t, "summary.json", cfg.Output.SummaryFile, "unset keys keep defaults")
	assert.Equal(t, logging.DebugLevel, cfg.LogLevel())
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "run:\n  worker: 3\n"},
		{"unknown heuristic", "stitch:\n  heuristic: annealing\n"},
		{"zero workers", "run:\n  workers: 0\n"},
		{"inverted range", "run:\n  from: 10\n  to: 5\n"},
		{"negative from", "run:\n  from: -1\n"},
		{"bad threshold", "stitch:\n  threshold: 2\n"},
		{"bad log level", "log:\n  level: verbose\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvHeuristic:        "min_resistance",
		EnvLookahead:        "3",
		EnvThreshold:        "0.6",
		EnvWorkers:          "8",
		EnvTo:               "50",
		EnvProcessConnected: "true",
		EnvLogLevel:         "warn",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, applyEnv(&cfg, lookup))
	assert.Equal(t, stitch.MinResistanceLookahead, cfg.Stitch.Heuristic)
	assert.Equal(t, 3, cfg.Stitch.Lookahead)
	assert.Equal(t, 0.6, cfg.Stitch.Threshold)
	assert.Equal(t, 8, cfg.Run.Workers)
	assert.Equal(t, 50, cfg.Run.To)
	assert.True(t, cfg.Run.ProcessConnected)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyEnvRejectsMalformed(t *testing.T) {
	for key, value := range map[string]string{
		EnvWorkers:   "many",
		EnvEpsilon:   "small",
		EnvCompress:  "maybe",
		EnvHeuristic: "greedy",
	} {
		t.Run(key, func(t *testing.T) {
			cfg := Default()
			err := applyEnv(&cfg, func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			})
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stitch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STITCH_WORKERS=2\nSTITCH_FROM=1010\n"), 0644))

	// the process environment wins over the env file
	t.Setenv(EnvWorkers, "6")
	t.Setenv(EnvFrom, "")
	os.Unsetenv(EnvFrom)

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Run.Workers)
	assert.Equal(t, 1010, cfg.Run.From)
	assert.Equal(t, stitch.MIP, cfg.Stitch.Heuristic)
}

func TestLoadMissingFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	assert.Error(t, err)

	cfg, err := Load("", filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Run.Workers)
}
