package config

import (
	"fmt"
	"strconv"

	"github.com/dd0wney/cluso-stitch/pkg/stitch"
)

// Environment variables overriding the file configuration
const (
	EnvHeuristic        = "STITCH_HEURISTIC"
	EnvThreshold        = "STITCH_THRESHOLD"
	EnvPrecision        = "STITCH_PRECISION"
	EnvEpsilon          = "STITCH_EPSILON"
	EnvSelectAllUpto    = "STITCH_SELECT_ALL_UPTO"
	EnvLookahead        = "STITCH_LOOKAHEAD"
	EnvInputDir         = "STITCH_INPUT_DIR"
	EnvFrom             = "STITCH_FROM"
	EnvTo               = "STITCH_TO"
	EnvWorkers          = "STITCH_WORKERS"
	EnvProcessConnected = "STITCH_PROCESS_CONNECTED"
	EnvHandbackDir      = "STITCH_HANDBACK_DIR"
	EnvCompress         = "STITCH_COMPRESS"
	EnvSummaryFile      = "STITCH_SUMMARY_FILE"
	EnvMetricsFile      = "STITCH_METRICS_FILE"
	EnvLogLevel         = "LOG_LEVEL"
)

type lookupFunc func(key string) (string, bool)

// applyEnv overlays set variables onto cfg.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		EnvInputDir:    &cfg.Run.InputDir,
		EnvHandbackDir: &cfg.Output.HandbackDir,
		EnvSummaryFile: &cfg.Output.SummaryFile,
		EnvMetricsFile: &cfg.Output.MetricsFile,
		EnvLogLevel:    &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		EnvPrecision:     &cfg.Stitch.Precision,
		EnvSelectAllUpto: &cfg.Stitch.SelectAllUpto,
		EnvLookahead:     &cfg.Stitch.Lookahead,
		EnvFrom:          &cfg.Run.From,
		EnvTo:            &cfg.Run.To,
		EnvWorkers:       &cfg.Run.Workers,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		EnvThreshold: &cfg.Stitch.Threshold,
		EnvEpsilon:   &cfg.Stitch.Epsilon,
	}
	for key, dst := range floats {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}

	bools := map[string]*bool{
		EnvProcessConnected: &cfg.Run.ProcessConnected,
		EnvCompress:         &cfg.Output.Compress,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v, ok := lookup(EnvHeuristic); ok {
		h, err := stitch.ParseHeuristic(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeuristic, err)
		}
		cfg.Stitch.Heuristic = h
	}
	return nil
}
