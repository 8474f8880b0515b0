// Package config loads run settings from YAML, an optional .env file and
// STITCH_* environment variables, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-stitch/pkg/logging"
	"github.com/dd0wney/cluso-stitch/pkg/stitch"
	"github.com/dd0wney/cluso-stitch/pkg/validation"
)

// Config is the full configuration of a batch run.
type Config struct {
	Stitch stitch.Config `yaml:"stitch" json:"stitch"`
	Run    RunConfig     `yaml:"run" json:"run"`
	Output OutputConfig  `yaml:"output" json:"output"`
	Log    LogConfig     `yaml:"log" json:"log"`
}

// RunConfig selects the instances and workers.
type RunConfig struct {
	// InputDir holds one predicted diagram document per instance, <pid>.json
	InputDir string `yaml:"input_dir" json:"input_dir"`
	From     int    `yaml:"from" json:"from" validate:"gte=0"`
	To       int    `yaml:"to" json:"to" validate:"gtefield=From"`
	Workers  int    `yaml:"workers" json:"workers" validate:"gte=1,lte=1024"`
	// ProcessConnected hands over instances that never needed stitching
	ProcessConnected bool `yaml:"process_connected" json:"process_connected"`
}

// OutputConfig says where results go. Empty paths disable an output.
type OutputConfig struct {
	HandbackDir string `yaml:"handback_dir" json:"handback_dir"`
	Compress    bool   `yaml:"compress" json:"compress"`
	SummaryFile string `yaml:"summary_file" json:"summary_file"`
	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// Default returns a single-worker run with default stitching parameters.
func Default() Config {
	return Config{
		Stitch: stitch.DefaultConfig(),
		Run:    RunConfig{Workers: 1},
		Output: OutputConfig{SummaryFile: "summary.json"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path is an optional YAML file; envFile an
// optional dotenv file whose variables do not override the process
// environment. A missing envFile is ignored.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config %s: %w", path, err)
		}
		defer f.Close()
		if err := decodeYAML(f, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes a YAML document over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := decodeYAML(bytes.NewReader(data), &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Stitch.Validate(); err != nil {
		return err
	}
	if err := validation.Struct(c.Run); err != nil {
		return fmt.Errorf("invalid run config: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level. Validate has already rejected bad
// names, so failures fall back to info.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
