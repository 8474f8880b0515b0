package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-stitch/pkg/config"
	"github.com/dd0wney/cluso-stitch/pkg/logging"
	"github.com/dd0wney/cluso-stitch/pkg/stitch"
)

var (
	configPath string
	envFile    string
	logLevel   string
	heuristic  string
)

var rootCmd = &cobra.Command{
	Use:   "stitch",
	Short: "Repair predicted decision diagrams before frontier extraction",
	Long: `stitch checks machine-predicted decision diagrams layer by layer and
restores a root-to-terminal path of active nodes wherever the prediction left
a layer disconnected.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with STITCH_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&heuristic, "heuristic", "", "stitching heuristic (force-enable, shortest-path, min-resistance-lookahead, mip)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}

// loadConfig loads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("heuristic") {
		h, err := stitch.ParseHeuristic(heuristic)
		if err != nil {
			return nil, nil, err
		}
		cfg.Stitch.Heuristic = h
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.NewStderrLogger(cfg.LogLevel()).With(logging.Component("stitch"))
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
