package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-stitch/pkg/config"
	"github.com/dd0wney/cluso-stitch/pkg/handback"
	"github.com/dd0wney/cluso-stitch/pkg/logging"
	"github.com/dd0wney/cluso-stitch/pkg/metrics"
	"github.com/dd0wney/cluso-stitch/pkg/pipeline"
	"github.com/dd0wney/cluso-stitch/pkg/stitch"
)

var runFlags struct {
	input            string
	from             int
	to               int
	workers          int
	processConnected bool
	handbackDir      string
	compress         bool
	summary          string
	metricsFile      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stitch every instance of a pid range",
	Long: `run loads <input>/<pid>.json for every pid in [from, to), stitches
disconnected diagrams with the configured heuristic and writes one handback
document per processed instance plus a run summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyRunFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.Run.InputDir == "" {
			return fmt.Errorf("no input directory: set run.input_dir, %s or --input", config.EnvInputDir)
		}
		return runBatch(cmd, cfg, logger)
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.input, "input", "i", "", "directory of predicted diagram documents")
	f.IntVar(&runFlags.from, "from", 0, "first pid (inclusive)")
	f.IntVar(&runFlags.to, "to", 0, "last pid (exclusive)")
	f.IntVarP(&runFlags.workers, "workers", "w", 1, "number of workers")
	f.BoolVar(&runFlags.processConnected, "process-connected", false, "also hand back instances that needed no stitching")
	f.StringVar(&runFlags.handbackDir, "handback-dir", "", "directory for handback documents")
	f.BoolVar(&runFlags.compress, "compress", false, "snappy-compress handback documents")
	f.StringVar(&runFlags.summary, "summary", "", "summary JSON file")
	f.StringVar(&runFlags.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format on exit")
}

// applyRunFlags lets explicitly set flags win over file and environment.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.Run.InputDir = runFlags.input
	}
	if f.Changed("from") {
		cfg.Run.From = runFlags.from
	}
	if f.Changed("to") {
		cfg.Run.To = runFlags.to
	}
	if f.Changed("workers") {
		cfg.Run.Workers = runFlags.workers
	}
	if f.Changed("process-connected") {
		cfg.Run.ProcessConnected = runFlags.processConnected
	}
	if f.Changed("handback-dir") {
		cfg.Output.HandbackDir = runFlags.handbackDir
	}
	if f.Changed("compress") {
		cfg.Output.Compress = runFlags.compress
	}
	if f.Changed("summary") {
		cfg.Output.SummaryFile = runFlags.summary
	}
	if f.Changed("metrics-file") {
		cfg.Output.MetricsFile = runFlags.metricsFile
	}
}

func runBatch(cmd *cobra.Command, cfg *config.Config, logger logging.Logger) error {
	reg := metrics.DefaultRegistry()

	s, err := stitch.New(cfg.Stitch,
		stitch.WithLogger(logger),
		stitch.WithMetrics(reg))
	if err != nil {
		return err
	}

	var engine pipeline.FrontierEngine
	if cfg.Output.HandbackDir != "" {
		w, err := handback.NewWriter(cfg.Output.HandbackDir, cfg.Output.Compress)
		if err != nil {
			return err
		}
		engine = pipeline.HandbackEngine{Writer: w}
	}

	runner, err := pipeline.NewRunner(s, pipeline.NewFileSource(cfg.Run.InputDir), engine,
		pipeline.Options{
			From:             cfg.Run.From,
			To:               cfg.Run.To,
			Workers:          cfg.Run.Workers,
			ProcessConnected: cfg.Run.ProcessConnected,
		},
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(reg))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx)
	if cfg.Output.MetricsFile != "" {
		if merr := reg.WriteTextfile(cfg.Output.MetricsFile); merr != nil {
			logger.Warn("failed to write metrics", logging.Path(cfg.Output.MetricsFile), logging.Error(merr))
		}
	}
	if err != nil {
		return err
	}

	if cfg.Output.SummaryFile != "" {
		if err := summary.WriteFile(cfg.Output.SummaryFile); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: processed %d, skipped %d, dropped %d, missing %d\n",
		summary.RunID,
		summary.Counts.Processed,
		summary.Counts.Skipped,
		summary.Counts.Dropped,
		summary.Counts.Missing)
	return nil
}
