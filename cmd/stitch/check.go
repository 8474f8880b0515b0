package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
	"github.com/dd0wney/cluso-stitch/pkg/handback"
	"github.com/dd0wney/cluso-stitch/pkg/pipeline"
	"github.com/dd0wney/cluso-stitch/pkg/stitch"
)

var checkFlags struct {
	output        string
	selectAllUpto int
	lookahead     int
}

// checkReport is printed by the check command.
type checkReport struct {
	Path            string           `json:"path"`
	Layers          int              `json:"layers"`
	Nodes           int              `json:"nodes"`
	InitialActive   int              `json:"initial_active"`
	ActiveNodes     int              `json:"active_nodes"`
	Stitched        bool             `json:"stitched"`
	WasDisconnected bool             `json:"was_disconnected"`
	CountStitching  int              `json:"count_stitching"`
	TimeStitching   float64          `json:"time_stitching"`
	Outcomes        []stitch.Outcome `json:"outcomes,omitempty"`
	HandbackStates  int              `json:"handback_states"`
	Error           string           `json:"error,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check <diagram.json>",
	Short: "Stitch a single predicted diagram and report what changed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("select-all-upto") {
			cfg.Stitch.SelectAllUpto = checkFlags.selectAllUpto
		}
		if cmd.Flags().Changed("lookahead") {
			cfg.Stitch.Lookahead = checkFlags.lookahead
		}

		s, err := stitch.New(cfg.Stitch, stitch.WithLogger(logger))
		if err != nil {
			return err
		}

		d, err := pipeline.LoadFile(args[0])
		if err != nil {
			return err
		}

		report := checkReport{
			Path:          args[0],
			Layers:        d.NumLayers(),
			Nodes:         d.NumNodes(),
			InitialActive: d.ActiveCount(cfg.Stitch.Policy),
		}
		res, runErr := s.Run(d)
		report.Stitched = res.Stitched
		report.WasDisconnected = res.WasDisconnected
		report.CountStitching = res.Count
		report.TimeStitching = res.Elapsed.Seconds()
		report.Outcomes = res.Outcomes
		report.ActiveNodes = d.ActiveCount(cfg.Stitch.Policy)
		report.HandbackStates = handback.Build(d, cfg.Stitch.Policy).NumStates()
		if runErr != nil {
			report.Error = runErr.Error()
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}

		if runErr == nil && checkFlags.output != "" {
			if err := writeDiagram(checkFlags.output, d); err != nil {
				return err
			}
		}
		if runErr != nil {
			return errors.New("instance would be dropped")
		}
		return nil
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVarP(&checkFlags.output, "output", "o", "", "write the stitched diagram document here")
	f.IntVar(&checkFlags.selectAllUpto, "select-all-upto", 0, "force-enable disconnected layers up to this index (-1 disables)")
	f.IntVar(&checkFlags.lookahead, "lookahead", 1, "lookahead window")
}

func writeDiagram(path string, d *diagram.Diagram) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := diagram.Encode(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
