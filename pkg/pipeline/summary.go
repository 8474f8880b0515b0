package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
	"github.com/dd0wney/cluso-stitch/pkg/stitch"
)

// Record describes one instance handed to the frontier engine.
type Record struct {
	PID             int     `json:"pid"`
	Rank            int     `json:"rank"`
	WasDisconnected bool    `json:"was_disconnected"`
	CountStitching  int     `json:"count_stitching"`
	TimeStitching   float64 `json:"time_stitching"`
	StitchedLayers  []int   `json:"stitched_layers,omitempty"`
	InitialActive   int     `json:"initial_active"`
	ActiveNodes     int     `json:"active_nodes"`
	HandbackStates  int     `json:"handback_states"`
}

// Counts tallies instance outcomes.
type Counts struct {
	Processed int `json:"processed"`
	// Skipped instances were connected and ProcessConnected was off
	Skipped int `json:"skipped"`
	Dropped int `json:"dropped"`
	Missing int `json:"missing"`
}

func (c *Counts) add(o Counts) {
	c.Processed += o.Processed
	c.Skipped += o.Skipped
	c.Dropped += o.Dropped
	c.Missing += o.Missing
}

// Summary is the outcome of one run.
type Summary struct {
	RunID     string               `json:"run_id"`
	Config    stitch.Config        `json:"config"`
	From      int                  `json:"from"`
	To        int                  `json:"to"`
	Workers   int                  `json:"workers"`
	StartedAt time.Time            `json:"started_at"`
	Elapsed   float64              `json:"elapsed_seconds"`
	Counts    Counts               `json:"counts"`
	Records   []Record             `json:"records"`
	Stats     []diagram.LayerStats `json:"layer_stats"`
}

// Disconnected returns the records of instances that needed stitching.
func (s *Summary) Disconnected() []Record {
	var out []Record
	for _, rec := range s.Records {
		if rec.WasDisconnected {
			out = append(out, rec)
		}
	}
	return out
}

// WriteFile stores the summary as indented JSON.
func (s *Summary) WriteFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}
