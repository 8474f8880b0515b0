package stitch

import (
	"fmt"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
	"github.com/dd0wney/cluso-stitch/pkg/validation"
)

// Config holds the stitching parameters for one run.
type Config struct {
	diagram.Policy `yaml:",inline"`

	// SelectAllUpto force-enables disconnected layers with index <= this
	// bound instead of running Heuristic. Negative disables the shortcut.
	SelectAllUpto int `yaml:"select_all_upto" json:"select_all_upto" validate:"gte=-1"`

	Heuristic Heuristic `yaml:"heuristic" json:"heuristic" validate:"valid"`

	// Lookahead is the window size W of the min-resistance heuristic.
	Lookahead int `yaml:"lookahead" json:"lookahead" validate:"gte=1"`
}

// DefaultConfig returns the default policy, shortest-path stitching and a
// lookahead window of 1.
func DefaultConfig() Config {
	return Config{
		Policy:        diagram.DefaultPolicy(),
		SelectAllUpto: 0,
		Heuristic:     ShortestPath,
		Lookahead:     1,
	}
}

// Validate checks the config with struct tags.
func (c Config) Validate() error {
	if !c.Heuristic.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, ErrUnknownHeuristic, int(c.Heuristic))
	}
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
