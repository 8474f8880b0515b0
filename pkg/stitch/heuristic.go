package stitch

import (
	"fmt"
	"strings"
)

// Heuristic selects how a disconnected layer is repaired.
type Heuristic int

const (
	// ForceEnable switches on every node of the disconnected layer
	ForceEnable Heuristic = iota
	// ShortestPath activates one minimum-resistance root-to-terminal path
	ShortestPath
	// MinResistanceLookahead activates all cheapest bounded-length extensions
	// of the connected frontier
	MinResistanceLookahead
	// MIP activates the optimal node selection of a binary program
	MIP
)

var heuristicNames = map[Heuristic]string{
	ForceEnable:            "force-enable",
	ShortestPath:           "shortest-path",
	MinResistanceLookahead: "min-resistance-lookahead",
	MIP:                    "mip",
}

// aliases accepted by ParseHeuristic besides the canonical names
var heuristicAliases = map[string]Heuristic{
	"force_enable":   ForceEnable,
	"select_all":     ForceEnable,
	"shortest_path":  ShortestPath,
	"sp":             ShortestPath,
	"min_resistance": MinResistanceLookahead,
	"lookahead":      MinResistanceLookahead,
	"milp":           MIP,
}

// String returns the canonical heuristic name
func (h Heuristic) String() string {
	if name, ok := heuristicNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Heuristic(%d)", int(h))
}

// Valid reports whether h is one of the four known heuristics.
func (h Heuristic) Valid() bool {
	_, ok := heuristicNames[h]
	return ok
}

// ParseHeuristic maps a configured name onto a Heuristic. Unknown names are a
// configuration error.
func ParseHeuristic(s string) (Heuristic, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for h, name := range heuristicNames {
		if name == key {
			return h, nil
		}
	}
	if h, ok := heuristicAliases[key]; ok {
		return h, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHeuristic, s)
}

// MarshalText implements encoding.TextMarshaler.
func (h Heuristic) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHeuristic, int(h))
	}
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Heuristic) UnmarshalText(text []byte) error {
	parsed, err := ParseHeuristic(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
