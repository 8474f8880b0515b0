package diagram

import "math"

// Default activation parameters
const (
	DefaultThreshold = 0.5
	DefaultPrecision = 1
	DefaultEpsilon   = 0.001
)

// Policy decides when a prediction counts as active and how a node is
// force-activated.
type Policy struct {
	// Threshold is compared against the rounded prediction
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gt=0,lte=1"`
	// Precision is the number of decimal digits kept before comparing
	Precision int `yaml:"precision" json:"precision" validate:"gte=0,lte=15"`
	// Epsilon is added to Threshold when a node is switched on
	Epsilon float64 `yaml:"epsilon" json:"epsilon" validate:"gt=0"`
}

// DefaultPolicy returns threshold 0.5, one decimal digit, bump epsilon 0.001.
func DefaultPolicy() Policy {
	return Policy{
		Threshold: DefaultThreshold,
		Precision: DefaultPrecision,
		Epsilon:   DefaultEpsilon,
	}
}

// Round rounds pred to Precision decimal digits, ties to even.
func (p Policy) Round(pred float64) float64 {
	scale := math.Pow(10, float64(p.Precision))
	return math.RoundToEven(pred*scale) / scale
}

// IsActive reports whether the rounded prediction reaches the threshold.
func (p Policy) IsActive(pred float64) bool {
	return p.Round(pred) >= p.Threshold
}

// Resistance is the cost of force-activating a node with prediction pred:
// max(0, threshold - pred).
func (p Policy) Resistance(pred float64) float64 {
	return math.Max(0, p.Threshold-pred)
}

// Activate switches n on by raising its prediction just above the threshold
// and recording the previous value. It is a no-op for active nodes and
// reports whether the node changed.
func (p Policy) Activate(n *Node) bool {
	if p.IsActive(n.Pred) {
		return false
	}
	prev := n.Pred
	n.PrevPred = &prev
	n.Pred = p.Threshold + p.Epsilon
	return true
}
