package diagram

// LayerStats is the confusion matrix of predictions against labels for one
// layer.
type LayerStats struct {
	Layer int `json:"layer"`
	TP    int `json:"tp"`
	FP    int `json:"fp"`
	TN    int `json:"tn"`
	FN    int `json:"fn"`
}

// Add accumulates o into s. Layer is left untouched.
func (s *LayerStats) Add(o LayerStats) {
	s.TP += o.TP
	s.FP += o.FP
	s.TN += o.TN
	s.FN += o.FN
}

// PredictionStats scores every layer's predictions under p against the
// node labels.
func (d *Diagram) PredictionStats(p Policy) []LayerStats {
	out := make([]LayerStats, len(d.Layers))
	for l, layer := range d.Layers {
		s := LayerStats{Layer: l}
		for _, n := range layer {
			predicted := p.IsActive(n.Pred)
			actual := n.Label == 1
			switch {
			case predicted && actual:
				s.TP++
			case predicted && !actual:
				s.FP++
			case !predicted && !actual:
				s.TN++
			default:
				s.FN++
			}
		}
		out[l] = s
	}
	return out
}

// MergeStats sums per-layer stats into acc, growing it when needed.
func MergeStats(acc, stats []LayerStats) []LayerStats {
	for len(acc) < len(stats) {
		acc = append(acc, LayerStats{Layer: len(acc)})
	}
	for l, s := range stats {
		acc[l].Add(s)
	}
	return acc
}

// ActiveCount counts nodes active under p.
func (d *Diagram) ActiveCount(p Policy) int {
	n := 0
	for _, layer := range d.Layers {
		for _, node := range layer {
			if p.IsActive(node.Pred) {
				n++
			}
		}
	}
	return n
}
