package diagram

import (
	"encoding/json"
	"fmt"
	"io"
)

// nodeDoc is the on-disk shape written by the score model: a JSON array of
// layers, each an array of nodes.
type nodeDoc struct {
	Pred        float64  `json:"pred"`
	Label       int      `json:"l"`
	OneParents  []int    `json:"op"`
	ZeroParents []int    `json:"zp"`
	State       []int64  `json:"s"`
	Connected   bool     `json:"conn,omitempty"`
	PrevPred    *float64 `json:"prev_pred,omitempty"`
}

// Decode reads a predicted diagram document and validates its parent links.
func Decode(r io.Reader) (*Diagram, error) {
	var doc [][]nodeDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode diagram: %w", err)
	}

	d := &Diagram{Layers: make([]Layer, len(doc))}
	for l, layerDoc := range doc {
		layer := make(Layer, len(layerDoc))
		for i, nd := range layerDoc {
			layer[i] = Node{
				Pred:        nd.Pred,
				Label:       nd.Label,
				OneParents:  nd.OneParents,
				ZeroParents: nd.ZeroParents,
				State:       nd.State,
				Connected:   nd.Connected,
				PrevPred:    nd.PrevPred,
			}
		}
		d.Layers[l] = layer
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Encode writes d in the same document shape Decode reads, including the
// connected markers and previous predictions set during stitching.
func Encode(w io.Writer, d *Diagram) error {
	doc := make([][]nodeDoc, len(d.Layers))
	for l, layer := range d.Layers {
		layerDoc := make([]nodeDoc, len(layer))
		for i, n := range layer {
			layerDoc[i] = nodeDoc{
				Pred:        n.Pred,
				Label:       n.Label,
				OneParents:  n.OneParents,
				ZeroParents: n.ZeroParents,
				State:       n.State,
				Connected:   n.Connected,
				PrevPred:    n.PrevPred,
			}
		}
		doc[l] = layerDoc
	}
	return json.NewEncoder(w).Encode(doc)
}
