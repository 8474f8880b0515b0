package stitch

import "github.com/dd0wney/cluso-stitch/pkg/diagram"

// CheckLayer reports whether an activated, root-reachable path reaches layer
// cur, marking every node found to be connected.
//
// With prev == nil (layer 0) every active node is connected, since the root
// is always reachable. Otherwise an active node is connected when one of its
// one-arc parents is active and connected; failing that only the first
// zero-arc parent is inspected.
func CheckLayer(prev, cur diagram.Layer, p diagram.Policy) bool {
	connected := false

	if prev == nil {
		for i := range cur {
			if p.IsActive(cur[i].Pred) {
				cur[i].Connected = true
				connected = true
			}
		}
		return connected
	}

	live := func(idx int) bool {
		parent := &prev[idx]
		return p.IsActive(parent.Pred) && parent.Connected
	}

	for i := range cur {
		node := &cur[i]
		if !p.IsActive(node.Pred) {
			continue
		}

		nodeConnected := false
		for _, idx := range node.OneParents {
			if live(idx) {
				nodeConnected = true
				break
			}
		}

		// First-match: later zero-arc parents are never looked at. Existing
		// result sets depend on this; see DESIGN.md before changing it.
		if !nodeConnected && len(node.ZeroParents) > 0 {
			nodeConnected = live(node.ZeroParents[0])
		}

		if nodeConnected {
			node.Connected = true
			connected = true
		}
	}
	return connected
}
