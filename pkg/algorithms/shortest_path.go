package algorithms

import (
	"container/heap"
	"errors"
	"fmt"
)

// Errors returned by WeightedShortestPath
var (
	ErrVertexOutOfRange = errors.New("vertex out of range")
	ErrNegativeWeight   = errors.New("negative edge weight")
)

// Edge is a weighted outgoing edge.
type Edge struct {
	To     int
	Weight float64
}

// WeightedGraph is a directed graph over dense vertex ids 0..NumVertices()-1.
type WeightedGraph interface {
	NumVertices() int
	OutgoingEdges(v int) []Edge
}

// pqItem is a tentative distance for a vertex
type pqItem struct {
	vertex   int
	distance float64
}

// distanceQueue orders by distance, then by vertex id so equal-weight paths
// resolve the same way on every run.
type distanceQueue []pqItem

func (q distanceQueue) Len() int { return len(q) }
func (q distanceQueue) Less(i, j int) bool {
	if q[i].distance != q[j].distance {
		return q[i].distance < q[j].distance
	}
	return q[i].vertex < q[j].vertex
}
func (q distanceQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *distanceQueue) Push(x any)   { *q = append(*q, x.(pqItem)) }
func (q *distanceQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// WeightedShortestPath finds a minimum-weight path using Dijkstra's algorithm.
// Weights must be non-negative. A parent is only replaced on a strictly
// shorter distance, so among tied paths the one discovered first through the
// lowest-id settled vertex wins. Returns a nil path when end is unreachable.
func WeightedShortestPath(graph WeightedGraph, startID, endID int) ([]int, float64, error) {
	n := graph.NumVertices()
	if startID < 0 || startID >= n {
		return nil, 0, fmt.Errorf("%w: start %d of %d", ErrVertexOutOfRange, startID, n)
	}
	if endID < 0 || endID >= n {
		return nil, 0, fmt.Errorf("%w: end %d of %d", ErrVertexOutOfRange, endID, n)
	}

	distances := make(map[int]float64)
	parent := make(map[int]int)
	settled := make(map[int]bool)
	distances[startID] = 0
	parent[startID] = startID

	pq := &distanceQueue{{startID, 0}}

	for pq.Len() > 0 {
		current := heap.Pop(pq).(pqItem)
		if settled[current.vertex] {
			continue
		}
		settled[current.vertex] = true

		// Found target
		if current.vertex == endID {
			path := make([]int, 0)
			node := endID
			for node != startID {
				path = append(path, node)
				node = parent[node]
			}
			path = append(path, startID)

			// Reverse path
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}

			return path, distances[endID], nil
		}

		for _, edge := range graph.OutgoingEdges(current.vertex) {
			if edge.Weight < 0 {
				return nil, 0, fmt.Errorf("%w: %d->%d (%g)", ErrNegativeWeight, current.vertex, edge.To, edge.Weight)
			}
			if settled[edge.To] {
				continue
			}
			newDist := current.distance + edge.Weight

			if oldDist, seen := distances[edge.To]; !seen || newDist < oldDist {
				distances[edge.To] = newDist
				parent[edge.To] = current.vertex
				heap.Push(pq, pqItem{edge.To, newDist})
			}
		}
	}

	return nil, 0, nil // No path found
}
