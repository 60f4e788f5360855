// File: analyze.go
// Role: Longest-path relaxation over a reachgraph.Graph, spec.md §4.3.
package latency

import (
	"math"

	"github.com/IDA-TUBS/TORO/reachgraph"
)

// unreached marks a node latency has not yet derived any path to. It sits
// well above int64's minimum so that summing a few NegInf edge weights
// (reachgraph.NegInf) into it can never wrap around.
const unreached = math.MinInt64 / 4

// Analyze computes the maximum end-to-end latency of g: the heaviest
// weighted path from any root job to any leaf job, per spec.md §4.3's
// Design Notes-resolved choice of direct O(V+E) relaxation in topological
// order over Bellman-Ford on negated weights.
//
// Edges weighted reachgraph.NegInf (dead-end pruning) never relax a node;
// a graph whose roots cannot reach any leaf after pruning reports
// ErrNoPath. A graph violating the layered-DAG invariant Build guarantees
// reports ErrCycleDetected.
func Analyze(g *reachgraph.Graph) (Result, error) {
	if g == nil {
		return Result{}, ErrGraphNil
	}

	if g.TaskCount() == 1 {
		return analyzeSingleTask(g)
	}

	order, err := topoOrder(g)
	if err != nil {
		return Result{}, err
	}

	n := g.NodeCount()
	dist := make([]int64, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = unreached
		prev[i] = -1
	}
	for _, r := range g.Roots() {
		dist[r] = 0
	}

	for _, u := range order {
		if dist[u] == unreached {
			continue
		}
		for _, e := range g.Edges(u) {
			if e.Weight == reachgraph.NegInf {
				continue
			}
			cand := dist[u] + e.Weight
			if cand > dist[e.To] {
				dist[e.To] = cand
				prev[e.To] = u
			}
		}
	}

	best := -1
	var bestLatency int64 = unreached
	for _, l := range g.Leaves() {
		if dist[l] > bestLatency {
			bestLatency = dist[l]
			best = l
		}
	}
	if best == -1 || bestLatency == unreached {
		return Result{}, ErrNoPath
	}

	path := []int{best}
	for cur := best; prev[cur] != -1; cur = prev[cur] {
		path = append(path, prev[cur])
	}
	reverseInts(path)

	return Result{Latency: bestLatency, Path: path}, nil
}

// analyzeSingleTask handles spec.md §8's boundary behavior directly: a
// one-task chain has no edges, so the general root-to-leaf relaxation in
// Analyze would see every node start and end at distance 0. Its end-to-end latency
// is instead the task's own tail (reachgraph.Graph.SelfTail: WCRT for BET,
// LET for LET), the same for every instantiated job of the task. Any one
// job (the first root) is therefore a representative witness for Path.
func analyzeSingleTask(g *reachgraph.Graph) (Result, error) {
	roots := g.Roots()
	if len(roots) == 0 {
		return Result{}, ErrNoPath
	}
	return Result{Latency: g.SelfTail(), Path: []int{roots[0]}}, nil
}

func reverseInts(p []int) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// topoOrder derives a topological ordering of g's nodes via iterative
// three-color DFS, returning ErrCycleDetected on a Gray→Gray back-edge.
func topoOrder(g *reachgraph.Graph) ([]int, error) {
	n := g.NodeCount()
	state := make([]int, n)
	order := make([]int, 0, n)

	type frame struct {
		node int
		next int
	}

	for start := 0; start < n; start++ {
		if state[start] != white {
			continue
		}

		stack := []frame{{node: start}}
		state[start] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := g.Edges(top.node)

			if top.next >= len(edges) {
				state[top.node] = black
				order = append(order, top.node)
				stack = stack[:len(stack)-1]
				continue
			}

			e := edges[top.next]
			top.next++

			switch state[e.To] {
			case white:
				state[e.To] = gray
				stack = append(stack, frame{node: e.To})
			case gray:
				return nil, ErrCycleDetected
			case black:
				// already fully explored, nothing to do
			}
		}
	}

	reverseInts(order)

	return order, nil
}
