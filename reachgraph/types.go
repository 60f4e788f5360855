// Package reachgraph builds the reachability graph of spec.md §4.2: an
// arena of job nodes, one per instantiated Job, connected by signed-weight
// edges that say "consumer may read data the producer wrote".
//
// Unlike a general-purpose graph library, this is not meant to host
// arbitrary graphs. Design Notes §9 of the specification explicitly directs
// away from a generic graph-library abstraction for this structure: the
// graph is built once per chain analysis, is read-only afterward, and its
// only consumers (latency, margin) need node/edge/degree lookups — nothing
// a hash-map-of-maps adjacency list buys over a small integer-indexed arena.
//
// Nodes are addressed by small integers (their arena index); identity
// lookup by (task ID, job index) goes through a map, filled at
// construction time and read by Lookup. There is no locking: a Graph is built by a single goroutine and
// then treated as immutable (spec.md §5).
package reachgraph

import (
	"errors"

	"github.com/IDA-TUBS/TORO/model"
)

// NegInf represents the "-∞" edge weight of spec.md §4.2 step 6: an edge
// that must never contribute to a longest path because its consumer is a
// dead end. math.MinInt64/4 leaves headroom for summation along a path
// without overflowing int64.
const NegInf int64 = -1 << 61

// Sentinel errors, grouped per spec.md §7.
var (
	// ErrNoJobs indicates a chain task produced zero instantiated jobs.
	ErrNoJobs = errors.New("reachgraph: task has no instantiated jobs")

	// ErrInfeasible indicates the root or leaf set is empty after pruning —
	// the chain has no root-to-leaf data path within the hyperperiod.
	ErrInfeasible = errors.New("reachgraph: chain is infeasible (no root-to-leaf path)")

	// ErrShortChain indicates a chain has fewer than one task.
	ErrShortChain = errors.New("reachgraph: chain must name at least one task")

	// ErrUnknownTask indicates a chain references a task ID absent from the
	// supplied task catalog or parameter map.
	ErrUnknownTask = errors.New("reachgraph: unknown task referenced by chain")
)

// edge is a directed, weighted connection from one arena node to another.
// Weight may be NegInf (spec.md §4.2 step 6, dead-end pruning).
type edge struct {
	to     int
	weight int64
}

// node is a single arena entry: a job's identity/intervals plus its
// position in the chain (layer), needed by latency's topological pass.
type node struct {
	job   model.Job
	layer int // index into Graph.taskIDs; 0 == head task
}

// jobKey identifies a job by (task ID, job index), matching model.Job.Key.
type jobKey struct {
	taskID string
	index  int64
}

// Graph is the reachability graph built by Build. It owns all node storage;
// callers address nodes by the small integers returned from lookups.
type Graph struct {
	taskIDs []string // chain order, head..tail

	nodes []node
	index map[jobKey]int

	adj    [][]edge // adj[n] = outgoing edges from node n
	indeg  []int    // in-degree of node n
	outdeg []int    // out-degree of node n (counts every edge, NegInf-weighted ones included)

	roots  []int // jobs of the head task with in-degree 0 and >=1 successor
	leaves []int // jobs of the tail task with out-degree 0 and >=1 predecessor

	selfTail int64 // tail(task) for a single-task chain; meaningless otherwise
}

// NodeCount returns the number of instantiated job nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// TaskCount returns the number of tasks in the chain g was built from.
// latency.Analyze uses this to recognize spec.md §8's single-task boundary
// case, which has no edges by construction.
func (g *Graph) TaskCount() int { return len(g.taskIDs) }

// Job returns the job stored at arena index n.
func (g *Graph) Job(n int) model.Job { return g.nodes[n].job }

// Layer returns n's position in the chain (0 == head task, len-1 == tail).
func (g *Graph) Layer(n int) int { return g.nodes[n].layer }

// Edges returns the outgoing edges of node n. Callers must not mutate the
// returned slice.
func (g *Graph) Edges(n int) []edgeView {
	out := make([]edgeView, len(g.adj[n]))
	for i, e := range g.adj[n] {
		out[i] = edgeView{To: e.to, Weight: e.weight}
	}
	return out
}

// edgeView is the exported read of an internal edge.
type edgeView struct {
	To     int
	Weight int64
}

// InDegree returns the number of incoming edges at node n.
func (g *Graph) InDegree(n int) int { return g.indeg[n] }

// OutDegree returns the number of outgoing edges at node n.
func (g *Graph) OutDegree(n int) int { return g.outdeg[n] }

// Roots returns the arena indices of the head task's root jobs (in-degree
// 0, at least one successor).
func (g *Graph) Roots() []int { return g.roots }

// Leaves returns the arena indices of the tail task's leaf jobs (out-degree
// 0, at least one predecessor).
func (g *Graph) Leaves() []int { return g.leaves }

// SelfTail returns tail(task) — WCRT for BET, LET for LET — for a
// single-task chain (TaskCount() == 1). It is the end-to-end latency of
// such a chain, which has no edges to derive one from (spec.md §8
// "Boundary behavior"). The result is meaningless when TaskCount() != 1.
func (g *Graph) SelfTail() int64 { return g.selfTail }

// Lookup finds the arena index of the job identified by (taskID, index), if
// it was instantiated during Build.
func (g *Graph) Lookup(taskID string, index int64) (int, bool) {
	n, ok := g.index[jobKey{taskID, index}]
	return n, ok
}
