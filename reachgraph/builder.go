// File: builder.go
// Role: Reachability-graph construction, spec.md §4.2 steps 1–7.
package reachgraph

import (
	"fmt"

	"github.com/IDA-TUBS/TORO/model"
)

// Build instantiates the jobs of chain within its hyperperiod and connects
// them into a reachability graph, following spec.md §4.2 exactly:
//
//  1. H = lcm of the chain's task periods.
//  2. The head task gets exactly H/P(head) jobs.
//  3. Each subsequent task gets jobs up to (but excluding) the first whose
//     Rmin >= Dmax of the previous task's last instantiated job.
//  4. Adjacent tasks are connected by reachability edges (model.Follows),
//     scanning from the lowest plausible consumer index.
//  5. Edges from producers that never received data (non-head, in-degree
//     0) are not added.
//  6. Surviving edges are weighted per the tail(j) rule; edges into a
//     dead-end (zero out-degree, not the tail task) are set to NegInf.
//  7. Root/leaf sets are computed.
//
// tasks must contain every ID in chain.TaskIDs; params must supply the
// effective TaskParams for each of them. Build never mutates either map.
func Build(chain *model.Chain, tasks map[string]*model.Task, params map[string]model.TaskParams) (*Graph, error) {
	if len(chain.TaskIDs) == 0 {
		return nil, ErrShortChain
	}

	resolved := make([]*model.Task, len(chain.TaskIDs))
	for i, id := range chain.TaskIDs {
		t, ok := tasks[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTask, id)
		}
		if _, ok := params[id]; !ok {
			return nil, fmt.Errorf("%w: no params for %s", ErrUnknownTask, id)
		}
		resolved[i] = t
	}

	periods := make([]int64, len(resolved))
	for i, t := range resolved {
		periods[i] = t.Period
	}
	hp, err := model.Hyperperiod(periods)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		taskIDs: append([]string(nil), chain.TaskIDs...),
		index:   make(map[jobKey]int),
	}

	// Steps 2–3: instantiate jobs layer by layer.
	layerJobs := make([][]int, len(resolved)) // arena indices, per layer
	for k, task := range resolved {
		p := params[task.ID]
		if k == 0 {
			count := hp / task.Period
			if count < 1 {
				return nil, fmt.Errorf("%w: %s", ErrNoJobs, task.ID)
			}
			for n := int64(1); n <= count; n++ {
				idx, err := g.addNode(task, n, p, 0)
				if err != nil {
					return nil, err
				}
				layerJobs[0] = append(layerJobs[0], idx)
			}
			continue
		}

		prevLast := g.nodes[layerJobs[k-1][len(layerJobs[k-1])-1]].job
		border := prevLast.Dmax
		n := int64(1)
		for {
			job, err := model.InstantiateJob(task, n, p)
			if err != nil {
				return nil, err
			}
			if job.Rmin >= border {
				break
			}
			idx, err := g.addNode(task, n, p, k)
			if err != nil {
				return nil, err
			}
			layerJobs[k] = append(layerJobs[k], idx)
			n++
		}
		if len(layerJobs[k]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoJobs, task.ID)
		}
	}

	g.adj = make([][]edge, len(g.nodes))
	g.indeg = make([]int, len(g.nodes))

	// Step 4–5: add reachability edges between adjacent layers, pruning
	// edges from producers that never received data.
	for k := 0; k < len(resolved)-1; k++ {
		consumerTask := resolved[k+1]
		consumers := layerJobs[k+1]

		for _, pIdx := range layerJobs[k] {
			producer := g.nodes[pIdx].job
			isHead := k == 0

			if !isHead && g.indeg[pIdx] == 0 {
				// Producer never received data; it cannot forward any.
				continue
			}

			// ell is the lowest plausible consumer job number minus one
			// (spec.md §4.2 step 4); the scan starts at job number
			// max(1, ell), i.e. 0-based arena index max(0, ell-1).
			ell := ceilDiv(producer.Dmin-consumerTask.Offset, consumerTask.Period) - 1
			lo := ell - 1
			if lo < 0 {
				lo = 0
			}

			for ci := lo; ci < int64(len(consumers)); ci++ {
				cIdx := consumers[ci]
				consumer := g.nodes[cIdx].job
				if consumer.Rmin >= producer.Dmax {
					break
				}
				if model.Follows(producer, consumer) {
					g.adj[pIdx] = append(g.adj[pIdx], edge{to: cIdx})
					g.indeg[cIdx]++
				}
			}
		}
	}

	// Step 6: weight every surviving edge now that out-degree is final.
	g.outdeg = make([]int, len(g.nodes))
	for n := range g.adj {
		g.outdeg[n] = len(g.adj[n])
	}

	tailTaskID := resolved[len(resolved)-1].ID
	for pIdx, edges := range g.adj {
		producerLayer := g.nodes[pIdx].layer
		producer := g.nodes[pIdx].job
		producerParams := params[producer.TaskID]
		isHead := producerLayer == 0

		for i := range edges {
			cIdx := edges[i].to
			consumer := g.nodes[cIdx].job
			consumerParams := params[consumer.TaskID]

			if g.outdeg[cIdx] == 0 && consumer.TaskID != tailTaskID {
				g.adj[pIdx][i].weight = NegInf
				continue
			}

			consumerTail := consumerParams.Tail(consumer.Semantic)
			if isHead {
				g.adj[pIdx][i].weight = (consumer.Rmin + consumerTail) - producer.Rmin
			} else {
				producerTail := producerParams.Tail(producer.Semantic)
				g.adj[pIdx][i].weight = (consumer.Rmin + consumerTail) - (producer.Rmin + producerTail)
			}
		}
	}

	// Step 7: roots and leaves. A single-task chain has no edges by
	// construction (the step 4-6 loop above never runs when there is only
	// one layer) — spec.md §8's boundary behavior makes every instantiated
	// job both root and leaf in that case, rather than subjecting it to the
	// degree filters meant for a multi-task chain's connecting edges.
	if len(resolved) == 1 {
		g.roots = append([]int(nil), layerJobs[0]...)
		g.leaves = append([]int(nil), layerJobs[0]...)
		task := resolved[0]
		g.selfTail = params[task.ID].Tail(task.Semantic)
	} else {
		for _, idx := range layerJobs[0] {
			if g.indeg[idx] == 0 && g.outdeg[idx] > 0 {
				g.roots = append(g.roots, idx)
			}
		}
		lastLayer := layerJobs[len(layerJobs)-1]
		for _, idx := range lastLayer {
			if g.outdeg[idx] == 0 && g.indeg[idx] > 0 {
				g.leaves = append(g.leaves, idx)
			}
		}
	}

	if len(g.roots) == 0 || len(g.leaves) == 0 {
		return nil, ErrInfeasible
	}

	return g, nil
}

// addNode instantiates job n of task (with params p) and stores it in the
// arena at the given chain layer, returning its arena index.
func (g *Graph) addNode(task *model.Task, n int64, p model.TaskParams, layer int) (int, error) {
	job, err := model.InstantiateJob(task, n, p)
	if err != nil {
		return 0, err
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, node{job: job, layer: layer})
	g.index[jobKey{task.ID, n}] = idx
	return idx, nil
}

// ceilDiv computes ceil(a/b) for b > 0, matching spec.md §4.2's
// ⌈(Dmin(p) − φ(τ_{k+1})) / P(τ_{k+1})⌉. Go's integer division truncates
// toward zero, which is already the ceiling for a < 0 and only needs a +1
// correction when a > 0 and the division isn't exact.
func ceilDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r > 0 {
		q++
	}
	return q
}
