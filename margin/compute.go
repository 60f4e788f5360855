// File: compute.go
// Role: Robustness-margin / Δλ derivation, spec.md §4.4 (A)+(B)+(C) and
// per-task aggregation.
package margin

import (
	"errors"
	"fmt"

	"github.com/IDA-TUBS/TORO/model"
	"github.com/IDA-TUBS/TORO/reachgraph"
)

// Sentinel errors, grouped per spec.md §7.
var (
	// ErrNegativeTheta indicates a computed consumer slack violated its
	// θ(j) >= 0 invariant — an implementation bug, not a data problem.
	ErrNegativeTheta = errors.New("margin: consumer slack computed negative")

	// ErrUnknownTask indicates a chain references a task absent from the
	// supplied catalog or parameter map.
	ErrUnknownTask = errors.New("margin: unknown task referenced by chain")
)

// Result holds the per-task robustness margins (BET tasks), per-task Δλ
// (LET tasks), and the per-job consumer slack θ that fed them, keyed by
// model.Job.Key().
type Result struct {
	Margin      map[string]int64
	DeltaLambda map[string]int64
	Theta       map[string]int64
}

// Compute derives per-task margins and Δλ values for chain, given the
// reachability graph g already built for it (see reachgraph.Build) and the
// chain's computed end-to-end latency maxLatency (see latency.Analyze).
//
// tasks and params must be the same catalog and parameter set g was built
// from; Compute does not re-derive the graph.
func Compute(g *reachgraph.Graph, chain *model.Chain, tasks map[string]*model.Task, params map[string]model.TaskParams, maxLatency int64) (Result, error) {
	result := Result{
		Margin:      make(map[string]int64),
		DeltaLambda: make(map[string]int64),
		Theta:       make(map[string]int64),
	}

	deadline := maxLatency
	if chain.HasDeadline() {
		deadline = *chain.Deadline
	}

	last := len(chain.TaskIDs) - 1
	singleTask := last == 0

	for k, taskID := range chain.TaskIDs {
		task, ok := tasks[taskID]
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
		}
		p, ok := params[taskID]
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
		}

		var marginCandidates, deltaCandidates []int64

		switch task.Semantic {
		case model.BET:
			marginCandidates = append(marginCandidates, task.EffectiveDeadline()-task.Offset-p.WCRT)
		case model.LET:
			if !task.Interconnect {
				if p.WCRTKnown {
					deltaCandidates = append(deltaCandidates, p.LET-p.WCRT)
				}
				deltaCandidates = append(deltaCandidates, task.Period-task.Offset-p.LET)
			}
		}

		if k != last {
			nextID := chain.TaskIDs[k+1]
			nextTask, ok := tasks[nextID]
			if !ok {
				return Result{}, fmt.Errorf("%w: %s", ErrUnknownTask, nextID)
			}
			nextParams := params[nextID]

			for idx := 0; idx < g.NodeCount(); idx++ {
				if g.Layer(idx) != k {
					continue
				}
				if k != 0 && g.InDegree(idx) == 0 {
					// This job never received data from its own producer
					// layer, so it never actually forwards any; it does not
					// contribute a consumer-slack candidate for taskID
					// (original_source analysis_LET_BET.py's "skip nodes
					// that have no predecessor and are no instance of the
					// first task in the cec").
					continue
				}
				job := g.Job(idx)

				theta, err := consumerSlack(g, idx, job, nextTask, nextParams)
				if err != nil {
					return Result{}, err
				}
				if theta < 0 {
					return Result{}, fmt.Errorf("%w: task %s job %d: theta=%d", ErrNegativeTheta, taskID, job.Index, theta)
				}
				result.Theta[job.Key()] = theta

				switch task.Semantic {
				case model.BET:
					marginCandidates = append(marginCandidates, theta)
				case model.LET:
					deltaCandidates = append(deltaCandidates, theta)
				}
			}
		}

		// A single-task chain's margin comes from own-deadline slack only
		// (spec.md §8 "Boundary behavior"): there is no end-to-end path
		// distinct from the task's own tail, so the chain-deadline
		// candidate below does not apply to it.
		if k == last && !singleTask {
			switch task.Semantic {
			case model.BET:
				marginCandidates = append(marginCandidates, deadline-maxLatency)
				if chain.TransitionDeadline != nil {
					marginCandidates = append(marginCandidates, *chain.TransitionDeadline-task.Period-p.WCRT+p.BCRT)
				}
			case model.LET:
				deltaCandidates = append(deltaCandidates, deadline-maxLatency)
			}
		}

		switch task.Semantic {
		case model.BET:
			result.Margin[taskID] = aggregate(marginCandidates)
		case model.LET:
			result.DeltaLambda[taskID] = aggregate(deltaCandidates)
		}
	}

	return result, nil
}

// aggregate drops negative candidates and returns their minimum, or 0 if
// none remain — spec.md §4.4's "Aggregation per task" rule.
func aggregate(candidates []int64) int64 {
	best := int64(0)
	found := false
	for _, c := range candidates {
		if c < 0 {
			continue
		}
		if !found || c < best {
			best = c
			found = true
		}
	}
	if !found {
		return 0
	}
	return best
}

// consumerSlack computes θ(j) per spec.md §4.4(B): the gap between job's
// data-ready point (Dmax) and the next task's job that follows its
// successors. With successors in the graph, that job is the one at the
// highest successor index + 1; without any, it is the first job from
// ⌈(Dmin-φ)/P⌉ on whose Rmin exceeds Dmax. Either way the job is
// instantiated on demand, not taken from the graph.
func consumerSlack(g *reachgraph.Graph, idx int, job model.Job, nextTask *model.Task, nextParams model.TaskParams) (int64, error) {
	maxSuccessorIndex := int64(-1)
	for _, e := range g.Edges(idx) {
		successor := g.Job(e.To)
		if successor.Index > maxSuccessorIndex {
			maxSuccessorIndex = successor.Index
		}
	}

	var next model.Job
	var err error

	if maxSuccessorIndex >= 0 {
		next, err = model.InstantiateJob(nextTask, maxSuccessorIndex+1, nextParams)
		if err != nil {
			return 0, err
		}
	} else {
		ell := ceilDiv(job.Dmin-nextTask.Offset, nextTask.Period)
		n := ell
		if n < 1 {
			n = 1
		}
		for {
			next, err = model.InstantiateJob(nextTask, n, nextParams)
			if err != nil {
				return 0, err
			}
			if next.Rmin > job.Dmax {
				break
			}
			n++
		}
	}

	return next.Rmin - job.Dmax, nil
}

// ceilDiv computes ceil(a/b) for b > 0.
func ceilDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r > 0 {
		q++
	}
	return q
}
