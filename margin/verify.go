// File: verify.go
// Role: Verification-mode re-run, spec.md §4.4 "Verification mode".
package margin

import (
	"github.com/IDA-TUBS/TORO/latency"
	"github.com/IDA-TUBS/TORO/model"
	"github.com/IDA-TUBS/TORO/reachgraph"
)

// Verify re-runs reachgraph.Build and latency.Analyze with WCRT/LET
// inflated by the given margins/Δλ, confirming the inflated chain still
// meets its deadline. It never mutates params; it builds a fresh copy.
//
// If chain declares no end-to-end deadline, Verify first computes the
// baseline (uninflated) latency and uses it as Δ, matching the fallback
// margin.Compute applies.
func Verify(chain *model.Chain, tasks map[string]*model.Task, params map[string]model.TaskParams, margins, deltaLambdas map[string]int64) (ok bool, newLatency int64, err error) {
	deadline, err := effectiveDeadline(chain, tasks, params)
	if err != nil {
		return false, 0, err
	}

	inflated := make(map[string]model.TaskParams, len(params))
	for id, p := range params {
		task := tasks[id]
		switch task.Semantic {
		case model.BET:
			p.WCRT += margins[id]
		case model.LET:
			p.LET += deltaLambdas[id]
		}
		inflated[id] = p
	}

	g, err := reachgraph.Build(chain, tasks, inflated)
	if err != nil {
		return false, 0, err
	}
	result, err := latency.Analyze(g)
	if err != nil {
		return false, 0, err
	}

	return result.Latency <= deadline, result.Latency, nil
}

// effectiveDeadline returns chain's declared Δ, or its baseline (uninflated)
// latency when none was declared.
func effectiveDeadline(chain *model.Chain, tasks map[string]*model.Task, params map[string]model.TaskParams) (int64, error) {
	if chain.HasDeadline() {
		return *chain.Deadline, nil
	}

	g, err := reachgraph.Build(chain, tasks, params)
	if err != nil {
		return 0, err
	}
	result, err := latency.Analyze(g)
	if err != nil {
		return 0, err
	}

	return result.Latency, nil
}
