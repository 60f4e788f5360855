// Package toro is the public facade composing model, reachgraph, latency,
// and margin into the single entry point a caller needs: analyze one
// cause-effect chain, or verify a previously computed margin set.
//
// toro carries no analytical content of its own — every number it returns
// comes from the packages it wires together. It exists so callers (a CLI, a
// batch driver iterating many chains) depend on one stable contract instead
// of the internal pipeline shape.
package toro

import (
	"github.com/IDA-TUBS/TORO/latency"
	"github.com/IDA-TUBS/TORO/margin"
	"github.com/IDA-TUBS/TORO/model"
	"github.com/IDA-TUBS/TORO/reachgraph"
)

// Result is the complete analysis outcome for one chain.
type Result struct {
	Latency            int64
	PerTaskMargin      map[string]int64
	PerTaskDeltaLambda map[string]int64
	PerJobSlack        map[string]int64 // keyed by "taskID#index"
}

// AnalyzeChain runs the full pipeline for chain: builds its reachability
// graph, finds the maximum end-to-end latency, and derives per-task
// robustness margins and Δλ values.
//
// tasks must contain every task ID chain names; params must supply the
// effective TaskParams for each of them (see model.TaskParams for what
// "effective" means — oracle-supplied, or inflated for a verification
// re-run via VerifyMargins).
func AnalyzeChain(chain *model.Chain, tasks map[string]*model.Task, params map[string]model.TaskParams) (*Result, error) {
	g, err := reachgraph.Build(chain, tasks, params)
	if err != nil {
		return nil, err
	}

	latResult, err := latency.Analyze(g)
	if err != nil {
		return nil, err
	}

	marginResult, err := margin.Compute(g, chain, tasks, params, latResult.Latency)
	if err != nil {
		return nil, err
	}

	return &Result{
		Latency:            latResult.Latency,
		PerTaskMargin:      marginResult.Margin,
		PerTaskDeltaLambda: marginResult.DeltaLambda,
		PerJobSlack:        marginResult.Theta,
	}, nil
}

// VerifyMargins re-runs the pipeline with WCRT/LET inflated by margins and
// deltaLambdas, confirming the resulting latency still meets chain's
// deadline (spec.md §4.4 "Verification mode"). A false ok with a nil err
// indicates the supplied margin set is not jointly safe; this must be
// treated as a defect in whatever produced the margins, not tolerated.
func VerifyMargins(chain *model.Chain, tasks map[string]*model.Task, params map[string]model.TaskParams, margins, deltaLambdas map[string]int64) (ok bool, newLatency int64, err error) {
	return margin.Verify(chain, tasks, params, margins, deltaLambdas)
}

// AggregateMargins reduces one margin (or Δλ) map per chain into a single
// system-wide map by pointwise minimum (spec.md §4.4 "Aggregation across
// chains").
func AggregateMargins(perChain []map[string]int64) map[string]int64 {
	return margin.AggregateAcrossChains(perChain)
}
