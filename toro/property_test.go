package toro_test

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/IDA-TUBS/TORO/model"
	"github.com/IDA-TUBS/TORO/reachgraph"
	"github.com/IDA-TUBS/TORO/toro"
)

// genChain draws a short chain (2-3 tasks) of randomly BET/LET tasks with
// small, harmonically-unconstrained periods. Periods are kept small enough
// that the hyperperiod never approaches model.MaxHyperperiod.
//
// The single-task boundary case is deliberately not drawn here: per
// spec.md §8, a one-task chain's margin ignores the chain's declared
// deadline entirely (own-deadline slack only), which would make this
// test's deadline-verification invariants meaningless for it. See
// toro_test.go's TestAnalyzeChain_SingleTaskChain instead.
func genChain(t *rapid.T) (*model.Chain, map[string]*model.Task, map[string]model.TaskParams) {
	n := rapid.IntRange(2, 3).Draw(t, "num_tasks")

	ids := make([]string, n)
	tasks := make(map[string]*model.Task, n)
	params := make(map[string]model.TaskParams, n)

	for i := 0; i < n; i++ {
		id := rapid.SampledFrom([]string{"tauA", "tauB", "tauC"}).Draw(t, "id_pick")
		id = id + string(rune('0'+i)) // keep IDs distinct per position
		ids[i] = id

		period := rapid.Int64Range(5, 30).Draw(t, "period")
		offset := rapid.Int64Range(0, period-1).Draw(t, "offset")

		if rapid.Bool().Draw(t, "is_bet") {
			wcet := rapid.Int64Range(1, 15).Draw(t, "wcet")
			bcet := rapid.Int64Range(0, wcet).Draw(t, "bcet")
			wcrt := rapid.Int64Range(wcet, wcet+15).Draw(t, "wcrt")
			bcrt := rapid.Int64Range(0, wcrt).Draw(t, "bcrt")
			tasks[id] = &model.Task{ID: id, Period: period, Offset: offset, BCET: bcet, WCET: wcet, Semantic: model.BET}
			params[id] = model.TaskParams{WCRT: wcrt, BCRT: bcrt, WCRTKnown: true}
		} else {
			let := rapid.Int64Range(1, period).Draw(t, "let")
			tasks[id] = &model.Task{ID: id, Period: period, Offset: offset, Semantic: model.LET, LET: let}
			params[id] = model.TaskParams{LET: let}
		}
	}

	chain := &model.Chain{ID: "c", TaskIDs: ids}
	return chain, tasks, params
}

// TestAnalyzeChain_Invariants exercises spec.md §8 invariants 1, 3, 4, 5 and
// 6 over randomly drawn chains, skipping the (legitimate) infeasible and
// overflow outcomes rather than treating them as failures.
func TestAnalyzeChain_Invariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chain, tasks, params := genChain(t)

		baseline, err := toro.AnalyzeChain(chain, tasks, params)
		if err != nil {
			if errors.Is(err, reachgraph.ErrInfeasible) || errors.Is(err, reachgraph.ErrNoJobs) || errors.Is(err, model.ErrHyperperiodOverflow) {
				return
			}
			t.Fatalf("unexpected error: %v", err)
		}

		// Invariant 3 & 4: every computed slack, margin and Δλ is
		// non-negative.
		for taskID, th := range baseline.PerJobSlack {
			if th < 0 {
				t.Fatalf("negative theta for %s: %d", taskID, th)
			}
		}
		for taskID, m := range baseline.PerTaskMargin {
			if m < 0 {
				t.Fatalf("negative margin for %s: %d", taskID, m)
			}
		}
		for taskID, dl := range baseline.PerTaskDeltaLambda {
			if dl < 0 {
				t.Fatalf("negative delta-lambda for %s: %d", taskID, dl)
			}
		}

		// Give the chain a deadline that is, by construction, an upper
		// bound on the baseline latency (invariant 5).
		extra := rapid.Int64Range(0, 50).Draw(t, "extra_slack")
		deadline := baseline.Latency + extra
		chain.Deadline = &deadline

		withDeadline, err := toro.AnalyzeChain(chain, tasks, params)
		if err != nil {
			t.Fatalf("unexpected error on deadline-bearing re-run: %v", err)
		}
		if withDeadline.Latency != baseline.Latency {
			t.Fatalf("declaring a deadline changed the computed latency: %d != %d", withDeadline.Latency, baseline.Latency)
		}
		if withDeadline.Latency > deadline {
			t.Fatalf("latency %d exceeds declared deadline %d", withDeadline.Latency, deadline)
		}

		// Invariant 6: applying the computed margins must yield a
		// jointly-safe re-analysis.
		ok, newLatency, err := toro.VerifyMargins(chain, tasks, params, withDeadline.PerTaskMargin, withDeadline.PerTaskDeltaLambda)
		if err != nil {
			t.Fatalf("unexpected error verifying margins: %v", err)
		}
		if !ok {
			t.Fatalf("margins computed by AnalyzeChain were not jointly safe")
		}
		if newLatency > deadline {
			t.Fatalf("post-inflation latency %d exceeds deadline %d", newLatency, deadline)
		}
	})
}

// TestAnalyzeChain_Idempotent checks the round-trip property of spec.md §8:
// analyzing the same chain twice yields identical results.
func TestAnalyzeChain_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chain, tasks, params := genChain(t)

		first, err := toro.AnalyzeChain(chain, tasks, params)
		if err != nil {
			return
		}
		second, err := toro.AnalyzeChain(chain, tasks, params)
		if err != nil {
			t.Fatalf("second run failed after first succeeded: %v", err)
		}

		if first.Latency != second.Latency {
			t.Fatalf("latency differs across repeated runs: %d != %d", first.Latency, second.Latency)
		}
		for taskID, m := range first.PerTaskMargin {
			if second.PerTaskMargin[taskID] != m {
				t.Fatalf("margin for %s differs across repeated runs: %d != %d", taskID, m, second.PerTaskMargin[taskID])
			}
		}
	})
}

// TestAggregateMargins_Idempotent checks that pointwise-minimum aggregation
// of a single chain's margin map against itself is idempotent.
func TestAggregateMargins_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(t, "num_tasks")
		m := make(map[string]int64, n)
		for i := 0; i < n; i++ {
			id := rapid.SampledFrom([]string{"tau0", "tau1", "tau2", "tau3", "tau4"}).Draw(t, "id")
			m[id] = rapid.Int64Range(0, 100).Draw(t, "margin")
		}

		out := toro.AggregateMargins([]map[string]int64{m})
		for id, v := range m {
			if out[id] != v {
				t.Fatalf("aggregating a single chain changed its margin for %s: %d != %d", id, v, out[id])
			}
		}
	})
}
