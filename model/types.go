// Package model defines the value types shared by every analysis stage:
// periodic Task specifications, their instantiated Job intervals, and the
// Chain that orders tasks into a cause-effect path.
//
// Tasks are immutable once constructed. Oracle-supplied or inflated response
// times never mutate a Task; they travel alongside it as TaskParams, keyed
// by task ID, so the same Task catalog can be reused unchanged across chains
// and across the verification re-run described in margin.Verify.
//
// Construction here is pure: no I/O, no global state, no hidden fields.
package model

import (
	"errors"
	"fmt"
)

// Semantic distinguishes the two execution models a Task may follow.
type Semantic int

const (
	// BET (Bounded Execution Time): output appears between BCRT and WCRT
	// after release.
	BET Semantic = iota
	// LET (Logical Execution Time): output appears exactly LET after
	// activation, independent of actual computation time.
	LET
)

// String renders the semantic for diagnostics and log lines.
func (s Semantic) String() string {
	switch s {
	case BET:
		return "BET"
	case LET:
		return "LET"
	default:
		return "unknown"
	}
}

// Sentinel errors for the model package. Each is wrapped with the offending
// task/job identifier before being returned.
var (
	// ErrInvalidTask indicates contradictory or missing task parameters
	// (e.g. BET without WCET, LET without LET value, non-positive period).
	ErrInvalidTask = errors.New("model: invalid task parameters")

	// ErrInvalidParams indicates TaskParams supplied for a job do not match
	// the task's semantic (e.g. BCRT > WCRT for a BET task).
	ErrInvalidParams = errors.New("model: invalid task params")
)

// Task is the immutable specification of a periodic activity within a
// cause-effect chain.
//
// Deadline, when nil, defaults to the implicit deadline Period (spec.md §3).
// LET is only meaningful when Semantic == LET; BCET/WCET only when
// Semantic == BET. Interconnect marks a LET task whose logical execution
// time may legitimately exceed its period ("system-level interconnect"
// task, original_source model.py's sl_ic_task) — such tasks are exempt from
// the own-deadline Δλ contributions (margin package, §4.4 A); consumer
// slack (§4.4 B) still applies to them.
type Task struct {
	ID           string
	Period       int64 // P, must be > 0
	Offset       int64 // φ, must satisfy 0 <= φ < Period
	BCET         int64 // BET only
	WCET         int64 // BET only
	Semantic     Semantic
	LET          int64 // λ, LET only, must be > 0
	Interconnect bool
	Deadline     *int64 // explicit deadline; nil => implicit Period
}

// EffectiveDeadline returns the task's own deadline, defaulting to Period
// when none was given explicitly.
func (t *Task) EffectiveDeadline() int64 {
	if t.Deadline != nil {
		return *t.Deadline
	}
	return t.Period
}

// Validate checks the invariants of spec.md §3 and returns ErrInvalidTask,
// wrapped with the task ID and the failing constraint, on any violation.
func (t *Task) Validate() error {
	if t.ID == "" {
		return invalidTask("", "empty task ID")
	}
	if t.Period <= 0 {
		return invalidTask(t.ID, "period must be positive")
	}
	if t.Offset < 0 || t.Offset >= t.Period {
		return invalidTask(t.ID, "offset must satisfy 0 <= offset < period")
	}
	switch t.Semantic {
	case BET:
		if t.WCET <= 0 {
			return invalidTask(t.ID, "BET task requires WCET > 0")
		}
		if t.BCET < 0 || t.BCET > t.WCET {
			return invalidTask(t.ID, "BET task requires 0 <= BCET <= WCET")
		}
	case LET:
		if t.LET <= 0 {
			return invalidTask(t.ID, "LET task requires LET > 0")
		}
		if !t.Interconnect && t.LET > t.Period {
			return invalidTask(t.ID, "non-interconnect LET task requires LET <= period")
		}
	default:
		return invalidTask(t.ID, "unknown semantic")
	}

	return nil
}

func invalidTask(id, reason string) error {
	if id == "" {
		return fmt.Errorf("%w: %s", ErrInvalidTask, reason)
	}
	return fmt.Errorf("%w: task %s: %s", ErrInvalidTask, id, reason)
}

// TaskParams carries the externally supplied (or verification-inflated)
// response-time figures for one task, for one analysis call. It is the
// "inflated-parameter view" of spec.md §9's Design Notes: callers never
// mutate a Task to model a margin increase, they construct a new
// TaskParams instead.
//
// For a BET task, WCRT and BCRT are required (BCRT == task.BCET unless the
// caller intentionally inflates it, e.g. during verification). For a LET
// task, LET is the effective logical execution time for this call
// (normally equal to Task.LET; inflated by Δλ during verification). WCRT is
// optional for LET tasks — it only participates in the task's own-deadline
// margin candidate (§4.4 A) when known.
type TaskParams struct {
	WCRT     int64
	BCRT     int64
	LET      int64
	WCRTKnown bool // whether WCRT is meaningful for a LET task
}

// Tail returns tail(j) from spec.md §4.2 step 6: LET for LET tasks, WCRT for
// BET tasks. It is the quantity added to Rmin to locate a job's contribution
// to the longest-path weight.
func (p TaskParams) Tail(sem Semantic) int64 {
	if sem == LET {
		return p.LET
	}
	return p.WCRT
}

// Chain is an ordered, non-empty sequence of task IDs forming a
// cause-effect chain, with an optional end-to-end deadline Δ and an
// optional BET cross-subchain transition deadline (spec.md §4.4 C).
type Chain struct {
	ID                 string
	Name               string
	TaskIDs            []string
	Deadline           *int64
	TransitionDeadline *int64
}

// HasDeadline reports whether the chain declares an end-to-end deadline.
func (c *Chain) HasDeadline() bool { return c.Deadline != nil }
