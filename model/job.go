// File: job.go
// Role: Job instantiation and interval derivation (spec.md §4.1).
package model

import (
	"errors"
	"fmt"
)

// ErrSemanticMismatch indicates TaskParams were supplied that do not match
// the task's declared semantic (e.g. LET params for a BET task).
var ErrSemanticMismatch = errors.New("model: task params do not match task semantic")

// Job is an instance n>=1 of a Task, carrying only identity and its four
// derived interval bounds. Per Design Notes §9, a Job stores nothing else —
// no edges, no slack — those live in the reachability graph and in analysis
// result records respectively.
type Job struct {
	TaskID   string
	Index    int64 // n >= 1
	Period   int64
	Offset   int64
	Semantic Semantic

	Rmin, Rmax, Dmin, Dmax int64
}

// Key identifies a job uniquely by (task ID, job index), matching the
// ownership rule of spec.md §3 ("job identity is by (task-id, job-index)").
func (j Job) Key() string {
	return fmt.Sprintf("%s#%d", j.TaskID, j.Index)
}

// InstantiateJob constructs job n of task, computing its read/data interval
// from spec.md §3 under the task's semantic, using the effective response
// times in p.
//
// Fails with ErrInvalidTask if n < 1, with ErrSemanticMismatch if p does
// not supply the parameters the task's semantic requires (BET needs WCRT;
// LET needs LET > 0), and with ErrInvalidParams if a BET task's BCRT lies
// outside [0, WCRT].
//
// For a BET job the read interval may end after the data interval starts
// (Rmax > Dmin whenever WCRT - BCET > BCRT); only Rmin <= Rmax <= Dmax and
// Rmin <= Dmin <= Dmax are enforced.
func InstantiateJob(task *Task, n int64, p TaskParams) (Job, error) {
	if n < 1 {
		return Job{}, fmt.Errorf("%w: task %s: job index %d must be >= 1", ErrInvalidTask, task.ID, n)
	}

	job := Job{
		TaskID:   task.ID,
		Index:    n,
		Period:   task.Period,
		Offset:   task.Offset,
		Semantic: task.Semantic,
	}

	rmin := task.Offset + (n-1)*task.Period

	switch task.Semantic {
	case BET:
		if p.WCRT <= 0 {
			return Job{}, fmt.Errorf("%w: task %s: BET job requires WCRT > 0", ErrSemanticMismatch, task.ID)
		}
		if p.BCRT < 0 || p.BCRT > p.WCRT {
			return Job{}, fmt.Errorf("%w: task %s: BET job requires 0 <= BCRT <= WCRT", ErrInvalidParams, task.ID)
		}
		job.Rmin = rmin
		job.Rmax = rmin + p.WCRT - task.BCET
		job.Dmin = rmin + p.BCRT
		job.Dmax = task.Offset + n*task.Period + p.WCRT
	case LET:
		if p.LET <= 0 {
			return Job{}, fmt.Errorf("%w: task %s: LET job requires LET > 0", ErrSemanticMismatch, task.ID)
		}
		job.Rmin = rmin
		job.Rmax = rmin
		job.Dmin = rmin + p.LET
		job.Dmax = task.Offset + n*task.Period + p.LET
	default:
		return Job{}, fmt.Errorf("%w: task %s: unsupported semantic", ErrInvalidTask, task.ID)
	}

	if !(job.Rmin <= job.Rmax && job.Rmax <= job.Dmax && job.Rmin <= job.Dmin && job.Dmin <= job.Dmax) {
		return Job{}, fmt.Errorf("%w: task %s job %d: interval invariant Rmin<=Rmax<=Dmax, Rmin<=Dmin<=Dmax violated (%d,%d,%d,%d)",
			ErrInvalidTask, task.ID, n, job.Rmin, job.Rmax, job.Dmin, job.Dmax)
	}

	return job, nil
}

// Follows implements the reachability predicate of spec.md §4.2 step 4 /
// §8 invariant 2: consumer c may read data produced by producer p iff
// Rmax(c) >= Dmin(p) and Rmin(c) < Dmax(p).
func Follows(p, c Job) bool {
	return c.Rmax >= p.Dmin && c.Rmin < p.Dmax
}
