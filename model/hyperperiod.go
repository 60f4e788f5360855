// File: hyperperiod.go
// Role: Exact-integer hyperperiod (LCM of task periods), spec.md §4.1.
package model

import (
	"errors"
	"fmt"
)

// MaxHyperperiod bounds the computed hyperperiod. Coprime task periods can
// make the LCM explode combinatorially (Design Notes §9, "Hyperperiod
// explosion"); rather than silently allocate an arena sized by an
// unreasonable hyperperiod, Hyperperiod fails with ErrHyperperiodOverflow
// once the running LCM would exceed this bound.
//
// 100,000,000 time units comfortably covers realistic automotive/industrial
// period sets (periods up to a few seconds at microsecond resolution) while
// keeping a worst-case job arena in the low millions.
const MaxHyperperiod int64 = 100_000_000

// ErrHyperperiodOverflow indicates the LCM of the given periods exceeds
// MaxHyperperiod, or would overflow int64 arithmetic while being computed.
var ErrHyperperiodOverflow = errors.New("model: hyperperiod exceeds bound")

// gcd returns the greatest common divisor of a and b via Euclid's algorithm.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcmChecked returns the least common multiple of a and b, dividing before
// multiplying to reduce the risk of overflow, and reports ok=false if the
// final multiplication overflows int64.
func lcmChecked(a, b int64) (result int64, ok bool) {
	g := gcd(a, b)
	reduced := a / g
	result = reduced * b
	if reduced != 0 && result/reduced != b {
		return 0, false
	}
	return result, true
}

// Hyperperiod returns the least common multiple of the given periods.
// periods must be non-empty and strictly positive. Returns
// ErrHyperperiodOverflow if the running LCM ever exceeds MaxHyperperiod or
// overflows int64 before the bound check can catch it.
func Hyperperiod(periods []int64) (int64, error) {
	if len(periods) == 0 {
		return 0, fmt.Errorf("%w: empty period set", ErrInvalidTask)
	}

	h := periods[0]
	if h <= 0 {
		return 0, fmt.Errorf("%w: non-positive period %d", ErrInvalidTask, h)
	}

	for _, p := range periods[1:] {
		if p <= 0 {
			return 0, fmt.Errorf("%w: non-positive period %d", ErrInvalidTask, p)
		}
		next, ok := lcmChecked(h, p)
		if !ok {
			return 0, fmt.Errorf("%w: overflow computing lcm(%d, %d)", ErrHyperperiodOverflow, h, p)
		}
		h = next
		if h > MaxHyperperiod {
			return 0, fmt.Errorf("%w: lcm reached %d, bound is %d", ErrHyperperiodOverflow, h, MaxHyperperiod)
		}
	}

	return h, nil
}
