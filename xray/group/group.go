package group

import (
	"errors"
	"fmt"
)

// Errors returned by grouping functions.
var (
	ErrInvalidFactor    = errors.New("group: grouping factor must be > 1")
	ErrInvalidMinCounts = errors.New("group: minimum counts must be > 0")
	ErrLengthMismatch   = errors.New("group: length mismatch")
	ErrNotContiguous    = errors.New("group: group ids are not contiguous")
	ErrNotSequential    = errors.New("group: group ids must start at 0 and step by 1")
)

// Channels assigns consecutive runs of n channels the same id, starting at
// 0. When nchan is not a multiple of n the last group holds the remainder.
func Channels(nchan, n int) ([]int, error) {
	if n <= 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, n)
	}
	if nchan < 0 {
		nchan = 0
	}

	ids := make([]int, nchan)
	for i := range ids {
		ids[i] = i / n
	}
	return ids, nil
}

// MinCounts walks the channels in order and closes a group as soon as its
// running total reaches mc. A trailing group that ends below mc is merged
// into the group before it; when there is no earlier group (total below mc)
// the single group 0 is kept.
func MinCounts(counts []float64, mc float64) ([]int, error) {
	if mc <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMinCounts, mc)
	}
	if len(counts) == 0 {
		return []int{}, nil
	}

	ids := make([]int, len(counts))
	id, running := 0, 0.0
	for i, c := range counts {
		ids[i] = id
		running += c
		if running >= mc {
			id++
			running = 0
		}
	}

	last := ids[len(ids)-1]
	if last > 0 {
		lastSum := 0.0
		for i := len(ids) - 1; i >= 0 && ids[i] == last; i-- {
			lastSum += counts[i]
		}
		if lastSum < mc {
			for i := len(ids) - 1; i >= 0 && ids[i] == last; i-- {
				ids[i] = last - 1
			}
		}
	}
	return ids, nil
}

// Ungrouped reports whether every id is zero.
func Ungrouped(ids []int) bool {
	for _, id := range ids {
		if id != 0 {
			return false
		}
	}
	return true
}

// Validate checks that ids start at 0, that every group occupies a single
// contiguous run of channels and that neighbouring runs differ by exactly 1.
func Validate(ids []int) error {
	if len(ids) > 0 && ids[0] != 0 {
		return fmt.Errorf("%w: first id is %d", ErrNotSequential, ids[0])
	}
	for i := 1; i < len(ids); i++ {
		prev, id := ids[i-1], ids[i]
		switch {
		case id == prev, id == prev+1:
		case id < prev:
			return fmt.Errorf("%w: id %d resumes at channel %d", ErrNotContiguous, id, i)
		default:
			return fmt.Errorf("%w: id %d follows %d at channel %d", ErrNotSequential, id, prev, i)
		}
	}
	return nil
}

// Sizes returns the number of channels in each run of equal ids, in order.
func Sizes(ids []int) []int {
	var out []int
	for i, id := range ids {
		if i == 0 || ids[i-1] != id {
			out = append(out, 0)
		}
		out[len(out)-1]++
	}
	return out
}

// Sums returns the summed counts of each run of equal ids, in order.
func Sums(ids []int, counts []float64) ([]float64, error) {
	if len(ids) != len(counts) {
		return nil, fmt.Errorf("%w: %d ids, %d counts", ErrLengthMismatch, len(ids), len(counts))
	}
	var out []float64
	for i, id := range ids {
		if i == 0 || ids[i-1] != id {
			out = append(out, 0)
		}
		out[len(out)-1] += counts[i]
	}
	return out, nil
}
