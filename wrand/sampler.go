// Package wrand implements weighted random selection with replacement.
package wrand

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	ErrEmptyInput        = errors.New("no items to sample from")
	ErrLengthMismatch    = errors.New("items and weights length mismatch")
	ErrNonPositiveWeight = errors.New("weight must be positive and finite")
)

// Sampler picks items at random with probability proportional to their
// weights. Draws are independent and with replacement: the same item can be
// returned any number of times.
//
// A Sampler is immutable after New and safe for concurrent use. It keeps the
// items slice without copying; the caller must not modify it afterwards.
type Sampler[T any] struct {
	items      []T
	boundaries []float64
	total      float64
}

// New validates items and weights and precomputes the cumulative weight
// table. weights[i] is the relative likelihood of items[i]; every weight
// must be a positive finite number.
func New[T any](items []T, weights []float64) (*Sampler[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptyInput
	}
	if len(items) != len(weights) {
		return nil, fmt.Errorf("%w: %d items, %d weights", ErrLengthMismatch, len(items), len(weights))
	}

	boundaries := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weights[%d] = %v", ErrNonPositiveWeight, i, w)
		}
		total += w
		boundaries[i] = total
	}

	return &Sampler[T]{
		items:      items,
		boundaries: boundaries,
		total:      total,
	}, nil
}

// Sample returns one of the items. Item i is returned with probability
// weights[i] / Total(). Uses the shared math/rand source.
func (s *Sampler[T]) Sample() T {
	return s.at(rand.Float64() * s.total)
}

// at resolves a point in [0, total) to its item. boundaries[i] is the
// exclusive upper bound of the interval owned by items[i], so the answer is
// the leftmost boundary strictly greater than the point. A point at or past
// the total (possible only through rounding in the point computation) maps
// to the last item.
func (s *Sampler[T]) at(point float64) T {
	idx := len(s.boundaries) - 1
	lo, hi := 0, len(s.boundaries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if s.boundaries[mid] > point {
			idx = mid
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return s.items[idx]
}

// Len returns the number of items.
func (s *Sampler[T]) Len() int {
	return len(s.items)
}

// Total returns the sum of all weights.
func (s *Sampler[T]) Total() float64 {
	return s.total
}

// Boundaries returns a copy of the cumulative weight table. Entry i is the
// sum of the first i+1 weights.
func (s *Sampler[T]) Boundaries() []float64 {
	out := make([]float64, len(s.boundaries))
	copy(out, s.boundaries)
	return out
}
