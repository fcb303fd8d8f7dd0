// Package pattern turns gesture parameters into the finite note and velocity sequences the
// performance engine loops over.
package pattern

import "errors"

// ErrEmpty is returned when a pattern would contain no values.
var ErrEmpty = errors.New("pattern must not be empty")

// Cycle is an endless, restartable walk over a fixed non-empty list.
// It is not safe for concurrent use; each gesture owns its own cycles.
type Cycle[T any] struct {
	items []T
	pos   int
}

// NewCycle copies items into a new Cycle positioned at the first element.
func NewCycle[T any](items []T) (*Cycle[T], error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	return &Cycle[T]{items: append([]T(nil), items...)}, nil
}

// Next returns the current element and advances, wrapping after the last one.
func (c *Cycle[T]) Next() T {
	v := c.items[c.pos]
	c.pos++
	if c.pos == len(c.items) {
		c.pos = 0
	}
	return v
}

// Reset moves the cursor back to the first element.
func (c *Cycle[T]) Reset() {
	c.pos = 0
}

// Len returns the number of distinct positions in the cycle.
func (c *Cycle[T]) Len() int {
	return len(c.items)
}

// Values returns a copy of one full period, starting from the first element.
func (c *Cycle[T]) Values() []T {
	return append([]T(nil), c.items...)
}

// countTo builds [f(0), f(1), ... f(n-1)].
func countTo(n int, f func(i int) int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

// countUpDown counts up to the middle of n and back down again. Indices in the first half map
// to themselves; the rest mirror around n/2. An even n repeats the turnaround index once
// (0 1 1 0), an odd n does not (0 1 0).
func countUpDown(n int, f func(i int) int) []int {
	mid := n / 2
	offset := 0
	if n%2 == 0 {
		offset = 1
	}
	return countTo(n, func(i int) int {
		if n/(i+1) > 1 {
			return f(i)
		}
		return f(mid - (offset + i - mid))
	})
}
