// Package playorder builds the randomized traversal order for a slideshow
// session. The order is a one-time bijection from playback position to the
// position in the unshuffled source list; a new session reshuffles.
package playorder

import "math/rand/v2"

// Order maps playback indices to original list indices.
type Order struct {
	perm []int
}

// New builds a uniformly shuffled order over n entries.
func New(n int) *Order {
	if n < 0 {
		n = 0
	}
	return &Order{perm: rand.Perm(n)}
}

// NewIdentity builds an unshuffled order over n entries. Useful when a
// deterministic traversal is needed.
func NewIdentity(n int) *Order {
	if n < 0 {
		n = 0
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return &Order{perm: perm}
}

// Len returns the number of entries in the order.
func (o *Order) Len() int {
	return len(o.perm)
}

// OriginalIndexOf returns the unshuffled list position for a playback index.
func (o *Order) OriginalIndexOf(playbackIndex int) int {
	return o.perm[playbackIndex]
}
