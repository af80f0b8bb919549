package lq

import (
	"iter"
	"slices"

	"github.com/tychoish/lq/ilist"
)

// Chain is an ordered collection of queues from one arena: the
// queue-of-queues consumed by Merge.
type Chain struct {
	arena  *Arena
	queues []*Queue
}

// NewChain creates an empty chain for queues from this arena.
func (a *Arena) NewChain() *Chain { return &Chain{arena: a} }

// New creates a queue and adds it to the end of the chain. Returns
// nil if the arena cannot allocate the queue.
func (c *Chain) New() *Queue {
	q := c.arena.New()
	if q != nil {
		c.queues = append(c.queues, q)
	}
	return q
}

// Add appends an existing queue to the chain.
func (c *Chain) Add(q *Queue) error {
	switch {
	case !q.ok():
		return ErrAbsentQueue
	case q.arena != c.arena:
		return ErrForeignQueue
	case slices.Contains(c.queues, q):
		return ErrDuplicateQueue
	}

	c.queues = append(c.queues, q)
	return nil
}

// Remove takes the queue out of the chain without freeing it, and
// reports if it was a member.
func (c *Chain) Remove(q *Queue) bool {
	idx := slices.Index(c.queues, q)
	if idx < 0 {
		return false
	}
	c.queues = slices.Delete(c.queues, idx, idx+1)
	return true
}

// Len returns the number of queues in the chain.
func (c *Chain) Len() int { return len(c.queues) }

// Queue returns the queue at the index, or nil when the index is out
// of range.
func (c *Chain) Queue(idx int) *Queue {
	if idx < 0 || idx >= len(c.queues) {
		return nil
	}
	return c.queues[idx]
}

// All iterates over the chain's queues in order.
func (c *Chain) All() iter.Seq2[int, *Queue] { return slices.All(c.queues) }

// Size returns the total number of elements in every queue of the
// chain.
func (c *Chain) Size() (total int) {
	for _, q := range c.queues {
		total += q.Size()
	}
	return total
}

// Free frees every queue in the chain and empties it.
func (c *Chain) Free() {
	for _, q := range c.queues {
		q.Free()
	}
	c.queues = nil
}

// Merge combines the queues of the chain into the first one. Every
// queue must already be sorted in the requested direction. Afterwards
// the first queue holds every element in order, the other queues are
// empty, and the return value is the number of elements in the first
// queue. Freed queues are dropped from the chain. When values compare
// equal, elements from earlier queues come first.
func (c *Chain) Merge(descending bool) int {
	c.queues = slices.DeleteFunc(c.queues, func(q *Queue) bool { return !q.ok() })
	if len(c.queues) == 0 {
		return 0
	}

	runs := make([]ilist.Node, len(c.queues))
	for idx, q := range c.queues {
		runs[idx] = q.unlink()
	}

	cmp := c.queues[0].comparator(descending)
	for len(runs) > 1 {
		for i := 0; i < len(runs); i += 2 {
			if i+1 < len(runs) {
				runs[i/2] = c.arena.merge(cmp, runs[i], runs[i+1])
			} else {
				runs[i/2] = runs[i]
			}
		}
		runs = runs[:(len(runs)+1)/2]
	}

	first := c.queues[0]
	first.rebuild(runs[0])
	return first.Size()
}
