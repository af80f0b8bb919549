package lq

import "github.com/tychoish/lq/ilist"

// DeleteMiddle removes the element at index (n-1)/2: the middle of an
// odd-length queue, and the earlier of the two middles of an
// even-length queue. Returns false when the queue is absent or empty.
func (q *Queue) DeleteMiddle() bool {
	if q.Empty() {
		return false
	}

	l := q.links()
	slow := l.Next(q.head)
	for fast := l.Next(slow); fast != q.head && fast != l.Prev(q.head); fast = l.Next(l.Next(fast)) {
		slow = l.Next(slow)
	}

	q.discard(slow)
	return true
}

// DeleteDuplicates removes every value that appears more than once in
// a row, leaving no copies of it. The queue should be sorted first so
// that equal values are adjacent. Equality is decided by the arena's
// comparator. Returns false when the queue is absent or empty.
func (q *Queue) DeleteDuplicates() bool {
	if q.Empty() {
		return false
	}

	l := q.links()
	cmp := q.arena.conf.Comparator
	inRun := false
	for n := range l.All(q.head) {
		next := l.Next(n)
		switch {
		case next != q.head && q.arena.compare(cmp, n, next) == 0:
			q.discard(n)
			inRun = true
		case inRun:
			// last copy of the run
			q.discard(n)
			inRun = false
		}
	}

	return true
}

// Swap exchanges every pair of neighbors: the first with the second,
// the third with the fourth, and so on. The last element of an
// odd-length queue stays where it is.
func (q *Queue) Swap() {
	if q.Empty() {
		return
	}

	l := q.links()
	for n := l.Next(q.head); n != q.head && l.Next(n) != q.head; n = l.Next(n) {
		l.MoveAfter(n, l.Next(n))
	}
}

// Reverse reverses the queue in place.
func (q *Queue) Reverse() {
	if q.Empty() {
		return
	}

	l := q.links()
	for n := range l.All(q.head) {
		l.MoveAfter(n, q.head)
	}
}

// ReverseK reverses each consecutive group of k elements. A final
// group with fewer than k elements keeps its order. Values of k less
// than 2 leave the queue unchanged.
func (q *Queue) ReverseK(k int) {
	if q.Empty() || k < 2 {
		return
	}

	l := q.links()
	groups := l.Len(q.head) / k
	start := q.head
	first := ilist.Nil
	count := 0

	for n := range l.All(q.head) {
		if groups == 0 {
			return
		}
		if count == 0 {
			// the first node of a group becomes its last
			first = n
		}

		l.MoveAfter(n, start)

		if count++; count == k {
			start = first
			groups--
			count = 0
		}
	}
}

// Ascend removes every element that has a strictly smaller element
// anywhere to its right, leaving a non-decreasing queue, and returns
// the number of elements that remain.
func (q *Queue) Ascend() int { return q.monotonic(func(c int) bool { return c > 0 }) }

// Descend removes every element that has a strictly greater element
// anywhere to its right, leaving a non-increasing queue, and returns
// the number of elements that remain.
func (q *Queue) Descend() int { return q.monotonic(func(c int) bool { return c < 0 }) }

// monotonic walks the queue from the back. The elements kept so far
// form a monotonic stack whose top, the most recently kept element,
// is the extreme of everything to the right of the current node.
func (q *Queue) monotonic(drop func(int) bool) int {
	if !q.ok() {
		return 0
	}

	l := q.links()
	cmp := q.arena.conf.Comparator
	top := ilist.Nil
	kept := 0
	for n := range l.Backward(q.head) {
		if top != ilist.Nil && drop(q.arena.compare(cmp, n, top)) {
			q.discard(n)
			continue
		}
		top = n
		kept++
	}

	return kept
}
