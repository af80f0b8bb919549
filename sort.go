package lq

import "github.com/tychoish/lq/ilist"

// pendingRuns bounds the merge sort's stack of runs. Slot i holds a
// run of 2^i elements, so the sort handles queues of up to 2^32
// elements without carrying out of the last slot; longer queues
// still sort correctly, with the last slot absorbing every carry.
const pendingRuns = 32

// Sort orders the queue using a stable, bottom-up merge sort. When
// descending is true the comparator is inverted for the whole sort;
// in either direction, equal values keep their relative order.
// Absent queues and queues with fewer than two elements are left
// alone.
func (q *Queue) Sort(descending bool) {
	if q.Empty() || q.links().Singular(q.head) {
		return
	}

	l := q.links()
	cmp := q.comparator(descending)

	var pending [pendingRuns]ilist.Node
	for i := range pending {
		pending[i] = ilist.Nil
	}

	for n := q.unlink(); n != ilist.Nil; {
		safe := l.Next(n)
		l.SetNext(n, ilist.Nil)

		run, i := n, 0
		for ; i < len(pending) && pending[i] != ilist.Nil; i++ {
			run = q.arena.merge(cmp, pending[i], run)
			pending[i] = ilist.Nil
		}
		if i == len(pending) {
			i--
		}
		pending[i] = run

		n = safe
	}

	result := ilist.Nil
	for _, run := range pending {
		result = q.arena.merge(cmp, run, result)
	}

	q.rebuild(result)
}

// IsSorted reports if every element compares less than or equal to
// its successor, in the requested direction.
func (q *Queue) IsSorted(descending bool) bool {
	if q.Empty() {
		return true
	}

	l := q.links()
	cmp := q.comparator(descending)
	for n := l.Next(l.Next(q.head)); n != q.head; n = l.Next(n) {
		if q.arena.compare(cmp, l.Prev(n), n) > 0 {
			return false
		}
	}
	return true
}
