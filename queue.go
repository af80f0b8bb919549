package lq

import (
	"iter"

	"github.com/tychoish/lq/ilist"
	"github.com/tychoish/lq/order"
)

// Queue is a list of strings rooted at a head node in an arena. The
// zero value and nil are both the absent queue; use Arena.New to
// create queues.
type Queue struct {
	arena *Arena
	head  ilist.Node
}

func (q *Queue) ok() bool { return q != nil && q.arena != nil }
func (q *Queue) links() *ilist.Table { return &q.arena.links }
func (q *Queue) value(n ilist.Node) string { return q.arena.values[n] }

// Arena returns the arena that holds the queue, or nil for the
// absent queue.
func (q *Queue) Arena() *Arena {
	if !q.ok() {
		return nil
	}
	return q.arena
}

// Free releases every element still in the queue, and then the
// queue itself. Afterwards, the queue is absent.
func (q *Queue) Free() {
	if !q.ok() {
		return
	}

	for n := range q.links().All(q.head) {
		q.discard(n)
	}

	q.arena.release(q.head)
	q.arena.queues--
	q.arena = nil
	q.head = ilist.Nil
}

// InsertHead adds a copy of the value to the front of the queue. It
// returns false, leaving the queue unchanged, when the queue is
// absent or the arena cannot allocate the element.
func (q *Queue) InsertHead(value string) bool {
	n, ok := q.element(value)
	if ok {
		q.links().InsertAfter(q.head, n)
	}
	return ok
}

// InsertTail adds a copy of the value to the back of the queue, with
// the same failure semantics as InsertHead.
func (q *Queue) InsertTail(value string) bool {
	n, ok := q.element(value)
	if ok {
		q.links().InsertBefore(q.head, n)
	}
	return ok
}

func (q *Queue) element(value string) (ilist.Node, bool) {
	if !q.ok() {
		return ilist.Nil, false
	}

	n, ok := q.arena.alloc("")
	if !ok {
		return ilist.Nil, false
	}

	dup, ok := q.arena.conf.Allocator.Duplicate(value)
	if !ok {
		q.arena.release(n)
		return ilist.Nil, false
	}

	q.arena.values[n] = dup
	return n, true
}

// RemoveHead detaches the first element and hands it to the
// caller. When buf is not empty, the value is also copied into it:
// at most len(buf)-1 bytes followed by a 0 terminator. Returns nil,
// without touching buf, when the queue is absent or empty.
func (q *Queue) RemoveHead(buf []byte) *Element {
	if q.Empty() {
		return nil
	}
	return q.take(q.links().Next(q.head)).copyTo(buf)
}

// RemoveTail is RemoveHead for the last element.
func (q *Queue) RemoveTail(buf []byte) *Element {
	if q.Empty() {
		return nil
	}
	return q.take(q.links().Prev(q.head)).copyTo(buf)
}

// take is the only way an element leaves a queue: it unlinks the
// node, returns it to the arena and transfers the value to a new
// Element owned by the caller.
func (q *Queue) take(n ilist.Node) *Element {
	q.arena.outstanding++
	return &Element{value: q.arena.release(n), arena: q.arena}
}

// discard removes and immediately releases an element.
func (q *Queue) discard(n ilist.Node) { _ = q.take(n).Release() }

// Size counts the elements in the queue by walking it.
func (q *Queue) Size() int {
	if !q.ok() {
		return 0
	}
	return q.links().Len(q.head)
}

// Empty reports if the queue is absent or has no elements.
func (q *Queue) Empty() bool { return !q.ok() || q.links().Empty(q.head) }

// Head returns the first value without removing it.
func (q *Queue) Head() (string, bool) {
	if q.Empty() {
		return "", false
	}
	return q.value(q.links().Next(q.head)), true
}

// Tail returns the last value without removing it.
func (q *Queue) Tail() (string, bool) {
	if q.Empty() {
		return "", false
	}
	return q.value(q.links().Prev(q.head)), true
}

// Seq iterates over the values from front to back. The queue must
// not be modified during iteration.
func (q *Queue) Seq() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !q.ok() {
			return
		}
		for n := range q.links().All(q.head) {
			if !yield(q.value(n)) {
				return
			}
		}
	}
}

// Values exports the contents of the queue to a slice.
func (q *Queue) Values() []string {
	out := make([]string, 0, q.Size())
	for v := range q.Seq() {
		out = append(out, v)
	}
	return out
}

// Verify checks the structural integrity of the queue's links.
func (q *Queue) Verify() error {
	if !q.ok() {
		return ErrAbsentQueue
	}
	return q.links().Verify(q.head)
}

func (q *Queue) comparator(descending bool) order.Comparator {
	if descending {
		return order.Reverse(q.arena.conf.Comparator)
	}
	return q.arena.conf.Comparator
}

// unlink turns the queue's contents into a Nil-terminated chain,
// linked by next only, and leaves the queue empty. The prev links of
// the chain are stale until rebuild.
func (q *Queue) unlink() ilist.Node {
	l := q.links()
	if l.Empty(q.head) {
		return ilist.Nil
	}

	first := l.Next(q.head)
	l.SetNext(l.Prev(q.head), ilist.Nil)
	l.Init(q.head)
	return first
}

// rebuild links a Nil-terminated chain back into the queue, restoring
// every prev link and closing the ring at the head.
func (q *Queue) rebuild(first ilist.Node) {
	l := q.links()
	prev := q.head
	for n := first; n != ilist.Nil; n = l.Next(n) {
		l.SetNext(prev, n)
		l.SetPrev(n, prev)
		prev = n
	}

	l.SetNext(prev, q.head)
	l.SetPrev(q.head, prev)
}
