// Package ilist provides the link layer for circular, doubly linked,
// sentinel-rooted lists.
//
// Nodes are indexes into a Table rather than pointers: a list is
// identified by its head (sentinel) node, and any number of lists can
// share one Table. The Table knows nothing about payloads; callers
// keep values in their own storage, indexed by the same Node.
//
// Tables are not safe for concurrent use.
package ilist

import (
	"fmt"
	"iter"

	"github.com/tychoish/fun/ers"
)

// ErrCorruptList is returned by Verify when a list's links do not
// form a consistent ring.
const ErrCorruptList ers.Error = ers.Error("corrupt list")

// Node identifies a slot in a Table.
type Node int32

// Nil terminates the singly linked chains produced while sorting. It
// is never a member of a ring.
const Nil Node = -1

type link struct {
	next Node
	prev Node
	live bool
}

// Table stores the links for every node it allocates. The zero value
// is ready to use.
type Table struct {
	// Limit bounds the number of live nodes. Zero or negative
	// values mean no limit.
	Limit int

	links []link
	free  []Node
	live  int
}

// Alloc produces a new node that is a ring of one, and reports false
// when the table has reached its limit.
func (t *Table) Alloc() (Node, bool) {
	if t.Limit > 0 && t.live >= t.Limit {
		return Nil, false
	}

	var n Node
	if size := len(t.free); size > 0 {
		n = t.free[size-1]
		t.free = t.free[:size-1]
	} else {
		n = Node(len(t.links))
		t.links = append(t.links, link{})
	}

	t.live++
	t.links[n].live = true
	t.Init(n)
	return n, true
}

// Release detaches the node from whatever ring it is in and returns
// its slot to the table. Releasing an invalid node is a no-op.
func (t *Table) Release(n Node) {
	if !t.Valid(n) {
		return
	}

	t.Detach(n)
	t.links[n] = link{next: Nil, prev: Nil}
	t.free = append(t.free, n)
	t.live--
}

// Valid reports if the node was allocated by this table and has not
// been released.
func (t *Table) Valid(n Node) bool { return n >= 0 && int(n) < len(t.links) && t.links[n].live }

// Live returns the number of allocated nodes, heads included.
func (t *Table) Live() int { return t.live }

// Init makes n a ring of one.
func (t *Table) Init(n Node) { t.links[n].next = n; t.links[n].prev = n }

func (t *Table) Next(n Node) Node { return t.links[n].next }
func (t *Table) Prev(n Node) Node { return t.links[n].prev }

// SetNext and SetPrev write a single link without touching the
// neighbor. They exist for algorithms (sorting) that temporarily
// treat a ring as a singly linked chain and rebuild it afterwards.
func (t *Table) SetNext(n, to Node) { t.links[n].next = to }
func (t *Table) SetPrev(n, to Node) { t.links[n].prev = to }

// Empty reports if the ring rooted at head has no other members.
func (t *Table) Empty(head Node) bool { return t.links[head].next == head }

// Singular reports if the ring rooted at head has exactly one
// member.
func (t *Table) Singular(head Node) bool {
	return !t.Empty(head) && t.links[head].next == t.links[head].prev
}

// Len counts the members of the ring by walking it.
func (t *Table) Len(head Node) (count int) {
	for n := t.Next(head); n != head; n = t.Next(n) {
		count++
	}
	return count
}

// InsertAfter links n directly after at.
func (t *Table) InsertAfter(at, n Node) {
	next := t.links[at].next

	t.links[n].prev = at
	t.links[n].next = next
	t.links[next].prev = n
	t.links[at].next = n
}

// InsertBefore links n directly before at. With a head node, this
// appends to the end of the list.
func (t *Table) InsertBefore(at, n Node) { t.InsertAfter(t.links[at].prev, n) }

// Detach unlinks n, joining its neighbors, and leaves n as a ring of
// one.
func (t *Table) Detach(n Node) {
	prev, next := t.links[n].prev, t.links[n].next

	t.links[prev].next = next
	t.links[next].prev = prev
	t.Init(n)
}

// MoveAfter detaches n and links it directly after at.
func (t *Table) MoveAfter(n, at Node) { t.Detach(n); t.InsertAfter(at, n) }

// MoveBefore detaches n and links it directly before at.
func (t *Table) MoveBefore(n, at Node) { t.Detach(n); t.InsertBefore(at, n) }

// Splice moves every member of the ring rooted at from to directly
// after at, preserving their order. from is left empty.
func (t *Table) Splice(from, at Node) {
	if t.Empty(from) {
		return
	}

	first, last := t.links[from].next, t.links[from].prev
	after := t.links[at].next

	t.links[first].prev = at
	t.links[at].next = first
	t.links[last].next = after
	t.links[after].prev = last

	t.Init(from)
}

// SpliceTail moves every member of the ring rooted at from to directly
// before at. from is left empty.
func (t *Table) SpliceTail(from, at Node) { t.Splice(from, t.links[at].prev) }

// All iterates the members of the ring from front to back. The
// successor of each node is read before the node is yielded, so the
// loop body may detach, release or move the current node.
func (t *Table) All(head Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for n := t.Next(head); n != head; {
			safe := t.Next(n)
			if !yield(n) {
				return
			}
			n = safe
		}
	}
}

// Backward is All, from back to front.
func (t *Table) Backward(head Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for n := t.Prev(head); n != head; {
			safe := t.Prev(n)
			if !yield(n) {
				return
			}
			n = safe
		}
	}
}

// Verify walks the ring rooted at head and checks that every node's
// neighbors point back at it.
func (t *Table) Verify(head Node) error {
	if !t.Valid(head) {
		return fmt.Errorf("head %d is not allocated: %w", head, ErrCorruptList)
	}

	for n, seen := head, 0; ; seen++ {
		next := t.links[n].next
		switch {
		case !t.Valid(next):
			return fmt.Errorf("node %d links to unallocated node %d: %w", n, next, ErrCorruptList)
		case t.links[next].prev != n:
			return fmt.Errorf("node %d -> %d, but %d <- %d: %w", n, next, t.links[next].prev, next, ErrCorruptList)
		case seen > t.live:
			return fmt.Errorf("ring at %d does not return to its head: %w", head, ErrCorruptList)
		}

		if n = next; n == head {
			return nil
		}
	}
}
