package lq

import (
	"fmt"

	"github.com/tychoish/lq/ilist"
	"github.com/tychoish/lq/order"
)

// Arena owns the storage for a family of queues: the link table, the
// value stored at every node, and the configuration shared by the
// queues.
type Arena struct {
	conf   ArenaConf
	links  ilist.Table
	values []string

	queues      int
	outstanding int
}

// NewArena builds an arena from the options. The error is non-nil
// only when an option is invalid.
func NewArena(opts ...OptionProvider[*ArenaConf]) (*Arena, error) {
	conf := &ArenaConf{}
	if err := ApplyOptions(conf, opts...); err != nil {
		return nil, fmt.Errorf("configuring arena: %w", err)
	}

	a := &Arena{conf: *conf}
	a.links.Limit = conf.Capacity
	return a, nil
}

// New creates an empty queue. It returns nil when the arena cannot
// allocate the queue's head.
func (a *Arena) New() *Queue {
	if a == nil {
		return nil
	}

	head, ok := a.alloc("")
	if !ok {
		return nil
	}

	a.queues++
	return &Queue{arena: a, head: head}
}

// Live reports the number of elements currently linked into the
// arena's queues.
func (a *Arena) Live() int { return a.links.Live() - a.queues }

// Outstanding reports the number of elements that have been removed
// from a queue and handed to a caller, but not yet released.
func (a *Arena) Outstanding() int { return a.outstanding }

// Queues reports the number of queues that have been created and not
// freed.
func (a *Arena) Queues() int { return a.queues }

// Comparator returns the comparator shared by the arena's queues.
func (a *Arena) Comparator() order.Comparator { return a.conf.Comparator }

func (a *Arena) alloc(value string) (ilist.Node, bool) {
	n, ok := a.links.Alloc()
	if !ok {
		return ilist.Nil, false
	}

	if size := int(n) + 1; size > len(a.values) {
		a.values = append(a.values, make([]string, size-len(a.values))...)
	}
	a.values[n] = value
	return n, true
}

// release detaches the node, returns its slot to the table and
// gives the value to the caller.
func (a *Arena) release(n ilist.Node) string {
	value := a.values[n]
	a.values[n] = ""
	a.links.Release(n)
	return value
}

func (a *Arena) compare(cmp order.Comparator, x, y ilist.Node) int { return cmp(a.values[x], a.values[y]) }

// merge combines two ascending, Nil-terminated chains into one. Only
// next links are read or written. When values compare equal, the
// node from x comes first.
func (a *Arena) merge(cmp order.Comparator, x, y ilist.Node) ilist.Node {
	switch {
	case x == ilist.Nil:
		return y
	case y == ilist.Nil:
		return x
	}

	l := &a.links
	head, tail := ilist.Nil, ilist.Nil
	push := func(n ilist.Node) {
		if tail == ilist.Nil {
			head = n
		} else {
			l.SetNext(tail, n)
		}
		tail = n
	}

	for x != ilist.Nil && y != ilist.Nil {
		if a.compare(cmp, x, y) <= 0 {
			push(x)
			x = l.Next(x)
		} else {
			push(y)
			y = l.Next(y)
		}
	}

	if x != ilist.Nil {
		l.SetNext(tail, x)
	} else {
		l.SetNext(tail, y)
	}

	return head
}
