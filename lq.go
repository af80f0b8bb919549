// Package lq implements a queue of owned strings on top of a
// circular, doubly linked list with a sentinel head.
//
// Queues live in an Arena, which owns the link table, the string
// values, the comparator and the string duplication hook. Any number
// of queues can share one arena, which lets operations like
// Chain.Merge move elements between queues without copying them.
//
// Operations treat a nil *Queue (or one that has been freed) as the
// absent queue: they do nothing and report an empty result rather
// than panicking. None of the types in this package are safe for
// concurrent use; callers that share a queue between goroutines must
// provide their own locking.
package lq

import "github.com/tychoish/fun/ers"

const (
	// ErrAbsentQueue is returned by operations with error results
	// when they are called on a nil or freed queue.
	ErrAbsentQueue ers.Error = ers.Error("absent queue")

	// ErrAllocationFailed is reported when an insert could not
	// allocate a node or duplicate a value.
	ErrAllocationFailed ers.Error = ers.Error("allocation failed")

	// ErrForeignQueue is returned when a queue is used with a
	// chain from a different arena.
	ErrForeignQueue ers.Error = ers.Error("queue belongs to a different arena")

	// ErrDuplicateQueue is returned when a queue is added to a
	// chain that already holds it.
	ErrDuplicateQueue ers.Error = ers.Error("queue is already a member of the chain")

	// ErrDoubleRelease is returned when an element is released
	// more than once.
	ErrDoubleRelease ers.Error = ers.Error("element already released")

	// ErrInvalidOption is the root of all errors produced while
	// applying arena options.
	ErrInvalidOption ers.Error = ers.Error("invalid option")
)
