package lq

import (
	"fmt"
	"strings"

	"github.com/tychoish/fun/ers"
	"github.com/tychoish/lq/order"
)

// OptionProvider mutates a configuration value, returning an error
// if the option cannot be applied.
type OptionProvider[T any] func(T) error

// ApplyOptions runs every provider against the configuration, and
// then calls its Validate method, if it has one. All errors are
// joined, and a panicking provider is converted to an error.
func ApplyOptions[T any](opt T, opts ...OptionProvider[T]) (err error) {
	defer func() { err = ers.Join(err, ers.ParsePanic(recover())) }()

	for idx := range opts {
		err = ers.Join(err, opts[idx](opt))
	}

	if validator, ok := any(opt).(interface{ Validate() error }); ok {
		err = ers.Join(err, validator.Validate())
	}

	return err
}

// Allocator duplicates values on their way into a queue, and reports
// false when it cannot. It stands in for the memory allocator: tests
// and harnesses use it to inject allocation failures.
type Allocator interface {
	Duplicate(string) (string, bool)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(string) (string, bool)

func (af AllocatorFunc) Duplicate(in string) (string, bool) { return af(in) }

// DefaultAllocator copies every value and never fails.
var DefaultAllocator Allocator = AllocatorFunc(func(in string) (string, bool) { return strings.Clone(in), true })

// ArenaConf describes an arena. The zero value, once validated,
// produces an unbounded arena that orders values lexically.
type ArenaConf struct {
	// Capacity bounds the number of nodes the arena will hold,
	// counting one node for the head of every queue. Zero means
	// unbounded.
	Capacity int
	// Comparator orders values for sorting, merging and duplicate
	// detection. Defaults to order.Lexical.
	Comparator order.Comparator
	// Allocator duplicates values as they are inserted. Defaults
	// to DefaultAllocator.
	Allocator Allocator
}

// Validate fills in defaults and rejects impossible
// configurations.
func (c *ArenaConf) Validate() error {
	if c.Comparator == nil {
		c.Comparator = order.Lexical
	}
	if c.Allocator == nil {
		c.Allocator = DefaultAllocator
	}
	if c.Capacity < 0 {
		return fmt.Errorf("capacity %d is negative: %w", c.Capacity, ErrInvalidOption)
	}
	return nil
}

// ArenaConfSet overrides the configuration with the provided one.
func ArenaConfSet(conf *ArenaConf) OptionProvider[*ArenaConf] {
	return func(c *ArenaConf) error {
		if conf == nil {
			return fmt.Errorf("nil configuration: %w", ErrInvalidOption)
		}
		*c = *conf
		return nil
	}
}

// ArenaConfCapacity bounds the arena.
func ArenaConfCapacity(size int) OptionProvider[*ArenaConf] {
	return func(c *ArenaConf) error {
		if size < 0 {
			return fmt.Errorf("capacity %d is negative: %w", size, ErrInvalidOption)
		}
		c.Capacity = size
		return nil
	}
}

// ArenaConfComparator sets the comparator used by every queue in the
// arena.
func ArenaConfComparator(cmp order.Comparator) OptionProvider[*ArenaConf] {
	return func(c *ArenaConf) error {
		if cmp == nil {
			return fmt.Errorf("nil comparator: %w", ErrInvalidOption)
		}
		c.Comparator = cmp
		return nil
	}
}

// ArenaConfAllocator sets the hook used to duplicate inserted
// values.
func ArenaConfAllocator(alloc Allocator) OptionProvider[*ArenaConf] {
	return func(c *ArenaConf) error {
		if alloc == nil {
			return fmt.Errorf("nil allocator: %w", ErrInvalidOption)
		}
		c.Allocator = alloc
		return nil
	}
}
