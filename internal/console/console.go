// Package console implements a line-oriented command interpreter that
// drives lq queues, for interactive exploration and for scripted
// scenarios.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"slices"
	"strconv"
	"strings"

	"github.com/tychoish/fun/ers"
	"github.com/tychoish/lq"
	"github.com/tychoish/lq/order"
)

const (
	// ErrUnknownCommand is returned for lines that do not start
	// with a known command.
	ErrUnknownCommand ers.Error = ers.Error("unknown command")
	// ErrUsage is returned when a command has the wrong number or
	// form of arguments.
	ErrUsage ers.Error = ers.Error("invalid usage")
	// ErrNoQueue is returned by commands that need a current
	// queue when there is none.
	ErrNoQueue ers.Error = ers.Error("no queue selected")
	// ErrExpectation is returned when a queue does not match an
	// expected value.
	ErrExpectation ers.Error = ers.Error("expectation failed")
	// ErrOperationFailed is returned when a queue operation
	// reports failure.
	ErrOperationFailed ers.Error = ers.Error("operation failed")
)

// randomValue is the argument that asks insert commands for a random
// lowercase string.
const randomValue = "RAND"

// Conf configures a console. The yaml tags let scenario files carry
// the same settings as command line flags.
type Conf struct {
	Comparator string `yaml:"comparator"`
	Capacity   int    `yaml:"capacity"`
	Seed       int64  `yaml:"seed"`
	// BufferSize is the size of the buffer removal commands copy
	// values into. Zero selects a default of 1024.
	BufferSize int `yaml:"buffer_size"`

	Output io.Writer    `yaml:"-"`
	Logger *slog.Logger `yaml:"-"`
}

// Console holds a chain of queues, one of which is current, and
// executes commands against them.
type Console struct {
	arena   *lq.Arena
	chain   *lq.Chain
	current int
	buf     []byte
	out     io.Writer
	logger  *slog.Logger
	rand    *rand.Rand
}

// New creates a console with an empty chain.
func New(conf Conf) (*Console, error) {
	cmp, err := order.Named(conf.Comparator)
	if err != nil {
		return nil, err
	}

	arena, err := lq.NewArena(lq.ArenaConfCapacity(conf.Capacity), lq.ArenaConfComparator(cmp))
	if err != nil {
		return nil, err
	}

	if conf.Output == nil {
		conf.Output = io.Discard
	}
	if conf.Logger == nil {
		conf.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if conf.BufferSize <= 0 {
		conf.BufferSize = 1024
	}

	return &Console{
		arena:   arena,
		chain:   arena.NewChain(),
		current: -1,
		buf:     make([]byte, conf.BufferSize),
		out:     conf.Output,
		logger:  conf.Logger,
		rand:    rand.New(rand.NewSource(conf.Seed)),
	}, nil
}

// Current returns the selected queue, or nil.
func (c *Console) Current() *lq.Queue { return c.chain.Queue(c.current) }

// Arena exposes the console's arena, mostly for inspecting
// accounting in tests.
func (c *Console) Arena() *lq.Arena { return c.arena }

// Close frees every queue.
func (c *Console) Close() {
	c.chain.Free()
	c.current = -1
}

// Run executes every line from the reader. Blank lines and lines
// starting with '#' are skipped. When keepGoing is true, command
// errors are reported to the output and execution continues;
// otherwise the first error stops the run. Context cancellation is
// checked between lines.
func (c *Console) Run(ctx context.Context, in io.Reader, keepGoing bool) error {
	scanner := bufio.NewScanner(in)
	for lineno := 1; scanner.Scan(); lineno++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.Exec(scanner.Text())
		switch {
		case err == nil:
		case keepGoing:
			fmt.Fprintln(c.out, "ERROR:", err)
		default:
			return fmt.Errorf("line %d: %w", lineno, err)
		}
	}
	return scanner.Err()
}

// Exec runs a single command line.
func (c *Console) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	fields := strings.Fields(line)
	cmd, ok := commands[fields[0]]
	if !ok {
		c.logger.Warn("unknown command", "line", line)
		return fmt.Errorf("%q: %w", fields[0], ErrUnknownCommand)
	}

	args := fields[1:]
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return fmt.Errorf("%s: usage %q: %w", fields[0], cmd.usage, ErrUsage)
	}

	c.logger.Debug("exec", "cmd", fields[0], "args", args, "queue", c.current)
	if err := cmd.op(c, args); err != nil {
		c.logger.Warn("command failed", "line", line, "err", err)
		return err
	}
	return nil
}

type command struct {
	usage   string
	help    string
	minArgs int
	maxArgs int
	op      func(*Console, []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"new":      {usage: "new", help: "create a queue and select it", op: (*Console).cmdNew},
		"free":     {usage: "free", help: "free the current queue", op: (*Console).cmdFree},
		"ih":       {usage: "ih <value> [count]", help: "insert at head", minArgs: 1, maxArgs: 2, op: (*Console).cmdInsertHead},
		"it":       {usage: "it <value> [count]", help: "insert at tail", minArgs: 1, maxArgs: 2, op: (*Console).cmdInsertTail},
		"rh":       {usage: "rh [expected]", help: "remove from head", maxArgs: 1, op: (*Console).cmdRemoveHead},
		"rt":       {usage: "rt [expected]", help: "remove from tail", maxArgs: 1, op: (*Console).cmdRemoveTail},
		"size":     {usage: "size [expected]", help: "count elements", maxArgs: 1, op: (*Console).cmdSize},
		"dm":       {usage: "dm", help: "delete the middle element", op: (*Console).cmdDeleteMiddle},
		"dedup":    {usage: "dedup", help: "delete every duplicated value (sort first)", op: (*Console).cmdDedup},
		"swap":     {usage: "swap", help: "swap adjacent pairs", op: (*Console).cmdSwap},
		"reverse":  {usage: "reverse", help: "reverse the queue", op: (*Console).cmdReverse},
		"reverseK": {usage: "reverseK [k]", help: "reverse groups of k (default 2)", maxArgs: 1, op: (*Console).cmdReverseK},
		"sort":     {usage: "sort [desc]", help: "stable merge sort", maxArgs: 1, op: (*Console).cmdSort},
		"ascend":   {usage: "ascend", help: "drop elements with a smaller element to their right", op: (*Console).cmdAscend},
		"descend":  {usage: "descend", help: "drop elements with a greater element to their right", op: (*Console).cmdDescend},
		"merge":    {usage: "merge [desc]", help: "merge every queue into the first", maxArgs: 1, op: (*Console).cmdMerge},
		"prev":     {usage: "prev", help: "select the previous queue", op: (*Console).cmdPrev},
		"next":     {usage: "next", help: "select the next queue", op: (*Console).cmdNext},
		"show":     {usage: "show", help: "print every queue", op: (*Console).cmdShow},
		"expect":   {usage: "expect [values...]", help: "check the current queue's contents", maxArgs: -1, op: (*Console).cmdExpect},
		"verify":   {usage: "verify", help: "check the links of every queue", op: (*Console).cmdVerify},
		"help":     {usage: "help", help: "list commands", op: (*Console).cmdHelp},
	}
}

func (c *Console) queue() (*lq.Queue, error) {
	q := c.Current()
	if q == nil {
		return nil, ErrNoQueue
	}
	return q, nil
}

func (c *Console) show() {
	q := c.Current()
	if q == nil {
		fmt.Fprintln(c.out, "q = NULL")
		return
	}
	fmt.Fprintf(c.out, "q = [%s]\n", strings.Join(q.Values(), " "))
}

func (c *Console) randomString() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	out := make([]byte, 5+c.rand.Intn(6))
	for i := range out {
		out[i] = letters[c.rand.Intn(len(letters))]
	}
	return string(out)
}

func (c *Console) cmdNew([]string) error {
	if c.chain.New() == nil {
		return fmt.Errorf("new: %w", lq.ErrAllocationFailed)
	}
	c.current = c.chain.Len() - 1
	c.show()
	return nil
}

func (c *Console) cmdFree([]string) error {
	q, err := c.queue()
	if err != nil {
		return err
	}

	c.chain.Remove(q)
	q.Free()
	c.current = min(c.current, c.chain.Len()-1)
	c.show()
	return nil
}

func (c *Console) insert(args []string, op func(*lq.Queue, string) bool) error {
	q, err := c.queue()
	if err != nil {
		return err
	}

	count := 1
	if len(args) == 2 {
		if count, err = strconv.Atoi(args[1]); err != nil || count < 1 {
			return fmt.Errorf("count %q: %w", args[1], ErrUsage)
		}
	}

	for i := 0; i < count; i++ {
		value := args[0]
		if value == randomValue {
			value = c.randomString()
		}
		if !op(q, value) {
			c.show()
			return fmt.Errorf("inserting %q (%d of %d): %w", value, i+1, count, lq.ErrAllocationFailed)
		}
	}

	c.show()
	return nil
}

func (c *Console) cmdInsertHead(args []string) error { return c.insert(args, (*lq.Queue).InsertHead) }
func (c *Console) cmdInsertTail(args []string) error { return c.insert(args, (*lq.Queue).InsertTail) }

func (c *Console) remove(args []string, op func(*lq.Queue, []byte) *lq.Element) error {
	q, err := c.queue()
	if err != nil {
		return err
	}

	e := op(q, c.buf)
	if e == nil {
		return fmt.Errorf("remove from empty queue: %w", ErrOperationFailed)
	}
	defer func() { _ = e.Release() }()

	got := string(c.buf[:max(0, slices.Index(c.buf, 0))])
	fmt.Fprintf(c.out, "Removed %s from queue\n", got)
	c.show()

	if len(args) == 1 && args[0] != got {
		return fmt.Errorf("removed %q, expected %q: %w", got, args[0], ErrExpectation)
	}
	return nil
}

func (c *Console) cmdRemoveHead(args []string) error { return c.remove(args, (*lq.Queue).RemoveHead) }
func (c *Console) cmdRemoveTail(args []string) error { return c.remove(args, (*lq.Queue).RemoveTail) }

func (c *Console) cmdSize(args []string) error {
	q, err := c.queue()
	if err != nil {
		return err
	}

	size := q.Size()
	fmt.Fprintf(c.out, "Queue size = %d\n", size)
	if len(args) == 1 && args[0] != strconv.Itoa(size) {
		return fmt.Errorf("size %d, expected %s: %w", size, args[0], ErrExpectation)
	}
	return nil
}

// mutate runs an operation on the current queue and prints the
// result.
func (c *Console) mutate(op func(*lq.Queue) bool) error {
	q, err := c.queue()
	if err != nil {
		return err
	}

	ok := op(q)
	c.show()
	if !ok {
		return ErrOperationFailed
	}
	return nil
}

func always(op func(*lq.Queue)) func(*lq.Queue) bool {
	return func(q *lq.Queue) bool { op(q); return true }
}

func (c *Console) cmdDeleteMiddle([]string) error { return c.mutate((*lq.Queue).DeleteMiddle) }
func (c *Console) cmdDedup([]string) error { return c.mutate((*lq.Queue).DeleteDuplicates) }
func (c *Console) cmdSwap([]string) error { return c.mutate(always((*lq.Queue).Swap)) }
func (c *Console) cmdReverse([]string) error { return c.mutate(always((*lq.Queue).Reverse)) }

func (c *Console) cmdReverseK(args []string) error {
	k := 2
	if len(args) == 1 {
		var err error
		if k, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("k %q: %w", args[0], ErrUsage)
		}
	}
	return c.mutate(always(func(q *lq.Queue) { q.ReverseK(k) }))
}

func descending(args []string) (bool, error) {
	switch {
	case len(args) == 0:
		return false, nil
	case args[0] == "desc" || args[0] == "descend":
		return true, nil
	case args[0] == "asc" || args[0] == "ascend":
		return false, nil
	default:
		return false, fmt.Errorf("direction %q: %w", args[0], ErrUsage)
	}
}

func (c *Console) cmdSort(args []string) error {
	desc, err := descending(args)
	if err != nil {
		return err
	}

	return c.mutate(func(q *lq.Queue) bool {
		q.Sort(desc)
		return q.IsSorted(desc)
	})
}

func (c *Console) monotonic(op func(*lq.Queue) int) error {
	q, err := c.queue()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Remaining = %d\n", op(q))
	c.show()
	return nil
}

func (c *Console) cmdAscend([]string) error { return c.monotonic((*lq.Queue).Ascend) }
func (c *Console) cmdDescend([]string) error { return c.monotonic((*lq.Queue).Descend) }

func (c *Console) cmdMerge(args []string) error {
	desc, err := descending(args)
	if err != nil {
		return err
	}
	if c.chain.Len() == 0 {
		return ErrNoQueue
	}

	total := c.chain.Merge(desc)
	c.current = 0
	fmt.Fprintf(c.out, "Merged = %d\n", total)
	c.show()
	return nil
}

func (c *Console) cmdPrev([]string) error {
	if c.current <= 0 {
		return ErrNoQueue
	}
	c.current--
	c.show()
	return nil
}

func (c *Console) cmdNext([]string) error {
	if c.current+1 >= c.chain.Len() {
		return ErrNoQueue
	}
	c.current++
	c.show()
	return nil
}

func (c *Console) cmdShow([]string) error {
	if c.chain.Len() == 0 {
		fmt.Fprintln(c.out, "no queues")
		return nil
	}
	for idx, q := range c.chain.All() {
		marker := " "
		if idx == c.current {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%sq[%d] = [%s]\n", marker, idx, strings.Join(q.Values(), " "))
	}
	return nil
}

func (c *Console) cmdExpect(args []string) error {
	q, err := c.queue()
	if err != nil {
		return err
	}
	return c.expect(q, args)
}

func (c *Console) expect(q *lq.Queue, expected []string) error {
	if got := q.Values(); !slices.Equal(got, expected) {
		return fmt.Errorf("queue is %q, expected %q: %w", got, expected, ErrExpectation)
	}
	return nil
}

func (c *Console) cmdVerify([]string) error {
	var errs []error
	for idx, q := range c.chain.All() {
		if err := q.Verify(); err != nil {
			errs = append(errs, fmt.Errorf("q[%d]: %w", idx, err))
		}
	}
	if a := c.arena; a.Outstanding() != 0 {
		errs = append(errs, fmt.Errorf("%d elements removed but not released: %w", a.Outstanding(), ErrExpectation))
	}
	return errors.Join(errs...)
}

func (c *Console) cmdHelp([]string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(c.out, "  %-20s %s\n", commands[name].usage, commands[name].help)
	}
	return nil
}
