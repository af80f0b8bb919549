package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tychoish/fun/assert"
	"github.com/tychoish/fun/assert/check"
	"github.com/tychoish/lq"
	"github.com/tychoish/lq/order"
)

func makeConsole(t *testing.T, conf Conf) (*Console, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	conf.Output = buf
	c, err := New(conf)
	assert.NotError(t, err)
	t.Cleanup(c.Close)
	return c, buf
}

func execAll(t *testing.T, c *Console, lines ...string) {
	t.Helper()
	for _, line := range lines {
		assert.NotError(t, c.Exec(line))
	}
}

func TestConsole(t *testing.T) {
	t.Run("Constructor", func(t *testing.T) {
		_, err := New(Conf{Comparator: "bogus"})
		assert.ErrorIs(t, err, order.ErrUnknownComparator)

		_, err = New(Conf{Capacity: -1})
		assert.ErrorIs(t, err, lq.ErrInvalidOption)
	})
	t.Run("NoQueue", func(t *testing.T) {
		c, _ := makeConsole(t, Conf{})
		for _, line := range []string{"it a", "rh", "size", "dm", "sort", "free", "expect", "prev", "next", "merge"} {
			check.ErrorIs(t, c.Exec(line), ErrNoQueue)
		}
	})
	t.Run("Parsing", func(t *testing.T) {
		c, _ := makeConsole(t, Conf{})
		assert.NotError(t, c.Exec(""))
		assert.NotError(t, c.Exec("   # comment"))
		assert.ErrorIs(t, c.Exec("frobnicate"), ErrUnknownCommand)
		assert.ErrorIs(t, c.Exec("new extra"), ErrUsage)
		assert.ErrorIs(t, c.Exec("it"), ErrUsage)
		execAll(t, c, "new")
		assert.ErrorIs(t, c.Exec("it a zero"), ErrUsage)
		assert.ErrorIs(t, c.Exec("it a 0"), ErrUsage)
		assert.ErrorIs(t, c.Exec("sort sideways"), ErrUsage)
		assert.ErrorIs(t, c.Exec("reverseK k"), ErrUsage)
	})
	t.Run("Session", func(t *testing.T) {
		c, out := makeConsole(t, Conf{Comparator: "numeric"})
		execAll(t, c,
			"new",
			"it 5", "it 2", "it 13", "it 3", "it 8",
			"expect 5 2 13 3 8",
			"size 5",
			"sort",
			"expect 2 3 5 8 13",
			"sort desc",
			"expect 13 8 5 3 2",
			"reverse",
			"swap",
			"expect 3 2 8 5 13",
			"rh 3",
			"rt 13",
			"expect 2 8 5",
			"dm",
			"expect 2 5",
			"verify",
		)
		assert.True(t, strings.Contains(out.String(), "Removed 3 from queue"))
		assert.True(t, strings.Contains(out.String(), "Queue size = 5"))
		assert.ErrorIs(t, c.Exec("size 9"), ErrExpectation)
		assert.ErrorIs(t, c.Exec("rh 9"), ErrExpectation)
		assert.ErrorIs(t, c.Exec("expect 1"), ErrExpectation)
		assert.Equal(t, c.Arena().Outstanding(), 0)
	})
	t.Run("RepeatAndRandom", func(t *testing.T) {
		c, _ := makeConsole(t, Conf{Seed: 1})
		execAll(t, c, "new", "ih x 3", "it RAND 4")
		values := c.Current().Values()
		assert.Equal(t, len(values), 7)
		for _, v := range values[:3] {
			check.Equal(t, v, "x")
		}
		for _, v := range values[3:] {
			check.True(t, len(v) >= 5 && len(v) <= 10)
			check.Equal(t, strings.Trim(v, "abcdefghijklmnopqrstuvwxyz"), "")
		}
	})
	t.Run("Truncation", func(t *testing.T) {
		c, out := makeConsole(t, Conf{BufferSize: 4})
		execAll(t, c, "new", "it abcdef", "rh abc")
		assert.True(t, strings.Contains(out.String(), "Removed abc from queue"))
	})
	t.Run("EmptyOperations", func(t *testing.T) {
		c, _ := makeConsole(t, Conf{})
		execAll(t, c, "new")
		assert.ErrorIs(t, c.Exec("rh"), ErrOperationFailed)
		assert.ErrorIs(t, c.Exec("dm"), ErrOperationFailed)
		assert.ErrorIs(t, c.Exec("dedup"), ErrOperationFailed)
		execAll(t, c, "swap", "reverse", "reverseK 3", "sort", "ascend", "descend")
	})
	t.Run("Capacity", func(t *testing.T) {
		c, _ := makeConsole(t, Conf{Capacity: 3})
		execAll(t, c, "new")
		assert.ErrorIs(t, c.Exec("it a 3"), lq.ErrAllocationFailed)
		execAll(t, c, "expect a a")
		assert.ErrorIs(t, c.Exec("new"), lq.ErrAllocationFailed)
	})
	t.Run("Algorithms", func(t *testing.T) {
		c, out := makeConsole(t, Conf{Comparator: "numeric"})
		execAll(t, c,
			"new", "it 1", "it 2", "it 3", "it 4", "it 5",
			"reverseK",
			"expect 2 1 4 3 5",
			"reverseK 3",
			"expect 4 1 2 3 5",
			"new", "it 5", "it 2", "it 13", "it 3", "it 8",
			"ascend",
			"expect 2 3 8",
			"prev", "descend",
			"expect 5",
			"next",
			"new", "it 2", "it 2", "it 3", "it 1", "it 1",
			"sort", "dedup",
			"expect 3",
		)
		assert.True(t, strings.Contains(out.String(), "Remaining = 3"))
	})
	t.Run("Merge", func(t *testing.T) {
		c, out := makeConsole(t, Conf{Comparator: "numeric"})
		execAll(t, c,
			"new", "it 1", "it 4",
			"new", "it 2", "it 3",
			"new", "it 0",
			"merge",
			"expect 0 1 2 3 4",
			"next", "expect",
			"show",
		)
		assert.True(t, strings.Contains(out.String(), "Merged = 5"))
		assert.True(t, strings.Contains(out.String(), "*q[1] = []"))
	})
	t.Run("Free", func(t *testing.T) {
		c, out := makeConsole(t, Conf{})
		execAll(t, c, "new", "it a", "new", "it b", "free")
		assert.Equal(t, c.Current().Values()[0], "a")
		execAll(t, c, "free")
		assert.True(t, c.Current() == nil)
		assert.True(t, strings.HasSuffix(out.String(), "q = NULL\n"))
		assert.Equal(t, c.Arena().Live(), 0)
		assert.Equal(t, c.Arena().Queues(), 0)
		execAll(t, c, "show", "help")
		assert.True(t, strings.Contains(out.String(), "reverseK [k]"))
	})
	t.Run("Run", func(t *testing.T) {
		t.Run("StopsOnError", func(t *testing.T) {
			c, _ := makeConsole(t, Conf{})
			err := c.Run(context.Background(), strings.NewReader("new\nit a\nbogus\nit b\n"), false)
			assert.ErrorIs(t, err, ErrUnknownCommand)
			assert.True(t, strings.Contains(err.Error(), "line 3"))
			assert.Equal(t, c.Current().Size(), 1)
		})
		t.Run("KeepGoing", func(t *testing.T) {
			c, out := makeConsole(t, Conf{})
			err := c.Run(context.Background(), strings.NewReader("new\nit a\nbogus\nit b\n"), true)
			assert.NotError(t, err)
			assert.Equal(t, c.Current().Size(), 2)
			assert.True(t, strings.Contains(out.String(), "ERROR:"))
		})
		t.Run("Canceled", func(t *testing.T) {
			c, _ := makeConsole(t, Conf{})
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			assert.ErrorIs(t, c.Run(ctx, strings.NewReader("new\n"), true), context.Canceled)
			assert.True(t, c.Current() == nil)
		})
	})
}

func TestScenario(t *testing.T) {
	t.Run("Passing", func(t *testing.T) {
		s, err := LoadScenario(strings.NewReader(`
name: sort-and-dedup
options:
  comparator: numeric
steps:
  - run: new
  - run: it 2
  - run: it 2
  - run: it 3
  - run: it 1
  - run: it 1
  - run: sort
    expect: ["1", "1", "2", "2", "3"]
  - run: dedup
    expect: ["3"]
  - run: rh 4
    error: true
  - run: size 0
    expect: []
`), Conf{})
		assert.NotError(t, err)
		assert.Equal(t, s.Name, "sort-and-dedup")
		assert.Equal(t, s.Options.Comparator, "numeric")
		assert.Equal(t, len(s.Steps), 10)
		assert.NotError(t, s.Execute(context.Background()))
	})
	t.Run("BaseOptions", func(t *testing.T) {
		s, err := LoadScenario(strings.NewReader("steps: [{run: new}]\n"), Conf{Comparator: "numeric", Capacity: 10})
		assert.NotError(t, err)
		assert.Equal(t, s.Options.Comparator, "numeric")
		assert.Equal(t, s.Options.Capacity, 10)
	})
	t.Run("UnknownKeys", func(t *testing.T) {
		_, err := LoadScenario(strings.NewReader("stpes: []\n"), Conf{})
		assert.Error(t, err)
	})
	t.Run("FailedExpectation", func(t *testing.T) {
		s, err := LoadScenario(strings.NewReader(`
steps:
  - run: new
  - run: it b
  - run: ih a
    expect: [b, a]
`), Conf{})
		assert.NotError(t, err)
		err = s.Execute(context.Background())
		assert.ErrorIs(t, err, ErrExpectation)
		assert.True(t, strings.Contains(err.Error(), "step 3"))
	})
	t.Run("UnexpectedSuccess", func(t *testing.T) {
		s := &Scenario{Steps: []Step{{Run: "new", Error: true}}}
		assert.ErrorIs(t, s.Execute(context.Background()), ErrExpectation)
	})
	t.Run("UnexpectedFailure", func(t *testing.T) {
		s := &Scenario{Steps: []Step{{Run: "rh"}}}
		assert.ErrorIs(t, s.Execute(context.Background()), ErrNoQueue)
	})
	t.Run("ExpectWithoutQueue", func(t *testing.T) {
		empty := []string{}
		s := &Scenario{Steps: []Step{{Run: "show", Expect: &empty}}}
		assert.ErrorIs(t, s.Execute(context.Background()), ErrNoQueue)
	})
	t.Run("InvalidOptions", func(t *testing.T) {
		s := &Scenario{Options: Conf{Comparator: "bogus"}}
		assert.ErrorIs(t, s.Execute(context.Background()), order.ErrUnknownComparator)
	})
}
