package console

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted session, usually read from a YAML file:
//
//	options:
//	  comparator: numeric
//	steps:
//	  - run: new
//	  - run: it 3
//	  - run: ih 1
//	    expect: ["1", "3"]
//	  - run: rh 9
//	    error: true
type Scenario struct {
	Name    string `yaml:"name"`
	Options Conf   `yaml:"options"`
	Steps   []Step `yaml:"steps"`
}

// Step is one command in a scenario. When Expect is set, the current
// queue must hold exactly those values after the command runs. When
// Error is true the command must fail.
type Step struct {
	Run    string    `yaml:"run"`
	Expect *[]string `yaml:"expect"`
	Error  bool      `yaml:"error"`
}

// LoadScenario decodes a scenario, using base as the default
// options. Unknown keys are rejected.
func LoadScenario(in io.Reader, base Conf) (*Scenario, error) {
	s := &Scenario{Options: base}

	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}

	return s, nil
}

// Execute runs every step against a fresh console, stopping at the
// first step that does not behave as described. The console is
// closed afterwards, and every queue must have been verified.
func (s *Scenario) Execute(ctx context.Context) error {
	c, err := New(s.Options)
	if err != nil {
		return err
	}
	defer c.Close()

	for idx, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.Exec(step.Run)
		switch {
		case step.Error && err == nil:
			return fmt.Errorf("step %d %q: succeeded: %w", idx+1, step.Run, ErrExpectation)
		case !step.Error && err != nil:
			return fmt.Errorf("step %d %q: %w", idx+1, step.Run, err)
		}

		if step.Expect == nil {
			continue
		}

		q, err := c.queue()
		if err != nil {
			return fmt.Errorf("step %d %q: %w", idx+1, step.Run, err)
		}
		if err := c.expect(q, *step.Expect); err != nil {
			return fmt.Errorf("step %d %q: %w", idx+1, step.Run, err)
		}
	}

	return c.cmdVerify(nil)
}
