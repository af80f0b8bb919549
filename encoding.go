package lq

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON renders the queue as a JSON array of strings, front to
// back. By supporting json.Marshaler and json.Unmarshaler, queues
// can appear inside larger JSON documents.
func (q *Queue) MarshalJSON() ([]byte, error) { return json.Marshal(q.Values()) }

// UnmarshalJSON reads a JSON array of strings and appends each value
// to the back of the queue. Existing elements are kept. Values
// inserted before an allocation failure remain in the queue.
func (q *Queue) UnmarshalJSON(in []byte) error {
	var values []string
	if err := json.Unmarshal(in, &values); err != nil {
		return err
	}
	return q.extend(values)
}

// MarshalYAML renders the queue as a YAML sequence of strings.
func (q *Queue) MarshalYAML() (any, error) { return q.Values(), nil }

// UnmarshalYAML reads a YAML sequence and appends each value to the
// back of the queue, with the same semantics as UnmarshalJSON.
func (q *Queue) UnmarshalYAML(node *yaml.Node) error {
	var values []string
	if err := node.Decode(&values); err != nil {
		return err
	}
	return q.extend(values)
}

func (q *Queue) extend(values []string) error {
	if !q.ok() {
		return ErrAbsentQueue
	}

	for idx, value := range values {
		if !q.InsertTail(value) {
			return fmt.Errorf("inserting value %d of %d: %w", idx+1, len(values), ErrAllocationFailed)
		}
	}
	return nil
}
