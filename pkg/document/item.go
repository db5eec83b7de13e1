// Package document reads and writes interval sequences as JSON or YAML files.
//
// An interval is stored as a flat object. The begin and end keys hold its
// bounds; every other key is opaque payload that is carried through edits
// untouched.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/linseg/pkg/linear"
)

// Reserved keys of a stored interval.
const (
	KeyBegin = "begin"
	KeyEnd   = "end"
)

// ErrMissingBound is returned when a stored interval lacks begin or end, or
// holds a non-numeric bound.
var ErrMissingBound = errors.New("interval bound missing or not a number")

// Fields is the opaque payload of an interval.
type Fields map[string]any

// Clone returns a shallow copy of the fields, so that split halves can be
// edited independently.
func (f Fields) Clone() Fields {
	return maps.Clone(f)
}

// Item is one stored interval.
type Item struct {
	Begin  float64
	End    float64
	Fields Fields
}

// MarshalJSON writes the item as a flat object.
func (it Item) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(it.Fields)+2)
	maps.Copy(flat, it.Fields)
	flat[KeyBegin] = it.Begin
	flat[KeyEnd] = it.End

	data, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("marshal interval: %w", err)
	}

	return data, nil
}

// UnmarshalJSON reads a flat object.
func (it *Item) UnmarshalJSON(data []byte) error {
	var flat map[string]any

	err := json.Unmarshal(data, &flat)
	if err != nil {
		return fmt.Errorf("unmarshal interval: %w", err)
	}

	return it.fromFlat(flat)
}

// MarshalYAML writes begin and end first, then the payload keys in sorted
// order.
func (it Item) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value any) error {
		var valueNode yaml.Node

		err := valueNode.Encode(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&valueNode,
		)

		return nil
	}

	err := add(KeyBegin, it.Begin)
	if err != nil {
		return nil, err
	}

	err = add(KeyEnd, it.End)
	if err != nil {
		return nil, err
	}

	for _, key := range slices.Sorted(maps.Keys(it.Fields)) {
		if key == KeyBegin || key == KeyEnd {
			continue
		}

		err = add(key, it.Fields[key])
		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

// UnmarshalYAML reads a flat mapping.
func (it *Item) UnmarshalYAML(value *yaml.Node) error {
	var flat map[string]any

	err := value.Decode(&flat)
	if err != nil {
		return fmt.Errorf("unmarshal interval: %w", err)
	}

	return it.fromFlat(flat)
}

func (it *Item) fromFlat(flat map[string]any) error {
	begin, ok := toFloat(flat[KeyBegin])
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingBound, KeyBegin)
	}

	end, ok := toFloat(flat[KeyEnd])
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingBound, KeyEnd)
	}

	delete(flat, KeyBegin)
	delete(flat, KeyEnd)

	it.Begin = begin
	it.End = end
	it.Fields = nil

	if len(flat) > 0 {
		it.Fields = flat
	}

	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()

		return f, err == nil
	default:
		return 0, false
	}
}

// Interval converts the item into an editor interval.
func (it Item) Interval() linear.Interval[Fields] {
	return linear.Interval[Fields]{Begin: it.Begin, End: it.End, Payload: it.Fields}
}

// ItemOf converts an editor interval back into an item.
func ItemOf(iv linear.Interval[Fields]) Item {
	return Item{Begin: iv.Begin, End: iv.End, Fields: iv.Payload}
}
