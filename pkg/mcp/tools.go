package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/sjson"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
)

// Tool name constants.
const (
	ToolNameResize   = "linseg_resize"
	ToolNameRepair   = "linseg_repair"
	ToolNameSplit    = "linseg_split"
	ToolNameMerge    = "linseg_merge"
	ToolNameValidate = "linseg_validate"
)

// MaxIntervals is the largest sequence a tool call accepts.
const MaxIntervals = 100_000

// Sentinel errors for tool input validation.
var (
	// ErrEmptyIntervals indicates the intervals parameter is empty.
	ErrEmptyIntervals = errors.New("intervals parameter is required and must not be empty")
	// ErrTooManyIntervals indicates the sequence exceeds MaxIntervals.
	ErrTooManyIntervals = errors.New("too many intervals")
)

// Input types (auto-generate JSON schemas via struct tags).

// ResizeInput is the input schema for the linseg_resize tool.
type ResizeInput struct {
	Intervals            []map[string]any `json:"intervals"                        jsonschema:"intervals with numeric begin and end plus arbitrary payload fields"`
	TotalLength          float64          `json:"total_length,omitempty"           jsonschema:"length of the covered range (default: end of the last interval)"`
	Index                int              `json:"index"                            jsonschema:"index of the interval to resize"`
	Edge                 string           `json:"edge"                             jsonschema:"edge to move: begin or end"`
	Delta                *float64         `json:"delta,omitempty"                  jsonschema:"signed amount to move the edge by"`
	Position             *float64         `json:"position,omitempty"               jsonschema:"absolute position to move the edge to (instead of delta)"`
	AllowResizeNeighbour *bool            `json:"allow_resize_neighbour,omitempty" jsonschema:"let the interval consume whole neighbours (default: server setting)"`
}

// RepairInput is the input schema for the linseg_repair tool.
type RepairInput struct {
	Intervals      []map[string]any `json:"intervals"                  jsonschema:"possibly broken intervals to repair"`
	TotalLength    float64          `json:"total_length,omitempty"     jsonschema:"length to repair against (default: end of the last interval)"`
	KeepZeroLength *bool            `json:"keep_zero_length,omitempty" jsonschema:"keep zero-length intervals (default: server setting)"`
	Epsilon        *float64         `json:"epsilon,omitempty"          jsonschema:"length at or below which an interval counts as empty"`
}

// SplitInput is the input schema for the linseg_split tool.
type SplitInput struct {
	Intervals   []map[string]any `json:"intervals"              jsonschema:"intervals of the sequence"`
	TotalLength float64          `json:"total_length,omitempty" jsonschema:"length of the covered range"`
	At          float64          `json:"at"                     jsonschema:"position to cut at"`
	Selected    int              `json:"selected,omitempty"     jsonschema:"currently selected index, remapped in the result"`
}

// MergeInput is the input schema for the linseg_merge tool.
type MergeInput struct {
	Intervals   []map[string]any `json:"intervals"              jsonschema:"intervals of the sequence"`
	TotalLength float64          `json:"total_length,omitempty" jsonschema:"length of the covered range"`
	Index       int              `json:"index"                  jsonschema:"index of the interval that absorbs its neighbour"`
	Direction   string           `json:"direction"              jsonschema:"neighbour to absorb: previous or next"`
}

// ValidateInput is the input schema for the linseg_validate tool.
type ValidateInput struct {
	Intervals   []map[string]any `json:"intervals"              jsonschema:"intervals of the sequence"`
	TotalLength float64          `json:"total_length,omitempty" jsonschema:"length the sequence must cover"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// ValidateOutput is the answer of linseg_validate.
type ValidateOutput struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// toDocument turns raw tool intervals into a schema-checked document.
func toDocument(intervals []map[string]any, totalLength float64) (*document.Document, error) {
	if len(intervals) == 0 {
		return nil, ErrEmptyIntervals
	}

	if len(intervals) > MaxIntervals {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyIntervals, len(intervals), MaxIntervals)
	}

	data, err := sjson.SetBytes([]byte(`{}`), "intervals", intervals)
	if err != nil {
		return nil, fmt.Errorf("encode intervals: %w", err)
	}

	if totalLength != 0 {
		data, err = sjson.SetBytes(data, "total_length", totalLength)
		if err != nil {
			return nil, fmt.Errorf("encode total length: %w", err)
		}
	}

	return document.Read(bytes.NewReader(data), document.NewJSONCodec())
}
