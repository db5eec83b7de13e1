package mcp

import (
	"context"
	"errors"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/linseg/pkg/edit"
	"github.com/Sumatoshi-tech/linseg/pkg/linear"
)

func (s *Server) handleResize(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ResizeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	doc, err := toDocument(input.Intervals, input.TotalLength)
	if err != nil {
		return errorResult(err)
	}

	return editResult(s.svc.Resize(ctx, edit.ResizeRequest{
		Document:             doc,
		Index:                input.Index,
		Edge:                 input.Edge,
		Delta:                input.Delta,
		Position:             input.Position,
		AllowResizeNeighbour: input.AllowResizeNeighbour,
	}))
}

func (s *Server) handleRepair(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input RepairInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	doc, err := toDocument(input.Intervals, 0)
	if err != nil {
		return errorResult(err)
	}

	req := edit.RepairRequest{
		Document:       doc,
		KeepZeroLength: input.KeepZeroLength,
		Epsilon:        input.Epsilon,
	}

	if input.TotalLength != 0 {
		req.TotalLength = &input.TotalLength
	}

	return editResult(s.svc.Repair(ctx, req))
}

func (s *Server) handleSplit(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input SplitInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	doc, err := toDocument(input.Intervals, input.TotalLength)
	if err != nil {
		return errorResult(err)
	}

	return editResult(s.svc.Split(ctx, edit.SplitRequest{
		Document: doc,
		At:       input.At,
		Selected: input.Selected,
	}))
}

func (s *Server) handleMerge(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input MergeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	doc, err := toDocument(input.Intervals, input.TotalLength)
	if err != nil {
		return errorResult(err)
	}

	return editResult(s.svc.Merge(ctx, edit.MergeRequest{
		Document:  doc,
		Index:     input.Index,
		Direction: input.Direction,
	}))
}

func (s *Server) handleValidate(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ValidateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	doc, err := toDocument(input.Intervals, input.TotalLength)
	if err != nil {
		return errorResult(err)
	}

	err = s.svc.Validate(ctx, doc)

	switch {
	case err == nil:
		return jsonResult(ValidateOutput{Valid: true})
	case errors.Is(err, linear.ErrInvalidSequence):
		return jsonResult(ValidateOutput{Error: err.Error()})
	default:
		return errorResult(err)
	}
}

func editResult(res *edit.Result, err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(res)
}
