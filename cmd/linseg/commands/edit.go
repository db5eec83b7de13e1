package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
	"github.com/Sumatoshi-tech/linseg/pkg/edit"
	"github.com/Sumatoshi-tech/linseg/pkg/linear"
	"github.com/Sumatoshi-tech/linseg/pkg/observability"
)

// editRunner runs one edit against the loaded document.
type editRunner func(cmd *cobra.Command, rt *runtime, doc *document.Document) (*edit.Result, error)

// editCommand builds a command that reads a document, applies run and emits
// the result.
func editCommand(g *globalOptions, cmd *cobra.Command, op string, run editRunner) *cobra.Command {
	o := &ioOptions{}
	o.register(cmd)

	cmd.Args = cobra.MaximumNArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		rt, err := g.start(cmd, observability.ModeCLI)
		if err != nil {
			return err
		}
		defer rt.close(cmd.Context())

		path := stdinPath
		if len(args) > 0 {
			path = args[0]
		}

		doc, err := readDocument(cmd, path, o.inputFormat)
		if err != nil {
			return err
		}

		res, err := run(cmd, rt, doc)
		if err != nil {
			return err
		}

		return rt.emit(cmd, op, doc, res, o)
	}

	return cmd
}

func newResizeCommand(g *globalOptions) *cobra.Command {
	var (
		index    int
		edge     string
		delta    float64
		position float64
		allow    bool
	)

	cmd := &cobra.Command{
		Use:   "resize [file]",
		Short: "Move one edge of an interval",
		Long: `Move the begin or end edge of the interval at --index by --delta, or to
the absolute position --to. Growing shrinks the neighbour and, when allowed,
consumes whole neighbours; shrinking hands the freed range to the neighbour or
to a new filler interval at the sequence boundary.`,
		Example: "  linseg resize track.yaml --index 0 --edge end --delta 8\n" +
			"  linseg resize track.yaml --index 2 --edge begin --to 12.5 -o track.yaml",
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "Index of the interval to resize")
	cmd.Flags().StringVarP(&edge, "edge", "e", string(linear.EdgeEnd), "Edge to move: begin or end")
	cmd.Flags().Float64VarP(&delta, "delta", "d", 0, "Signed distance to move the edge by")
	cmd.Flags().Float64Var(&position, "to", 0, "Absolute position to move the edge to")
	cmd.Flags().BoolVar(&allow, "allow-resize-neighbour", true,
		"Let the interval consume whole neighbours (default: editor.allow_resize_neighbour)")
	cmd.MarkFlagsMutuallyExclusive("delta", "to")
	cmd.MarkFlagsOneRequired("delta", "to")

	return editCommand(g, cmd, edit.OpResize, func(cmd *cobra.Command, rt *runtime, doc *document.Document) (*edit.Result, error) {
		req := edit.ResizeRequest{Document: doc, Index: index, Edge: edge}

		if cmd.Flags().Changed("delta") {
			req.Delta = &delta
		}

		if cmd.Flags().Changed("to") {
			req.Position = &position
		}

		if cmd.Flags().Changed("allow-resize-neighbour") {
			req.AllowResizeNeighbour = &allow
		}

		return rt.service.Resize(cmd.Context(), req)
	})
}

func newRepairCommand(g *globalOptions) *cobra.Command {
	var (
		totalLength float64
		keepZero    bool
		epsilon     float64
	)

	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Normalize a broken sequence",
		Long: `Sort intervals, close gaps and overlaps, pin the sequence to
[0, total_length] and drop empty intervals.`,
	}

	cmd.Flags().Float64Var(&totalLength, "total-length", 0,
		"Length to repair against (default: document total_length or last end)")
	cmd.Flags().BoolVar(&keepZero, "keep-zero-length", false, "Keep zero-length intervals")
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0, "Length at or below which an interval counts as empty")

	return editCommand(g, cmd, edit.OpRepair, func(cmd *cobra.Command, rt *runtime, doc *document.Document) (*edit.Result, error) {
		req := edit.RepairRequest{Document: doc}

		if cmd.Flags().Changed("total-length") {
			req.TotalLength = &totalLength
		}

		if cmd.Flags().Changed("keep-zero-length") {
			req.KeepZeroLength = &keepZero
		}

		if cmd.Flags().Changed("epsilon") {
			req.Epsilon = &epsilon
		}

		return rt.service.Repair(cmd.Context(), req)
	})
}

func newSplitCommand(g *globalOptions) *cobra.Command {
	var (
		at       float64
		selected int
	)

	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Cut an interval in two",
	}

	cmd.Flags().Float64Var(&at, "at", 0, "Position to cut at")
	cmd.Flags().IntVar(&selected, "select", 0, "Selected index to carry through the edit")
	_ = cmd.MarkFlagRequired("at")

	return editCommand(g, cmd, edit.OpSplit, func(cmd *cobra.Command, rt *runtime, doc *document.Document) (*edit.Result, error) {
		return rt.service.Split(cmd.Context(), edit.SplitRequest{Document: doc, At: at, Selected: selected})
	})
}

func newMergeCommand(g *globalOptions) *cobra.Command {
	var (
		index     int
		direction string
	)

	cmd := &cobra.Command{
		Use:   "merge [file]",
		Short: "Join an interval with a neighbour",
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "Index of the interval that absorbs its neighbour")
	cmd.Flags().StringVar(&direction, "direction", string(linear.Next), "Neighbour to absorb: previous or next")

	return editCommand(g, cmd, edit.OpMerge, func(cmd *cobra.Command, rt *runtime, doc *document.Document) (*edit.Result, error) {
		return rt.service.Merge(cmd.Context(), edit.MergeRequest{Document: doc, Index: index, Direction: direction})
	})
}
