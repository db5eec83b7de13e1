package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
	"github.com/Sumatoshi-tech/linseg/pkg/edit"
	"github.com/Sumatoshi-tech/linseg/pkg/render"
)

const stdinPath = "-"

// ioOptions are the input and output flags of the edit commands.
type ioOptions struct {
	inputFormat string
	output      string
	format      string
	diff        bool
}

func (o *ioOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.inputFormat, "input-format", "",
		"Input format: json, yaml (default: from extension, json for stdin)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "",
		"Write the resulting document to this file (.json, .yaml, optionally .lz4)")
	cmd.Flags().StringVar(&o.format, "format", "", "Stdout format: table, json, yaml (default: output.format)")
	cmd.Flags().BoolVar(&o.diff, "diff", false, "Print a line diff between input and result")
}

// readDocument reads path, or stdin when path is empty or "-".
func readDocument(cmd *cobra.Command, path, format string) (*document.Document, error) {
	if path == "" || path == stdinPath {
		codec, err := codecOrDefault(format)
		if err != nil {
			return nil, err
		}

		return document.Read(cmd.InOrStdin(), codec)
	}

	if format == "" {
		return document.Load(path)
	}

	codec, err := document.CodecByName(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return document.Read(f, codec)
}

func codecOrDefault(format string) (document.Codec, error) {
	if format == "" {
		return document.NewJSONCodec(), nil
	}

	return document.CodecByName(format)
}

// emit writes an edit result according to the io flags.
func (rt *runtime) emit(cmd *cobra.Command, op string, before *document.Document, res *edit.Result, o *ioOptions) error {
	out := cmd.OutOrStdout()

	if o.diff {
		_, err := io.WriteString(out, render.Diff(before, res.Document, rt.color))
		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	if o.output != "" {
		err := document.Save(o.output, res.Document)
		if err != nil {
			return err
		}
	} else if !o.diff {
		format := o.format
		if format == "" {
			format = rt.cfg.Output.Format
		}

		err := render.Document(out, res.Document, format, res.Selected)
		if err != nil {
			return err
		}
	}

	if !rt.quiet {
		rt.printer.Result(op, res)
	}

	return nil
}
