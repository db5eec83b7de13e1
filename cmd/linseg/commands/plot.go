package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/linseg/pkg/observability"
	"github.com/Sumatoshi-tech/linseg/pkg/render"
)

func newPlotCommand(g *globalOptions) *cobra.Command {
	var (
		inputFormat string
		output      string
		title       string
	)

	cmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "Render a sequence as an HTML chart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.start(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			path := stdinPath
			if len(args) > 0 {
				path = args[0]
			}

			doc, err := readDocument(cmd, path, inputFormat)
			if err != nil {
				return err
			}

			if title == "" {
				title = filepath.Base(path)
			}

			if output == "" {
				return render.Plot(cmd.OutOrStdout(), doc, title)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}

			err = render.Plot(f, doc, title)
			if err != nil {
				_ = f.Close()

				return err
			}

			err = f.Close()
			if err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}

			if !rt.quiet {
				rt.printer.Hint("wrote %s", output)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (default: from extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "HTML file to write (default: stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title (default: input file name)")

	return cmd
}
