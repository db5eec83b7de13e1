package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
	"github.com/Sumatoshi-tech/linseg/pkg/observability"
)

// ErrValidationFailed is returned when at least one document is invalid.
var ErrValidationFailed = errors.New("validation failed")

func newValidateCommand(g *globalOptions) *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check sequence invariants",
		Long: `Check that each document's intervals are sorted, contiguous and cover
[0, total_length] exactly. Reads stdin when no file is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.start(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			if len(args) == 0 {
				args = []string{stdinPath}
			}

			failed := 0

			for _, path := range args {
				doc, err := readDocument(cmd, path, inputFormat)
				if err == nil {
					err = rt.service.Validate(cmd.Context(), doc)
				}

				if err != nil {
					failed++

					rt.printer.Error(fmt.Errorf("%s: %w", path, err))

					continue
				}

				if !rt.quiet {
					rt.printer.Valid(path, len(doc.Intervals))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d documents", ErrValidationFailed, failed, len(args))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (default: from extension)")

	return cmd
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of sequence documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(document.Schema())

			return err
		},
	}
}
