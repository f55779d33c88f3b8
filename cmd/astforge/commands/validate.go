package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astforge/pkg/printer"
	"github.com/Sumatoshi-tech/astforge/pkg/render"
	"github.com/Sumatoshi-tech/astforge/pkg/wire"
)

// exitCodeInvalidJSON is the exit code when the input is not JSON at all.
const exitCodeInvalidJSON = 2

// ErrValidationFailed is returned when a document fails validation.
var ErrValidationFailed = errors.New("validation failed")

func newValidateCommand(a *app) *cobra.Command {
	var (
		mode, kind       string
		colorize, noColor bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a node document against the schema and the operation table",
		Long: `Validate a JSON node document without printing it.

The document is checked against the node schema, then every node is
deserialized for the given mode and kind.

Exit codes:
  0  the document is valid
  1  the document violates the schema or does not deserialize
  2  the input is not JSON

Examples:
  astforge validate tree.json
  astforge validate --mode file - < tree.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			} else if colorize {
				color.NoColor = false //nolint:reassign // intentional override of library global
			}

			return runValidate(cmd, a, args, mode, kind)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(render.ModeNodes), "output mode the document is meant for")
	cmd.Flags().StringVar(&kind, "kind", string(render.KindAny), "projection the nodes must satisfy")
	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(cmd *cobra.Command, a *app, args []string, mode, kind string) error {
	maxBytes, err := a.cfg.Input.MaxBytes()
	if err != nil {
		return err
	}

	data, label, err := readInput(args, cmd.InOrStdin(), maxBytes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	red := color.New(color.FgRed)

	var probe any

	err = json.Unmarshal(data, &probe)
	if err != nil {
		red.Fprintf(out, "Invalid JSON in %s: %v\n", label, err)

		return &exitError{err: fmt.Errorf("%s: %w", label, err), code: exitCodeInvalidJSON, reported: true}
	}

	var verr *wire.ValidationError

	err = wire.Validate(data)
	if errors.As(err, &verr) {
		red.Fprintf(out, "Document violates the node schema (%s)\n", label)
		fmt.Fprintf(out, "\nErrors:\n")

		for _, se := range verr.Errors {
			red.Fprintf(out, "  - %s: %s\n", se.Field, se.Description)
		}

		return &exitError{err: ErrValidationFailed, code: exitCodeFailure, reported: true}
	}

	if err != nil {
		return err
	}

	req, err := render.Decode(data, mode, kind)
	if err == nil {
		err = render.New(printer.New(a.cfg.Printer.Options())).Check(req)
	}

	if err != nil {
		red.Fprintf(out, "Document does not deserialize (%s)\n", label)
		red.Fprintf(out, "  - %v\n", err)

		return &exitError{err: ErrValidationFailed, code: exitCodeFailure, reported: true}
	}

	if !a.quiet {
		reportValid(out, label, len(req.Nodes))
	}

	return nil
}

func reportValid(out io.Writer, label string, nodes int) {
	green := color.New(color.FgGreen)
	green.Fprintf(out, "Document is valid (%s)\n", label)
	green.Fprintf(out, "  Nodes: %d\n", nodes)
}
