package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astforge/pkg/lint"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
	"github.com/Sumatoshi-tech/astforge/pkg/render"
	"github.com/Sumatoshi-tech/astforge/pkg/wire"
)

// printFlags holds the flags of the print command.
type printFlags struct {
	mode              string
	kind              string
	pkg               string
	quote             string
	output            string
	indent            int
	noTrailingNewline bool
	stripComments     bool
	showFixes         bool
	validate          bool
}

func newPrintCommand(a *app) *cobra.Command {
	var flags printFlags

	cmd := &cobra.Command{
		Use:   "print [file.json|-]",
		Short: "Deserialize a node document and print Go code",
		Long: `Deserialize a JSON node document and print it as Go source code.

The document is either one node object or an array of nodes. Modes:
  node    exactly one node
  nodes   every node printed on its own, joined by newlines (default)
  file    top-level declarations wrapped in a package clause
  list    expressions joined by ", "

Examples:
  astforge print tree.json
  astforge print --mode file --package demo tree.json -o demo.go
  astforge print --quote backtick --indent 0 - < tree.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, a, &flags, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&flags.mode, "mode", string(render.ModeNodes), "output mode: node, nodes, file or list")
	fl.StringVar(&flags.kind, "kind", string(render.KindAny), "projection in node and nodes mode: any, statement, expression or declaration")
	fl.StringVar(&flags.pkg, "package", "", "package clause in file mode (default printer.package_name)")
	fl.StringVar(&flags.quote, "quote", "", "string quoting: double or backtick (default printer.quote_style)")
	fl.IntVar(&flags.indent, "indent", 0, "spaces per indentation level, 0 for tabs (default printer.indent_width)")
	fl.BoolVar(&flags.noTrailingNewline, "no-trailing-newline", false, "do not end the output with a newline")
	fl.BoolVar(&flags.stripComments, "strip-comments", false, "drop comments from the output")
	fl.StringVarP(&flags.output, "output", "o", "", "write the code to this file instead of stdout")
	fl.BoolVar(&flags.showFixes, "show-fixes", false, "print a patch of the style fixes to stderr")
	fl.BoolVar(&flags.validate, "validate", false, "check the document against the node schema first")

	return cmd
}

func runPrint(cmd *cobra.Command, a *app, flags *printFlags, args []string) error {
	maxBytes, err := a.cfg.Input.MaxBytes()
	if err != nil {
		return err
	}

	data, label, err := readInput(args, cmd.InOrStdin(), maxBytes)
	if err != nil {
		return err
	}

	if flags.validate || a.cfg.Input.ValidateSchema {
		err = wire.Validate(data)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
	}

	req, err := render.Decode(data, flags.mode, flags.kind)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	req.Package = flags.pkg
	if req.Package == "" {
		req.Package = a.cfg.Printer.PackageName
	}

	opts := flags.overrides(cmd).Apply(a.cfg.Printer.Options())

	printerOpts := []printer.Option{printer.WithLogger(a.logger)}
	if flags.showFixes {
		printerOpts = append(printerOpts, printer.WithFixerFactory(patchingFactory(cmd.ErrOrStderr())))
	}

	r := render.New(printer.New(opts, printerOpts...), render.WithLogger(a.logger))

	code, err := r.Render(cmd.Context(), req)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), flags.output, code)
}

// overrides turns the style flags the user set into printer overrides.
func (f *printFlags) overrides(cmd *cobra.Command) render.Overrides {
	var ov render.Overrides

	fl := cmd.Flags()

	if fl.Changed("quote") {
		ov.Quote = &f.quote
	}

	if fl.Changed("indent") {
		ov.IndentWidth = &f.indent
	}

	if fl.Changed("no-trailing-newline") {
		eol := !f.noTrailingNewline
		ov.TrailingNewline = &eol
	}

	if fl.Changed("strip-comments") {
		ov.StripComments = &f.stripComments
	}

	return ov
}

// patchingFixer reports the changes of every fix pass as a patch.
type patchingFixer struct {
	inner printer.Fixer
	out   io.Writer
}

func (p patchingFixer) Fix(ctx context.Context, text string) (lint.Result, error) {
	res, err := p.inner.Fix(ctx, text)
	if err != nil || !res.Fixed {
		return res, err
	}

	_, werr := io.WriteString(p.out, lint.Patch(text, res.Output))
	if werr != nil {
		return res, fmt.Errorf("write patch: %w", werr)
	}

	return res, nil
}

func patchingFactory(out io.Writer) printer.FixerFactory {
	return func(cfg lint.Config) (printer.Fixer, error) {
		engine, err := lint.New(cfg)
		if err != nil {
			return nil, err
		}

		return patchingFixer{inner: engine, out: out}, nil
	}
}
