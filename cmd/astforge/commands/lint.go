package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astforge/pkg/lint"
)

// lintFlags holds the flags of the lint command.
type lintFlags struct {
	quote    string
	eol      string
	output   string
	indent   int
	fix      bool
	fragment bool
}

func newLintCommand(a *app) *cobra.Command {
	var flags lintFlags

	cmd := &cobra.Command{
		Use:   "lint [file.go|-]",
		Short: "Check or fix the style of Go text",
		Long: `Run the printer's style rules (indent, quotes, eol-last,
no-inferrable-types) over Go text.

Without --fix every violation is reported and the command fails if any
remain. With --fix the fixed text is written to stdout (or --output) and
violations that could not be fixed are reported.

Examples:
  astforge lint main.go
  astforge lint --fix --indent 4 main.go -o main.go`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, a, &flags, args)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&flags.fix, "fix", false, "apply fixes and write the fixed text")
	fl.StringVar(&flags.quote, "quote", "", "string quoting: double or backtick (default printer.quote_style)")
	fl.IntVar(&flags.indent, "indent", 0, "spaces per indentation level, 0 for tabs (default printer.indent_width)")
	fl.StringVar(&flags.eol, "eol", "", "final newline: always or never (default from printer.trailing_newline)")
	fl.BoolVar(&flags.fragment, "fragment", false, "accept text that is not a complete Go file")
	fl.StringVarP(&flags.output, "output", "o", "", "write the fixed text to this file instead of stdout")

	return cmd
}

// config merges the printer settings with the flags the user set.
func (f *lintFlags) config(cmd *cobra.Command, a *app) lint.Config {
	cfg := lint.Config{
		Quotes: lint.QuoteStyle(a.cfg.Printer.QuoteStyle),
		Indent: a.cfg.Printer.IndentWidth,
		EOL:    lint.EOLNever,
		Goal:   lint.GoalFile,
	}

	if a.cfg.Printer.TrailingNewline {
		cfg.EOL = lint.EOLAlways
	}

	fl := cmd.Flags()

	if fl.Changed("quote") {
		cfg.Quotes = lint.QuoteStyle(f.quote)
	}

	if fl.Changed("indent") {
		cfg.Indent = f.indent
	}

	if fl.Changed("eol") {
		cfg.EOL = lint.EOLMode(f.eol)
	}

	if f.fragment {
		cfg.Goal = lint.GoalFragment
	}

	return cfg
}

func runLint(cmd *cobra.Command, a *app, flags *lintFlags, args []string) error {
	maxBytes, err := a.cfg.Input.MaxBytes()
	if err != nil {
		return err
	}

	text, label, err := readText(args, cmd.InOrStdin(), maxBytes)
	if err != nil {
		return err
	}

	engine, err := lint.New(flags.config(cmd, a), lint.WithLogger(a.logger))
	if err != nil {
		return err
	}

	var res lint.Result

	if flags.fix {
		res, err = engine.Fix(cmd.Context(), text)
	} else {
		res, err = engine.Verify(cmd.Context(), text)
	}

	if err != nil {
		return err
	}

	if flags.fix {
		err = writeOutput(cmd.OutOrStdout(), flags.output, res.Output)
		if err != nil {
			return err
		}
	}

	if len(res.Messages) == 0 {
		return nil
	}

	reportMessages(cmd.ErrOrStderr(), label, res.Messages)

	return &exitError{
		err:      fmt.Errorf("%s: %d style violation(s)", label, len(res.Messages)),
		code:     exitCodeFailure,
		reported: true,
	}
}

func reportMessages(w io.Writer, label string, msgs []lint.Message) {
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, m := range msgs {
		c := yellow
		if m.Fatal {
			c = red
		}

		c.Fprintf(w, "%s:%d:%d: %s", label, m.Line, m.Column, m.Message)

		if m.RuleID != "" {
			fmt.Fprintf(w, " (%s)", m.RuleID)
		}

		fmt.Fprintln(w)
	}
}
