// Package printer renders constructed syntax trees as Go source text and
// normalizes the result through the style engine.
package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	goprinter "go/printer"
	"go/token"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astforge/pkg/lint"
	"github.com/Sumatoshi-tech/astforge/pkg/observability"
)

const (
	tracerName = "astforge.printer"
	spanPrint  = "printer.print"

	// tabWidth is the tab stop used in tab indentation mode.
	tabWidth = 8
)

// Sentinel errors.
var (
	// ErrUnresolvedStyleViolation is wrapped by StyleViolationError.
	ErrUnresolvedStyleViolation = errors.New("unresolved style violation")

	// ErrUnprintable is returned for nodes that have no source form on their
	// own, such as a field list or a comment group.
	ErrUnprintable = errors.New("node cannot be printed")
)

// StyleViolationError reports diagnostics the style engine could not fix.
// Text is the offending text the positions refer to.
type StyleViolationError struct {
	Text     string
	Messages []lint.Message
}

// Error implements error.
func (e *StyleViolationError) Error() string {
	var b strings.Builder

	b.WriteString(ErrUnresolvedStyleViolation.Error())
	b.WriteString(":\n")
	b.WriteString(e.Text)

	for _, m := range e.Messages {
		b.WriteString("\n")
		b.WriteString(m.String())
	}

	return b.String()
}

// Unwrap returns ErrUnresolvedStyleViolation.
func (e *StyleViolationError) Unwrap() error {
	return ErrUnresolvedStyleViolation
}

// Options controls the emitted style.
type Options struct {
	// Quote is the preferred quoting of string literals.
	Quote lint.QuoteStyle
	// IndentWidth is the number of spaces per level; zero selects tabs.
	IndentWidth int
	// TrailingNewline requires the text to end with a newline.
	TrailingNewline bool
	// StripComments drops doc and line comments from the output.
	StripComments bool
}

// DefaultOptions returns double quotes, two-space indentation and a
// trailing newline.
func DefaultOptions() Options {
	return Options{
		Quote:           lint.QuoteDouble,
		IndentWidth:     lint.DefaultIndent,
		TrailingNewline: true,
	}
}

// Validate reports settings the style engine would reject. The error
// wraps lint.ErrInvalidConfig.
func (o Options) Validate() error {
	cfg := lint.DefaultConfig()
	cfg.Indent = o.IndentWidth
	cfg.Quotes = o.Quote

	return cfg.Validate()
}

// Fixer is the style engine contract the printer depends on.
type Fixer interface {
	Fix(ctx context.Context, text string) (lint.Result, error)
}

// FixerFactory builds a fixer for one print call.
type FixerFactory func(cfg lint.Config) (Fixer, error)

func newLintFixer(cfg lint.Config) (Fixer, error) {
	return lint.New(cfg)
}

// Printer renders syntax trees. It holds no per-call state and is safe for
// concurrent use, provided callers do not print the same tree from two
// goroutines: comments are detached from the tree while it is printed.
type Printer struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	newFixer FixerFactory
	opts     Options
}

// Option configures a Printer.
type Option func(*Printer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Printer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithFixerFactory replaces the style engine.
func WithFixerFactory(factory FixerFactory) Option {
	return func(p *Printer) {
		if factory != nil {
			p.newFixer = factory
		}
	}
}

// WithTracer sets the tracer used for print spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Printer) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// New creates a Printer.
func New(opts Options, fns ...Option) *Printer {
	p := &Printer{
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		newFixer: newLintFixer,
		opts:     opts,
	}

	for _, fn := range fns {
		fn(p)
	}

	return p
}

// Options returns the printer options.
func (p *Printer) Options() Options {
	return p.opts
}

// PrintNode renders one node.
func (p *Printer) PrintNode(ctx context.Context, node ast.Node) (string, error) {
	return p.print(ctx, "node", 1, lint.GoalFragment, func() (string, error) {
		return p.render(node)
	})
}

// PrintNodes renders each node on its own and joins the texts with a
// newline.
func (p *Printer) PrintNodes(ctx context.Context, nodes []ast.Node) (string, error) {
	return p.print(ctx, "nodes", len(nodes), lint.GoalFragment, func() (string, error) {
		parts := make([]string, 0, len(nodes))

		for _, node := range nodes {
			text, err := p.render(node)
			if err != nil {
				return "", err
			}

			parts = append(parts, text)
		}

		return strings.Join(parts, "\n"), nil
	})
}

// PrintList renders expressions separated by commas.
func (p *Printer) PrintList(ctx context.Context, exprs []ast.Expr) (string, error) {
	return p.print(ctx, "list", len(exprs), lint.GoalFragment, func() (string, error) {
		parts := make([]string, 0, len(exprs))

		for _, expr := range exprs {
			text, err := p.render(expr)
			if err != nil {
				return "", err
			}

			parts = append(parts, text)
		}

		return strings.Join(parts, ", "), nil
	})
}

// PrintFile renders decls as a complete file of package pkg. The text is
// checked as a whole file, so syntax errors surface as violations. An
// empty declaration list renders as "".
func (p *Printer) PrintFile(ctx context.Context, pkg string, decls []ast.Decl) (string, error) {
	return p.print(ctx, "file", len(decls), lint.GoalFile, func() (string, error) {
		if len(decls) == 0 {
			return "", nil
		}

		return p.render(&ast.File{Name: ast.NewIdent(pkg), Decls: decls})
	})
}

func (p *Printer) print(ctx context.Context, mode string, count int, goal lint.Goal, raw func() (string, error)) (string, error) {
	ctx, span := p.tracer.Start(ctx, spanPrint, trace.WithAttributes(
		attribute.String(observability.AttrPrintMode, mode),
		attribute.Int(observability.AttrPrintNodes, count),
	))
	defer span.End()

	text, err := raw()
	if err == nil {
		text, err = p.normalize(ctx, text, goal)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "print failed")

		return "", err
	}

	span.SetAttributes(attribute.Int(observability.AttrPrintBytes, len(text)))

	return text, nil
}

// LintConfig returns the style engine configuration for goal.
func (p *Printer) LintConfig(goal lint.Goal) lint.Config {
	eol := lint.EOLAlways
	if !p.opts.TrailingNewline {
		eol = lint.EOLNever
	}

	return lint.Config{
		Indent: p.opts.IndentWidth,
		Quotes: p.opts.Quote,
		EOL:    eol,
		Goal:   goal,
	}
}

// normalize runs raw through the fixer. Text the fixer leaves unchanged is
// returned byte for byte.
func (p *Printer) normalize(ctx context.Context, raw string, goal lint.Goal) (string, error) {
	if raw == "" {
		return "", nil
	}

	fixer, err := p.newFixer(p.LintConfig(goal))
	if err != nil {
		return "", fmt.Errorf("create fixer: %w", err)
	}

	res, err := fixer.Fix(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}

	if len(res.Messages) > 0 {
		text := res.Output
		if text == "" {
			text = raw
		}

		return "", &StyleViolationError{Text: text, Messages: res.Messages}
	}

	if !res.Fixed || res.Output == raw {
		return raw, nil
	}

	if p.logger.Enabled(ctx, slog.LevelDebug) {
		p.logger.DebugContext(ctx, "style fixes applied",
			slog.String("goal", goal.String()),
			slog.String("patch", lint.Patch(raw, res.Output)))
	}

	return res.Output, nil
}

func (p *Printer) config() *goprinter.Config {
	if p.opts.IndentWidth == 0 {
		return &goprinter.Config{Mode: goprinter.TabIndent | goprinter.UseSpaces, Tabwidth: tabWidth}
	}

	return &goprinter.Config{Mode: goprinter.UseSpaces, Tabwidth: p.opts.IndentWidth}
}

// render prints node without normalization.
func (p *Printer) render(node ast.Node) (text string, err error) {
	if node == nil {
		return "", fmt.Errorf("%w: nil node", ErrUnprintable)
	}

	if p.opts.StripComments {
		defer detachComments(node)()
	}

	var buf bytes.Buffer

	// A doc comment on the outermost node has no position to anchor to, so
	// it is written by hand above the node.
	if doc := docField(node); doc != nil && *doc != nil {
		group := *doc
		*doc = nil

		defer func() { *doc = group }()

		for _, c := range group.List {
			buf.WriteString(c.Text)
			buf.WriteByte('\n')
		}
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %T: %v", ErrUnprintable, node, r)
		}
	}()

	if err := p.config().Fprint(&buf, token.NewFileSet(), node); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnprintable, err)
	}

	return buf.String(), nil
}
