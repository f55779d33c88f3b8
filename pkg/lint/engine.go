package lint

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// MaxFixPasses bounds the verify-and-apply loop of Fix.
const MaxFixPasses = 10

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for pass-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine runs the rule set over Go text. An Engine owns a parser and is
// not safe for concurrent use; build one per goroutine.
type Engine struct {
	logger *slog.Logger
	parser *sitter.Parser
	rules  []rule
	cfg    Config
}

// New builds an engine for cfg.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(language())

	e := &Engine{
		logger: slog.Default(),
		parser: parser,
		rules:  rules(),
		cfg:    cfg,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Verify reports every violation in text without changing it.
func (e *Engine) Verify(ctx context.Context, text string) (Result, error) {
	findings, err := e.run(ctx, text)
	if err != nil {
		return Result{}, err
	}

	return Result{Output: text, Messages: messages(findings)}, nil
}

// Fix applies rule fixes until none remain or MaxFixPasses passes have
// run. Each pass applies the fixes that do not overlap an earlier one.
// The messages of the last pass are returned.
func (e *Engine) Fix(ctx context.Context, text string) (Result, error) {
	out := text

	for pass := 1; ; pass++ {
		findings, err := e.run(ctx, out)
		if err != nil {
			return Result{}, err
		}

		fixes := fixesOf(findings)
		if len(fixes) == 0 || pass > MaxFixPasses {
			return Result{Output: out, Fixed: out != text, Messages: messages(findings)}, nil
		}

		next, applied := applyEdits(out, fixes)

		e.logger.DebugContext(ctx, "lint pass",
			slog.Int("pass", pass),
			slog.Int("findings", len(findings)),
			slog.Int("applied", applied))

		if next == out {
			return Result{Output: out, Fixed: out != text, Messages: messages(findings)}, nil
		}

		out = next
	}
}

func (e *Engine) run(ctx context.Context, text string) ([]finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}

	src, tree, err := parse(ctx, e.parser, text)
	if err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}
	defer tree.Close()

	if e.cfg.Goal == GoalFile {
		if fatal := src.syntaxErrors(); len(fatal) > 0 {
			out := make([]finding, 0, len(fatal))
			for _, m := range fatal {
				out = append(out, finding{Message: m})
			}

			return out, nil
		}
	}

	var out []finding

	for _, r := range e.rules {
		out = append(out, r.check(src, e.cfg)...)
	}

	slices.SortStableFunc(out, func(a, b finding) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Column, b.Column))
	})

	return out, nil
}

func fixesOf(findings []finding) []edit {
	var out []edit

	for _, f := range findings {
		if f.fix != nil {
			out = append(out, *f.fix)
		}
	}

	return out
}

// applyEdits applies edits in offset order, dropping any that overlaps an
// edit already taken. It returns the new text and the number applied.
func applyEdits(text string, edits []edit) (string, int) {
	slices.SortStableFunc(edits, func(a, b edit) int {
		return cmp.Or(cmp.Compare(a.start, b.start), cmp.Compare(a.end, b.end))
	})

	var (
		b       strings.Builder
		last    int
		applied int
	)

	b.Grow(len(text))

	for _, ed := range edits {
		if ed.start < last {
			continue
		}

		b.WriteString(text[last:ed.start])
		b.WriteString(ed.text)

		last = ed.end
		applied++
	}

	b.WriteString(text[last:])

	return b.String(), applied
}

func messages(findings []finding) []Message {
	if len(findings) == 0 {
		return nil
	}

	out := make([]Message, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Message)
	}

	return out
}
