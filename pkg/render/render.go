// Package render runs the whole pipeline from serialized nodes to Go text:
// deserialization, projection for the requested output shape, and printing.
package render

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/astforge/pkg/factory"
	"github.com/Sumatoshi-tech/astforge/pkg/observability"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
	"github.com/Sumatoshi-tech/astforge/pkg/textutil"
	"github.com/Sumatoshi-tech/astforge/pkg/wire"
)

// Mode is the output shape of a render request.
type Mode string

// Output shapes.
const (
	// ModeNode prints exactly one node.
	ModeNode Mode = "node"
	// ModeNodes prints each node on its own, joined by newlines.
	ModeNodes Mode = "nodes"
	// ModeFile wraps top-level declarations in a package clause.
	ModeFile Mode = "file"
	// ModeList prints expressions separated by commas.
	ModeList Mode = "list"
)

// Kind is the projection applied to each node in node and nodes mode.
type Kind string

// Projections.
const (
	KindAny         Kind = "any"
	KindStatement   Kind = "statement"
	KindExpression  Kind = "expression"
	KindDeclaration Kind = "declaration"
)

var (
	// ErrInvalidMode is returned for an unknown output mode.
	ErrInvalidMode = errors.New("invalid render mode")
	// ErrInvalidKind is returned for an unknown projection kind.
	ErrInvalidKind = errors.New("invalid node kind")
	// ErrNodeCount is returned when node mode gets other than one node.
	ErrNodeCount = errors.New("node mode needs exactly one node")
)

// Modes lists every output mode.
func Modes() []Mode {
	return []Mode{ModeNode, ModeNodes, ModeFile, ModeList}
}

// Kinds lists every projection kind.
func Kinds() []Kind {
	return []Kind{KindAny, KindStatement, KindExpression, KindDeclaration}
}

// ParseMode validates a mode name; empty selects ModeNodes.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeNodes, nil
	}

	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// ParseKind validates a kind name; empty selects KindAny.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindAny, nil
	}

	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Request is one render job.
type Request struct {
	// Package is the package clause in file mode.
	Package string
	Mode    Mode
	Kind    Kind
	Nodes   []wire.Node
}

// Decode decodes a serialized node document and parses the mode and kind
// names into a Request.
func Decode(data []byte, mode, kind string) (Request, error) {
	nodes, err := wire.DecodeBytes(data)
	if err != nil {
		return Request{}, err
	}

	m, err := ParseMode(mode)
	if err != nil {
		return Request{}, err
	}

	k, err := ParseKind(kind)
	if err != nil {
		return Request{}, err
	}

	return Request{Nodes: nodes, Mode: m, Kind: k}, nil
}

// Renderer turns requests into Go text. It is safe for concurrent use.
type Renderer struct {
	logger  *slog.Logger
	metrics *observability.PrintMetrics
	printer *printer.Printer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records per-request print statistics.
func WithMetrics(metrics *observability.PrintMetrics) Option {
	return func(r *Renderer) {
		r.metrics = metrics
	}
}

// New builds a Renderer printing with p.
func New(p *printer.Printer, opts ...Option) *Renderer {
	r := &Renderer{
		logger:  slog.Default(),
		printer: p,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render deserializes and prints req.
func (r *Renderer) Render(ctx context.Context, req Request) (string, error) {
	job, err := r.prepare(req)
	if err != nil {
		return "", err
	}

	out, err := job(ctx)

	violations := 0

	var sve *printer.StyleViolationError
	if errors.As(err, &sve) {
		violations = len(sve.Messages)
	}

	r.metrics.RecordPrint(ctx, observability.PrintStats{
		Mode:       string(req.Mode),
		Nodes:      len(req.Nodes),
		Bytes:      len(out),
		Violations: violations,
	})

	if err != nil {
		return "", err
	}

	r.logger.DebugContext(ctx, "rendered",
		slog.String("mode", string(req.Mode)),
		slog.Int("nodes", len(req.Nodes)),
		slog.Int("lines", textutil.CountLines(out)),
		slog.String("size", humanize.Bytes(uint64(len(out)))))

	return out, nil
}

// Check deserializes req without printing it. It reports the same
// deserialization errors Render would.
func (r *Renderer) Check(req Request) error {
	_, err := r.prepare(req)

	return err
}

// prepare deserializes and projects the nodes and returns the print step.
func (r *Renderer) prepare(req Request) (func(context.Context) (string, error), error) {
	switch req.Mode {
	case ModeFile:
		decls, err := factory.DeserializeTopLevel(req.Nodes)
		if err != nil {
			return nil, err
		}

		return func(ctx context.Context) (string, error) {
			return r.printer.PrintFile(ctx, req.Package, decls)
		}, nil
	case ModeList:
		exprs, err := factory.DeserializeExpressions(req.Nodes)
		if err != nil {
			return nil, err
		}

		return func(ctx context.Context) (string, error) {
			return r.printer.PrintList(ctx, exprs)
		}, nil
	case ModeNode:
		if len(req.Nodes) != 1 {
			return nil, fmt.Errorf("%w: got %d", ErrNodeCount, len(req.Nodes))
		}

		nodes, err := project(req.Kind, req.Nodes)
		if err != nil {
			return nil, err
		}

		return func(ctx context.Context) (string, error) {
			return r.printer.PrintNode(ctx, nodes[0])
		}, nil
	case ModeNodes:
		nodes, err := project(req.Kind, req.Nodes)
		if err != nil {
			return nil, err
		}

		return func(ctx context.Context) (string, error) {
			return r.printer.PrintNodes(ctx, nodes)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
}

func project(kind Kind, nodes []wire.Node) ([]ast.Node, error) {
	switch kind {
	case KindAny, "":
		return factory.DeserializeNodes(nodes)
	case KindStatement:
		stmts, err := factory.DeserializeStatements(nodes)

		return widen(stmts), err
	case KindExpression:
		exprs, err := factory.DeserializeExpressions(nodes)

		return widen(exprs), err
	case KindDeclaration:
		out := make([]ast.Node, 0, len(nodes))

		for _, node := range nodes {
			decl, err := factory.DeserializeDeclaration(node)
			if err != nil {
				return nil, err
			}

			out = append(out, decl)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
}

func widen[T ast.Node](items []T) []ast.Node {
	if items == nil {
		return nil
	}

	out := make([]ast.Node, len(items))
	for i, item := range items {
		out[i] = item
	}

	return out
}
