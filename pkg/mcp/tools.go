package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/astforge/pkg/factory"
	"github.com/Sumatoshi-tech/astforge/pkg/observability"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
	"github.com/Sumatoshi-tech/astforge/pkg/render"
	"github.com/Sumatoshi-tech/astforge/pkg/wire"
)

// Tool name constants.
const (
	ToolNamePrint      = "astforge_print"
	ToolNameValidate   = "astforge_validate"
	ToolNameOperations = "astforge_operations"
)

// MaxNodesInputBytes is the default limit on the encoded node document (4 MB).
const MaxNodesInputBytes = 4 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyNodes indicates the nodes parameter is missing.
	ErrEmptyNodes = errors.New("nodes parameter is required")
	// ErrNodesTooLarge indicates the node document exceeds the size limit.
	ErrNodesTooLarge = errors.New("nodes input exceeds maximum size")
)

// PrintInput is the input schema for the astforge_print tool.
type PrintInput struct {
	Nodes    any               `json:"nodes"              jsonschema:"serialized node document: one node object or an array of nodes"`
	Options  *render.Overrides `json:"options,omitempty"  jsonschema:"optional style overrides"`
	Mode     string            `json:"mode,omitempty"     jsonschema:"output mode: node, nodes (default), file or list"`
	Kind     string            `json:"kind,omitempty"     jsonschema:"projection in node and nodes mode: any (default), statement, expression or declaration"`
	Package  string            `json:"package,omitempty"  jsonschema:"package clause in file mode (default main)"`
	Validate bool              `json:"validate,omitempty" jsonschema:"check the document against the node schema first"`
}

// ValidateInput is the input schema for the astforge_validate tool.
type ValidateInput struct {
	Nodes any    `json:"nodes"          jsonschema:"serialized node document: one node object or an array of nodes"`
	Mode  string `json:"mode,omitempty" jsonschema:"output mode the document is meant for (default nodes)"`
	Kind  string `json:"kind,omitempty" jsonschema:"projection the nodes must satisfy (default any)"`
}

// OperationsInput is the input schema for the astforge_operations tool.
type OperationsInput struct {
	Category string `json:"category,omitempty" jsonschema:"only list operations of this category"`
}

// PrintOutput is the structured result of astforge_print.
type PrintOutput struct {
	Code string `json:"code"`
}

// ValidateOutput is the structured result of astforge_validate.
type ValidateOutput struct {
	Errors []string `json:"errors,omitempty"`
	Nodes  int      `json:"nodes"`
	Valid  bool     `json:"valid"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// toolset carries what the document tools need from ServerDeps.
type toolset struct {
	logger       *slog.Logger
	tracerOpt    printer.Option
	printMetrics *observability.PrintMetrics
	options      printer.Options
	pkg          string
	maxBytes     int64
}

func newToolset(deps ServerDeps) *toolset {
	ts := &toolset{
		logger:       deps.Logger,
		printMetrics: deps.PrintMetrics,
		options:      printer.DefaultOptions(),
		pkg:          deps.Package,
		maxBytes:     deps.MaxInputBytes,
	}

	if ts.logger == nil {
		ts.logger = slog.Default()
	}

	if deps.Options != nil {
		ts.options = *deps.Options
	}

	if ts.pkg == "" {
		ts.pkg = defaultPackage
	}

	if ts.maxBytes <= 0 {
		ts.maxBytes = MaxNodesInputBytes
	}

	if deps.Tracer != nil {
		ts.tracerOpt = printer.WithTracer(deps.Tracer)
	}

	return ts
}

func (ts *toolset) renderer(overrides render.Overrides) *render.Renderer {
	opts := []printer.Option{printer.WithLogger(ts.logger)}
	if ts.tracerOpt != nil {
		opts = append(opts, ts.tracerOpt)
	}

	p := printer.New(overrides.Apply(ts.options), opts...)

	return render.New(p, render.WithLogger(ts.logger), render.WithMetrics(ts.printMetrics))
}

// document re-encodes the nodes argument and enforces the size limit.
func (ts *toolset) document(nodes any) ([]byte, error) {
	if nodes == nil {
		return nil, ErrEmptyNodes
	}

	data, err := json.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("encode nodes: %w", err)
	}

	if int64(len(data)) > ts.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrNodesTooLarge, len(data), ts.maxBytes)
	}

	return data, nil
}

func (ts *toolset) handlePrint(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input PrintInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := ts.document(input.Nodes)
	if err != nil {
		return errorResult(err)
	}

	if input.Validate {
		err = wire.Validate(data)
		if err != nil {
			return errorResult(err)
		}
	}

	req, err := render.Decode(data, input.Mode, input.Kind)
	if err != nil {
		return errorResult(err)
	}

	req.Package = input.Package
	if req.Package == "" {
		req.Package = ts.pkg
	}

	var overrides render.Overrides
	if input.Options != nil {
		overrides = *input.Options
	}

	code, err := ts.renderer(overrides).Render(ctx, req)
	if err != nil {
		return errorResult(err)
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: code},
		},
	}, ToolOutput{Data: PrintOutput{Code: code}}, nil
}

func (ts *toolset) handleValidate(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ValidateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := ts.document(input.Nodes)
	if err != nil {
		return errorResult(err)
	}

	out := ValidateOutput{Valid: true}

	var verr *wire.ValidationError

	err = wire.Validate(data)

	switch {
	case errors.As(err, &verr):
		out.Valid = false
		for _, se := range verr.Errors {
			out.Errors = append(out.Errors, se.Field+": "+se.Description)
		}

		return jsonResult(out)
	case err != nil:
		return errorResult(err)
	}

	req, err := render.Decode(data, input.Mode, input.Kind)
	if err == nil {
		out.Nodes = len(req.Nodes)
		err = ts.renderer(render.Overrides{}).Check(req)
	}

	if err != nil {
		out.Valid = false
		out.Errors = append(out.Errors, err.Error())
	}

	return jsonResult(out)
}

func handleOperations(
	_ context.Context, _ *mcpsdk.CallToolRequest, input OperationsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	ops := factory.Operations()

	if input.Category != "" {
		filtered := ops[:0]

		for _, def := range ops {
			if string(def.Category) == input.Category {
				filtered = append(filtered, def)
			}
		}

		ops = filtered
	}

	return jsonResult(ops)
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
