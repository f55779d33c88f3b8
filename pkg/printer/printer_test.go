package printer_test

import (
	"bytes"
	"context"
	"errors"
	"go/ast"
	"go/token"
	"log/slog"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astforge/pkg/lint"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
)

type stubFixer struct {
	calls *atomic.Int32
	res   lint.Result
	err   error
}

func (s stubFixer) Fix(_ context.Context, text string) (lint.Result, error) {
	s.calls.Add(1)

	res := s.res
	if res.Output == "" {
		res.Output = text
	}

	return res, s.err
}

func withStub(res lint.Result, err error) (printer.Option, *atomic.Int32) {
	calls := &atomic.Int32{}

	return printer.WithFixerFactory(func(lint.Config) (printer.Fixer, error) {
		return stubFixer{calls: calls, res: res, err: err}, nil
	}), calls
}

func str(s string) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}

func helloMain() []ast.Decl {
	return []ast.Decl{
		&ast.GenDecl{Tok: token.IMPORT, Specs: []ast.Spec{&ast.ImportSpec{Path: str("fmt")}}},
		&ast.FuncDecl{
			Name: ast.NewIdent("main"),
			Type: &ast.FuncType{Params: &ast.FieldList{}},
			Body: &ast.BlockStmt{List: []ast.Stmt{
				&ast.ExprStmt{X: &ast.CallExpr{
					Fun:  &ast.SelectorExpr{X: ast.NewIdent("fmt"), Sel: ast.NewIdent("Println")},
					Args: []ast.Expr{str("hi")},
				}},
			}},
		},
	}
}

func emptyFunc(name string) *ast.FuncDecl {
	return &ast.FuncDecl{
		Name: ast.NewIdent(name),
		Type: &ast.FuncType{Params: &ast.FieldList{}},
		Body: &ast.BlockStmt{},
	}
}

func TestPrintNode_QuoteStyle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	got, err := printer.New(printer.DefaultOptions()).PrintNode(ctx, str("hi"))
	require.NoError(t, err)
	assert.Equal(t, "\"hi\"\n", got)

	opts := printer.DefaultOptions()
	opts.Quote = lint.QuoteBacktick

	got, err = printer.New(opts).PrintNode(ctx, str("hi"))
	require.NoError(t, err)
	assert.Equal(t, "`hi`\n", got)
}

func TestPrintFile(t *testing.T) {
	t.Parallel()

	got, err := printer.New(printer.DefaultOptions()).PrintFile(context.Background(), "main", helloMain())
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nimport \"fmt\"\n\nfunc main() {\n  fmt.Println(\"hi\")\n}\n", got)
}

func TestPrintFile_Tabs(t *testing.T) {
	t.Parallel()

	opts := printer.DefaultOptions()
	opts.IndentWidth = 0

	got, err := printer.New(opts).PrintFile(context.Background(), "main", helloMain())
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n", got)
}

func TestPrintFile_EmptySkipsFixer(t *testing.T) {
	t.Parallel()

	stub, calls := withStub(lint.Result{}, nil)

	got, err := printer.New(printer.DefaultOptions(), stub).PrintFile(context.Background(), "main", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, calls.Load())
}

func TestPrintFile_SyntaxErrorIsViolation(t *testing.T) {
	t.Parallel()

	_, err := printer.New(printer.DefaultOptions()).PrintFile(context.Background(), "main",
		[]ast.Decl{emptyFunc("1bad")})
	require.ErrorIs(t, err, printer.ErrUnresolvedStyleViolation)
	assert.Contains(t, err.Error(), "Parsing error")
}

func TestPrintNode_CompliantTextIsReturnedVerbatim(t *testing.T) {
	t.Parallel()

	opts := printer.DefaultOptions()
	opts.TrailingNewline = false

	got, err := printer.New(opts).PrintNode(context.Background(), ast.NewIdent("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	stub, calls := withStub(lint.Result{Output: "rewritten", Fixed: false}, nil)

	got, err = printer.New(opts, stub).PrintNode(context.Background(), ast.NewIdent("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPrintNode_UnresolvedViolation(t *testing.T) {
	t.Parallel()

	stub, _ := withStub(lint.Result{
		Messages: []lint.Message{{RuleID: lint.RuleIndent, Line: 1, Column: 3, Message: "bad indent"}},
	}, nil)

	_, err := printer.New(printer.DefaultOptions(), stub).PrintNode(context.Background(), ast.NewIdent("x"))
	require.ErrorIs(t, err, printer.ErrUnresolvedStyleViolation)

	var violation *printer.StyleViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "x", violation.Text)
	assert.Contains(t, err.Error(), "1:3 bad indent")
}

func TestPrintNode_FixerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	stub, _ := withStub(lint.Result{}, boom)

	_, err := printer.New(printer.DefaultOptions(), stub).PrintNode(context.Background(), ast.NewIdent("x"))
	require.ErrorIs(t, err, boom)
}

func TestPrintNode_InvalidOptions(t *testing.T) {
	t.Parallel()

	opts := printer.DefaultOptions()
	opts.Quote = "single"

	_, err := printer.New(opts).PrintNode(context.Background(), ast.NewIdent("x"))
	require.ErrorIs(t, err, lint.ErrInvalidConfig)
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, printer.DefaultOptions().Validate())

	tabs := printer.DefaultOptions()
	tabs.IndentWidth = 0
	require.NoError(t, tabs.Validate())

	quote := printer.DefaultOptions()
	quote.Quote = "single"
	require.ErrorIs(t, quote.Validate(), lint.ErrInvalidConfig)

	indent := printer.DefaultOptions()
	indent.IndentWidth = -1
	require.ErrorIs(t, indent.Validate(), lint.ErrInvalidConfig)
}

func TestPrintNode_Unprintable(t *testing.T) {
	t.Parallel()

	p := printer.New(printer.DefaultOptions())

	_, err := p.PrintNode(context.Background(), &ast.Field{Type: ast.NewIdent("int")})
	require.ErrorIs(t, err, printer.ErrUnprintable)

	_, err = p.PrintNode(context.Background(), nil)
	require.ErrorIs(t, err, printer.ErrUnprintable)
}

func TestPrintNode_DocComment(t *testing.T) {
	t.Parallel()

	decl := emptyFunc("add")
	decl.Doc = &ast.CommentGroup{List: []*ast.Comment{{Text: "// add does nothing."}}}

	got, err := printer.New(printer.DefaultOptions()).PrintNode(context.Background(), decl)
	require.NoError(t, err)
	assert.Equal(t, "// add does nothing.\nfunc add() {\n}\n", got)
	require.NotNil(t, decl.Doc)
}

func TestPrintNode_StripComments(t *testing.T) {
	t.Parallel()

	decl := emptyFunc("add")
	decl.Doc = &ast.CommentGroup{List: []*ast.Comment{{Text: "// add does nothing."}}}

	opts := printer.DefaultOptions()
	opts.StripComments = true

	got, err := printer.New(opts).PrintNode(context.Background(), decl)
	require.NoError(t, err)
	assert.Equal(t, "func add() {\n}\n", got)
	assert.NotNil(t, decl.Doc)
}

func TestPrintNode_NestedStruct(t *testing.T) {
	t.Parallel()

	inner := &ast.StructType{Fields: &ast.FieldList{List: []*ast.Field{
		{Names: []*ast.Ident{ast.NewIdent("X")}, Type: ast.NewIdent("int")},
	}}}
	decl := &ast.GenDecl{Tok: token.TYPE, Specs: []ast.Spec{&ast.TypeSpec{
		Name: ast.NewIdent("T"),
		Type: &ast.StructType{Fields: &ast.FieldList{List: []*ast.Field{
			{Names: []*ast.Ident{ast.NewIdent("Inner")}, Type: inner},
		}}},
	}}}

	got, err := printer.New(printer.DefaultOptions()).PrintNode(context.Background(), decl)
	require.NoError(t, err)
	assert.Equal(t, "type T struct {\n  Inner struct {\n    X int\n  }\n}\n", got)
}

func TestPrintNodes(t *testing.T) {
	t.Parallel()

	got, err := printer.New(printer.DefaultOptions()).PrintNodes(context.Background(),
		[]ast.Node{ast.NewIdent("a"), ast.NewIdent("b")})
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", got)

	got, err = printer.New(printer.DefaultOptions()).PrintNodes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrintList(t *testing.T) {
	t.Parallel()

	got, err := printer.New(printer.DefaultOptions()).PrintList(context.Background(),
		[]ast.Expr{ast.NewIdent("a"), str("b")})
	require.NoError(t, err)
	assert.Equal(t, "a, \"b\"\n", got)
}

func TestPrintNode_LogsPatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := printer.New(printer.DefaultOptions(), printer.WithLogger(logger)).
		PrintNode(context.Background(), ast.NewIdent("x"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "style fixes applied")
}

func TestLintConfig(t *testing.T) {
	t.Parallel()

	opts := printer.Options{Quote: lint.QuoteBacktick, IndentWidth: 4}
	cfg := printer.New(opts).LintConfig(lint.GoalFile)

	assert.Equal(t, lint.Config{Indent: 4, Quotes: lint.QuoteBacktick, EOL: lint.EOLNever, Goal: lint.GoalFile}, cfg)
}
