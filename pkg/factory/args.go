package factory

import (
	"fmt"
	"go/ast"
	"go/token"
)

// Args is the deserialized argument list of one operation call. Accessors
// record the first shape error and return zero values after it, so a
// handler can read every argument and check Err once.
type Args struct {
	err  error
	op   string
	vals []Value
}

// NewArgs binds a value list to an operation name for error reporting.
func NewArgs(op string, vals []Value) *Args {
	return &Args{op: op, vals: vals}
}

// Len returns the number of arguments supplied.
func (a *Args) Len() int { return len(a.vals) }

// Err returns the first shape error recorded by an accessor.
func (a *Args) Err() error { return a.err }

// At returns argument i, or undefined when it was not supplied.
func (a *Args) At(i int) Value {
	if i < 0 || i >= len(a.vals) {
		return Undefined()
	}

	return a.vals[i]
}

func (a *Args) fail(i int, want string) {
	if a.err == nil {
		a.err = argError(a.op, i, want, a.At(i))
	}
}

func (a *Args) failf(err error) {
	if a.err == nil {
		a.err = err
	}
}

func (a *Args) result(n ast.Node) (Value, error) {
	if a.err != nil {
		return Value{}, a.err
	}

	return Node(n), nil
}

func (a *Args) str(i int) string {
	s, ok := a.At(i).AsString()
	if !ok {
		a.fail(i, "string")
	}

	return s
}

func (a *Args) optStr(i int) (string, bool) {
	v := a.At(i)
	if v.IsAbsent() {
		return "", false
	}

	s, ok := v.AsString()
	if !ok {
		a.fail(i, "string")
	}

	return s, ok
}

func (a *Args) optBool(i int, def bool) bool {
	v := a.At(i)
	if v.IsAbsent() {
		return def
	}

	b, ok := v.AsBool()
	if !ok {
		a.fail(i, "boolean")

		return def
	}

	return b
}

func (a *Args) tok(i int) token.Token {
	tok, ok := asToken(a.At(i))
	if !ok {
		a.fail(i, "operator")
	}

	return tok
}

func (a *Args) node(i int) ast.Node {
	n, ok := a.At(i).AsNode()
	if !ok {
		a.fail(i, "node")
	}

	return n
}

func (a *Args) ident(i int) *ast.Ident {
	id, ok := asIdent(a.At(i))
	if !ok {
		a.fail(i, "identifier")

		return ast.NewIdent("_")
	}

	return id
}

func (a *Args) optIdent(i int) *ast.Ident {
	if a.At(i).IsAbsent() {
		return nil
	}

	return a.ident(i)
}

func (a *Args) identList(i int) []*ast.Ident {
	return collect(a, i, "identifier list", false, asIdent)
}

func (a *Args) optIdentList(i int) []*ast.Ident {
	return collect(a, i, "identifier list", true, asIdent)
}

func (a *Args) expr(i int) ast.Expr {
	x, ok := asExpr(a.At(i))
	if !ok {
		a.fail(i, "expression")
	}

	return x
}

func (a *Args) optExpr(i int) ast.Expr {
	if a.At(i).IsAbsent() {
		return nil
	}

	return a.expr(i)
}

func (a *Args) exprList(i int) []ast.Expr {
	return collect(a, i, "expression list", false, asExpr)
}

func (a *Args) optExprList(i int) []ast.Expr {
	return collect(a, i, "expression list", true, asExpr)
}

// exprTail gathers arguments i.. as expressions, flattening list arguments.
func (a *Args) exprTail(i int) []ast.Expr {
	var out []ast.Expr

	for idx := i; idx < len(a.vals); idx++ {
		out = append(out, a.exprList(idx)...)
	}

	return out
}

func (a *Args) stmt(i int) ast.Stmt {
	s, ok := asStmt(a.At(i))
	if !ok {
		a.fail(i, "statement")
	}

	return s
}

func (a *Args) optStmt(i int) ast.Stmt {
	if a.At(i).IsAbsent() {
		return nil
	}

	return a.stmt(i)
}

func (a *Args) optStmts(i int) []ast.Stmt {
	if blk, ok := a.At(i).AsNode(); ok {
		if b, isBlock := blk.(*ast.BlockStmt); isBlock {
			return b.List
		}
	}

	return collect(a, i, "statement list", true, asStmt)
}

func (a *Args) block(i int) *ast.BlockStmt {
	if a.At(i).IsAbsent() {
		a.fail(i, "block")

		return &ast.BlockStmt{}
	}

	return &ast.BlockStmt{List: a.optStmts(i)}
}

func (a *Args) optBlock(i int) *ast.BlockStmt {
	if a.At(i).IsAbsent() {
		return nil
	}

	return a.block(i)
}

func (a *Args) field(i int) *ast.Field {
	f, ok := asField(a.At(i))
	if !ok {
		a.fail(i, "field")

		return &ast.Field{}
	}

	return f
}

// fields returns a non-nil field list; absent means empty.
func (a *Args) fields(i int) *ast.FieldList {
	if fl, ok := a.At(i).AsNode(); ok {
		if list, isList := fl.(*ast.FieldList); isList {
			return list
		}
	}

	return &ast.FieldList{List: collect(a, i, "field list", true, asField)}
}

// optFields returns nil when the list is absent or empty.
func (a *Args) optFields(i int) *ast.FieldList {
	fl := a.fields(i)
	if len(fl.List) == 0 {
		return nil
	}

	return fl
}

func (a *Args) specs(i int, want string, accept func(ast.Spec) bool) []ast.Spec {
	return collect(a, i, want, false, func(v Value) (ast.Spec, bool) {
		n, ok := v.AsNode()
		if !ok {
			return nil, false
		}

		spec, ok := n.(ast.Spec)
		if !ok || !accept(spec) {
			return nil, false
		}

		return spec, true
	})
}

func (a *Args) list(i int) []Value {
	v := a.At(i)
	if elems, ok := v.AsList(); ok {
		return elems
	}

	if v.IsAbsent() {
		return nil
	}

	return []Value{v}
}

// collect converts argument i into a slice. A list converts element-wise,
// a single value becomes a one-element slice and an absent value yields nil
// when optional is set.
func collect[T any](a *Args, i int, want string, optional bool, conv func(Value) (T, bool)) []T {
	v := a.At(i)
	if v.IsAbsent() {
		if !optional {
			a.fail(i, want)
		}

		return nil
	}

	elems, isList := v.AsList()
	if !isList {
		elems = []Value{v}
	}

	out := make([]T, 0, len(elems))

	for _, elem := range elems {
		converted, ok := conv(elem)
		if !ok {
			a.failf(&Error{
				Kind:   ErrArgumentType,
				Op:     a.op,
				Detail: fmt.Sprintf("argument %d: expected %s, got element %s", i, want, elem.Describe()),
			})

			return nil
		}

		out = append(out, converted)
	}

	return out
}

func asIdent(v Value) (*ast.Ident, bool) {
	if s, ok := v.AsString(); ok {
		return ast.NewIdent(s), true
	}

	n, ok := v.AsNode()
	if !ok {
		return nil, false
	}

	id, ok := n.(*ast.Ident)

	return id, ok
}

func asExpr(v Value) (ast.Expr, bool) {
	n, ok := v.AsNode()
	if !ok {
		return nil, false
	}

	x, ok := n.(ast.Expr)

	return x, ok
}

// asStmt accepts statements; general declarations become declaration
// statements.
func asStmt(v Value) (ast.Stmt, bool) {
	n, ok := v.AsNode()
	if !ok {
		return nil, false
	}

	switch s := n.(type) {
	case ast.Stmt:
		return s, true
	case *ast.GenDecl:
		return &ast.DeclStmt{Decl: s}, true
	default:
		return nil, false
	}
}

func asField(v Value) (*ast.Field, bool) {
	n, ok := v.AsNode()
	if !ok {
		return nil, false
	}

	switch f := n.(type) {
	case *ast.Field:
		return f, true
	case ast.Expr:
		return &ast.Field{Type: f}, true
	default:
		return nil, false
	}
}

func asToken(v Value) (token.Token, bool) {
	if tok, ok := v.AsToken(); ok {
		return tok, true
	}

	s, ok := v.AsString()
	if !ok {
		return token.ILLEGAL, false
	}

	tok, known := operators[s]

	return tok, known
}
