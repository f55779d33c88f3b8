package factory

import (
	"go/ast"
	"go/token"
)

var unaryOperators = map[token.Token]bool{
	token.ADD:   true,
	token.SUB:   true,
	token.NOT:   true,
	token.XOR:   true,
	token.AND:   true,
	token.ARROW: true,
	token.TILDE: true,
	token.MUL:   true,
}

func (a *Args) binaryOp(i int) token.Token {
	tok := a.tok(i)
	if a.Err() == nil && tok.Precedence() == token.LowestPrec {
		a.fail(i, "binary operator")
	}

	return tok
}

func opBinaryExpression(a *Args) (Value, error) {
	return a.result(&ast.BinaryExpr{X: a.expr(0), Op: a.binaryOp(1), Y: a.expr(2)})
}

// opBinaryChain folds operands left to right: a op b op c.
func opBinaryChain(a *Args) (Value, error) {
	op := a.binaryOp(0)

	operands := a.exprList(1)
	if a.Err() == nil && len(operands) == 0 {
		a.fail(1, "at least one operand")
	}

	return a.result(foldBinary(op, operands))
}

func foldBinary(op token.Token, operands []ast.Expr) ast.Expr {
	if len(operands) == 0 {
		return nil
	}

	out := operands[0]
	for _, x := range operands[1:] {
		out = &ast.BinaryExpr{X: out, Op: op, Y: x}
	}

	return out
}

func opUnaryExpression(a *Args) (Value, error) {
	op := a.tok(0)
	if a.Err() == nil && !unaryOperators[op] {
		a.fail(0, "unary operator")
	}

	x := a.expr(1)
	if op == token.MUL {
		return a.result(&ast.StarExpr{X: x})
	}

	return a.result(&ast.UnaryExpr{Op: op, X: x})
}

func opAddressOf(a *Args) (Value, error) {
	return a.result(&ast.UnaryExpr{Op: token.AND, X: a.expr(0)})
}

// opDereference builds *x, which is also the pointer type form.
func opDereference(a *Args) (Value, error) {
	return a.result(&ast.StarExpr{X: a.expr(0)})
}

func opReceive(a *Args) (Value, error) {
	return a.result(&ast.UnaryExpr{Op: token.ARROW, X: a.expr(0)})
}

func opParenthesized(a *Args) (Value, error) {
	return a.result(&ast.ParenExpr{X: a.expr(0)})
}

func opCallExpression(a *Args) (Value, error) {
	call := &ast.CallExpr{Fun: a.expr(0), Args: a.optExprList(1)}
	if a.optBool(2, false) {
		call.Ellipsis = marker
	}

	return a.result(call)
}

func opMethodCall(a *Args) (Value, error) {
	return a.result(&ast.CallExpr{
		Fun:  &ast.SelectorExpr{X: a.expr(0), Sel: a.ident(1)},
		Args: a.optExprList(2),
	})
}

func opPropertyAccess(a *Args) (Value, error) {
	return a.result(&ast.SelectorExpr{X: a.expr(0), Sel: a.ident(1)})
}

func opElementAccess(a *Args) (Value, error) {
	return a.result(&ast.IndexExpr{X: a.expr(0), Index: a.expr(1)})
}

func opInstantiation(a *Args) (Value, error) {
	x := a.expr(0)

	typeArgs := a.exprList(1)
	if a.Err() == nil && len(typeArgs) == 0 {
		a.fail(1, "at least one type argument")
	}

	return a.result(instantiate(x, typeArgs))
}

func instantiate(x ast.Expr, typeArgs []ast.Expr) ast.Expr {
	switch len(typeArgs) {
	case 0:
		return x
	case 1:
		return &ast.IndexExpr{X: x, Index: typeArgs[0]}
	default:
		return &ast.IndexListExpr{X: x, Indices: typeArgs}
	}
}

func opSliceExpression(a *Args) (Value, error) {
	expr := &ast.SliceExpr{X: a.expr(0), Low: a.optExpr(1), High: a.optExpr(2), Max: a.optExpr(3)}
	if expr.Max != nil {
		if expr.High == nil {
			a.fail(2, "high bound when max is set")
		}

		expr.Slice3 = true
	}

	return a.result(expr)
}

func opTypeAssertion(a *Args) (Value, error) {
	return a.result(&ast.TypeAssertExpr{X: a.expr(0), Type: a.expr(1)})
}

// opTypeSwitchGuard builds x.(type).
func opTypeSwitchGuard(a *Args) (Value, error) {
	return a.result(&ast.TypeAssertExpr{X: a.expr(0)})
}

func opCompositeLiteral(a *Args) (Value, error) {
	return a.result(&ast.CompositeLit{Type: a.optExpr(0), Elts: a.optExprList(1)})
}

func opSliceLiteral(a *Args) (Value, error) {
	return a.result(&ast.CompositeLit{
		Type: &ast.ArrayType{Elt: a.expr(0)},
		Elts: a.optExprList(1),
	})
}

func opMapLiteral(a *Args) (Value, error) {
	entries := collect(a, 2, "key-value list", true, func(v Value) (ast.Expr, bool) {
		n, ok := v.AsNode()
		if !ok {
			return nil, false
		}

		kv, ok := n.(*ast.KeyValueExpr)

		return kv, ok
	})

	return a.result(&ast.CompositeLit{
		Type: &ast.MapType{Key: a.expr(0), Value: a.expr(1)},
		Elts: entries,
	})
}

func opStructLiteral(a *Args) (Value, error) {
	return a.result(&ast.CompositeLit{Type: a.expr(0), Elts: a.optExprList(1)})
}

func opKeyValue(a *Args) (Value, error) {
	return a.result(&ast.KeyValueExpr{Key: a.expr(0), Value: a.expr(1)})
}

// opPropertyAssignment builds Name: value inside a struct literal.
func opPropertyAssignment(a *Args) (Value, error) {
	return a.result(&ast.KeyValueExpr{Key: a.ident(0), Value: a.expr(1)})
}

func opFunctionExpression(a *Args) (Value, error) {
	return a.result(&ast.FuncLit{
		Type: &ast.FuncType{Params: a.fields(0), Results: a.optFields(1)},
		Body: a.block(2),
	})
}

func opConversion(a *Args) (Value, error) {
	return a.result(&ast.CallExpr{Fun: convertible(a.expr(0)), Args: []ast.Expr{a.expr(1)}})
}

// convertible parenthesizes types that would otherwise parse differently in
// call position: (*T)(x), (func())(x), (<-chan T)(x).
func convertible(t ast.Expr) ast.Expr {
	switch t := t.(type) {
	case *ast.StarExpr, *ast.FuncType:
		return &ast.ParenExpr{X: t}
	case *ast.ChanType:
		if t.Dir == ast.RECV {
			return &ast.ParenExpr{X: t}
		}
	}

	return t
}

// builtinOp calls a predeclared function with every argument, flattening
// list arguments.
func builtinOp(name string) Impl {
	return func(a *Args) (Value, error) {
		return a.result(&ast.CallExpr{Fun: ast.NewIdent(name), Args: a.exprTail(0)})
	}
}

func opEllipsis(a *Args) (Value, error) {
	return a.result(&ast.Ellipsis{Elt: a.optExpr(0)})
}
