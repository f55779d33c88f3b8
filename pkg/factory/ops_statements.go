package factory

import (
	"go/ast"
	"go/token"
)

func isAssignOp(tok token.Token) bool {
	return tok == token.ASSIGN || tok == token.DEFINE ||
		(tok >= token.ADD_ASSIGN && tok <= token.AND_NOT_ASSIGN)
}

func opExpressionStatement(a *Args) (Value, error) {
	return a.result(&ast.ExprStmt{X: a.expr(0)})
}

func opAssignment(a *Args) (Value, error) {
	lhs := a.exprList(0)

	op := a.tok(1)
	if a.Err() == nil && !isAssignOp(op) {
		a.fail(1, "assignment operator")
	}

	return a.result(&ast.AssignStmt{Lhs: lhs, Tok: op, Rhs: a.exprList(2)})
}

func opShortVarDeclaration(a *Args) (Value, error) {
	return a.result(&ast.AssignStmt{Lhs: a.exprList(0), Tok: token.DEFINE, Rhs: a.exprList(1)})
}

func incDecOp(tok token.Token) Impl {
	return func(a *Args) (Value, error) {
		return a.result(&ast.IncDecStmt{X: a.expr(0), Tok: tok})
	}
}

func opReturn(a *Args) (Value, error) {
	return a.result(&ast.ReturnStmt{Results: a.optExprList(0)})
}

func opIf(a *Args) (Value, error) {
	return a.result(&ast.IfStmt{
		Init: a.optStmt(0),
		Cond: a.expr(1),
		Body: a.block(2),
		Else: a.elseBranch(3),
	})
}

// elseBranch accepts an if statement (else if), a block or a statement list.
func (a *Args) elseBranch(i int) ast.Stmt {
	v := a.At(i)
	if v.IsAbsent() {
		return nil
	}

	if n, ok := v.AsNode(); ok {
		if s, isIf := n.(*ast.IfStmt); isIf {
			return s
		}
	}

	return a.block(i)
}

func opFor(a *Args) (Value, error) {
	return a.result(&ast.ForStmt{
		Init: a.optStmt(0),
		Cond: a.optExpr(1),
		Post: a.optStmt(2),
		Body: a.block(3),
	})
}

func opRange(a *Args) (Value, error) {
	stmt := &ast.RangeStmt{
		Key:   a.optExpr(0),
		Value: a.optExpr(1),
		X:     a.expr(2),
		Body:  a.block(3),
	}

	if stmt.Value != nil && stmt.Key == nil {
		stmt.Key = ast.NewIdent("_")
	}

	if stmt.Key != nil {
		stmt.Tok = token.ASSIGN
		if a.optBool(4, true) {
			stmt.Tok = token.DEFINE
		}
	}

	return a.result(stmt)
}

func (a *Args) caseClauses(i int) []ast.Stmt {
	return collect(a, i, "case clause list", false, func(v Value) (ast.Stmt, bool) {
		n, ok := v.AsNode()
		if !ok {
			return nil, false
		}

		cc, ok := n.(*ast.CaseClause)

		return cc, ok
	})
}

func opSwitch(a *Args) (Value, error) {
	return a.result(&ast.SwitchStmt{
		Init: a.optStmt(0),
		Tag:  a.optExpr(1),
		Body: &ast.BlockStmt{List: a.caseClauses(2)},
	})
}

func opTypeSwitch(a *Args) (Value, error) {
	x := a.expr(2)

	guard, ok := x.(*ast.TypeAssertExpr)
	if !ok || guard.Type != nil {
		guard = &ast.TypeAssertExpr{X: x}
	}

	var assign ast.Stmt = &ast.ExprStmt{X: guard}
	if bind := a.optIdent(1); bind != nil {
		assign = &ast.AssignStmt{Lhs: []ast.Expr{bind}, Tok: token.DEFINE, Rhs: []ast.Expr{guard}}
	}

	return a.result(&ast.TypeSwitchStmt{
		Init:   a.optStmt(0),
		Assign: assign,
		Body:   &ast.BlockStmt{List: a.caseClauses(3)},
	})
}

func opSelect(a *Args) (Value, error) {
	clauses := collect(a, 0, "comm clause list", false, func(v Value) (ast.Stmt, bool) {
		n, ok := v.AsNode()
		if !ok {
			return nil, false
		}

		cc, ok := n.(*ast.CommClause)

		return cc, ok
	})

	return a.result(&ast.SelectStmt{Body: &ast.BlockStmt{List: clauses}})
}

func opBlock(a *Args) (Value, error) {
	return a.result(&ast.BlockStmt{List: a.optStmts(0)})
}

func (a *Args) call(i int) *ast.CallExpr {
	call, ok := a.expr(i).(*ast.CallExpr)
	if !ok {
		a.fail(i, "call expression")
	}

	return call
}

func opGo(a *Args) (Value, error) {
	return a.result(&ast.GoStmt{Call: a.call(0)})
}

func opDefer(a *Args) (Value, error) {
	return a.result(&ast.DeferStmt{Call: a.call(0)})
}

func branchOp(tok token.Token) Impl {
	return func(a *Args) (Value, error) {
		label := a.optIdent(0)
		if tok == token.GOTO && label == nil {
			a.fail(0, "label")
		}

		return a.result(&ast.BranchStmt{Tok: tok, Label: label})
	}
}

func opLabeled(a *Args) (Value, error) {
	return a.result(&ast.LabeledStmt{Label: a.ident(0), Stmt: a.stmt(1)})
}

func opSend(a *Args) (Value, error) {
	return a.result(&ast.SendStmt{Chan: a.expr(0), Value: a.expr(1)})
}

func opDeclarationStatement(a *Args) (Value, error) {
	decl, ok := a.node(0).(*ast.GenDecl)
	if !ok {
		a.fail(0, "var, const, type or import declaration")
	}

	return a.result(&ast.DeclStmt{Decl: decl})
}

func opEmpty(a *Args) (Value, error) {
	return a.result(&ast.EmptyStmt{})
}

// opVariableStatement builds a single-spec var declaration in statement form.
func opVariableStatement(a *Args) (Value, error) {
	spec := &ast.ValueSpec{Names: a.identList(0), Type: a.optExpr(1), Values: a.optExprList(2)}

	return a.result(&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.VAR, Specs: []ast.Spec{spec}}})
}

// opErrorCheck builds: if err != nil { return results..., err }.
func opErrorCheck(a *Args) (Value, error) {
	errID := a.ident(0)
	results := append(a.optExprList(1), ast.NewIdent(errID.Name))

	return a.result(&ast.IfStmt{
		Cond: &ast.BinaryExpr{X: errID, Op: token.NEQ, Y: ast.NewIdent("nil")},
		Body: &ast.BlockStmt{List: []ast.Stmt{&ast.ReturnStmt{Results: results}}},
	})
}

func opCaseClause(a *Args) (Value, error) {
	return a.result(&ast.CaseClause{List: a.optExprList(0), Body: a.optStmts(1)})
}

func opDefaultClause(a *Args) (Value, error) {
	return a.result(&ast.CaseClause{Body: a.optStmts(0)})
}

// opCommClause accepts a send or receive statement; a bare receive
// expression is wrapped in an expression statement. Absent means default.
func opCommClause(a *Args) (Value, error) {
	var comm ast.Stmt

	if v := a.At(0); !v.IsAbsent() {
		if x, ok := asExpr(v); ok {
			comm = &ast.ExprStmt{X: x}
		} else {
			comm = a.stmt(0)
		}
	}

	return a.result(&ast.CommClause{Comm: comm, Body: a.optStmts(1)})
}
