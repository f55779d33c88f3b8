package factory

import (
	"go/ast"

	"github.com/Sumatoshi-tech/astforge/pkg/wire"
)

// DeserializeStatement deserializes node and requires a statement.
func DeserializeStatement(node wire.Node) (ast.Stmt, error) {
	v, err := Deserialize(node)
	if err != nil {
		return nil, err
	}

	if n, ok := v.AsNode(); ok {
		if stmt, isStmt := n.(ast.Stmt); isStmt {
			return stmt, nil
		}
	}

	return nil, mismatch("a statement", v)
}

// DeserializeStatements deserializes each node as a statement, in order.
func DeserializeStatements(nodes []wire.Node) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(nodes))

	for _, node := range nodes {
		stmt, err := DeserializeStatement(node)
		if err != nil {
			return nil, err
		}

		out = append(out, stmt)
	}

	return out, nil
}

// DeserializeExpression deserializes node and requires an expression.
func DeserializeExpression(node wire.Node) (ast.Expr, error) {
	v, err := Deserialize(node)
	if err != nil {
		return nil, err
	}

	if n, ok := v.AsNode(); ok {
		if expr, isExpr := n.(ast.Expr); isExpr {
			return expr, nil
		}
	}

	return nil, mismatch("an expression", v)
}

// DeserializeExpressions deserializes each node as an expression, in order.
func DeserializeExpressions(nodes []wire.Node) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(nodes))

	for _, node := range nodes {
		expr, err := DeserializeExpression(node)
		if err != nil {
			return nil, err
		}

		out = append(out, expr)
	}

	return out, nil
}

// DeserializeDeclaration deserializes node and requires a declaration,
// checked the same way as statements and expressions.
func DeserializeDeclaration(node wire.Node) (ast.Decl, error) {
	v, err := Deserialize(node)
	if err != nil {
		return nil, err
	}

	if n, ok := v.AsNode(); ok {
		if decl, isDecl := n.(ast.Decl); isDecl {
			return decl, nil
		}
	}

	return nil, mismatch("a declaration", v)
}

// DeserializeTopLevel deserializes the members of a file. Declaration
// statements are unwrapped to their declarations.
func DeserializeTopLevel(nodes []wire.Node) ([]ast.Decl, error) {
	out := make([]ast.Decl, 0, len(nodes))

	for _, node := range nodes {
		v, err := Deserialize(node)
		if err != nil {
			return nil, err
		}

		decl, ok := asDecl(v)
		if !ok {
			return nil, mismatch("a top-level declaration", v)
		}

		out = append(out, decl)
	}

	return out, nil
}

// DeserializeNodes deserializes every node and requires each to be a
// syntax tree node.
func DeserializeNodes(nodes []wire.Node) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(nodes))

	for _, node := range nodes {
		v, err := Deserialize(node)
		if err != nil {
			return nil, err
		}

		n, ok := v.AsNode()
		if !ok {
			return nil, mismatch("a syntax node", v)
		}

		out = append(out, n)
	}

	return out, nil
}
