package lint

import (
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Default types of untyped literals.
var literalTypes = map[string]string{
	"int_literal":                "int",
	"float_literal":              "float64",
	"imaginary_literal":          "complex128",
	"rune_literal":               "rune",
	"interpreted_string_literal": "string",
	"raw_string_literal":         "string",
	"true":                       "bool",
	"false":                      "bool",
}

// checkInferrableTypes reports var specs whose declared type is the
// default type of every initializer literal. Constants are left alone:
// a typed constant differs from an untyped one.
func checkInferrableTypes(s *source, _ Config) []finding {
	var out []finding

	walk(s.root, "", func(n sitter.Node, _ string) bool {
		if n.Type() != "var_spec" {
			return true
		}

		if f, ok := s.inferrable(n); ok {
			out = append(out, f)
		}

		return false
	})

	return out
}

func (s *source) inferrable(spec sitter.Node) (finding, bool) {
	typ := spec.ChildByFieldName("type")
	values := spec.ChildByFieldName("value")

	if typ.IsNull() || values.IsNull() {
		return finding{}, false
	}

	typeStart, typeEnd := span(typ)
	typeName := s.text[typeStart:typeEnd]

	lastName := -1
	names := 0

	for i := range spec.NamedChildCount() {
		child := spec.NamedChild(i)
		if start, end := span(child); child.Type() == "identifier" && start < typeStart {
			names++
			lastName = end
		}
	}

	exprs := 0

	for i := range values.NamedChildCount() {
		expr := values.NamedChild(i)
		if expr.Type() == "comment" {
			continue
		}

		if literalType(expr) != typeName {
			return finding{}, false
		}

		exprs++
	}

	if names == 0 || names != exprs {
		return finding{}, false
	}

	msg := fmt.Sprintf("Type %s trivially inferred from a %s literal, remove type annotation.", typeName, typeName)

	return s.finding(RuleNoInferrableTypes, typeStart, msg, &edit{start: lastName, end: typeEnd}), true
}

// literalType returns the default type of a literal expression, allowing a
// leading sign on numbers, or "" when expr is not a literal.
func literalType(expr sitter.Node) string {
	if expr.Type() == "unary_expression" {
		operand := expr.ChildByFieldName("operand")
		if operand.IsNull() {
			return ""
		}

		switch typ := literalType(operand); typ {
		case "int", "float64", "complex128":
			op := expr.ChildByFieldName("operator")
			if !op.IsNull() && (op.Type() == "-" || op.Type() == "+") {
				return typ
			}
		}

		return ""
	}

	return literalTypes[expr.Type()]
}
