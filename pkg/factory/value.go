package factory

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

// Kind discriminates the variants of a Value.
type Kind uint8

// Value kinds.
const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindString
	KindNumber
	KindToken
	KindNode
	KindList
)

var kindNames = [...]string{
	KindUndefined: "undefined",
	KindNull:      "null",
	KindBool:      "boolean",
	KindString:    "string",
	KindNumber:    "number",
	KindToken:     "token",
	KindNode:      "node",
	KindList:      "list",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "invalid"
}

// Value is the result of deserializing one wire node. Exactly one payload is
// meaningful, selected by Kind. The zero Value is undefined.
type Value struct {
	node ast.Node
	str  string
	list []Value
	num  float64
	tok  token.Token
	kind Kind
	b    bool
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Token wraps an operator or keyword token.
func Token(tok token.Token) Value { return Value{kind: KindToken, tok: tok} }

// Node wraps a syntax tree node. A nil node yields null.
func Node(n ast.Node) Value {
	if n == nil {
		return Null()
	}

	return Value{kind: KindNode, node: n}
}

// List wraps an ordered sequence of values.
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindList, list: elems}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is undefined or null.
func (v Value) IsAbsent() bool {
	return v.kind == KindUndefined || v.kind == KindNull
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsToken returns the token payload.
func (v Value) AsToken() (token.Token, bool) { return v.tok, v.kind == KindToken }

// AsNode returns the node payload.
func (v Value) AsNode() (ast.Node, bool) { return v.node, v.kind == KindNode }

// AsList returns the list payload.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// Any converts the value to a plain Go value: nil, bool, string, float64,
// token.Token, ast.Node or []any. Undefined and null both become nil.
func (v Value) Any() any {
	switch v.kind {
	case KindUndefined, KindNull:
		return nil
	case KindBool:
		return v.b
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindToken:
		return v.tok
	case KindNode:
		return v.node
	case KindList:
		out := make([]any, len(v.list))
		for i, elem := range v.list {
			out[i] = elem.Any()
		}

		return out
	default:
		return nil
	}
}

// Describe names what the value holds: the go/ast type name for nodes
// ("Ident", "CallExpr") and the kind name otherwise.
func (v Value) Describe() string {
	if v.kind == KindNode {
		return nodeTypeName(v.node)
	}

	return v.kind.String()
}

func nodeTypeName(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
