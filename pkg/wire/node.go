// Package wire defines the JSON value model a code generator uses to describe
// go/ast construction calls, together with its codec and schema validation.
package wire

import (
	"encoding/json"
	"fmt"
)

// ArraySentinel is the reserved factory name meaning "build an ordered
// sequence of the deserialized arguments" instead of invoking an operation.
const ArraySentinel = "__array"

// Discriminant values of the "type" field.
const (
	TypeLiteral   = "literal"
	TypeNumber    = "number"
	TypeUndefined = "undefined"
	TypeFactory   = "factory"
)

// Node is one serialized value. The set of implementations is closed:
// *Literal, *Number, *Undefined and *Factory.
type Node interface {
	// NodeType returns the discriminant written to the "type" field.
	NodeType() string

	sealed()
}

// Literal carries a null, boolean or string payload.
type Literal struct {
	// Value is nil, a bool or a string.
	Value any
}

// Number carries a numeric payload. Producers send large or precise values
// as strings; Text keeps that form until deserialization parses it.
type Number struct {
	Text  string
	Float float64
}

// Undefined marks an intentionally omitted optional argument.
type Undefined struct{}

// Factory names a construction operation and its positional arguments.
type Factory struct {
	Name string
	Args []Node
}

// NodeType implements Node.
func (*Literal) NodeType() string { return TypeLiteral }

// NodeType implements Node.
func (*Number) NodeType() string { return TypeNumber }

// NodeType implements Node.
func (*Undefined) NodeType() string { return TypeUndefined }

// NodeType implements Node.
func (*Factory) NodeType() string { return TypeFactory }

func (*Literal) sealed()   {}
func (*Number) sealed()    {}
func (*Undefined) sealed() {}
func (*Factory) sealed()   {}

// IsText reports whether the number was transported as a string.
func (n *Number) IsText() bool {
	return n.Text != ""
}

// IsArray reports whether the factory is the array pseudo-operation.
func (f *Factory) IsArray() bool {
	return f.Name == ArraySentinel
}

// Null returns a null literal.
func Null() Node { return &Literal{} }

// Bool returns a boolean literal.
func Bool(b bool) Node { return &Literal{Value: b} }

// String returns a string literal.
func String(s string) Node { return &Literal{Value: s} }

// Float returns a native numeric node.
func Float(f float64) Node { return &Number{Float: f} }

// NumberText returns a numeric node transported as a string.
func NumberText(s string) Node { return &Number{Text: s} }

// Undef returns the undefined node.
func Undef() Node { return &Undefined{} }

// Call returns a factory node invoking name with args.
func Call(name string, args ...Node) Node {
	if args == nil {
		args = []Node{}
	}

	return &Factory{Name: name, Args: args}
}

// Array returns a factory node for the array pseudo-operation.
func Array(elems ...Node) Node {
	return Call(ArraySentinel, elems...)
}

type literalJSON struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

type numberJSON struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

type factoryJSON struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Args []Node `json:"args"`
}

// MarshalJSON implements json.Marshaler.
func (l *Literal) MarshalJSON() ([]byte, error) {
	switch l.Value.(type) {
	case nil, bool, string:
	default:
		return nil, fmt.Errorf("%w: literal payload %T", ErrMalformedNode, l.Value)
	}

	return json.Marshal(literalJSON{Type: TypeLiteral, Value: l.Value})
}

// MarshalJSON implements json.Marshaler.
func (n *Number) MarshalJSON() ([]byte, error) {
	if n.IsText() {
		return json.Marshal(numberJSON{Type: TypeNumber, Value: n.Text})
	}

	return json.Marshal(numberJSON{Type: TypeNumber, Value: n.Float})
}

// MarshalJSON implements json.Marshaler.
func (*Undefined) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"undefined"}`), nil
}

// MarshalJSON implements json.Marshaler.
func (f *Factory) MarshalJSON() ([]byte, error) {
	args := f.Args
	if args == nil {
		args = []Node{}
	}

	return json.Marshal(factoryJSON{Type: TypeFactory, Name: f.Name, Args: args})
}
