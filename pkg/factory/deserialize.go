package factory

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/astforge/pkg/wire"
)

// Deserialize interprets one serialized node. Literals and numbers become
// plain values, array calls become lists and every other factory call is
// dispatched through the operation table after its arguments have been
// deserialized depth-first, left to right.
func Deserialize(node wire.Node) (Value, error) {
	switch n := node.(type) {
	case *wire.Literal:
		return literalValue(n)
	case *wire.Undefined:
		return Undefined(), nil
	case *wire.Number:
		return numberValue(n)
	case *wire.Factory:
		return invoke(n)
	case nil:
		return Value{}, fmt.Errorf("%w: %q", wire.ErrUnknownNodeType, "")
	default:
		return Value{}, fmt.Errorf("%w: %q", wire.ErrUnknownNodeType, node.NodeType())
	}
}

// DeserializeAll deserializes every node in order and stops at the first
// failure.
func DeserializeAll(nodes []wire.Node) ([]Value, error) {
	out := make([]Value, 0, len(nodes))

	for _, node := range nodes {
		v, err := Deserialize(node)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

func literalValue(lit *wire.Literal) (Value, error) {
	switch v := lit.Value.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	default:
		return Value{}, fmt.Errorf("%w: literal payload %T", wire.ErrMalformedNode, lit.Value)
	}
}

// numberValue parses string payloads as plain decimal floats: radix
// prefixes, digit separators and non-finite results are rejected.
func numberValue(num *wire.Number) (Value, error) {
	if !num.IsText() {
		return Number(num.Float), nil
	}

	text := strings.TrimSpace(num.Text)
	if strings.ContainsAny(text, "xX_") {
		return Value{}, invalidNumber(num.Text)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, invalidNumber(num.Text)
	}

	return Number(f), nil
}

func invoke(n *wire.Factory) (Value, error) {
	if n.IsArray() {
		elems, err := DeserializeAll(n.Args)
		if err != nil {
			return Value{}, err
		}

		return List(elems...), nil
	}

	def, ok := Lookup(n.Name)
	if !ok {
		return Value{}, unknownMethod(n.Name)
	}

	if !def.Accepts(len(n.Args)) {
		return Value{}, arityError(def, len(n.Args))
	}

	args, err := DeserializeAll(n.Args)
	if err != nil {
		return Value{}, err
	}

	return def.Impl(NewArgs(def.Name, args))
}
