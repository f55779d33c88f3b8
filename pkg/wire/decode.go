package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Sentinel errors for wire decoding.
var (
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrMalformedNode   = errors.New("malformed node")
	ErrEmptyDocument   = errors.New("empty document")
)

type rawNode struct {
	Type  *string           `json:"type"`
	Name  *string           `json:"name"`
	Value json.RawMessage   `json:"value"`
	Args  []json.RawMessage `json:"args"`
}

// Decode reads one JSON document holding either an array of nodes or a
// single node object. A single object is returned as a one-element slice.
func Decode(r io.Reader) ([]Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte) ([]Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	if trimmed[0] != '[' {
		node, err := DecodeNode(trimmed)
		if err != nil {
			return nil, err
		}

		return []Node{node}, nil
	}

	var elems []json.RawMessage

	err := json.Unmarshal(trimmed, &elems)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	nodes := make([]Node, 0, len(elems))

	for idx, elem := range elems {
		node, decodeErr := DecodeNode(elem)
		if decodeErr != nil {
			return nil, fmt.Errorf("node %d: %w", idx, decodeErr)
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}

// DecodeNode decodes a single serialized node and its descendants.
func DecodeNode(data []byte) (Node, error) {
	var raw rawNode

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedNode, err)
	}

	if raw.Type == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, "")
	}

	switch *raw.Type {
	case TypeLiteral:
		return decodeLiteral(raw.Value)
	case TypeNumber:
		return decodeNumber(raw.Value)
	case TypeUndefined:
		return &Undefined{}, nil
	case TypeFactory:
		return decodeFactory(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, *raw.Type)
	}
}

func decodeLiteral(value json.RawMessage) (Node, error) {
	if len(value) == 0 {
		return &Literal{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var payload any

	err := dec.Decode(&payload)
	if err != nil {
		return nil, fmt.Errorf("%w: literal value: %w", ErrMalformedNode, err)
	}

	switch payload.(type) {
	case nil, bool, string:
		return &Literal{Value: payload}, nil
	default:
		return nil, fmt.Errorf("%w: literal value must be null, boolean or string, got %s", ErrMalformedNode, value)
	}
}

func decodeNumber(value json.RawMessage) (Node, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("%w: number without value", ErrMalformedNode)
	}

	if value[0] == '"' {
		var text string

		err := json.Unmarshal(value, &text)
		if err != nil {
			return nil, fmt.Errorf("%w: number value: %w", ErrMalformedNode, err)
		}

		if text == "" {
			return nil, fmt.Errorf("%w: number value is an empty string", ErrMalformedNode)
		}

		return &Number{Text: text}, nil
	}

	var num json.Number

	err := json.Unmarshal(value, &num)
	if err != nil {
		return nil, fmt.Errorf("%w: number value: %w", ErrMalformedNode, err)
	}

	f, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number value %s: %w", ErrMalformedNode, num, err)
	}

	return &Number{Float: f}, nil
}

func decodeFactory(raw rawNode) (Node, error) {
	if raw.Name == nil || *raw.Name == "" {
		return nil, fmt.Errorf("%w: factory without name", ErrMalformedNode)
	}

	args := make([]Node, 0, len(raw.Args))

	for idx, elem := range raw.Args {
		arg, err := DecodeNode(elem)
		if err != nil {
			return nil, fmt.Errorf("%s args[%d]: %w", *raw.Name, idx, err)
		}

		args = append(args, arg)
	}

	return &Factory{Name: *raw.Name, Args: args}, nil
}
