package factory_test

import (
	"go/ast"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astforge/pkg/factory"
	"github.com/Sumatoshi-tech/astforge/pkg/wire"
)

func ident(name string) wire.Node {
	return wire.Call("createIdentifier", wire.String(name))
}

func strLit(s string) wire.Node {
	return wire.Call("createStringLiteral", wire.String(s))
}

func num(f float64) wire.Node {
	return wire.Call("createNumericLiteral", wire.Float(f))
}

func TestDeserialize_LiteralIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		node wire.Node
		want any
	}{
		{node: wire.Null(), want: nil},
		{node: wire.Bool(true), want: true},
		{node: wire.Bool(false), want: false},
		{node: wire.String("hello"), want: "hello"},
		{node: wire.String(""), want: ""},
	}

	for _, tc := range tests {
		v, err := factory.Deserialize(tc.node)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v.Any())
	}

	null, err := factory.Deserialize(wire.Null())
	require.NoError(t, err)
	assert.Equal(t, factory.KindNull, null.Kind())
}

func TestDeserialize_Undefined(t *testing.T) {
	t.Parallel()

	v, err := factory.Deserialize(wire.Undef())
	require.NoError(t, err)
	assert.Equal(t, factory.KindUndefined, v.Kind())
	assert.True(t, v.IsAbsent())
}

func TestDeserialize_Numbers(t *testing.T) {
	t.Parallel()

	text, err := factory.Deserialize(wire.NumberText("3.14"))
	require.NoError(t, err)

	f, ok := text.AsNumber()
	require.True(t, ok)
	assert.InDelta(t, 3.14, f, 0)

	native, err := factory.Deserialize(wire.Float(42))
	require.NoError(t, err)

	f, ok = native.AsNumber()
	require.True(t, ok)
	assert.InDelta(t, 42.0, f, 0)

	big, err := factory.Deserialize(wire.NumberText("9007199254740993"))
	require.NoError(t, err)

	f, _ = big.AsNumber()
	assert.InDelta(t, 9007199254740992.0, f, 0)
}

func TestDeserialize_InvalidNumberText(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"0x10", "1_000", "abc", "1e400", "NaN", "Inf"} {
		_, err := factory.Deserialize(wire.NumberText(text))
		require.ErrorIs(t, err, factory.ErrInvalidNumber, text)
	}
}

func TestDeserialize_ArraySentinel(t *testing.T) {
	t.Parallel()

	v, err := factory.Deserialize(wire.Array(wire.String("a"), wire.Float(2), wire.Array()))
	require.NoError(t, err)

	elems, ok := v.AsList()
	require.True(t, ok)
	require.Len(t, elems, 3)

	assert.Equal(t, "a", elems[0].Any())
	assert.Equal(t, 2.0, elems[1].Any())

	inner, ok := elems[2].AsList()
	require.True(t, ok)
	assert.Empty(t, inner)
}

func TestDeserialize_UnknownFactoryMethod(t *testing.T) {
	t.Parallel()

	_, err := factory.Deserialize(wire.Call("bogusThing"))
	require.ErrorIs(t, err, factory.ErrUnknownFactoryMethod)
	assert.Contains(t, err.Error(), "bogusThing")

	var ferr *factory.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "bogusThing", ferr.Op)
}

func TestDeserialize_UnknownFactoryMethodSuggestion(t *testing.T) {
	t.Parallel()

	_, err := factory.Deserialize(wire.Call("createIdentifer", wire.String("x")))
	require.ErrorIs(t, err, factory.ErrUnknownFactoryMethod)
	assert.Equal(t, "Unknown factory method: createIdentifer (did you mean createIdentifier?)", err.Error())

	var ferr *factory.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "createIdentifier", ferr.Suggestion)
}

func TestDeserialize_NestedErrorPropagatesUnmodified(t *testing.T) {
	t.Parallel()

	node := wire.Call("createExpressionStatement",
		wire.Call("createCallExpression", ident("f"), wire.Array(wire.Call("nope"))))

	_, err := factory.Deserialize(node)
	require.ErrorIs(t, err, factory.ErrUnknownFactoryMethod)
	assert.Equal(t, "Unknown factory method: nope", err.Error())
}

func TestDeserialize_UnknownNodeType(t *testing.T) {
	t.Parallel()

	_, err := factory.Deserialize(nil)
	require.ErrorIs(t, err, wire.ErrUnknownNodeType)
}

func TestDeserialize_ArityCheckedBeforeArguments(t *testing.T) {
	t.Parallel()

	// The nested call is never evaluated: arity fails first.
	_, err := factory.Deserialize(wire.Call("createIdentifier", wire.Call("bogusThing"), wire.String("extra")))
	require.ErrorIs(t, err, factory.ErrArity)
	assert.Contains(t, err.Error(), "createIdentifier")
	assert.Contains(t, err.Error(), "expected 1, got 2")

	_, err = factory.Deserialize(wire.Call("createBinaryExpression", ident("x")))
	require.ErrorIs(t, err, factory.ErrArity)
	assert.Contains(t, err.Error(), "expected 3, got 1")

	_, err = factory.Deserialize(wire.Call("createAppend"))
	require.ErrorIs(t, err, factory.ErrArity)
	assert.Contains(t, err.Error(), "at least 1")
}

func TestDeserialize_ArgumentShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node wire.Node
	}{
		{name: "identifier from number", node: wire.Call("createIdentifier", wire.Float(1))},
		{name: "unknown operator", node: wire.Call("createBinaryExpression", ident("a"), wire.String("=>"), ident("b"))},
		{name: "assignment as binary", node: wire.Call("createBinaryExpression", ident("a"), wire.String("="), ident("b"))},
		{name: "go without call", node: wire.Call("createGoStatement", ident("f"))},
		{name: "statement list element", node: wire.Call("createBlock", wire.Array(wire.String("x")))},
		{name: "char literal of two runes", node: wire.Call("createCharLiteral", wire.String("ab"))},
		{name: "raw string with backquote", node: wire.Call("createRawStringLiteral", wire.String("a`b"))},
		{name: "keyword type", node: wire.Call("createKeywordType", wire.String("integer"))},
		{name: "channel direction", node: wire.Call("createChannelType", wire.String("sideways"), ident("int"))},
		{name: "comment on expression", node: wire.Call("addSyntheticLeadingComment", ident("x"), wire.String("doc"))},
		{name: "empty var declaration", node: wire.Call("createVariableDeclaration", wire.Array())},
		{name: "type spec in var declaration", node: wire.Call("createVariableDeclaration",
			wire.Array(wire.Call("createTypeSpec", wire.String("T"), wire.Undef(), ident("int"))))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := factory.Deserialize(tc.node)
			require.ErrorIs(t, err, factory.ErrArgumentType)
		})
	}
}

func TestDeserialize_ArgumentsEvaluatedInOrder(t *testing.T) {
	t.Parallel()

	v, err := factory.Deserialize(wire.Call("createBinaryChain",
		wire.String("+"), wire.Array(ident("a"), ident("b"), ident("c"))))
	require.NoError(t, err)

	n, ok := v.AsNode()
	require.True(t, ok)

	outer, ok := n.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.ADD, outer.Op)
	assert.Equal(t, "c", outer.Y.(*ast.Ident).Name)

	inner, ok := outer.X.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "a", inner.X.(*ast.Ident).Name)
	assert.Equal(t, "b", inner.Y.(*ast.Ident).Name)
}

func TestDeserialize_Token(t *testing.T) {
	t.Parallel()

	v, err := factory.Deserialize(wire.Call("createToken", wire.String("&&")))
	require.NoError(t, err)

	tok, ok := v.AsToken()
	require.True(t, ok)
	assert.Equal(t, token.LAND, tok)

	// A token value is accepted wherever an operator string is.
	expr, err := factory.DeserializeExpression(wire.Call("createBinaryExpression",
		ident("a"), wire.Call("createToken", wire.String("==")), ident("b")))
	require.NoError(t, err)
	assert.Equal(t, token.EQL, expr.(*ast.BinaryExpr).Op)
}

func TestDeserializeAll(t *testing.T) {
	t.Parallel()

	values, err := factory.DeserializeAll([]wire.Node{wire.String("a"), num(1)})
	require.NoError(t, err)
	require.Len(t, values, 2)

	_, err = factory.DeserializeAll([]wire.Node{wire.String("a"), wire.Call("missing")})
	require.ErrorIs(t, err, factory.ErrUnknownFactoryMethod)
}
