package factory

import (
	"go/ast"
	"go/token"
	"math"
	"strconv"
	"strings"
)

var predeclaredTypes = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true,
	"complex64": true, "complex128": true, "error": true,
	"float32": true, "float64": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"rune": true, "string": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
}

var channelDirs = map[string]ast.ChanDir{
	"both":   ast.SEND | ast.RECV,
	"chan":   ast.SEND | ast.RECV,
	"send":   ast.SEND,
	"chan<-": ast.SEND,
	"recv":   ast.RECV,
	"<-chan": ast.RECV,
}

// opTypeReference names a type; "pkg.Name" becomes a qualified reference.
func opTypeReference(a *Args) (Value, error) {
	var ref ast.Expr

	if name, ok := a.At(0).AsString(); ok {
		ref = typeName(name)
	} else {
		ref = a.expr(0)
	}

	return a.result(instantiate(ref, a.optExprList(1)))
}

func typeName(name string) ast.Expr {
	pkg, sel, qualified := strings.Cut(name, ".")
	if !qualified {
		return ast.NewIdent(name)
	}

	return &ast.SelectorExpr{X: ast.NewIdent(pkg), Sel: ast.NewIdent(sel)}
}

func opKeywordType(a *Args) (Value, error) {
	name := a.str(0)
	if a.Err() == nil && !predeclaredTypes[name] {
		a.fail(0, "predeclared type name")
	}

	return a.result(ast.NewIdent(name))
}

// opArrayType accepts a numeric length, a length expression or "..." for
// an array sized by its literal.
func opArrayType(a *Args) (Value, error) {
	var length ast.Expr

	v := a.At(0)
	switch {
	case v.Kind() == KindNumber:
		n, _ := v.AsNumber()
		if n < 0 || n != math.Trunc(n) {
			a.fail(0, "non-negative integer length")
		}

		length = &ast.BasicLit{Kind: token.INT, Value: strconv.FormatFloat(n, 'f', -1, 64)}
	case v.Kind() == KindString:
		if s, _ := v.AsString(); s != "..." {
			a.fail(0, `array length or "..."`)
		}

		length = &ast.Ellipsis{}
	default:
		length = a.expr(0)
	}

	return a.result(&ast.ArrayType{Len: length, Elt: a.expr(1)})
}

func opSliceType(a *Args) (Value, error) {
	return a.result(&ast.ArrayType{Elt: a.expr(0)})
}

func opMapType(a *Args) (Value, error) {
	return a.result(&ast.MapType{Key: a.expr(0), Value: a.expr(1)})
}

func opChannelType(a *Args) (Value, error) {
	dir, ok := channelDirs[a.str(0)]
	if !ok {
		a.fail(0, "channel direction (both, send or recv)")
	}

	return a.result(&ast.ChanType{Dir: dir, Value: a.expr(1)})
}

func opFunctionType(a *Args) (Value, error) {
	return a.result(&ast.FuncType{
		TypeParams: a.optFields(0),
		Params:     a.fields(1),
		Results:    a.optFields(2),
	})
}

func opStructType(a *Args) (Value, error) {
	return a.result(&ast.StructType{Fields: braced(a.fields(0))})
}

func opInterfaceType(a *Args) (Value, error) {
	return a.result(&ast.InterfaceType{Methods: braced(a.fields(0))})
}

// braced keeps an empty member list on one line: struct{} and interface{}.
func braced(fl *ast.FieldList) *ast.FieldList {
	if len(fl.List) == 0 {
		fl.Opening, fl.Closing = marker, marker
	}

	return fl
}

// opTypeUnion builds a constraint union: A | B | C.
func opTypeUnion(a *Args) (Value, error) {
	terms := a.exprList(0)
	if a.Err() == nil && len(terms) == 0 {
		a.fail(0, "at least one term")
	}

	return a.result(foldBinary(token.OR, terms))
}

func opTildeType(a *Args) (Value, error) {
	return a.result(&ast.UnaryExpr{Op: token.TILDE, X: a.expr(0)})
}

func opTypeParameter(a *Args) (Value, error) {
	return a.result(&ast.Field{Names: a.identList(0), Type: a.expr(1)})
}

func opField(a *Args) (Value, error) {
	return a.result(&ast.Field{Names: a.optIdentList(0), Type: a.expr(1), Tag: a.tag(2)})
}

func opEmbeddedField(a *Args) (Value, error) {
	return a.result(&ast.Field{Type: a.expr(0), Tag: a.tag(1)})
}

// tag accepts a tag literal node or the raw tag text.
func (a *Args) tag(i int) *ast.BasicLit {
	v := a.At(i)
	if v.IsAbsent() {
		return nil
	}

	if s, ok := v.AsString(); ok {
		return tagLiteral(s)
	}

	lit, ok := a.node(i).(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		a.fail(i, "struct tag")
	}

	return lit
}

// opStructTag builds a tag from its text or from key/value pairs, each
// pair being a two-element list or a ready "key:\"value\"" string.
func opStructTag(a *Args) (Value, error) {
	if s, ok := a.At(0).AsString(); ok {
		return a.result(tagLiteral(s))
	}

	pairs, ok := a.At(0).AsList()
	if !ok {
		a.fail(0, "tag text or key/value pairs")

		return Value{}, a.Err()
	}

	parts := make([]string, 0, len(pairs))

	for _, pair := range pairs {
		if s, isStr := pair.AsString(); isStr {
			parts = append(parts, s)

			continue
		}

		kv, isList := pair.AsList()
		if !isList || len(kv) != 2 {
			a.fail(0, "key/value pairs")

			break
		}

		key, keyOK := kv[0].AsString()
		val, valOK := kv[1].AsString()

		if !keyOK || !valOK {
			a.fail(0, "string key/value pairs")

			break
		}

		parts = append(parts, key+":"+strconv.Quote(val))
	}

	return a.result(tagLiteral(strings.Join(parts, " ")))
}

func tagLiteral(text string) *ast.BasicLit {
	if strconv.CanBackquote(text) {
		return &ast.BasicLit{Kind: token.STRING, Value: "`" + text + "`"}
	}

	return stringLit(text)
}

func opMethodSignature(a *Args) (Value, error) {
	return a.result(&ast.Field{
		Names: []*ast.Ident{a.ident(0)},
		Type:  &ast.FuncType{Params: a.fields(1), Results: a.optFields(2)},
	})
}

func opParameter(a *Args) (Value, error) {
	field := &ast.Field{Names: a.optIdentList(0), Type: a.expr(1)}
	if a.optBool(2, false) {
		field.Type = &ast.Ellipsis{Elt: field.Type}
	}

	return a.result(field)
}

func opParameterList(a *Args) (Value, error) {
	return a.result(a.fields(0))
}

func opResult(a *Args) (Value, error) {
	field := &ast.Field{Type: a.expr(0)}
	if name := a.optIdent(1); name != nil {
		field.Names = []*ast.Ident{name}
	}

	return a.result(field)
}
