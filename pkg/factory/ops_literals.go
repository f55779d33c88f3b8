package factory

import (
	"fmt"
	"go/ast"
	"go/token"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// marker is a valid position for fields whose presence go/printer detects
// through Pos.IsValid (variadic calls, alias declarations).
const marker token.Pos = 1

// maxExactInt bounds the integral float64 values printed as integer literals.
const maxExactInt = 1e21

var operators = buildOperators()

func buildOperators() map[string]token.Token {
	ops := make(map[string]token.Token)

	for tok := token.ADD; tok <= token.TILDE; tok++ {
		if tok.IsOperator() {
			ops[tok.String()] = tok
		}
	}

	for tok := token.BREAK; tok <= token.VAR; tok++ {
		ops[tok.String()] = tok
	}

	return ops
}

var literalKinds = map[string]token.Token{
	"INT":    token.INT,
	"FLOAT":  token.FLOAT,
	"IMAG":   token.IMAG,
	"CHAR":   token.CHAR,
	"STRING": token.STRING,
}

func opToken(a *Args) (Value, error) {
	tok := a.tok(0)
	if a.Err() != nil {
		return Value{}, a.Err()
	}

	return Token(tok), nil
}

func identOp(name string) Impl {
	return func(a *Args) (Value, error) {
		return a.result(ast.NewIdent(name))
	}
}

func opIdentifier(a *Args) (Value, error) {
	return a.result(a.ident(0))
}

func opExportedIdentifier(a *Args) (Value, error) {
	id := a.ident(0)

	r, size := utf8.DecodeRuneInString(id.Name)
	if size == 0 {
		a.fail(0, "non-empty name")
	}

	return a.result(ast.NewIdent(string(unicode.ToUpper(r)) + id.Name[size:]))
}

func opQualifiedName(a *Args) (Value, error) {
	var pkg ast.Expr
	if _, isStr := a.At(0).AsString(); isStr {
		pkg = a.ident(0)
	} else {
		pkg = a.expr(0)
	}

	return a.result(&ast.SelectorExpr{X: pkg, Sel: a.ident(1)})
}

func opUniqueName(a *Args) (Value, error) {
	prefix := a.str(0)

	if v := a.At(1); !v.IsAbsent() {
		n, ok := v.AsNumber()
		if !ok || n != math.Trunc(n) || n < 0 {
			a.fail(1, "non-negative integer")
		}

		prefix += strconv.FormatInt(int64(n), 10)
	}

	return a.result(ast.NewIdent(prefix))
}

func opStringLiteral(a *Args) (Value, error) {
	return a.result(stringLit(a.str(0)))
}

func opRawStringLiteral(a *Args) (Value, error) {
	s := a.str(0)
	if strings.ContainsAny(s, "`\r") {
		a.fail(0, "string without backquote or carriage return")
	}

	return a.result(&ast.BasicLit{Kind: token.STRING, Value: "`" + s + "`"})
}

func opNumericLiteral(a *Args) (Value, error) {
	v := a.At(0)

	if f, ok := v.AsNumber(); ok {
		kind := token.FLOAT
		if f == math.Trunc(f) && math.Abs(f) < maxExactInt {
			kind = token.INT
		}

		return a.numberLit(f, kind)
	}

	text := a.str(0)
	if a.Err() != nil {
		return Value{}, a.Err()
	}

	neg, digits := splitSign(text)

	switch {
	case isIntText(digits):
		return a.result(negate(neg, &ast.BasicLit{Kind: token.INT, Value: digits}))
	case isFloatText(digits):
		return a.result(negate(neg, &ast.BasicLit{Kind: token.FLOAT, Value: digits}))
	default:
		return Value{}, invalidNumber(text)
	}
}

func opIntLiteral(a *Args) (Value, error) {
	base := 10

	if v := a.At(1); !v.IsAbsent() {
		n, ok := v.AsNumber()
		if !ok || (n != 2 && n != 8 && n != 10 && n != 16) {
			a.fail(1, "base 2, 8, 10 or 16")
		}

		base = int(n)
	}

	var value *big.Int

	if f, ok := a.At(0).AsNumber(); ok {
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return Value{}, invalidNumber(strconv.FormatFloat(f, 'g', -1, 64))
		}

		value, _ = big.NewFloat(f).Int(nil)
	} else {
		text := a.str(0)
		if a.Err() != nil {
			return Value{}, a.Err()
		}

		parsed, ok := new(big.Int).SetString(text, 0)
		if !ok {
			return Value{}, invalidNumber(text)
		}

		if a.At(1).IsAbsent() {
			neg, digits := splitSign(text)

			return a.result(negate(neg, &ast.BasicLit{Kind: token.INT, Value: digits}))
		}

		value = parsed
	}

	neg := value.Sign() < 0
	digits := new(big.Int).Abs(value).Text(base)

	switch base {
	case 2:
		digits = "0b" + digits
	case 8:
		digits = "0o" + digits
	case 16:
		digits = "0x" + digits
	}

	return a.result(negate(neg, &ast.BasicLit{Kind: token.INT, Value: digits}))
}

func opFloatLiteral(a *Args) (Value, error) {
	if f, ok := a.At(0).AsNumber(); ok {
		return a.numberLit(f, token.FLOAT)
	}

	text := a.str(0)
	if a.Err() != nil {
		return Value{}, a.Err()
	}

	neg, digits := splitSign(text)
	if !isFloatText(digits) {
		return Value{}, invalidNumber(text)
	}

	return a.result(negate(neg, &ast.BasicLit{Kind: token.FLOAT, Value: digits}))
}

func opImaginaryLiteral(a *Args) (Value, error) {
	if f, ok := a.At(0).AsNumber(); ok {
		return a.numberLit(f, token.IMAG)
	}

	text := a.str(0)
	if a.Err() != nil {
		return Value{}, a.Err()
	}

	neg, digits := splitSign(text)
	digits = strings.TrimSuffix(digits, "i")

	if !isFloatText(digits) {
		return Value{}, invalidNumber(text)
	}

	return a.result(negate(neg, &ast.BasicLit{Kind: token.IMAG, Value: digits + "i"}))
}

func opCharLiteral(a *Args) (Value, error) {
	s := a.str(0)
	if utf8.RuneCountInString(s) != 1 {
		a.fail(0, "single character")

		return Value{}, a.Err()
	}

	r, _ := utf8.DecodeRuneInString(s)

	return a.result(&ast.BasicLit{Kind: token.CHAR, Value: strconv.QuoteRune(r)})
}

func opBasicLiteral(a *Args) (Value, error) {
	kind, ok := literalKinds[strings.ToUpper(a.str(0))]
	if !ok {
		a.fail(0, "literal kind (INT, FLOAT, IMAG, CHAR or STRING)")
	}

	text := a.str(1)
	if text == "" {
		a.fail(1, "non-empty literal text")
	}

	return a.result(&ast.BasicLit{Kind: kind, Value: text})
}

// opStringConcatenation joins template pieces with +: strings become
// literals and expressions are embedded as they are.
func opStringConcatenation(a *Args) (Value, error) {
	var out ast.Expr

	for idx, part := range a.list(0) {
		var piece ast.Expr

		if s, ok := part.AsString(); ok {
			if s == "" {
				continue
			}

			piece = stringLit(s)
		} else if x, ok := asExpr(part); ok {
			piece = x
		} else {
			a.failf(&Error{
				Kind:   ErrArgumentType,
				Op:     a.op,
				Detail: fmt.Sprintf("argument 0: element %d: expected string or expression, got %s", idx, part.Describe()),
			})

			break
		}

		if out == nil {
			out = piece
		} else {
			out = &ast.BinaryExpr{X: out, Op: token.ADD, Y: piece}
		}
	}

	if out == nil {
		out = stringLit("")
	}

	return a.result(out)
}

func (a *Args) numberLit(f float64, kind token.Token) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, invalidNumber(strconv.FormatFloat(f, 'g', -1, 64))
	}

	abs := math.Abs(f)

	var text string

	switch kind {
	case token.INT:
		text = strconv.FormatFloat(abs, 'f', -1, 64)
	case token.IMAG:
		text = strconv.FormatFloat(abs, 'g', -1, 64) + "i"
	default:
		text = formatFloat(abs)
	}

	return a.result(negate(f < 0, &ast.BasicLit{Kind: kind, Value: text}))
}

func stringLit(s string) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}

// formatFloat renders f so that it always reads as a floating-point literal.
func formatFloat(f float64) string {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}

	return text
}

func negate(neg bool, lit *ast.BasicLit) ast.Expr {
	if !neg {
		return lit
	}

	return &ast.UnaryExpr{Op: token.SUB, X: lit}
}

func splitSign(text string) (bool, string) {
	if rest, ok := strings.CutPrefix(text, "-"); ok {
		return true, rest
	}

	return false, strings.TrimPrefix(text, "+")
}

func isIntText(text string) bool {
	_, ok := new(big.Int).SetString(text, 0)

	return ok
}

func isFloatText(text string) bool {
	if text == "" || strings.ContainsAny(text, "nN") {
		return false
	}

	f, err := strconv.ParseFloat(text, 64)

	return err == nil && !math.IsInf(f, 0)
}

func invalidNumber(text string) error {
	return &Error{Kind: ErrInvalidNumber, Detail: strconv.Quote(text)}
}
