package factory

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/astforge/pkg/levenshtein"
)

// maxSuggestDistance bounds how far a misspelled operation name may be
// from the suggested one.
const maxSuggestDistance = 3

// Sentinel errors. Every deserialization failure unwraps to one of these
// (or to wire.ErrUnknownNodeType).
var (
	ErrUnknownFactoryMethod = errors.New("unknown factory method")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrArity                = errors.New("wrong number of arguments")
	ErrArgumentType         = errors.New("invalid argument")
	ErrInvalidNumber        = errors.New("invalid number")
)

// Error is a deserialization failure. Kind is the sentinel it unwraps to.
type Error struct {
	Kind   error
	Op     string
	Detail string
	// Suggestion is a known operation close to an unknown Op.
	Suggestion string
}

// Error implements error. Unknown methods read "Unknown factory method:
// <name>" and type mismatches "Expected <what>, got: <kind>".
func (e *Error) Error() string {
	switch {
	case errors.Is(e.Kind, ErrUnknownFactoryMethod) && e.Suggestion != "":
		return fmt.Sprintf("Unknown factory method: %s (did you mean %s?)", e.Op, e.Suggestion)
	case errors.Is(e.Kind, ErrUnknownFactoryMethod):
		return "Unknown factory method: " + e.Op
	case errors.Is(e.Kind, ErrTypeMismatch) && e.Op == "":
		return e.Detail
	case e.Op != "" && e.Detail != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Detail)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

// Unwrap returns the sentinel.
func (e *Error) Unwrap() error {
	return e.Kind
}

func unknownMethod(name string) error {
	err := &Error{Kind: ErrUnknownFactoryMethod, Op: name}

	if suggestion, ok := levenshtein.Closest(name, opNames(), maxSuggestDistance); ok {
		err.Suggestion = suggestion
	}

	return err
}

func arityError(def *OpDef, got int) error {
	var want string

	switch {
	case def.MaxArgs < 0:
		want = fmt.Sprintf("at least %d", def.MinArgs)
	case def.MinArgs == def.MaxArgs:
		want = fmt.Sprintf("%d", def.MinArgs)
	default:
		want = fmt.Sprintf("%d to %d", def.MinArgs, def.MaxArgs)
	}

	return &Error{Kind: ErrArity, Op: def.Name, Detail: fmt.Sprintf("expected %s, got %d", want, got)}
}

func argError(op string, idx int, want string, got Value) error {
	return &Error{
		Kind:   ErrArgumentType,
		Op:     op,
		Detail: fmt.Sprintf("argument %d: expected %s, got %s", idx, want, got.Describe()),
	}
}

func mismatch(want string, got Value) error {
	return &Error{Kind: ErrTypeMismatch, Detail: fmt.Sprintf("Expected %s, got: %s", want, got.Describe())}
}
