package lint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	golang "github.com/alexaandru/go-sitter-forest/go"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/astforge/pkg/textutil"
)

var errNoRootNode = errors.New("no root node")

var (
	goLanguage     *sitter.Language
	goLanguageOnce sync.Once
)

func language() *sitter.Language {
	goLanguageOnce.Do(func() {
		goLanguage = sitter.NewLanguage(golang.GetLanguage())
	})

	return goLanguage
}

// Node types read as a single token: their children are never visited
// when tokenizing.
var atomicTypes = map[string]bool{
	"comment":                    true,
	"interpreted_string_literal": true,
	"raw_string_literal":         true,
	"rune_literal":               true,
}

type token struct {
	kind   string
	parent string
	start  int
	end    int
}

// source is one parsed text: the tree, its atomic tokens in order and the
// line table used to turn offsets into positions.
type source struct {
	text   string
	root   sitter.Node
	starts []int
	tokens []token
}

func parse(ctx context.Context, parser *sitter.Parser, text string) (*source, *sitter.Tree, error) {
	tree, err := parser.ParseString(ctx, nil, []byte(text))
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		tree.Close()

		return nil, nil, errNoRootNode
	}

	src := &source{text: text, root: root, starts: textutil.LineStarts(text)}
	src.collectTokens(root, "")

	return src, tree, nil
}

func (s *source) collectTokens(n sitter.Node, parent string) {
	kind := n.Type()

	if n.ChildCount() == 0 || atomicTypes[kind] {
		start, end := span(n)
		if end > start {
			s.tokens = append(s.tokens, token{kind: kind, parent: parent, start: start, end: end})
		}

		return
	}

	for i := range n.ChildCount() {
		s.collectTokens(n.Child(i), kind)
	}
}

// walk visits n and its descendants depth first with the type of each
// node's parent. Returning false skips the children of the node.
func walk(n sitter.Node, parent string, visit func(n sitter.Node, parent string) bool) {
	if !visit(n, parent) {
		return
	}

	kind := n.Type()
	for i := range n.ChildCount() {
		walk(n.Child(i), kind, visit)
	}
}

func span(n sitter.Node) (start, end int) {
	return int(n.StartByte()), int(n.EndByte())
}

func (s *source) nodeText(n sitter.Node) string {
	start, end := span(n)

	return s.text[start:end]
}

func (s *source) position(offset int) (line, column int) {
	return textutil.Position(s.starts, offset)
}

// lineOf returns the 0-based line holding offset.
func (s *source) lineOf(offset int) int {
	line, _ := s.position(offset)

	return line - 1
}

func (s *source) line(idx int) string {
	end := len(s.text)
	if idx+1 < len(s.starts) {
		end = s.starts[idx+1] - 1
	}

	return strings.TrimSuffix(s.text[s.starts[idx]:end], "\r")
}

// syntaxErrors reports ERROR and MISSING nodes as fatal messages.
func (s *source) syntaxErrors() []Message {
	var out []Message

	walk(s.root, "", func(n sitter.Node, _ string) bool {
		switch {
		case n.IsMissing():
			start, _ := span(n)
			line, col := s.position(start)
			out = append(out, Message{
				Message: "Parsing error: missing " + n.Type(),
				Line:    line,
				Column:  col,
				Fatal:   true,
			})

			return false
		case n.Type() == "ERROR":
			start, _ := span(n)
			line, col := s.position(start)
			out = append(out, Message{
				Message: fmt.Sprintf("Parsing error: unexpected %q", snippet(s.nodeText(n))),
				Line:    line,
				Column:  col,
				Fatal:   true,
			})

			return false
		default:
			return true
		}
	})

	return out
}

const maxSnippet = 24

func snippet(text string) string {
	text, _, _ = strings.Cut(strings.TrimSpace(text), "\n")
	if len(text) > maxSnippet {
		return text[:maxSnippet] + "..."
	}

	return text
}
