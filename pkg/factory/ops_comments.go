package factory

import (
	"go/ast"
	"strings"
)

// commentText normalizes free text into comment syntax. Text that already
// starts with // or /* is kept as is.
func commentText(text string) string {
	switch {
	case strings.HasPrefix(text, "//"), strings.HasPrefix(text, "/*"):
		return text
	case strings.Contains(text, "\n"):
		return "/*\n" + text + "\n*/"
	case text == "":
		return "//"
	default:
		return "// " + text
	}
}

// commentLines turns free text into one line comment per line. A block
// comment is kept whole.
func commentLines(text string) []*ast.Comment {
	if strings.HasPrefix(text, "/*") {
		return []*ast.Comment{{Text: text}}
	}

	lines := strings.Split(text, "\n")
	out := make([]*ast.Comment, len(lines))

	for i, line := range lines {
		out[i] = &ast.Comment{Text: commentText(line)}
	}

	return out
}

// wellFormed reports whether text is a single comment: a // comment on
// one line, or a /* */ comment closed exactly once at its end.
func wellFormed(text string) bool {
	switch {
	case strings.HasPrefix(text, "//"):
		return !strings.Contains(text, "\n")
	case strings.HasPrefix(text, "/*"):
		return len(text) >= len("/**/") && strings.Index(text[2:], "*/") == len(text)-4
	default:
		return false
	}
}

// comments converts free text at argument i, rejecting text that would
// close its block comment early.
func (a *Args) comments(i int, text string) []*ast.Comment {
	lines := commentLines(text)

	for _, c := range lines {
		if !wellFormed(c.Text) {
			a.fail(i, `comment text without an embedded "*/"`)

			return nil
		}
	}

	return lines
}

func opComment(a *Args) (Value, error) {
	text := commentText(a.str(0))
	if a.Err() == nil && !wellFormed(text) {
		a.fail(0, `comment text without an embedded "*/"`)
	}

	return a.result(&ast.Comment{Text: text})
}

func opCommentGroup(a *Args) (Value, error) {
	group := &ast.CommentGroup{}

	for _, elem := range a.list(0) {
		if s, ok := elem.AsString(); ok {
			group.List = append(group.List, a.comments(0, s)...)

			continue
		}

		n, _ := elem.AsNode()

		switch c := n.(type) {
		case *ast.Comment:
			group.List = append(group.List, c)
		case *ast.CommentGroup:
			group.List = append(group.List, c.List...)
		default:
			a.fail(0, "comment lines")
		}
	}

	if a.Err() == nil && len(group.List) == 0 {
		a.fail(0, "at least one comment line")
	}

	return a.result(group)
}

// commentArg accepts free text, a comment or a comment group.
func (a *Args) commentArg(i int) []*ast.Comment {
	v := a.At(i)
	if s, ok := v.AsString(); ok {
		return a.comments(i, s)
	}

	switch c := a.node(i).(type) {
	case *ast.Comment:
		return []*ast.Comment{c}
	case *ast.CommentGroup:
		return c.List
	default:
		a.fail(i, "comment text")

		return nil
	}
}

func appendComments(group **ast.CommentGroup, lines []*ast.Comment) {
	if *group == nil {
		*group = &ast.CommentGroup{}
	}

	(*group).List = append((*group).List, lines...)
}

// opLeadingComment attaches a doc comment. Go keeps comments only on
// declarations, specs and fields, so other nodes are rejected.
func opLeadingComment(a *Args) (Value, error) {
	node := a.node(0)
	lines := a.commentArg(1)

	if a.Err() != nil {
		return Value{}, a.Err()
	}

	switch n := node.(type) {
	case *ast.FuncDecl:
		appendComments(&n.Doc, lines)
	case *ast.GenDecl:
		appendComments(&n.Doc, lines)
	case *ast.DeclStmt:
		if gd, ok := n.Decl.(*ast.GenDecl); ok {
			appendComments(&gd.Doc, lines)
		}
	case *ast.Field:
		appendComments(&n.Doc, lines)
	case *ast.ValueSpec:
		appendComments(&n.Doc, lines)
	case *ast.TypeSpec:
		appendComments(&n.Doc, lines)
	case *ast.ImportSpec:
		appendComments(&n.Doc, lines)
	case *ast.File:
		appendComments(&n.Doc, lines)
	default:
		a.fail(0, "declaration, spec or field")
	}

	return a.result(node)
}

// opTrailingComment attaches a line comment after a spec or field. A
// single-spec declaration forwards it to its spec.
func opTrailingComment(a *Args) (Value, error) {
	node := a.node(0)
	lines := a.commentArg(1)

	if a.Err() != nil {
		return Value{}, a.Err()
	}

	target := node
	if gd, ok := node.(*ast.GenDecl); ok && len(gd.Specs) == 1 {
		target = gd.Specs[0]
	}

	switch n := target.(type) {
	case *ast.Field:
		appendComments(&n.Comment, lines)
	case *ast.ValueSpec:
		appendComments(&n.Comment, lines)
	case *ast.TypeSpec:
		appendComments(&n.Comment, lines)
	case *ast.ImportSpec:
		appendComments(&n.Comment, lines)
	default:
		a.fail(0, "spec or field")
	}

	return a.result(node)
}
