package printer

import "go/ast"

// docField returns the doc comment slot of nodes that carry one.
func docField(node ast.Node) **ast.CommentGroup {
	switch n := node.(type) {
	case *ast.FuncDecl:
		return &n.Doc
	case *ast.GenDecl:
		return &n.Doc
	case *ast.ValueSpec:
		return &n.Doc
	case *ast.TypeSpec:
		return &n.Doc
	case *ast.ImportSpec:
		return &n.Doc
	case *ast.File:
		return &n.Doc
	default:
		return nil
	}
}

// commentFields returns every comment slot of node.
func commentFields(node ast.Node) []**ast.CommentGroup {
	switch n := node.(type) {
	case *ast.Field:
		return []**ast.CommentGroup{&n.Doc, &n.Comment}
	case *ast.ValueSpec:
		return []**ast.CommentGroup{&n.Doc, &n.Comment}
	case *ast.TypeSpec:
		return []**ast.CommentGroup{&n.Doc, &n.Comment}
	case *ast.ImportSpec:
		return []**ast.CommentGroup{&n.Doc, &n.Comment}
	case *ast.FuncDecl:
		return []**ast.CommentGroup{&n.Doc}
	case *ast.GenDecl:
		return []**ast.CommentGroup{&n.Doc}
	case *ast.File:
		return []**ast.CommentGroup{&n.Doc}
	default:
		return nil
	}
}

// detachComments clears every comment under node and returns a function
// that puts them back.
func detachComments(node ast.Node) func() {
	type slot struct {
		ptr   **ast.CommentGroup
		group *ast.CommentGroup
	}

	var saved []slot

	ast.Inspect(node, func(n ast.Node) bool {
		for _, ptr := range commentFields(n) {
			if *ptr != nil {
				saved = append(saved, slot{ptr: ptr, group: *ptr})
				*ptr = nil
			}
		}

		return true
	})

	return func() {
		for _, s := range saved {
			*s.ptr = s.group
		}
	}
}
