package factory

import (
	"go/ast"
	"go/token"
	"strconv"
)

func genDeclOp(tok token.Token) Impl {
	accept := func(spec ast.Spec) bool {
		switch spec.(type) {
		case *ast.ValueSpec:
			return tok == token.VAR || tok == token.CONST
		case *ast.TypeSpec:
			return tok == token.TYPE
		case *ast.ImportSpec:
			return tok == token.IMPORT
		default:
			return false
		}
	}

	return func(a *Args) (Value, error) {
		specs := a.specs(0, tok.String()+" spec list", accept)
		if a.Err() == nil && len(specs) == 0 {
			a.fail(0, "at least one spec")
		}

		return a.result(&ast.GenDecl{Tok: tok, Specs: specs})
	}
}

func opValueSpec(a *Args) (Value, error) {
	return a.result(&ast.ValueSpec{
		Names:  a.identList(0),
		Type:   a.optExpr(1),
		Values: a.optExprList(2),
	})
}

func typeSpecOp(alias bool) Impl {
	return func(a *Args) (Value, error) {
		spec := &ast.TypeSpec{
			Name:       a.ident(0),
			TypeParams: a.optFields(1),
			Type:       a.expr(2),
		}

		if alias {
			spec.Assign = marker
		}

		return a.result(spec)
	}
}

func opFunctionDeclaration(a *Args) (Value, error) {
	return a.result(&ast.FuncDecl{
		Name: a.ident(0),
		Type: &ast.FuncType{
			TypeParams: a.optFields(1),
			Params:     a.fields(2),
			Results:    a.optFields(3),
		},
		Body: a.optBlock(4),
	})
}

func opMethodDeclaration(a *Args) (Value, error) {
	recv := a.fields(0)
	if a.Err() == nil && len(recv.List) != 1 {
		a.fail(0, "exactly one receiver")
	}

	return a.result(&ast.FuncDecl{
		Recv: recv,
		Name: a.ident(1),
		Type: &ast.FuncType{
			Params:  a.fields(2),
			Results: a.optFields(3),
		},
		Body: a.optBlock(4),
	})
}

func opReceiver(a *Args) (Value, error) {
	field := &ast.Field{Type: a.expr(1)}

	if name := a.optIdent(0); name != nil {
		field.Names = []*ast.Ident{name}
	}

	if a.optBool(2, false) {
		field.Type = &ast.StarExpr{X: field.Type}
	}

	return a.result(field)
}

// opSourceFile builds a complete file: package clause, one import
// declaration holding every import spec, then the declarations in order.
func opSourceFile(a *Args) (Value, error) {
	file := &ast.File{Name: a.ident(0)}

	imports := collect(a, 2, "import spec list", true, func(v Value) (*ast.ImportSpec, bool) {
		n, ok := v.AsNode()
		if !ok {
			return nil, false
		}

		spec, ok := n.(*ast.ImportSpec)

		return spec, ok
	})

	if len(imports) > 0 {
		specs := make([]ast.Spec, len(imports))
		for i, spec := range imports {
			specs[i] = spec
		}

		file.Decls = append(file.Decls, &ast.GenDecl{Tok: token.IMPORT, Specs: specs})
		file.Imports = imports
	}

	file.Decls = append(file.Decls, collect(a, 1, "declaration list", true, asDecl)...)

	return a.result(file)
}

// asDecl accepts declarations and unwraps declaration statements.
func asDecl(v Value) (ast.Decl, bool) {
	n, ok := v.AsNode()
	if !ok {
		return nil, false
	}

	switch d := n.(type) {
	case ast.Decl:
		return d, true
	case *ast.DeclStmt:
		return d.Decl, true
	default:
		return nil, false
	}
}

func opImportSpecifier(a *Args) (Value, error) {
	return a.result(&ast.ImportSpec{
		Name: a.optIdent(1),
		Path: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(a.str(0))},
	})
}

func namedImportOp(name string) Impl {
	return func(a *Args) (Value, error) {
		return a.result(&ast.ImportSpec{
			Name: ast.NewIdent(name),
			Path: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(a.str(0))},
		})
	}
}
