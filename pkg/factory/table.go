package factory

import (
	"cmp"
	"go/token"
	"slices"
	"sync"
)

// Op identifies one node-construction operation.
type Op uint16

// Category groups operations by the kind of construct they build.
type Category string

// Operation categories.
const (
	CategoryToken       Category = "token"
	CategoryIdentifier  Category = "identifier"
	CategoryLiteral     Category = "literal"
	CategoryExpression  Category = "expression"
	CategoryStatement   Category = "statement"
	CategoryClause      Category = "clause"
	CategoryDeclaration Category = "declaration"
	CategoryImport      Category = "import"
	CategoryType        Category = "type"
	CategoryMember      Category = "member"
	CategoryComment     Category = "comment"
	CategoryKeywordType Category = "keyword-type"
)

// Variadic marks an operation whose trailing arguments are unbounded.
const Variadic = -1

// Impl builds the result of one operation from its deserialized arguments.
type Impl func(a *Args) (Value, error)

// OpDef describes one entry of the operation table.
type OpDef struct {
	Impl     Impl     `json:"-" yaml:"-"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	MinArgs  int      `json:"min_args" yaml:"min_args"`
	MaxArgs  int      `json:"max_args" yaml:"max_args"` // Variadic for unlimited.
	Op       Op       `json:"-" yaml:"-"`
}

// Operation identifiers, one per table entry.
const (
	OpInvalid Op = iota

	OpCreateToken

	OpCreateIdentifier
	OpCreateBlankIdentifier
	OpCreateExportedIdentifier
	OpCreateQualifiedName
	OpCreateUniqueName

	OpCreateStringLiteral
	OpCreateRawStringLiteral
	OpCreateNumericLiteral
	OpCreateIntLiteral
	OpCreateFloatLiteral
	OpCreateImaginaryLiteral
	OpCreateCharLiteral
	OpCreateBasicLiteral
	OpCreateTrue
	OpCreateFalse
	OpCreateNil
	OpCreateIota
	OpCreateStringConcatenation

	OpCreateBinaryExpression
	OpCreateBinaryChain
	OpCreateUnaryExpression
	OpCreateAddressOf
	OpCreateDereference
	OpCreateReceive
	OpCreateParenthesizedExpression
	OpCreateCallExpression
	OpCreateMethodCall
	OpCreatePropertyAccessExpression
	OpCreateElementAccessExpression
	OpCreateInstantiation
	OpCreateSliceExpression
	OpCreateTypeAssertion
	OpCreateTypeSwitchGuard
	OpCreateCompositeLiteral
	OpCreateSliceLiteral
	OpCreateMapLiteral
	OpCreateStructLiteral
	OpCreateKeyValueExpression
	OpCreatePropertyAssignment
	OpCreateFunctionExpression
	OpCreateConversion
	OpCreateNew
	OpCreateMake
	OpCreateLen
	OpCreateAppend
	OpCreateEllipsis

	OpCreateExpressionStatement
	OpCreateAssignment
	OpCreateShortVarDeclaration
	OpCreateIncrement
	OpCreateDecrement
	OpCreateReturnStatement
	OpCreateIfStatement
	OpCreateForStatement
	OpCreateRangeStatement
	OpCreateSwitchStatement
	OpCreateTypeSwitchStatement
	OpCreateSelectStatement
	OpCreateBlock
	OpCreateGoStatement
	OpCreateDeferStatement
	OpCreateBreakStatement
	OpCreateContinueStatement
	OpCreateGotoStatement
	OpCreateFallthroughStatement
	OpCreateLabeledStatement
	OpCreateSendStatement
	OpCreateDeclarationStatement
	OpCreateEmptyStatement
	OpCreateVariableStatement
	OpCreateErrorCheck

	OpCreateCaseClause
	OpCreateDefaultClause
	OpCreateCommClause

	OpCreateVariableDeclaration
	OpCreateConstDeclaration
	OpCreateTypeDeclaration
	OpCreateValueSpec
	OpCreateTypeSpec
	OpCreateTypeAlias
	OpCreateFunctionDeclaration
	OpCreateMethodDeclaration
	OpCreateReceiver
	OpCreateSourceFile

	OpCreateImportDeclaration
	OpCreateImportSpecifier
	OpCreateDotImport
	OpCreateBlankImport

	OpCreateTypeReference
	OpCreateKeywordType
	OpCreatePointerType
	OpCreateArrayType
	OpCreateSliceType
	OpCreateMapType
	OpCreateChannelType
	OpCreateFunctionType
	OpCreateStructType
	OpCreateInterfaceType
	OpCreateTypeUnion
	OpCreateTildeType
	OpCreateTypeParameter

	OpCreateField
	OpCreateEmbeddedField
	OpCreateStructTag
	OpCreateMethodSignature
	OpCreateParameter
	OpCreateParameterList
	OpCreateResult

	OpCreateComment
	OpCreateCommentGroup
	OpAddSyntheticLeadingComment
	OpAddSyntheticTrailingComment

	OpCreateStringKeyword
	OpCreateIntKeyword
	OpCreateInt64Keyword
	OpCreateFloat64Keyword
	OpCreateBoolKeyword
	OpCreateByteKeyword
	OpCreateRuneKeyword
	OpCreateErrorKeyword
	OpCreateAnyKeyword
	OpCreateUintptrKeyword

	opCount
)

var (
	opTable     []OpDef
	opByName    map[string]*OpDef
	opTableOnce sync.Once
)

// initOpTable builds the operation table once; it is read-only afterwards.
func initOpTable() {
	opTableOnce.Do(func() {
		defs := []OpDef{
			{Op: OpCreateToken, Name: "createToken", Category: CategoryToken, MinArgs: 1, MaxArgs: 1, Impl: opToken},

			{Op: OpCreateIdentifier, Name: "createIdentifier", Category: CategoryIdentifier, MinArgs: 1, MaxArgs: 1, Impl: opIdentifier},
			{Op: OpCreateBlankIdentifier, Name: "createBlankIdentifier", Category: CategoryIdentifier, MinArgs: 0, MaxArgs: 0, Impl: identOp("_")},
			{Op: OpCreateExportedIdentifier, Name: "createExportedIdentifier", Category: CategoryIdentifier, MinArgs: 1, MaxArgs: 1, Impl: opExportedIdentifier},
			{Op: OpCreateQualifiedName, Name: "createQualifiedName", Category: CategoryIdentifier, MinArgs: 2, MaxArgs: 2, Impl: opQualifiedName},
			{Op: OpCreateUniqueName, Name: "createUniqueName", Category: CategoryIdentifier, MinArgs: 1, MaxArgs: 2, Impl: opUniqueName},

			{Op: OpCreateStringLiteral, Name: "createStringLiteral", Category: CategoryLiteral, MinArgs: 1, MaxArgs: 1, Impl: opStringLiteral},
			{Op: OpCreateRawStringLiteral, Name: "createRawStringLiteral", Category: CategoryLiteral, MinArgs: 1, MaxArgs: 1, Impl: opRawStringLiteral},
			{Op: OpCreateNumericLiteral, Name: "createNumericLiteral", Category: CategoryLiteral, MinArgs: 1, MaxArgs: 1, Impl: opNumericLiteral},
			{Op: OpCreateIntLiteral, Name: "createIntLiteral", Category: CategoryLiteral, MinArgs: 1, MaxArgs: 2, Impl: opIntLiteral},
			{Op: OpCreateFloatLiteral, Name: "createFloatLiteral", Category: CategoryLiteral, MinArgs: 1, MaxArgs: 1, Impl: opFloatLiteral},
			{Op: OpCreateImaginaryLiteral, Name: "createImaginaryLiteral", Category: CategoryLiteral, MinArgs: 1, MaxArgs: 1, Impl: opImaginaryLiteral},
			{Op: OpCreateCharLiteral, Name: "createCharLiteral", Category: CategoryLiteral, MinArgs: 1, MaxArgs: 1, Impl: opCharLiteral},
			{Op: OpCreateBasicLiteral, Name: "createBasicLiteral", Category: CategoryLiteral, MinArgs: 2, MaxArgs: 2, Impl: opBasicLiteral},
			{Op: OpCreateTrue, Name: "createTrue", Category: CategoryLiteral, MinArgs: 0, MaxArgs: 0, Impl: identOp("true")},
			{Op: OpCreateFalse, Name: "createFalse", Category: CategoryLiteral, MinArgs: 0, MaxArgs: 0, Impl: identOp("false")},
			{Op: OpCreateNil, Name: "createNil", Category: CategoryLiteral, MinArgs: 0, MaxArgs: 0, Impl: identOp("nil")},
			{Op: OpCreateIota, Name: "createIota", Category: CategoryLiteral, MinArgs: 0, MaxArgs: 0, Impl: identOp("iota")},
			{Op: OpCreateStringConcatenation, Name: "createStringConcatenation", Category: CategoryLiteral, MinArgs: 1, MaxArgs: 1, Impl: opStringConcatenation},

			{Op: OpCreateBinaryExpression, Name: "createBinaryExpression", Category: CategoryExpression, MinArgs: 3, MaxArgs: 3, Impl: opBinaryExpression},
			{Op: OpCreateBinaryChain, Name: "createBinaryChain", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opBinaryChain},
			{Op: OpCreateUnaryExpression, Name: "createUnaryExpression", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opUnaryExpression},
			{Op: OpCreateAddressOf, Name: "createAddressOf", Category: CategoryExpression, MinArgs: 1, MaxArgs: 1, Impl: opAddressOf},
			{Op: OpCreateDereference, Name: "createDereference", Category: CategoryExpression, MinArgs: 1, MaxArgs: 1, Impl: opDereference},
			{Op: OpCreateReceive, Name: "createReceive", Category: CategoryExpression, MinArgs: 1, MaxArgs: 1, Impl: opReceive},
			{Op: OpCreateParenthesizedExpression, Name: "createParenthesizedExpression", Category: CategoryExpression, MinArgs: 1, MaxArgs: 1, Impl: opParenthesized},
			{Op: OpCreateCallExpression, Name: "createCallExpression", Category: CategoryExpression, MinArgs: 1, MaxArgs: 3, Impl: opCallExpression},
			{Op: OpCreateMethodCall, Name: "createMethodCall", Category: CategoryExpression, MinArgs: 2, MaxArgs: 3, Impl: opMethodCall},
			{Op: OpCreatePropertyAccessExpression, Name: "createPropertyAccessExpression", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opPropertyAccess},
			{Op: OpCreateElementAccessExpression, Name: "createElementAccessExpression", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opElementAccess},
			{Op: OpCreateInstantiation, Name: "createInstantiation", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opInstantiation},
			{Op: OpCreateSliceExpression, Name: "createSliceExpression", Category: CategoryExpression, MinArgs: 1, MaxArgs: 4, Impl: opSliceExpression},
			{Op: OpCreateTypeAssertion, Name: "createTypeAssertion", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opTypeAssertion},
			{Op: OpCreateTypeSwitchGuard, Name: "createTypeSwitchGuard", Category: CategoryExpression, MinArgs: 1, MaxArgs: 1, Impl: opTypeSwitchGuard},
			{Op: OpCreateCompositeLiteral, Name: "createCompositeLiteral", Category: CategoryExpression, MinArgs: 0, MaxArgs: 2, Impl: opCompositeLiteral},
			{Op: OpCreateSliceLiteral, Name: "createSliceLiteral", Category: CategoryExpression, MinArgs: 1, MaxArgs: 2, Impl: opSliceLiteral},
			{Op: OpCreateMapLiteral, Name: "createMapLiteral", Category: CategoryExpression, MinArgs: 2, MaxArgs: 3, Impl: opMapLiteral},
			{Op: OpCreateStructLiteral, Name: "createStructLiteral", Category: CategoryExpression, MinArgs: 1, MaxArgs: 2, Impl: opStructLiteral},
			{Op: OpCreateKeyValueExpression, Name: "createKeyValueExpression", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opKeyValue},
			{Op: OpCreatePropertyAssignment, Name: "createPropertyAssignment", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opPropertyAssignment},
			{Op: OpCreateFunctionExpression, Name: "createFunctionExpression", Category: CategoryExpression, MinArgs: 3, MaxArgs: 3, Impl: opFunctionExpression},
			{Op: OpCreateConversion, Name: "createConversion", Category: CategoryExpression, MinArgs: 2, MaxArgs: 2, Impl: opConversion},
			{Op: OpCreateNew, Name: "createNew", Category: CategoryExpression, MinArgs: 1, MaxArgs: 1, Impl: builtinOp("new")},
			{Op: OpCreateMake, Name: "createMake", Category: CategoryExpression, MinArgs: 1, MaxArgs: 3, Impl: builtinOp("make")},
			{Op: OpCreateLen, Name: "createLen", Category: CategoryExpression, MinArgs: 1, MaxArgs: 1, Impl: builtinOp("len")},
			{Op: OpCreateAppend, Name: "createAppend", Category: CategoryExpression, MinArgs: 1, MaxArgs: Variadic, Impl: builtinOp("append")},
			{Op: OpCreateEllipsis, Name: "createEllipsis", Category: CategoryExpression, MinArgs: 0, MaxArgs: 1, Impl: opEllipsis},

			{Op: OpCreateExpressionStatement, Name: "createExpressionStatement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 1, Impl: opExpressionStatement},
			{Op: OpCreateAssignment, Name: "createAssignment", Category: CategoryStatement, MinArgs: 3, MaxArgs: 3, Impl: opAssignment},
			{Op: OpCreateShortVarDeclaration, Name: "createShortVarDeclaration", Category: CategoryStatement, MinArgs: 2, MaxArgs: 2, Impl: opShortVarDeclaration},
			{Op: OpCreateIncrement, Name: "createIncrement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 1, Impl: incDecOp(token.INC)},
			{Op: OpCreateDecrement, Name: "createDecrement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 1, Impl: incDecOp(token.DEC)},
			{Op: OpCreateReturnStatement, Name: "createReturnStatement", Category: CategoryStatement, MinArgs: 0, MaxArgs: 1, Impl: opReturn},
			{Op: OpCreateIfStatement, Name: "createIfStatement", Category: CategoryStatement, MinArgs: 3, MaxArgs: 4, Impl: opIf},
			{Op: OpCreateForStatement, Name: "createForStatement", Category: CategoryStatement, MinArgs: 4, MaxArgs: 4, Impl: opFor},
			{Op: OpCreateRangeStatement, Name: "createRangeStatement", Category: CategoryStatement, MinArgs: 4, MaxArgs: 5, Impl: opRange},
			{Op: OpCreateSwitchStatement, Name: "createSwitchStatement", Category: CategoryStatement, MinArgs: 3, MaxArgs: 3, Impl: opSwitch},
			{Op: OpCreateTypeSwitchStatement, Name: "createTypeSwitchStatement", Category: CategoryStatement, MinArgs: 4, MaxArgs: 4, Impl: opTypeSwitch},
			{Op: OpCreateSelectStatement, Name: "createSelectStatement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 1, Impl: opSelect},
			{Op: OpCreateBlock, Name: "createBlock", Category: CategoryStatement, MinArgs: 0, MaxArgs: 1, Impl: opBlock},
			{Op: OpCreateGoStatement, Name: "createGoStatement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 1, Impl: opGo},
			{Op: OpCreateDeferStatement, Name: "createDeferStatement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 1, Impl: opDefer},
			{Op: OpCreateBreakStatement, Name: "createBreakStatement", Category: CategoryStatement, MinArgs: 0, MaxArgs: 1, Impl: branchOp(token.BREAK)},
			{Op: OpCreateContinueStatement, Name: "createContinueStatement", Category: CategoryStatement, MinArgs: 0, MaxArgs: 1, Impl: branchOp(token.CONTINUE)},
			{Op: OpCreateGotoStatement, Name: "createGotoStatement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 1, Impl: branchOp(token.GOTO)},
			{Op: OpCreateFallthroughStatement, Name: "createFallthroughStatement", Category: CategoryStatement, MinArgs: 0, MaxArgs: 0, Impl: branchOp(token.FALLTHROUGH)},
			{Op: OpCreateLabeledStatement, Name: "createLabeledStatement", Category: CategoryStatement, MinArgs: 2, MaxArgs: 2, Impl: opLabeled},
			{Op: OpCreateSendStatement, Name: "createSendStatement", Category: CategoryStatement, MinArgs: 2, MaxArgs: 2, Impl: opSend},
			{Op: OpCreateDeclarationStatement, Name: "createDeclarationStatement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 1, Impl: opDeclarationStatement},
			{Op: OpCreateEmptyStatement, Name: "createEmptyStatement", Category: CategoryStatement, MinArgs: 0, MaxArgs: 0, Impl: opEmpty},
			{Op: OpCreateVariableStatement, Name: "createVariableStatement", Category: CategoryStatement, MinArgs: 1, MaxArgs: 3, Impl: opVariableStatement},
			{Op: OpCreateErrorCheck, Name: "createErrorCheck", Category: CategoryStatement, MinArgs: 1, MaxArgs: 2, Impl: opErrorCheck},

			{Op: OpCreateCaseClause, Name: "createCaseClause", Category: CategoryClause, MinArgs: 0, MaxArgs: 2, Impl: opCaseClause},
			{Op: OpCreateDefaultClause, Name: "createDefaultClause", Category: CategoryClause, MinArgs: 0, MaxArgs: 1, Impl: opDefaultClause},
			{Op: OpCreateCommClause, Name: "createCommClause", Category: CategoryClause, MinArgs: 0, MaxArgs: 2, Impl: opCommClause},

			{Op: OpCreateVariableDeclaration, Name: "createVariableDeclaration", Category: CategoryDeclaration, MinArgs: 1, MaxArgs: 1, Impl: genDeclOp(token.VAR)},
			{Op: OpCreateConstDeclaration, Name: "createConstDeclaration", Category: CategoryDeclaration, MinArgs: 1, MaxArgs: 1, Impl: genDeclOp(token.CONST)},
			{Op: OpCreateTypeDeclaration, Name: "createTypeDeclaration", Category: CategoryDeclaration, MinArgs: 1, MaxArgs: 1, Impl: genDeclOp(token.TYPE)},
			{Op: OpCreateValueSpec, Name: "createValueSpec", Category: CategoryDeclaration, MinArgs: 1, MaxArgs: 3, Impl: opValueSpec},
			{Op: OpCreateTypeSpec, Name: "createTypeSpec", Category: CategoryDeclaration, MinArgs: 3, MaxArgs: 3, Impl: typeSpecOp(false)},
			{Op: OpCreateTypeAlias, Name: "createTypeAlias", Category: CategoryDeclaration, MinArgs: 3, MaxArgs: 3, Impl: typeSpecOp(true)},
			{Op: OpCreateFunctionDeclaration, Name: "createFunctionDeclaration", Category: CategoryDeclaration, MinArgs: 1, MaxArgs: 5, Impl: opFunctionDeclaration},
			{Op: OpCreateMethodDeclaration, Name: "createMethodDeclaration", Category: CategoryDeclaration, MinArgs: 2, MaxArgs: 5, Impl: opMethodDeclaration},
			{Op: OpCreateReceiver, Name: "createReceiver", Category: CategoryDeclaration, MinArgs: 2, MaxArgs: 3, Impl: opReceiver},
			{Op: OpCreateSourceFile, Name: "createSourceFile", Category: CategoryDeclaration, MinArgs: 1, MaxArgs: 3, Impl: opSourceFile},

			{Op: OpCreateImportDeclaration, Name: "createImportDeclaration", Category: CategoryImport, MinArgs: 1, MaxArgs: 1, Impl: genDeclOp(token.IMPORT)},
			{Op: OpCreateImportSpecifier, Name: "createImportSpecifier", Category: CategoryImport, MinArgs: 1, MaxArgs: 2, Impl: opImportSpecifier},
			{Op: OpCreateDotImport, Name: "createDotImport", Category: CategoryImport, MinArgs: 1, MaxArgs: 1, Impl: namedImportOp(".")},
			{Op: OpCreateBlankImport, Name: "createBlankImport", Category: CategoryImport, MinArgs: 1, MaxArgs: 1, Impl: namedImportOp("_")},

			{Op: OpCreateTypeReference, Name: "createTypeReference", Category: CategoryType, MinArgs: 1, MaxArgs: 2, Impl: opTypeReference},
			{Op: OpCreateKeywordType, Name: "createKeywordType", Category: CategoryType, MinArgs: 1, MaxArgs: 1, Impl: opKeywordType},
			{Op: OpCreatePointerType, Name: "createPointerType", Category: CategoryType, MinArgs: 1, MaxArgs: 1, Impl: opDereference},
			{Op: OpCreateArrayType, Name: "createArrayType", Category: CategoryType, MinArgs: 2, MaxArgs: 2, Impl: opArrayType},
			{Op: OpCreateSliceType, Name: "createSliceType", Category: CategoryType, MinArgs: 1, MaxArgs: 1, Impl: opSliceType},
			{Op: OpCreateMapType, Name: "createMapType", Category: CategoryType, MinArgs: 2, MaxArgs: 2, Impl: opMapType},
			{Op: OpCreateChannelType, Name: "createChannelType", Category: CategoryType, MinArgs: 2, MaxArgs: 2, Impl: opChannelType},
			{Op: OpCreateFunctionType, Name: "createFunctionType", Category: CategoryType, MinArgs: 0, MaxArgs: 3, Impl: opFunctionType},
			{Op: OpCreateStructType, Name: "createStructType", Category: CategoryType, MinArgs: 0, MaxArgs: 1, Impl: opStructType},
			{Op: OpCreateInterfaceType, Name: "createInterfaceType", Category: CategoryType, MinArgs: 0, MaxArgs: 1, Impl: opInterfaceType},
			{Op: OpCreateTypeUnion, Name: "createTypeUnion", Category: CategoryType, MinArgs: 1, MaxArgs: 1, Impl: opTypeUnion},
			{Op: OpCreateTildeType, Name: "createTildeType", Category: CategoryType, MinArgs: 1, MaxArgs: 1, Impl: opTildeType},
			{Op: OpCreateTypeParameter, Name: "createTypeParameter", Category: CategoryType, MinArgs: 2, MaxArgs: 2, Impl: opTypeParameter},

			{Op: OpCreateField, Name: "createField", Category: CategoryMember, MinArgs: 2, MaxArgs: 3, Impl: opField},
			{Op: OpCreateEmbeddedField, Name: "createEmbeddedField", Category: CategoryMember, MinArgs: 1, MaxArgs: 2, Impl: opEmbeddedField},
			{Op: OpCreateStructTag, Name: "createStructTag", Category: CategoryMember, MinArgs: 1, MaxArgs: 1, Impl: opStructTag},
			{Op: OpCreateMethodSignature, Name: "createMethodSignature", Category: CategoryMember, MinArgs: 1, MaxArgs: 3, Impl: opMethodSignature},
			{Op: OpCreateParameter, Name: "createParameter", Category: CategoryMember, MinArgs: 2, MaxArgs: 3, Impl: opParameter},
			{Op: OpCreateParameterList, Name: "createParameterList", Category: CategoryMember, MinArgs: 0, MaxArgs: 1, Impl: opParameterList},
			{Op: OpCreateResult, Name: "createResult", Category: CategoryMember, MinArgs: 1, MaxArgs: 2, Impl: opResult},

			{Op: OpCreateComment, Name: "createComment", Category: CategoryComment, MinArgs: 1, MaxArgs: 1, Impl: opComment},
			{Op: OpCreateCommentGroup, Name: "createCommentGroup", Category: CategoryComment, MinArgs: 1, MaxArgs: 1, Impl: opCommentGroup},
			{Op: OpAddSyntheticLeadingComment, Name: "addSyntheticLeadingComment", Category: CategoryComment, MinArgs: 2, MaxArgs: 2, Impl: opLeadingComment},
			{Op: OpAddSyntheticTrailingComment, Name: "addSyntheticTrailingComment", Category: CategoryComment, MinArgs: 2, MaxArgs: 2, Impl: opTrailingComment},

			{Op: OpCreateStringKeyword, Name: "createStringKeyword", Category: CategoryKeywordType, Impl: identOp("string")},
			{Op: OpCreateIntKeyword, Name: "createIntKeyword", Category: CategoryKeywordType, Impl: identOp("int")},
			{Op: OpCreateInt64Keyword, Name: "createInt64Keyword", Category: CategoryKeywordType, Impl: identOp("int64")},
			{Op: OpCreateFloat64Keyword, Name: "createFloat64Keyword", Category: CategoryKeywordType, Impl: identOp("float64")},
			{Op: OpCreateBoolKeyword, Name: "createBoolKeyword", Category: CategoryKeywordType, Impl: identOp("bool")},
			{Op: OpCreateByteKeyword, Name: "createByteKeyword", Category: CategoryKeywordType, Impl: identOp("byte")},
			{Op: OpCreateRuneKeyword, Name: "createRuneKeyword", Category: CategoryKeywordType, Impl: identOp("rune")},
			{Op: OpCreateErrorKeyword, Name: "createErrorKeyword", Category: CategoryKeywordType, Impl: identOp("error")},
			{Op: OpCreateAnyKeyword, Name: "createAnyKeyword", Category: CategoryKeywordType, Impl: identOp("any")},
			{Op: OpCreateUintptrKeyword, Name: "createUintptrKeyword", Category: CategoryKeywordType, Impl: identOp("uintptr")},
		}

		opTable = make([]OpDef, opCount)
		opByName = make(map[string]*OpDef, len(defs))

		for _, def := range defs {
			opTable[def.Op] = def
			opByName[def.Name] = &opTable[def.Op]
		}
	})
}

// Lookup returns the table entry for an operation name.
func Lookup(name string) (*OpDef, bool) {
	initOpTable()

	def, ok := opByName[name]

	return def, ok
}

// opNames lists the operation names in table order.
func opNames() []string {
	initOpTable()

	names := make([]string, 0, len(opByName))

	for _, def := range opTable[1:] {
		if def.Name != "" {
			names = append(names, def.Name)
		}
	}

	return names
}

// Operations returns a copy of the table sorted by category, then name.
func Operations() []OpDef {
	initOpTable()

	out := make([]OpDef, 0, len(opByName))

	for _, def := range opTable[1:] {
		if def.Name != "" {
			out = append(out, def)
		}
	}

	slices.SortFunc(out, func(a, b OpDef) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Name, b.Name))
	})

	return out
}

// Def returns the table entry for op.
func (op Op) Def() (*OpDef, bool) {
	initOpTable()

	if op == OpInvalid || op >= opCount {
		return nil, false
	}

	return &opTable[op], true
}

// String returns the wire name of the operation.
func (op Op) String() string {
	if def, ok := op.Def(); ok {
		return def.Name
	}

	return "invalid"
}

// Accepts reports whether n arguments satisfy the arity of the entry.
func (d *OpDef) Accepts(n int) bool {
	if n < d.MinArgs {
		return false
	}

	return d.MaxArgs == Variadic || n <= d.MaxArgs
}
