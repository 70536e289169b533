package ast

// Class ids. The thousands digit selects the namespace; values are part of
// the on-disk format and must never be renumbered.
const (
	ClassUnitType ClassID = 1001 + iota
	ClassIntegralType
	ClassStringType
	ClassClassType
	ClassListType
)

const (
	ClassCompilationUnitDecl ClassID = 2001 + iota
	ClassVarDecl
	ClassFuncDecl
	ClassClassDecl
)

const (
	ClassIntegerLiteralExpr ClassID = 3001 + iota
	ClassStringLiteralExpr
	ClassDeclRefExpr
	ClassMemberExpr
	ClassCallExpr
	ClassUnaryExpr
	ClassBinaryExpr
	ClassIfExpr
	ClassForeachExpr
	ClassBlockExpr
)

const (
	ClassExprStmt ClassID = 4001 + iota
	ClassDeclStmt
	ClassReturnStmt
)

var classNames = map[ClassID]string{
	ClassUnitType:     "UnitType",
	ClassIntegralType: "IntegralType",
	ClassStringType:   "StringType",
	ClassClassType:    "ClassType",
	ClassListType:     "ListType",

	ClassCompilationUnitDecl: "CompilationUnitDecl",
	ClassVarDecl:             "VarDecl",
	ClassFuncDecl:            "FuncDecl",
	ClassClassDecl:           "ClassDecl",

	ClassIntegerLiteralExpr: "IntegerLiteralExpr",
	ClassStringLiteralExpr:  "StringLiteralExpr",
	ClassDeclRefExpr:        "DeclRefExpr",
	ClassMemberExpr:         "MemberExpr",
	ClassCallExpr:           "CallExpr",
	ClassUnaryExpr:          "UnaryExpr",
	ClassBinaryExpr:         "BinaryExpr",
	ClassIfExpr:             "IfExpr",
	ClassForeachExpr:        "ForeachExpr",
	ClassBlockExpr:          "BlockExpr",

	ClassExprStmt:   "ExprStmt",
	ClassDeclStmt:   "DeclStmt",
	ClassReturnStmt: "ReturnStmt",
}

// ClassName returns the kind identifier for a class id, "" if unknown.
// The name doubles as the per-kind artifact file name.
func ClassName(id ClassID) string {
	return classNames[id]
}

// IsDeclClass reports whether id names a declaration kind.
func IsDeclClass(id ClassID) bool {
	return id.Namespace() == NamespaceDecl
}
