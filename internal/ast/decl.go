package ast

// DeclBase holds the fields shared by every declaration kind.
type DeclBase struct {
	Name string
	// Users is derived data: the owners of every `use` reference pointing
	// at this declaration. Rebuilt on load, never persisted.
	Users UserSet `ir:"-"`
}

type CompilationUnitDecl struct {
	DeclBase `ir:"base"`
	Decls    []Ref `ir:"child"`
}

type VarDecl struct {
	DeclBase `ir:"base"`
	Type     Ref `ir:"child"`
	Init     Ref `ir:"child"`
}

// Param is one function parameter.
type Param struct {
	Name string
	Type Ref `ir:"child"`
}

type FuncDecl struct {
	DeclBase   `ir:"base"`
	Params     []Param
	ReturnType Ref `ir:"child"`
	Body       Ref `ir:"child"`
}

type ClassDecl struct {
	DeclBase `ir:"base"`
	Vars     []Ref `ir:"child"`
	Funcs    []Ref `ir:"child"`
}

func (*CompilationUnitDecl) Class() ClassID { return ClassCompilationUnitDecl }
func (*VarDecl) Class() ClassID             { return ClassVarDecl }
func (*FuncDecl) Class() ClassID            { return ClassFuncDecl }
func (*ClassDecl) Class() ClassID           { return ClassClassDecl }

func (d *CompilationUnitDecl) Base() *DeclBase { return &d.DeclBase }
func (d *VarDecl) Base() *DeclBase             { return &d.DeclBase }
func (d *FuncDecl) Base() *DeclBase            { return &d.DeclBase }
func (d *ClassDecl) Base() *DeclBase           { return &d.DeclBase }

func (*CompilationUnitDecl) isDecl() {}
func (*VarDecl) isDecl()             {}
func (*FuncDecl) isDecl()            {}
func (*ClassDecl) isDecl()           {}
