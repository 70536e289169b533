package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"irstore/internal/ast"
)

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	reg := Default()
	require.Equal(t, len(ASTKinds()), reg.Len())

	prev := ast.NoClassID
	for _, d := range reg.Ordered() {
		require.Greater(t, d.Class, prev, "Ordered must ascend by class id")
		prev = d.Class
		require.Equal(t, ast.ClassName(d.Class), d.Name)
	}

	d, err := reg.Lookup(ast.ClassFuncDecl)
	require.NoError(t, err)
	require.True(t, d.IsDecl())
	require.NotNil(t, d.Parent)
	require.Equal(t, []string{
		"Name:text",
		"Params:[]{Name:text,Type:ref/child}",
		"ReturnType:ref/child",
		"Body:ref/child",
	}, d.Signature())

	_, err = reg.Lookup(4242)
	require.ErrorIs(t, err, ErrUnknownClass)
}

func TestOfAndByName(t *testing.T) {
	reg := Default()
	d, ok := reg.Of(&ast.BinaryExpr{})
	require.True(t, ok)
	require.Equal(t, ast.ClassBinaryExpr, d.Class)

	_, ok = reg.Of(ast.BinaryExpr{})
	require.False(t, ok, "values are not nodes")

	d, ok = reg.ByName("IntegralType")
	require.True(t, ok)
	require.Equal(t, []string{"SignWidth:u32"}, d.Signature())
}

func TestClassTypeRefersToItsDecl(t *testing.T) {
	reg := Default()
	d, err := reg.Lookup(ast.ClassClassType)
	require.NoError(t, err)
	require.Equal(t, []string{"Decl:ref/use", "Name:text"}, d.Signature())

	target := ast.Ref{Class: ast.ClassClassDecl, Handle: 7}
	node := &ast.ClassType{Decl: target, Name: "Shape"}
	var roles []Role
	d.EachRef(node, func(role Role, slot *ast.Ref) {
		roles = append(roles, role)
		require.Equal(t, target, *slot)
	})
	require.Equal(t, []Role{RoleUse}, roles)
}

func TestTransientFieldsAreSkipped(t *testing.T) {
	d, err := Default().Lookup(ast.ClassVarDecl)
	require.NoError(t, err)
	require.Equal(t, "DeclBase", d.Parent.Name)
	var users *Field
	for i := range d.Parent.Fields {
		if d.Parent.Fields[i].Name == "Users" {
			users = &d.Parent.Fields[i]
		}
	}
	require.NotNil(t, users)
	require.Equal(t, TagTransient, users.Tag)
	require.Equal(t, []string{"Name:text", "Type:ref/child", "Init:ref/child"}, d.Signature())
}

func TestEachRefVisitsParentFirstInOrder(t *testing.T) {
	d, err := Default().Lookup(ast.ClassMemberExpr)
	require.NoError(t, err)
	node := &ast.MemberExpr{
		Prefix: ast.Ref{Class: ast.ClassDeclRefExpr, Handle: 1},
		Target: ast.Ref{Class: ast.ClassVarDecl, Handle: 2},
	}
	var roles []Role
	d.EachRef(node, func(role Role, slot *ast.Ref) {
		roles = append(roles, role)
		*slot = ast.NoRef
	})
	require.Equal(t, []Role{RoleChild, RoleUse}, roles)
	require.Equal(t, ast.NoRef, node.Prefix, "slots are writable")
}

func TestBuildRejectsUnsupportedFields(t *testing.T) {
	type withMap struct{ M map[string]int }
	type withPtr struct{ P *int }
	type withIface struct{ I any }
	type withChan struct{ C chan int }
	type withHidden struct{ hidden int }
	type untaggedRef struct{ R ast.Ref }
	type badTag struct {
		R ast.Ref `ir:"weak"`
	}
	type tagOnValue struct {
		N int `ir:"child"`
	}
	type lateBase struct {
		X        int
		DeclBase ast.DeclBase `ir:"base"`
	}

	for name, typ := range map[string]reflect.Type{
		"map":          reflect.TypeFor[withMap](),
		"pointer":      reflect.TypeFor[withPtr](),
		"interface":    reflect.TypeFor[withIface](),
		"chan":         reflect.TypeFor[withChan](),
		"unexported":   reflect.TypeFor[withHidden](),
		"untagged ref": reflect.TypeFor[untaggedRef](),
		"unknown tag":  reflect.TypeFor[badTag](),
		"tag on value": reflect.TypeFor[tagOnValue](),
		"late base":    reflect.TypeFor[lateBase](),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Build(Kind{Class: 9001, Name: "Bad", Type: typ})
			require.ErrorIs(t, err, ErrUnsupportedField)
		})
	}
}

func TestBuildAcceptsValueShapes(t *testing.T) {
	type inner struct {
		Flag  bool
		Ratio float32
	}
	type rich struct {
		Small  int8
		Wide   int
		Scale  float64
		Pair   [2]uint16
		Inner  inner
		Tags   []string
		Refs   [2]ast.Ref `ir:"use"`
		Cached int        `ir:"-"`
		memo   string     `ir:"-"`
	}
	_ = rich{}.memo

	reg, err := Build(Kind{Class: 9002, Name: "Rich", Type: reflect.TypeFor[rich]()})
	require.NoError(t, err)
	d, err := reg.Lookup(9002)
	require.NoError(t, err)
	require.Equal(t, []string{
		"Small:i8",
		"Wide:i64",
		"Scale:f64",
		"Pair:[2]u16",
		"Inner:{Flag:bool,Ratio:f32}",
		"Tags:[]text",
		"Refs:[2]ref/use",
	}, d.Signature())
	require.Equal(t, 1+8+8+4+5+8+16, d.MinRecordSize())
}

func TestBuildRejectsDuplicates(t *testing.T) {
	_, err := Build(
		KindOf[ast.UnitType](ast.ClassUnitType),
		Kind{Class: ast.ClassUnitType, Name: "Other", Type: reflect.TypeFor[ast.StringType]()},
	)
	require.ErrorIs(t, err, ErrDuplicateClass)

	_, err = Build(
		Kind{Class: 9003, Name: "Same", Type: reflect.TypeFor[ast.UnitType]()},
		Kind{Class: 9004, Name: "Same", Type: reflect.TypeFor[ast.StringType]()},
	)
	require.ErrorIs(t, err, ErrDuplicateClass)
}
