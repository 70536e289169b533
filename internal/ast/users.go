package ast

import (
	"cmp"
	"maps"
	"reflect"
	"slices"
)

// UserSet is the back-reference set of a declaration. The zero value is empty
// and ready to use.
type UserSet struct {
	m map[Ref]struct{}
}

// Add records owner; adding twice keeps one entry.
func (s *UserSet) Add(owner Ref) {
	if s.m == nil {
		s.m = make(map[Ref]struct{})
	}
	s.m[owner] = struct{}{}
}

// Remove forgets owner if present.
func (s *UserSet) Remove(owner Ref) {
	delete(s.m, owner)
}

func (s *UserSet) Has(owner Ref) bool {
	_, ok := s.m[owner]
	return ok
}

func (s *UserSet) Len() int { return len(s.m) }

func (s *UserSet) Clear() { clear(s.m) }

// Sorted returns the owners ordered by class, then handle.
func (s *UserSet) Sorted() []Ref {
	out := slices.Collect(maps.Keys(s.m))
	slices.SortFunc(out, func(a, b Ref) int {
		if c := cmp.Compare(a.Class, b.Class); c != 0 {
			return c
		}
		return cmp.Compare(a.Handle, b.Handle)
	})
	return out
}

var refType = reflect.TypeFor[Ref]()

// dropUses removes owner from the Users of every declaration that node
// points at through an ir:"use" slot.
func (s *Store) dropUses(owner Ref, node any) {
	v := reflect.ValueOf(node)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	eachUse(v.Elem(), func(target Ref) {
		if !target.IsValid() || !IsDeclClass(target.Class) {
			return
		}
		if d := s.Decl(target); d != nil {
			d.Base().Users.Remove(owner)
		}
	})
}

// eachUse walks a struct value the way the schema does: ir:"use" slots are
// reported, ir:"-" fields skipped, embedded bases and aggregates entered.
func eachUse(v reflect.Value, fn func(Ref)) {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		switch tag := f.Tag.Get("ir"); tag {
		case "use":
			eachRefIn(v.Field(i), fn)
		case "-", "child":
		default:
			nestedUses(v.Field(i), fn)
		}
	}
}

func nestedUses(v reflect.Value, fn func(Ref)) {
	switch v.Kind() {
	case reflect.Struct:
		if v.Type() != refType {
			eachUse(v, fn)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			nestedUses(v.Index(i), fn)
		}
	}
}

func eachRefIn(v reflect.Value, fn func(Ref)) {
	switch {
	case v.Type() == refType:
		fn(v.Interface().(Ref))
	case v.Kind() == reflect.Slice || v.Kind() == reflect.Array:
		for i := 0; i < v.Len(); i++ {
			eachRefIn(v.Index(i), fn)
		}
	case v.Kind() == reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			eachRefIn(v.Field(i), fn)
		}
	}
}
