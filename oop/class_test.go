package oop

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestNewClassShapeErrors(t *testing.T) {
	base := MustClass(Defs{})

	tests := []struct {
		name string
		args []any
		want error
	}{
		{"no arguments", nil, ErrDefinition},
		{"no definition list", []any{base}, ErrDefinition},
		{"definition list not last", []any{Defs{}, base}, ErrDefinition},
		{"parent not a descriptor", []any{"Object", Defs{}}, ErrInvalidReference},
		{"nil parent", []any{(*Class)(nil), Defs{}}, ErrInvalidReference},
		{"interface not a descriptor", []any{base, 42, Defs{}}, ErrInvalidReference},
		{"method without implementation", []any{Defs{{Name: "a"}}}, ErrDefinition},
		{"negative arity", []any{Defs{Method("a", -1, constFn(nil))}}, ErrDefinition},
		{"unknown directive", []any{Defs{{Name: "$bogus", Fn: constFn(nil)}}}, ErrDefinition},
		{"static directive without hook", []any{Defs{{Name: StaticDirective}}}, ErrDefinition},
	}

	for _, tc := range tests {
		_, err := NewClass(tc.args...)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: NewClass error = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestInvalidReferenceIndex(t *testing.T) {
	base := MustClass(Defs{})
	_, err := NewClass(base, "nope", Defs{})
	var ref *InvalidReferenceError
	if !errors.As(err, &ref) {
		t.Fatalf("error = %v, want InvalidReferenceError", err)
	}
	if ref.Index != 1 || ref.Value != "nope" {
		t.Errorf("InvalidReferenceError = %+v, want index 1 value nope", ref)
	}

	iface := MustInterface()
	var missing *Class
	tests := []struct {
		name  string
		build func() error
		want  int
	}{
		{"Define after parent", func() error { _, err := Define(base, []*Class{iface, missing}, Defs{}); return err }, 2},
		{"NewClass after parent", func() error { _, err := NewClass(base, iface, missing, Defs{}); return err }, 2},
		{"Define without parent", func() error { _, err := Define(nil, []*Class{missing}, Defs{}); return err }, 0},
		{"NewClass without parent", func() error { _, err := NewClass(missing, Defs{}); return err }, 0},
		{"DefineInterface", func() error { _, err := DefineInterface([]*Class{iface, missing}, nil); return err }, 1},
		{"NewInterface", func() error { _, err := NewInterface(iface, missing); return err }, 1},
	}
	for _, tc := range tests {
		var ref *InvalidReferenceError
		if err := tc.build(); !errors.As(err, &ref) {
			t.Errorf("%s: error = %v, want InvalidReferenceError", tc.name, err)
			continue
		}
		if ref.Index != tc.want {
			t.Errorf("%s: Index = %d, want %d", tc.name, ref.Index, tc.want)
		}
	}
}

func TestDefineRejectsInterfaceParent(t *testing.T) {
	i := MustInterface()
	if _, err := Define(i, nil, Defs{}); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Define with interface parent = %v, want ErrInvalidReference", err)
	}
}

func TestDuplicateMethodInBatch(t *testing.T) {
	_, err := NewClass(Defs{
		Method("a", 1, constFn(1)),
		Method("a", 0, constFn(0)),
		Method("a", 1, constFn(2)),
	})
	var dup *DuplicateMethodError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateMethodError", err)
	}
	if dup.Method != "a" || dup.Arity != 1 {
		t.Errorf("duplicate = %+v, want a(1)", dup)
	}
}

func TestOverrideIsNotDuplicate(t *testing.T) {
	p := MustClass(Defs{Method("a", 0, constFn("P"))})
	c, err := NewClass(p, Defs{Method("a", 0, constFn("C"))})
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}
	m, ok := c.Method("a", 0)
	if !ok || m.Owner != c {
		t.Errorf("Method(a, 0) owner = %v, want child", m.Owner)
	}
}

func TestPropertyConflict(t *testing.T) {
	fields := PlainFields(func(cls *Class) map[string]Value {
		return map[string]Value{"size": 10}
	})

	tests := []struct {
		name string
		defs Defs
	}{
		{"method after field", Defs{fields, Method("size", 0, constFn(nil))}},
		{"field after method", Defs{Method("size", 0, constFn(nil)), fields}},
	}
	for _, tc := range tests {
		_, err := NewClass(tc.defs)
		var pc *PropertyConflictError
		if !errors.As(err, &pc) {
			t.Errorf("%s: error = %v, want PropertyConflictError", tc.name, err)
			continue
		}
		if pc.Name != "size" {
			t.Errorf("%s: conflict name = %q, want size", tc.name, pc.Name)
		}
	}

	// A field inherited from the parent also conflicts.
	p := MustClass(Defs{fields})
	if _, err := NewClass(p, Defs{Method("size", 1, constFn(nil))}); !errors.Is(err, ErrPropertyConflict) {
		t.Errorf("method over inherited field = %v, want ErrPropertyConflict", err)
	}
}

func TestStaticMembers(t *testing.T) {
	var seen *Class
	calls := 0
	a := MustClass(Defs{
		StaticMembers(func(cls *Class) {
			calls++
			seen = cls
			cls.SetStatic("staticVar", 100)
			cls.SetStatic("twice", func(n int) int { return n * 2 })
		}),
	})

	if calls != 1 {
		t.Errorf("static hook ran %d times, want 1", calls)
	}
	if seen != a {
		t.Error("static hook receiver is not the new descriptor")
	}
	if v, ok := a.Static("staticVar"); !ok || v != 100 {
		t.Errorf("Static(staticVar) = %v, %v, want 100", v, ok)
	}
	fn, _ := a.Static("twice")
	if got := fn.(func(int) int)(21); got != 42 {
		t.Errorf("static function = %d, want 42", got)
	}
	if got := a.StaticNames(); !reflect.DeepEqual(got, []string{"staticVar", "twice"}) {
		t.Errorf("StaticNames() = %v", got)
	}

	b := MustClass(a, Defs{})
	if _, ok := b.Static("staticVar"); ok {
		t.Error("static members must belong to the declaring class only")
	}
}

func TestPlainFieldsAreNotDispatched(t *testing.T) {
	a := MustClass(Defs{
		PlainFields(func(cls *Class) map[string]Value {
			return map[string]Value{
				"kind": "widget",
				"describe": Func(func(c *Call, args ...Value) (Value, error) {
					return len(args), nil
				}),
			}
		}),
	})
	obj := a.MustNew()

	if v := obj.Get("kind"); v != "widget" {
		t.Errorf("Get(kind) = %v, want widget", v)
	}
	for n := 0; n < 3; n++ {
		args := make([]Value, n)
		got, err := obj.Call("describe", args...)
		if err != nil || got != n {
			t.Errorf("describe with %d args = %v, %v", n, got, err)
		}
	}
	if ar, ok := a.Resolve("describe"); !ok || !reflect.DeepEqual(ar, []int{-1}) {
		t.Errorf("Resolve(describe) = %v, %v, want [-1]", ar, ok)
	}
	if _, ok := a.Resolve("kind"); ok {
		t.Error("non-function field must not resolve as callable")
	}
	if _, err := obj.Call("kind"); !errors.Is(err, ErrMethodNotFound) {
		t.Errorf("Call(kind) = %v, want ErrMethodNotFound", err)
	}
}

func TestConstructorInheritedByReference(t *testing.T) {
	calls := 0
	p := MustClass(Defs{
		Constructor(1, func(c *Call, args ...Value) (Value, error) {
			calls++
			c.Set("value", args[0])
			return nil, nil
		}),
	})
	c := MustClass(p, Defs{Method("value", 0, func(c *Call, args ...Value) (Value, error) {
		return c.Get("value"), nil
	})})

	if c.tables[ConstructorName] != p.tables[ConstructorName] {
		t.Error("child without constructor should share the parent's constructor table")
	}

	obj, err := c.New(7)
	if err != nil {
		t.Fatalf("New(7): %v", err)
	}
	if v, _ := obj.Call("value"); v != 7 {
		t.Errorf("value() = %v, want 7", v)
	}
	if calls != 1 {
		t.Errorf("constructor ran %d times, want 1", calls)
	}

	// A child that declares its own constructor does not see the parent's arities.
	d := MustClass(p, Defs{Constructor(0, constFn(nil))})
	if _, err := d.New(1); !errors.Is(err, ErrMethodNotFound) {
		t.Errorf("New(1) on redefined constructor = %v, want ErrMethodNotFound", err)
	}
}

func TestInterfaceDefaultsClassWins(t *testing.T) {
	greeter := MustInterface(Defs{
		Method("greet", 0, constFn("default")),
		Method("greet", 1, constFn("default/1")),
		Method("bye", 0, constFn("bye")),
	})
	a := MustClass(greeter, Defs{Method("greet", 0, constFn("own"))})
	obj := a.MustNew()

	tests := []struct {
		method string
		args   []Value
		want   Value
	}{
		{"greet", nil, "own"},
		{"greet", []Value{1}, "default/1"},
		{"bye", nil, "bye"},
	}
	for _, tc := range tests {
		got, err := obj.Call(tc.method, tc.args...)
		if err != nil || got != tc.want {
			t.Errorf("%s/%d = %v, %v, want %v", tc.method, len(tc.args), got, err, tc.want)
		}
	}
	if _, ok := greeter.tables["greet"].Lookup(0); !ok {
		t.Error("interface table lost its default")
	}
}

func TestReflection(t *testing.T) {
	a := MustClass(Defs{
		Constructor(0, constFn(nil)),
		Method("b", 1, constFn(nil)),
		Method("a", 2, constFn(nil)),
		Method("a", 0, constFn(nil)),
	})

	var got []string
	for _, m := range a.Methods() {
		got = append(got, fmt.Sprintf("%s/%d", displayName(m.Name), m.Arity))
	}
	want := []string{"constructor/0", "a/0", "a/2", "b/1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Methods() = %v, want %v", got, want)
	}

	if ar, ok := a.Resolve("a"); !ok || !reflect.DeepEqual(ar, []int{0, 2}) {
		t.Errorf("Resolve(a) = %v, %v", ar, ok)
	}
	if _, ok := a.Resolve(ConstructorName); ok {
		t.Error("constructors must not resolve as callable members")
	}
	if _, ok := a.Resolve("missing"); ok {
		t.Error("Resolve(missing) reported callable")
	}
	if m, ok := a.Method("b", 1); !ok || m.Name != "b" || m.Owner != a {
		t.Errorf("Method(b, 1) = %+v, %v", m, ok)
	}
}

func TestNamesAndIdentity(t *testing.T) {
	a := MustClass(Defs{})
	b := MustClass(Defs{})
	if a.ID() == b.ID() {
		t.Error("descriptors must have distinct handles")
	}
	if a.Name() != "" {
		t.Errorf("unnamed Name() = %q", a.Name())
	}
	if a.String() != "<"+a.ID()+">" {
		t.Errorf("unnamed String() = %q", a.String())
	}
	a.SetName("ui.Button")
	if a.String() != "ui.Button" {
		t.Errorf("String() = %q, want ui.Button", a.String())
	}

	c := MustClass(a, Defs{})
	d := MustClass(c, Defs{})
	if got := d.Ancestors(); len(got) != 2 || got[0] != c || got[1] != a {
		t.Errorf("Ancestors() = %v", got)
	}
	if d.Parent() != c {
		t.Error("Parent() mismatch")
	}
}
