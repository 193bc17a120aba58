package oop

import (
	"errors"
	"reflect"
	"testing"
)

func constFn(v Value) Func {
	return func(c *Call, args ...Value) (Value, error) { return v, nil }
}

func TestTableLookup(t *testing.T) {
	b := newBatch()
	owner := &Class{name: "A"}
	tbl := newTable("a")
	if err := tbl.insert(&Bound{Name: "a", Arity: 0, Fn: constFn(0), Owner: owner, batch: b}); err != nil {
		t.Fatalf("insert arity 0: %v", err)
	}
	if err := tbl.insert(&Bound{Name: "a", Arity: 2, Fn: constFn(2), Owner: owner, batch: b}); err != nil {
		t.Fatalf("insert arity 2: %v", err)
	}

	if got := tbl.Arities(); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("Arities() = %v, want [0 2]", got)
	}
	if _, ok := tbl.Lookup(1); ok {
		t.Error("Lookup(1) found an implementation, want none")
	}
	if m, ok := tbl.Lookup(2); !ok || m.Arity != 2 {
		t.Errorf("Lookup(2) = %v, %v", m, ok)
	}

	var missing *Table
	if _, ok := missing.Lookup(0); ok {
		t.Error("nil table Lookup should report not found")
	}
}

func TestTableDuplicateWithinBatch(t *testing.T) {
	owner := &Class{name: "A"}
	b := newBatch()
	tbl := newTable("a")
	tbl.insert(&Bound{Name: "a", Arity: 1, Fn: constFn(1), Owner: owner, batch: b})

	err := tbl.insert(&Bound{Name: "a", Arity: 1, Fn: constFn(2), Owner: owner, batch: b})
	var dup *DuplicateMethodError
	if !errors.As(err, &dup) {
		t.Fatalf("insert duplicate = %v, want DuplicateMethodError", err)
	}
	if dup.Class != "A" || dup.Method != "a" || dup.Arity != 1 {
		t.Errorf("duplicate error = %+v", dup)
	}

	// A later batch overrides the slot.
	if err := tbl.insert(&Bound{Name: "a", Arity: 1, Fn: constFn(3), Owner: owner, batch: newBatch()}); err != nil {
		t.Fatalf("override from new batch: %v", err)
	}
	m, _ := tbl.Lookup(1)
	if v, _ := m.Fn(nil); v != 3 {
		t.Errorf("overridden slot returned %v, want 3", v)
	}
}

func TestTableCloneIsIndependent(t *testing.T) {
	owner := &Class{name: "A"}
	tbl := newTable("a")
	tbl.insert(&Bound{Name: "a", Arity: 0, Fn: constFn("orig"), Owner: owner, batch: newBatch()})

	clone := tbl.Clone()
	clone.insert(&Bound{Name: "a", Arity: 0, Fn: constFn("clone"), Owner: owner, batch: newBatch()})
	clone.insert(&Bound{Name: "a", Arity: 1, Fn: constFn("extra"), Owner: owner, batch: newBatch()})

	m, _ := tbl.Lookup(0)
	if v, _ := m.Fn(nil); v != "orig" {
		t.Errorf("original slot 0 = %v, want orig", v)
	}
	if tbl.Len() != 1 {
		t.Errorf("original Len() = %d, want 1", tbl.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone Len() = %d, want 2", clone.Len())
	}
	if clone.Name() != "a" {
		t.Errorf("clone Name() = %q, want a", clone.Name())
	}
}

func TestTableFillKeepsExisting(t *testing.T) {
	owner := &Class{name: "A"}
	tbl := newTable("a")
	first := &Bound{Name: "a", Arity: 0, Fn: constFn(1), Owner: owner, batch: newBatch()}
	tbl.insert(first)

	if tbl.fill(&Bound{Name: "a", Arity: 0, Fn: constFn(2), Owner: owner, batch: newBatch()}) {
		t.Error("fill replaced an occupied slot")
	}
	if m, _ := tbl.Lookup(0); m != first {
		t.Error("occupied slot changed")
	}
	if !tbl.fill(&Bound{Name: "a", Arity: 3, Fn: constFn(3), Owner: owner, batch: newBatch()}) {
		t.Error("fill did not place an empty slot")
	}
}
