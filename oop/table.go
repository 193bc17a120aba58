package oop

import (
	"sort"
	"sync/atomic"
)

// Bound is an implementation paired with the name it was declared under and
// the descriptor it is bound to. Super resolution starts from Owner's parent.
type Bound struct {
	Name  string
	Arity int // -1 for plain-field functions, which accept any count
	Fn    Func
	Owner *Class

	batch *batch
}

// batch identifies one Define or Extend call. Two entries with the same
// (name, arity) collide only when they come from the same batch.
type batch struct {
	seq uint64
}

var batchSeq atomic.Uint64

func newBatch() *batch {
	return &batch{seq: batchSeq.Add(1)}
}

// Table maps a declared argument count to one implementation for a single
// method name.
type Table struct {
	name    string
	byArity map[int]*Bound
}

func newTable(name string) *Table {
	return &Table{name: name, byArity: make(map[int]*Bound)}
}

// Name returns the method name this table dispatches.
func (t *Table) Name() string {
	return t.name
}

// Lookup returns the implementation declared with exactly arity arguments.
func (t *Table) Lookup(arity int) (*Bound, bool) {
	if t == nil {
		return nil, false
	}
	b, ok := t.byArity[arity]
	return b, ok
}

// Arities returns the declared argument counts in ascending order.
func (t *Table) Arities() []int {
	out := make([]int, 0, len(t.byArity))
	for n := range t.byArity {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of implementations in the table.
func (t *Table) Len() int {
	return len(t.byArity)
}

// Clone returns an independent copy. Bound entries are immutable and are
// shared; the arity map is not.
func (t *Table) Clone() *Table {
	c := &Table{name: t.name, byArity: make(map[int]*Bound, len(t.byArity))}
	for n, b := range t.byArity {
		c.byArity[n] = b
	}
	return c
}

// insert places b in its arity slot. A slot already filled from the same
// batch is a duplicate; anything else is overridden.
func (t *Table) insert(b *Bound) error {
	if prev, ok := t.byArity[b.Arity]; ok && prev.batch == b.batch {
		return &DuplicateMethodError{Class: b.Owner.Name(), Method: t.name, Arity: b.Arity}
	}
	t.byArity[b.Arity] = b
	return nil
}

// fill places b only if its arity slot is empty.
func (t *Table) fill(b *Bound) bool {
	if _, ok := t.byArity[b.Arity]; ok {
		return false
	}
	t.byArity[b.Arity] = b
	return true
}
