package oop

import (
	"sort"

	"github.com/google/uuid"
)

// Class describes one declared class or interface.
//
// A descriptor is fixed once Define returns. The only exception is the
// private descriptor synthesized by Instance.Extend, which is owned by a
// single instance and grows with each extension of that instance.
type Class struct {
	id        uuid.UUID
	name      string
	parent    *Class
	iface     bool
	anonymous bool
	private   bool

	tables  map[string]*Table // includes the constructor under ConstructorName
	fields  map[string]field
	statics map[string]Value

	// caps is the transitive capability set: the descriptor itself, every
	// ancestor, and every interface reachable from any of them.
	caps map[*Class]struct{}
}

type field struct {
	value Value
	owner *Class
}

// Define builds a class descriptor from an optional parent, zero or more
// capability descriptors, and a definition list.
func Define(parent *Class, ifaces []*Class, defs Defs) (*Class, error) {
	if parent != nil && parent.iface {
		return nil, &InvalidReferenceError{Index: 0, Value: parent}
	}
	return define(parent, ifaces, defs, false)
}

// DefineInterface builds an interface descriptor. Definitions are optional
// default methods composed into implementing classes.
func DefineInterface(ifaces []*Class, defs Defs) (*Class, error) {
	return define(nil, ifaces, defs, true)
}

// NewClass builds a class from the loose argument shape
// [parent] [interfaces...] Defs. A leading class descriptor is the parent;
// every other descriptor is a capability.
func NewClass(args ...any) (*Class, error) {
	if len(args) == 0 {
		return nil, &DefinitionError{Reason: "no class definition was found"}
	}
	defs, ok := args[len(args)-1].(Defs)
	if !ok {
		return nil, &DefinitionError{Reason: "invalid class definition was found"}
	}
	refs, err := descriptors(args[:len(args)-1])
	if err != nil {
		return nil, err
	}

	var parent *Class
	if len(refs) > 0 && !refs[0].iface {
		parent, refs = refs[0], refs[1:]
	}
	return define(parent, refs, defs, false)
}

// NewInterface builds an interface from [interfaces...] [Defs].
func NewInterface(args ...any) (*Class, error) {
	var defs Defs
	if n := len(args); n > 0 {
		if d, ok := args[n-1].(Defs); ok {
			defs, args = d, args[:n-1]
		}
	}
	refs, err := descriptors(args)
	if err != nil {
		return nil, err
	}
	return define(nil, refs, defs, true)
}

// MustClass is like NewClass but panics on error.
func MustClass(args ...any) *Class {
	c, err := NewClass(args...)
	if err != nil {
		panic("oop: " + err.Error())
	}
	return c
}

// MustInterface is like NewInterface but panics on error.
func MustInterface(args ...any) *Class {
	c, err := NewInterface(args...)
	if err != nil {
		panic("oop: " + err.Error())
	}
	return c
}

func descriptors(args []any) ([]*Class, error) {
	out := make([]*Class, 0, len(args))
	for i, a := range args {
		c, ok := a.(*Class)
		if !ok || c == nil {
			return nil, &InvalidReferenceError{Index: i, Value: a}
		}
		out = append(out, c)
	}
	return out, nil
}

func newDescriptor(parent *Class, iface bool) *Class {
	c := &Class{
		id:      uuid.New(),
		parent:  parent,
		iface:   iface,
		tables:  make(map[string]*Table),
		fields:  make(map[string]field),
		statics: make(map[string]Value),
		caps:    make(map[*Class]struct{}),
	}
	c.caps[c] = struct{}{}

	if parent == nil {
		return c
	}
	// Constructors are not cloned; they are inherited by reference below,
	// and only when the child declares none.
	for name, t := range parent.tables {
		if name != ConstructorName {
			c.tables[name] = t.Clone()
		}
	}
	for name, f := range parent.fields {
		c.fields[name] = f
	}
	for k := range parent.caps {
		c.caps[k] = struct{}{}
	}
	return c
}

// define builds a descriptor. opts run on the fresh descriptor before any
// definition is applied.
func define(parent *Class, ifaces []*Class, defs Defs, iface bool, opts ...func(*Class)) (*Class, error) {
	off := 0
	if parent != nil {
		off = 1
	}
	for i, ic := range ifaces {
		if ic == nil {
			return nil, &InvalidReferenceError{Index: off + i, Value: ic}
		}
	}
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return nil, err
		}
	}

	c := newDescriptor(parent, iface)
	for _, opt := range opts {
		opt(c)
	}
	for _, ic := range ifaces {
		c.addCapabilities(ic)
	}

	b := newBatch()
	for _, d := range defs {
		if err := c.apply(d, b); err != nil {
			return nil, err
		}
	}
	for _, ic := range ifaces {
		if err := c.composeDefaults(ic); err != nil {
			return nil, err
		}
	}

	if parent != nil {
		if _, ok := c.tables[ConstructorName]; !ok {
			if pt, ok := parent.tables[ConstructorName]; ok {
				c.tables[ConstructorName] = pt
			}
		}
	}

	log.Debugf("defined %s: parent=%s capabilities=%d methods=%d", c.kind(), parent, len(c.caps), len(c.tables))
	return c, nil
}

// apply merges one validated definition into c.
func (c *Class) apply(d Def, b *batch) error {
	switch d.Name {
	case StaticDirective:
		d.Static(c)
		return nil
	case FieldsDirective:
		for name, v := range d.Fields(c) {
			if _, ok := c.tables[name]; ok || name == ConstructorName {
				return &PropertyConflictError{Class: c.name, Name: name}
			}
			c.fields[name] = field{value: v, owner: c}
		}
		return nil
	}

	if _, ok := c.fields[d.Name]; ok {
		return &PropertyConflictError{Class: c.name, Name: d.Name}
	}
	t, ok := c.tables[d.Name]
	if !ok {
		t = newTable(d.Name)
		c.tables[d.Name] = t
	}
	return t.insert(&Bound{Name: d.Name, Arity: d.Arity, Fn: d.Fn, Owner: c, batch: b})
}

// addCapabilities folds ic's transitive capability set into c.
func (c *Class) addCapabilities(ic *Class) {
	for k := range ic.caps {
		c.caps[k] = struct{}{}
	}
}

// composeDefaults copies an interface's default methods into every
// (name, arity) slot c does not already fill. Class capabilities contribute
// no members.
func (c *Class) composeDefaults(ic *Class) error {
	if !ic.iface {
		return nil
	}
	for name, t := range ic.tables {
		if name == ConstructorName {
			continue
		}
		if _, ok := c.fields[name]; ok {
			return &PropertyConflictError{Class: c.name, Name: name}
		}
		own, ok := c.tables[name]
		if !ok {
			c.tables[name] = t.Clone()
			continue
		}
		for _, b := range t.byArity {
			own.fill(b)
		}
	}
	return nil
}

func (c *Class) kind() string {
	switch {
	case c.iface:
		return "interface " + c.String()
	case c.private:
		return "extension of " + c.String()
	case c.anonymous:
		return "anonymous " + c.String()
	}
	return "class " + c.String()
}

// ID returns the opaque handle of the descriptor.
func (c *Class) ID() string {
	return c.id.String()
}

// Name returns the display name, or "" when none has been assigned.
func (c *Class) Name() string {
	return c.name
}

// SetName sets the display name. Naming is the registry's concern; the core
// only carries the tag.
func (c *Class) SetName(name string) {
	c.name = name
}

// String implements the Stringer interface.
func (c *Class) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.name == "" {
		return "<" + c.id.String() + ">"
	}
	return c.name
}

// Parent returns the parent descriptor, or nil.
func (c *Class) Parent() *Class {
	return c.parent
}

// Ancestors returns all ancestors from the immediate parent to the root.
func (c *Class) Ancestors() []*Class {
	var out []*Class
	for s := c.parent; s != nil; s = s.parent {
		out = append(out, s)
	}
	return out
}

// IsInterface reports whether c is an interface descriptor.
func (c *Class) IsInterface() bool {
	return c.iface
}

// IsAnonymous reports whether c was synthesized for an inline-override
// instance.
func (c *Class) IsAnonymous() bool {
	return c.anonymous
}

// IsPrivate reports whether c is the private descriptor of an extended
// instance.
func (c *Class) IsPrivate() bool {
	return c.private
}

// Static returns a class-level member installed by a static directive.
func (c *Class) Static(name string) (Value, bool) {
	v, ok := c.statics[name]
	return v, ok
}

// SetStatic installs a class-level member. Intended for static directives.
func (c *Class) SetStatic(name string, v Value) {
	c.statics[name] = v
}

// StaticNames returns the names of class-level members in sorted order.
func (c *Class) StaticNames() []string {
	out := make([]string, 0, len(c.statics))
	for name := range c.statics {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Field returns a plain member field.
func (c *Class) Field(name string) (Value, bool) {
	f, ok := c.fields[name]
	return f.value, ok
}

// Method returns the implementation of name declared with arity arguments.
// ConstructorName looks up constructors.
func (c *Class) Method(name string, arity int) (*Bound, bool) {
	return c.tables[name].Lookup(arity)
}

// Methods returns every dispatchable implementation, constructors included,
// ordered by name then arity.
func (c *Class) Methods() []*Bound {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []*Bound
	for _, name := range names {
		t := c.tables[name]
		for _, n := range t.Arities() {
			out = append(out, t.byArity[n])
		}
	}
	return out
}

// Resolve reports whether name is callable on c and with which declared
// argument counts, without executing anything. A plain field holding a
// Func reports the single arity -1, meaning any count.
func (c *Class) Resolve(name string) ([]int, bool) {
	if name == ConstructorName {
		return nil, false
	}
	if t, ok := c.tables[name]; ok {
		return t.Arities(), true
	}
	if f, ok := c.fields[name]; ok {
		if _, ok := f.value.(Func); ok {
			return []int{-1}, true
		}
	}
	return nil, false
}

// Capabilities returns the transitive capability set, excluding c itself.
func (c *Class) Capabilities() []*Class {
	out := make([]*Class, 0, len(c.caps))
	for k := range c.caps {
		if k != c {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].name != out[j].name {
			return out[i].name < out[j].name
		}
		return out[i].id.String() < out[j].id.String()
	})
	return out
}
