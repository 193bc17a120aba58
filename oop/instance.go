package oop

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Instance is an object allocated from a class descriptor.
type Instance struct {
	id     string
	class  *Class
	fields map[string]Value

	// ext is the private descriptor created on first Extend; class points
	// at it from then on.
	ext *Class
}

func newInstance(cls *Class) *Instance {
	prefix := "object"
	if cls.name != "" {
		prefix = strings.ToLower(strings.ReplaceAll(cls.name, ".", "_"))
	}
	return &Instance{
		id:     prefix + "_" + uuid.New().String(),
		class:  cls,
		fields: make(map[string]Value),
	}
}

// New allocates an instance of c and runs the constructor whose arity
// matches len(args). A class without constructors ignores args.
//
// When the trailing argument is a Defs value, New instead builds a
// disposable subclass of c from those definitions. Interface descriptors
// immediately preceding the definitions become capabilities of that
// subclass and the remaining leading arguments go to its constructor.
func (c *Class) New(args ...Value) (*Instance, error) {
	if n := len(args); n > 0 {
		if defs, ok := args[n-1].(Defs); ok {
			return c.newAnonymous(args[:n-1], defs)
		}
	}
	if c.iface {
		return nil, &DefinitionError{Reason: "interface " + c.String() + " cannot be instantiated without definitions"}
	}

	inst := newInstance(c)
	if err := inst.construct(args); err != nil {
		return nil, err
	}
	return inst, nil
}

// MustNew is like New but panics on error.
func (c *Class) MustNew(args ...Value) *Instance {
	inst, err := c.New(args...)
	if err != nil {
		panic("oop: " + err.Error())
	}
	return inst
}

func (c *Class) newAnonymous(args []Value, defs Defs) (*Instance, error) {
	k := len(args) - 1
	var ifaces []*Class
	for ; k >= 0; k-- {
		ic, ok := args[k].(*Class)
		if !ok || ic == nil || !ic.iface {
			break
		}
		ifaces = append(ifaces, ic)
	}

	parent := c
	if c.iface {
		parent = nil
		ifaces = append([]*Class{c}, ifaces...)
	}

	anon, err := define(parent, ifaces, defs, false, func(a *Class) {
		a.name = c.name
		a.anonymous = true
	})
	if err != nil {
		return nil, err
	}

	inst := newInstance(anon)
	if err := inst.construct(args[:k+1]); err != nil {
		return nil, err
	}
	return inst, nil
}

func (i *Instance) construct(args []Value) error {
	t, ok := i.class.tables[ConstructorName]
	if !ok {
		return nil
	}
	b, ok := t.Lookup(len(args))
	if !ok {
		return &MethodNotFoundError{Class: i.class.name, Method: ConstructorName, Arity: len(args)}
	}
	_, err := invoke(i, b, args)
	return err
}

// ID returns the instance identifier.
func (i *Instance) ID() string {
	return i.id
}

// Class returns the current descriptor: the constructed one, or the
// private descriptor once the instance has been extended.
func (i *Instance) Class() *Class {
	return i.class
}

// String implements the Stringer interface.
func (i *Instance) String() string {
	return "<" + i.class.String() + " " + i.id + ">"
}

// Call dispatches name to the implementation whose declared arity equals
// len(args). Plain-field functions accept any count.
func (i *Instance) Call(name string, args ...Value) (Value, error) {
	if name != ConstructorName {
		if t, ok := i.class.tables[name]; ok {
			if b, ok := t.Lookup(len(args)); ok {
				return invoke(i, b, args)
			}
		} else if f, ok := i.class.fields[name]; ok {
			if fn, ok := f.value.(Func); ok {
				return invoke(i, &Bound{Name: name, Arity: -1, Fn: fn, Owner: f.owner}, args)
			}
		}
	}
	return nil, &MethodNotFoundError{Class: i.class.name, Method: name, Arity: len(args)}
}

// Resolve reports whether name is callable on the current descriptor and
// with which arities. Nothing is executed.
func (i *Instance) Resolve(name string) ([]int, bool) {
	return i.class.Resolve(name)
}

// Get returns the instance's own field, falling back to a plain member
// field of its descriptor. Missing names yield nil.
func (i *Instance) Get(name string) Value {
	if v, ok := i.fields[name]; ok {
		return v
	}
	if f, ok := i.class.fields[name]; ok {
		return f.value
	}
	return nil
}

// Lookup is like Get but reports whether the name was found.
func (i *Instance) Lookup(name string) (Value, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	f, ok := i.class.fields[name]
	return f.value, ok
}

// Set stores a field in the instance's own storage.
func (i *Instance) Set(name string, v Value) {
	i.fields[name] = v
}

// FieldNames returns the names of the instance's own fields in sorted order.
func (i *Instance) FieldNames() []string {
	out := make([]string, 0, len(i.fields))
	for name := range i.fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
