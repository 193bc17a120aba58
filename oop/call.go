package oop

// Call is the context of one dispatched invocation: the receiver and the
// bound implementation being executed. A Call is valid only while its
// implementation runs.
type Call struct {
	self     *Instance
	method   *Bound
	released bool
}

// invoke runs b against self under a fresh Call, releasing it on every exit
// path.
func invoke(self *Instance, b *Bound, args []Value) (Value, error) {
	c := &Call{self: self, method: b}
	defer c.release()
	return b.Fn(c, args...)
}

func (c *Call) release() {
	c.released = true
}

func (c *Call) active(op string) error {
	if c == nil || c.method == nil || c.self == nil || c.released {
		return &InvalidContextError{Op: op}
	}
	return nil
}

// Self returns the receiver of the invocation.
func (c *Call) Self() *Instance {
	if c == nil {
		return nil
	}
	return c.self
}

// Method returns the bound implementation being executed.
func (c *Call) Method() *Bound {
	if c == nil {
		return nil
	}
	return c.method
}

// Get reads a field of the receiver.
func (c *Call) Get(name string) Value {
	return c.Self().Get(name)
}

// Set writes a field of the receiver.
func (c *Call) Set(name string, v Value) {
	c.Self().Set(name, v)
}

// Super invokes the nearest ancestor implementation of the running method's
// name taking len(args) arguments. The search starts at the parent of the
// descriptor the running implementation is bound to.
func (c *Call) Super(args ...Value) (Value, error) {
	if err := c.active("super"); err != nil {
		return nil, err
	}
	return c.super(c.method.Name, args)
}

// SuperNamed is like Super but resolves a different method name, letting an
// override compose another ancestor method.
func (c *Call) SuperNamed(name string, args ...Value) (Value, error) {
	if err := c.active("super"); err != nil {
		return nil, err
	}
	return c.super(name, args)
}

func (c *Call) super(name string, args []Value) (Value, error) {
	arity := len(args)
	for s := c.method.Owner.parent; s != nil; s = s.parent {
		if b, ok := s.tables[name].Lookup(arity); ok {
			return invoke(c.self, b, args)
		}
		if f, ok := s.fields[name]; ok {
			if fn, ok := f.value.(Func); ok {
				return invoke(c.self, &Bound{Name: name, Arity: -1, Fn: fn, Owner: f.owner}, args)
			}
		}
	}
	return nil, &MethodNotFoundError{Class: c.self.class.name, Method: name, Arity: arity}
}

// This invokes the constructor of the descriptor the running method is
// bound to, selected by len(args). It chains constructors of one class.
func (c *Call) This(args ...Value) (Value, error) {
	if err := c.active("this"); err != nil {
		return nil, err
	}
	b, ok := c.method.Owner.tables[ConstructorName].Lookup(len(args))
	if !ok {
		return nil, &MethodNotFoundError{Class: c.self.class.name, Method: ConstructorName, Arity: len(args)}
	}
	return invoke(c.self, b, args)
}
