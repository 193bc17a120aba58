package oop

// Built-in descriptors.
var (
	// Extended tags the private descriptor of every extended instance.
	Extended = named(MustInterface(), "Extended")

	// Dummy is an empty class for one-off anonymous instances:
	// Dummy.New(Defs{...}).
	Dummy = named(MustClass(Defs{}), "Dummy")
)

func named(c *Class, name string) *Class {
	c.name = name
	return c
}

// InstanceOf reports whether v is an instance whose current descriptor is
// cls or carries cls in its capability set. Non-instances yield false.
//
// A nil cls is not treated as an error: it also yields false, so callers
// that expect an "unknown class" failure must check cls themselves.
func InstanceOf(v any, cls *Class) bool {
	inst, ok := v.(*Instance)
	if !ok || inst == nil || cls == nil {
		return false
	}
	return inst.class.Implements(cls)
}

// Implements reports whether cls is c itself, an ancestor of c, or an
// interface reachable from either.
func (c *Class) Implements(cls *Class) bool {
	if c == cls {
		return true
	}
	_, ok := c.caps[cls]
	return ok
}

// IsClass reports whether v is a class or interface descriptor.
func IsClass(v any) bool {
	c, ok := v.(*Class)
	return ok && c != nil
}

// IsInterface reports whether v is an interface descriptor.
func IsInterface(v any) bool {
	c, ok := v.(*Class)
	return ok && c != nil && c.iface
}
