package oop

import "strings"

// Value is a dynamically typed host value.
type Value = any

// Func is a method implementation. c is the context of this one invocation;
// it is released when the implementation returns.
type Func func(c *Call, args ...Value) (Value, error)

// Reserved definition names.
const (
	// ConstructorName is the only name that denotes a constructor.
	ConstructorName = ""

	// DirectiveMarker prefixes directive definitions.
	DirectiveMarker = "$"

	// StaticDirective installs class-level members.
	StaticDirective = "$clazz"

	// FieldsDirective installs plain, non-dispatched member fields.
	FieldsDirective = "$prototype"
)

// Def is one entry of a class definition list.
//
// Ordinary entries carry Name, Arity and Fn. Directive entries carry a
// name starting with DirectiveMarker and the matching Static or Fields hook.
type Def struct {
	Name  string
	Arity int
	Fn    Func

	Static func(cls *Class)
	Fields func(cls *Class) map[string]Value
}

// Defs is an ordered definition list. When passed as the trailing argument
// to Class.New it selects the inline-override path.
type Defs []Def

// Method declares an instance method taking arity arguments.
func Method(name string, arity int, fn Func) Def {
	return Def{Name: name, Arity: arity, Fn: fn}
}

// Constructor declares a constructor taking arity arguments.
func Constructor(arity int, fn Func) Def {
	return Def{Name: ConstructorName, Arity: arity, Fn: fn}
}

// StaticMembers declares a hook run once against the new descriptor.
func StaticMembers(fn func(cls *Class)) Def {
	return Def{Name: StaticDirective, Static: fn}
}

// PlainFields declares member fields computed from the new descriptor.
// A field holding a Func is callable with any argument count.
func PlainFields(fn func(cls *Class) map[string]Value) Def {
	return Def{Name: FieldsDirective, Fields: fn}
}

func (d Def) isDirective() bool {
	return strings.HasPrefix(d.Name, DirectiveMarker)
}

// validate checks the shape of one entry.
func (d Def) validate() error {
	switch {
	case d.Name == StaticDirective:
		if d.Static == nil {
			return &DefinitionError{Reason: StaticDirective + " directive has no hook"}
		}
	case d.Name == FieldsDirective:
		if d.Fields == nil {
			return &DefinitionError{Reason: FieldsDirective + " directive has no hook"}
		}
	case d.isDirective():
		return &DefinitionError{Reason: "unknown directive '" + d.Name + "'"}
	default:
		if d.Fn == nil {
			return &DefinitionError{Reason: "method '" + displayName(d.Name) + "' has no implementation"}
		}
		if d.Arity < 0 {
			return &DefinitionError{Reason: "method '" + displayName(d.Name) + "' has negative arity"}
		}
	}
	return nil
}

func displayName(name string) string {
	if name == ConstructorName {
		return "constructor"
	}
	return name
}
