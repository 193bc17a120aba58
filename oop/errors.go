package oop

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every typed error below unwraps to one of these.
var (
	ErrDefinition       = errors.New("invalid definition")
	ErrInvalidReference = errors.New("invalid class reference")
	ErrDuplicateMethod  = errors.New("duplicate method")
	ErrPropertyConflict = errors.New("property conflict")
	ErrMethodNotFound   = errors.New("method not found")
	ErrInvalidContext   = errors.New("invalid call context")
	ErrUnknownInterface = errors.New("unknown interface")
)

// DefinitionError reports a malformed definition list.
type DefinitionError struct {
	Reason string
}

func (e *DefinitionError) Error() string { return "invalid definition: " + e.Reason }
func (e *DefinitionError) Unwrap() error { return ErrDefinition }

// InvalidReferenceError reports a non-descriptor where a parent or interface
// descriptor was required. Index is the position of the offending value in
// the descriptor list [parent] [interfaces...]: the parent, when given, is
// 0 and the interfaces follow it. Define, DefineInterface, NewClass and
// NewInterface all count this way.
type InvalidReferenceError struct {
	Index int
	Value any
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("undefined parent class or interface [%d]: %v", e.Index, e.Value)
}
func (e *InvalidReferenceError) Unwrap() error { return ErrInvalidReference }

// DuplicateMethodError reports the same (name, arity) declared twice in one
// definition batch.
type DuplicateMethodError struct {
	Class  string
	Method string
	Arity  int
}

func (e *DuplicateMethodError) Error() string {
	return fmt.Sprintf("duplicated method '%s(%d)'", qualified(e.Class, e.Method), e.Arity)
}
func (e *DuplicateMethodError) Unwrap() error { return ErrDuplicateMethod }

// PropertyConflictError reports a method name colliding with a plain field,
// or a plain field colliding with a method.
type PropertyConflictError struct {
	Class string
	Name  string
}

func (e *PropertyConflictError) Error() string {
	return fmt.Sprintf("method '%s' conflicts to property", qualified(e.Class, e.Name))
}
func (e *PropertyConflictError) Unwrap() error { return ErrPropertyConflict }

// MethodNotFoundError reports a failed (name, arity) lookup, either at
// ordinary dispatch or during super resolution.
type MethodNotFoundError struct {
	Class  string
	Method string
	Arity  int
}

func (e *MethodNotFoundError) Error() string {
	name := e.Method
	if name == ConstructorName {
		name = "constructor"
	}
	return fmt.Sprintf("method '%s(%d)' not found", qualified(e.Class, name), e.Arity)
}
func (e *MethodNotFoundError) Unwrap() error { return ErrMethodNotFound }

// InvalidContextError reports a super or constructor-chaining call made
// without an active Call.
type InvalidContextError struct {
	Op string
}

func (e *InvalidContextError) Error() string {
	return e.Op + " is called outside of class context"
}
func (e *InvalidContextError) Unwrap() error { return ErrInvalidContext }

// UnknownInterfaceError reports an extension argument that is not a
// descriptor.
type UnknownInterfaceError struct {
	Index int
	Value any
}

func (e *UnknownInterfaceError) Error() string {
	return fmt.Sprintf("invalid interface argument [%d]: %v", e.Index, e.Value)
}
func (e *UnknownInterfaceError) Unwrap() error { return ErrUnknownInterface }

func qualified(class, name string) string {
	if class == "" {
		return name
	}
	return class + "." + name
}
