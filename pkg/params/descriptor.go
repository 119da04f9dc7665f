package params

import (
	"fmt"
	"reflect"
	"sort"
)

// TypeRef is the declared static type of a handler parameter.
// It is opaque to the registry and recorded for the dispatcher's coercion use.
type TypeRef struct {
	// Name is the printable Go type, e.g. "int" or "uuid.UUID"
	Name string

	// Type is set when the type was resolved through reflection
	Type reflect.Type
}

// UnknownType is recorded when the host could not supply type information
var UnknownType = TypeRef{}

// TypeOf builds a TypeRef from a reflect.Type
func TypeOf(t reflect.Type) TypeRef {
	if t == nil {
		return UnknownType
	}
	return TypeRef{Name: t.String(), Type: t}
}

// NamedType builds a TypeRef from a type name only (static analysis)
func NamedType(name string) TypeRef {
	return TypeRef{Name: name}
}

// IsKnown reports whether any type information was recorded
func (t TypeRef) IsKnown() bool {
	return t.Name != "" || t.Type != nil
}

func (t TypeRef) String() string {
	if !t.IsKnown() {
		return "<unknown>"
	}
	return t.Name
}

// Descriptor describes how to extract one handler parameter from a request
type Descriptor struct {
	Source  Source   // which extraction path applies
	Name    string   // lookup key, or fixed label for body/request/response
	Type    TypeRef  // declared parameter type
	Index   int      // zero-based position in the method's parameter list
	Options *Options // nil when no options were declared
}

// Required is nil-safe shorthand for d.Options.Required
func (d Descriptor) Required() bool {
	return d.Options.IsRequired()
}

func (d Descriptor) String() string {
	s := fmt.Sprintf("%s(%q) #%d %s", d.Source, d.Name, d.Index, d.Type)
	if d.Required() {
		s += " required"
	}
	return s
}

func (d Descriptor) clone() Descriptor {
	d.Options = d.Options.clone()
	return d
}

// SortByIndex orders descriptors by parameter position.
// Store order follows declaration order, never positional order.
func SortByIndex(descriptors []Descriptor) {
	sort.SliceStable(descriptors, func(i, j int) bool {
		return descriptors[i].Index < descriptors[j].Index
	})
}
