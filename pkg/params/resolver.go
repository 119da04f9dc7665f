package params

import (
	"fmt"
	"reflect"
)

// MethodKey identifies a method by its owning type and name
type MethodKey struct {
	Owner  string // fully qualified owner type, pointer stripped
	Method string
}

func (k MethodKey) String() string {
	return k.Owner + "." + k.Method
}

// KeyOf builds the MethodKey for a method on owner.
// owner may be a value, a typed nil pointer, or a reflect.Type.
func KeyOf(owner any, method string) MethodKey {
	return MethodKey{Owner: TypeName(ownerType(owner)), Method: method}
}

// TypeName returns the qualified name used for MethodKey.Owner
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func ownerType(owner any) reflect.Type {
	if t, ok := owner.(reflect.Type); ok {
		return t
	}
	return reflect.TypeOf(owner)
}

// TypeResolver supplies a method's declared parameter types in positional order
type TypeResolver interface {
	ParamTypes(owner reflect.Type, method string) ([]TypeRef, error)
}

// TypeResolverFunc adapts a function to TypeResolver
type TypeResolverFunc func(owner reflect.Type, method string) ([]TypeRef, error)

func (f TypeResolverFunc) ParamTypes(owner reflect.Type, method string) ([]TypeRef, error) {
	return f(owner, method)
}

// ReflectResolver resolves parameter types from the owner's method set.
// The receiver is not counted; index 0 is the first declared parameter.
type ReflectResolver struct{}

func (ReflectResolver) ParamTypes(owner reflect.Type, method string) ([]TypeRef, error) {
	if owner == nil {
		return nil, fmt.Errorf("no owner type")
	}

	if owner.Kind() == reflect.Interface {
		m, ok := owner.MethodByName(method)
		if !ok {
			return nil, fmt.Errorf("method %s not found on %s", method, owner)
		}
		return inTypes(m.Type, 0), nil
	}

	// *T carries the methods of both T and *T
	lookup := owner
	if lookup.Kind() != reflect.Pointer {
		lookup = reflect.PointerTo(owner)
	}
	m, ok := lookup.MethodByName(method)
	if !ok {
		return nil, fmt.Errorf("method %s not found on %s", method, owner)
	}
	return inTypes(m.Type, 1), nil
}

func inTypes(fn reflect.Type, skip int) []TypeRef {
	types := make([]TypeRef, 0, fn.NumIn()-skip)
	for i := skip; i < fn.NumIn(); i++ {
		types = append(types, TypeOf(fn.In(i)))
	}
	return types
}
