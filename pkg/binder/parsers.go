package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ParserFunc converts a raw string value into a typed value
type ParserFunc func(raw string) (any, error)

// BuiltinParsers holds the parsers for types that cannot be handled by kind alone
var BuiltinParsers = map[reflect.Type]ParserFunc{
	reflect.TypeOf(uuid.UUID{}):      ParseUUID,
	reflect.TypeOf(time.Duration(0)): ParseDuration,
	reflect.TypeOf(time.Time{}):      ParseTime,
}

// ParseUUID parses a string value to uuid.UUID
func ParseUUID(raw string) (any, error) {
	return uuid.Parse(raw)
}

// ParseDuration parses a string value to time.Duration
func ParseDuration(raw string) (any, error) {
	return time.ParseDuration(raw)
}

// ParseTime parses an RFC 3339 string value to time.Time
func ParseTime(raw string) (any, error) {
	return time.Parse(time.RFC3339, raw)
}

// coerce converts raw into a value of type t
func (b *Binder) coerce(raw string, t reflect.Type) (reflect.Value, error) {
	if fn, ok := b.parsers[t]; ok {
		v, err := fn(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(t) {
			return reflect.Value{}, fmt.Errorf("parser for %s returned %s", t, rv.Type())
		}
		return rv, nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(v)
	case reflect.Pointer:
		elem, err := b.coerce(raw, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	case reflect.Interface:
		rv := reflect.ValueOf(raw)
		if !rv.Type().AssignableTo(t) {
			return reflect.Value{}, fmt.Errorf("cannot bind string to %s", t)
		}
		out.Set(rv)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", t)
	}
	return out, nil
}
