package params

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ValidatorFunc is the predicate stored in Options.Validator
type ValidatorFunc = func(value any) bool

// Validators is a named set of validator predicates, used to resolve
// validators referenced by name in textual declarations.
type Validators struct {
	mu    sync.RWMutex
	funcs map[string]ValidatorFunc
}

// NewValidators creates an empty validator set
func NewValidators() *Validators {
	return &Validators{funcs: make(map[string]ValidatorFunc)}
}

// DefaultValidators creates a validator set holding the builtin validators
func DefaultValidators() *Validators {
	v := NewValidators()
	for name, fn := range builtinValidators {
		v.funcs[name] = fn
	}
	return v
}

var builtinValidators = map[string]ValidatorFunc{
	"uuid":     IsUUID,
	"nonempty": IsNonEmpty,
	"positive": IsPositive,
}

// Register adds a named validator
func (v *Validators) Register(name string, fn ValidatorFunc) error {
	if name == "" {
		return fmt.Errorf("validator name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("validator %s has no function", name)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.funcs[name]; exists {
		return fmt.Errorf("validator %s is already registered", name)
	}
	v.funcs[name] = fn
	return nil
}

// Get looks up a validator by name
func (v *Validators) Get(name string) (ValidatorFunc, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	fn, ok := v.funcs[name]
	if !ok {
		return nil, &UnknownValidatorError{Name: name}
	}
	return fn, nil
}

// Names returns the registered validator names, sorted
func (v *Validators) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	names := make([]string, 0, len(v.funcs))
	for name := range v.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All combines validators; the value must pass every one of them
func All(fns ...ValidatorFunc) ValidatorFunc {
	return func(value any) bool {
		for _, fn := range fns {
			if fn != nil && !fn(value) {
				return false
			}
		}
		return true
	}
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Rule builds a validator from a go-playground validation tag, e.g. "email"
// or "min=3,max=64". The tag is checked eagerly so typos fail at load time.
func Rule(tag string) (ValidatorFunc, error) {
	if err := checkRule(tag); err != nil {
		return nil, err
	}
	return func(value any) bool {
		return structValidator.Var(value, tag) == nil
	}, nil
}

func checkRule(tag string) (err error) {
	defer func() {
		// validator panics on undefined tags
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid validation rule %q: %v", tag, r)
		}
	}()
	_ = structValidator.Var("", tag)
	return nil
}

// IsUUID accepts uuid.UUID values other than uuid.Nil and strings that parse as UUIDs
func IsUUID(value any) bool {
	switch v := value.(type) {
	case uuid.UUID:
		return v != uuid.Nil
	case string:
		return uuid.Validate(v) == nil
	default:
		return false
	}
}

// IsNonEmpty rejects nil, empty strings and empty slices or maps
func IsNonEmpty(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// IsPositive accepts numbers greater than zero
func IsPositive(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() > 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() > 0
	default:
		return false
	}
}
