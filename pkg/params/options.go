package params

// Options holds optional per-parameter configuration.
//
// Required and Validator are independent. A dispatcher enforces Required
// first and only runs Validator on a value that was actually extracted.
type Options struct {
	// Required fails the request when the value is absent
	Required bool

	// Validator is invoked with the extracted value; false fails the request
	Validator func(value any) bool
}

// Validate reports whether value passes the configured validator.
// A nil receiver or a nil validator always passes.
func (o *Options) Validate(value any) bool {
	if o == nil || o.Validator == nil {
		return true
	}
	return o.Validator(value)
}

// IsRequired is nil-safe access to Required
func (o *Options) IsRequired() bool {
	return o != nil && o.Required
}

func (o *Options) clone() *Options {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

// mergeOptions collapses variadic options into a single value.
// Later options override earlier ones field by field; no options yields nil.
func mergeOptions(opts []Options) *Options {
	if len(opts) == 0 {
		return nil
	}
	merged := opts[0]
	for _, o := range opts[1:] {
		if o.Required {
			merged.Required = true
		}
		if o.Validator != nil {
			merged.Validator = o.Validator
		}
	}
	return &merged
}
