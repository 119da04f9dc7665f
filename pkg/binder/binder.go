// Package binder dispatches requests to handler methods whose parameters were
// declared in a params.Registry.
package binder

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/toyz/paramkit/pkg/params"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Binder builds RequestContext handlers from declared handler methods
type Binder struct {
	registry *params.Registry
	parsers  map[reflect.Type]ParserFunc
	logger   *slog.Logger
}

// Option configures a Binder
type Option func(*Binder)

// WithLogger sets the logger used for binding failures
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithParser registers a string parser for values of type t
func WithParser(t reflect.Type, fn ParserFunc) Option {
	return func(b *Binder) {
		b.parsers[t] = fn
	}
}

// New creates a Binder reading descriptors from registry
func New(registry *params.Registry, opts ...Option) *Binder {
	b := &Binder{
		registry: registry,
		parsers:  make(map[reflect.Type]ParserFunc, len(BuiltinParsers)),
		logger:   slog.New(slog.DiscardHandler),
	}
	for t, fn := range BuiltinParsers {
		b.parsers[t] = fn
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Handler binds method on receiver. Every parameter of the method must have
// exactly one declaration; the check happens here, once, not per request.
func (b *Binder) Handler(receiver any, method string) (HandlerFunc, error) {
	key := params.KeyOf(receiver, method)

	m := reflect.ValueOf(receiver).MethodByName(method)
	if !m.IsValid() {
		return nil, fmt.Errorf("bind %s: method not found", key)
	}
	mt := m.Type()

	if err := checkResults(mt); err != nil {
		return nil, fmt.Errorf("bind %s: %w", key, err)
	}

	descriptors := b.registry.Params(receiver, method)
	params.SortByIndex(descriptors)

	slots := make([]*params.Descriptor, mt.NumIn())
	for i := range descriptors {
		d := descriptors[i]
		if d.Index >= len(slots) {
			return nil, fmt.Errorf("bind %s: %w", key, &params.InvalidIndexError{Key: key, Index: d.Index, Count: len(slots)})
		}
		if slots[d.Index] != nil {
			return nil, fmt.Errorf("bind %s: %w", key, &params.DuplicateIndexError{
				Key: key, Index: d.Index, Sources: []params.Source{slots[d.Index].Source, d.Source},
			})
		}
		if d.Type.Type != nil && d.Type.Type != mt.In(d.Index) {
			return nil, fmt.Errorf("bind %s: parameter %d declared as %s but method takes %s", key, d.Index, d.Type, mt.In(d.Index))
		}
		slots[d.Index] = &d
	}
	for i, slot := range slots {
		if slot == nil {
			return nil, fmt.Errorf("bind %s: parameter %d (%s) has no declaration", key, i, mt.In(i))
		}
	}

	return func(c RequestContext) error {
		args := make([]reflect.Value, len(slots))
		for i, d := range slots {
			v, err := b.resolve(c, *d, mt.In(i))
			if err != nil {
				b.logger.Debug("parameter binding failed",
					"method", key.String(), "index", i, "source", d.Source.String(), "error", err)
				return err
			}
			args[i] = v
		}
		return respond(c, mt, m.Call(args))
	}, nil
}

// MustHandler is like Handler but panics on error
func (b *Binder) MustHandler(receiver any, method string) HandlerFunc {
	h, err := b.Handler(receiver, method)
	if err != nil {
		panic(err)
	}
	return h
}

func (b *Binder) resolve(c RequestContext, d params.Descriptor, t reflect.Type) (reflect.Value, error) {
	switch d.Source {
	case params.RequestSource:
		return inject(d, t, c.Request(), c.Native(), c)
	case params.ResponseSource:
		return inject(d, t, c.Response(), c.Native(), c)
	case params.BodySource:
		if !c.HasBody() {
			return b.absent(d, t)
		}
		ptr := reflect.New(t)
		if err := c.Bind(ptr.Interface()); err != nil {
			return reflect.Value{}, bindingError(http.StatusBadRequest, "invalid request body", d, err.Error())
		}
		return validate(d, ptr.Elem())
	}

	raw, ok := lookup(c, d)
	if !ok {
		return b.absent(d, t)
	}
	v, err := b.coerce(raw, t)
	if err != nil {
		return reflect.Value{}, bindingError(http.StatusBadRequest, "invalid parameter", d, err.Error())
	}
	return validate(d, v)
}

// absent handles a missing value. Validators never see absent values.
func (b *Binder) absent(d params.Descriptor, t reflect.Type) (reflect.Value, error) {
	if d.Required() {
		return reflect.Value{}, bindingError(http.StatusBadRequest, "missing required parameter", d, "absent")
	}
	return reflect.Zero(t), nil
}

func lookup(c RequestContext, d params.Descriptor) (string, bool) {
	switch d.Source {
	case params.UrlSource:
		v := c.Param(d.Name)
		return v, v != ""
	case params.QuerySource:
		return c.QueryParam(d.Name)
	case params.HeaderSource:
		v := c.Header(d.Name)
		return v, v != ""
	default:
		return "", false
	}
}

func validate(d params.Descriptor, v reflect.Value) (reflect.Value, error) {
	if !d.Options.Validate(v.Interface()) {
		return reflect.Value{}, ErrUnprocessableEntityWithDetails("validation failed", BindingError{
			Source: d.Source.String(), Name: d.Name, Index: d.Index, Reason: "rejected by validator",
		})
	}
	return v, nil
}

func inject(d params.Descriptor, t reflect.Type, candidates ...any) (reflect.Value, error) {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		cv := reflect.ValueOf(candidate)
		if cv.Type().AssignableTo(t) {
			return cv, nil
		}
	}
	return reflect.Value{}, bindingError(http.StatusInternalServerError, "cannot inject "+d.Source.String(), d, "no value assignable to "+t.String())
}

func bindingError(status int, message string, d params.Descriptor, reason string) *HttpError {
	return NewHttpErrorWithDetails(status, message, BindingError{
		Source: d.Source.String(), Name: d.Name, Index: d.Index, Reason: reason,
	})
}

// checkResults accepts (), (error), (T) and (T, error)
func checkResults(mt reflect.Type) error {
	switch mt.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if mt.Out(1) != errorType {
			return fmt.Errorf("second result must be error, got %s", mt.Out(1))
		}
		return nil
	default:
		return fmt.Errorf("handlers return at most two results, got %d", mt.NumOut())
	}
}

func respond(c RequestContext, mt reflect.Type, out []reflect.Value) error {
	if n := len(out); n > 0 && mt.Out(n-1) == errorType {
		if err, _ := out[n-1].Interface().(error); err != nil {
			return err
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil
	}
	if resp, ok := out[0].Interface().(*Response); ok {
		return resp.write(c)
	}
	return c.JSON(http.StatusOK, out[0].Interface())
}
