package binder

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/paramkit/pkg/params"
)

type fakeRequest struct{ id string }

type fakeContext struct {
	params  map[string]string
	query   map[string]string
	headers map[string]string
	body    string
	req     *fakeRequest

	status  int
	written any
}

func (f *fakeContext) Method() string           { return http.MethodGet }
func (f *fakeContext) Path() string             { return "/" }
func (f *fakeContext) Param(name string) string { return f.params[name] }
func (f *fakeContext) Header(name string) string {
	return f.headers[name]
}
func (f *fakeContext) QueryParam(name string) (string, bool) {
	v, ok := f.query[name]
	return v, ok
}
func (f *fakeContext) HasBody() bool                 { return f.body != "" }
func (f *fakeContext) Bind(target interface{}) error { return json.Unmarshal([]byte(f.body), target) }
func (f *fakeContext) Request() interface{}          { return f.req }
func (f *fakeContext) Response() interface{}         { return nil }
func (f *fakeContext) Native() interface{}           { return f }
func (f *fakeContext) JSON(code int, i interface{}) error {
	f.status, f.written = code, i
	return nil
}

type item struct {
	Name string `json:"name"`
}

type itemController struct {
	validatorCalls int
	lastReq        *fakeRequest
}

func (c *itemController) Get(id uuid.UUID, page int, verbose *bool) (map[string]any, error) {
	out := map[string]any{"id": id.String(), "page": page}
	if verbose != nil {
		out["verbose"] = *verbose
	}
	return out, nil
}

func (c *itemController) Create(payload item, trace string) (item, error) {
	if payload.Name == "boom" {
		return item{}, errors.New("store unavailable")
	}
	return payload, nil
}

func (c *itemController) Raw(req *fakeRequest, rc RequestContext) error {
	c.lastReq = req
	return rc.JSON(http.StatusAccepted, "raw")
}

func (c *itemController) Optional(limit int) int { return limit }

func newItemBinder(t *testing.T, c *itemController) *Binder {
	t.Helper()
	reg := params.NewRegistry()
	countingPositive := func(v any) bool {
		c.validatorCalls++
		return params.IsPositive(v)
	}

	params.Must(reg.Declare(c, "Get",
		params.At(0, params.UrlParam("id")),
		params.At(1, params.Query("page", params.Options{Required: true, Validator: params.IsPositive})),
		params.At(2, params.Query("verbose")),
	))
	params.Must(reg.Declare(c, "Create",
		params.At(0, params.Body(params.Options{Required: true})),
		params.At(1, params.Header("X-Trace")),
	))
	params.Must(reg.Declare(c, "Raw",
		params.At(1, params.Res()),
		params.At(0, params.Req()),
	))
	params.Must(reg.Declare(c, "Optional",
		params.At(0, params.Query("limit", params.Options{Validator: countingPositive})),
	))
	require.NoError(t, reg.Seal())
	return New(reg)
}

func TestBinder_BindsQueryAndUrl(t *testing.T) {
	c := &itemController{}
	b := newItemBinder(t, c)
	h := b.MustHandler(c, "Get")

	id := uuid.New()
	ctx := &fakeContext{
		params: map[string]string{"id": id.String()},
		query:  map[string]string{"page": "2", "verbose": "true"},
	}
	require.NoError(t, h(ctx))
	assert.Equal(t, http.StatusOK, ctx.status)
	assert.Equal(t, map[string]any{"id": id.String(), "page": 2, "verbose": true}, ctx.written)
}

func TestBinder_RequiredAndValidation(t *testing.T) {
	c := &itemController{}
	b := newItemBinder(t, c)
	h := b.MustHandler(c, "Get")
	id := uuid.New().String()

	tests := []struct {
		name   string
		params map[string]string
		query  map[string]string
		status int
	}{
		{name: "missing url segment", params: map[string]string{}, query: map[string]string{"page": "1"}, status: http.StatusBadRequest},
		{name: "missing required query", params: map[string]string{"id": id}, query: map[string]string{}, status: http.StatusBadRequest},
		{name: "bad uuid", params: map[string]string{"id": "nope"}, query: map[string]string{"page": "1"}, status: http.StatusBadRequest},
		{name: "bad int", params: map[string]string{"id": id}, query: map[string]string{"page": "x"}, status: http.StatusBadRequest},
		{name: "validator rejects", params: map[string]string{"id": id}, query: map[string]string{"page": "0"}, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h(&fakeContext{params: tt.params, query: tt.query})
			require.Error(t, err)
			code, _ := ErrorResponse(err)
			assert.Equal(t, tt.status, code)
		})
	}
}

func TestBinder_ValidatorSkippedForAbsentValue(t *testing.T) {
	c := &itemController{}
	b := newItemBinder(t, c)
	h := b.MustHandler(c, "Optional")

	ctx := &fakeContext{query: map[string]string{}}
	require.NoError(t, h(ctx))
	assert.Equal(t, 0, c.validatorCalls)
	assert.Equal(t, 0, ctx.written)

	ctx = &fakeContext{query: map[string]string{"limit": "5"}}
	require.NoError(t, h(ctx))
	assert.Equal(t, 1, c.validatorCalls)
	assert.Equal(t, 5, ctx.written)
}

func TestBinder_Body(t *testing.T) {
	c := &itemController{}
	b := newItemBinder(t, c)
	h := b.MustHandler(c, "Create")

	ctx := &fakeContext{body: `{"name":"widget"}`, headers: map[string]string{}}
	require.NoError(t, h(ctx))
	assert.Equal(t, item{Name: "widget"}, ctx.written)

	err := h(&fakeContext{})
	code, _ := ErrorResponse(err)
	assert.Equal(t, http.StatusBadRequest, code)

	err = h(&fakeContext{body: `{`})
	code, _ = ErrorResponse(err)
	assert.Equal(t, http.StatusBadRequest, code)

	err = h(&fakeContext{body: `{"name":"boom"}`})
	code, body := ErrorResponse(err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "store unavailable", body.(*HttpError).Message)
}

func TestBinder_InjectsRawObjects(t *testing.T) {
	c := &itemController{}
	b := newItemBinder(t, c)
	h := b.MustHandler(c, "Raw")

	ctx := &fakeContext{req: &fakeRequest{id: "r1"}}
	require.NoError(t, h(ctx))
	assert.Equal(t, "r1", c.lastReq.id)
	assert.Equal(t, http.StatusAccepted, ctx.status)
}

type brokenController struct{}

func (brokenController) Partial(a string, b string) error       { return nil }
func (brokenController) Mismatch(a string) error                { return nil }
func (brokenController) TooMany() (int, int, error)             { return 0, 0, nil }
func (brokenController) BadSecond() (int, int)                  { return 0, 0 }
func (brokenController) Twice(a string) error                   { return nil }
func (brokenController) Unsupported(ch chan int) error          { return nil }
func (brokenController) Custom(level reflect.Kind) reflect.Kind { return level }

func TestBinder_HandlerErrors(t *testing.T) {
	reg := params.NewRegistry()
	owner := brokenController{}

	_ = reg.Apply(owner, "Partial", 0, params.Query("a"))
	_ = reg.ApplyKey(params.KeyOf(owner, "Mismatch"), []params.TypeRef{params.TypeOf(reflect.TypeOf(0))}, 0, params.Query("a"))
	_ = reg.Apply(owner, "Twice", 0, params.Query("a"))
	_ = reg.Apply(owner, "Twice", 0, params.Header("a"))
	b := New(reg)

	for _, method := range []string{"Missing", "Partial", "Mismatch", "TooMany", "BadSecond", "Twice"} {
		t.Run(method, func(t *testing.T) {
			_, err := b.Handler(owner, method)
			assert.Error(t, err)
		})
	}
	assert.Panics(t, func() { b.MustHandler(owner, "Missing") })
}

func TestBinder_CustomParser(t *testing.T) {
	reg := params.NewRegistry()
	owner := brokenController{}
	params.Must(reg.Apply(owner, "Custom", 0, params.Query("level")))
	params.Must(reg.Apply(owner, "Unsupported", 0, params.Query("ch")))

	kinds := map[string]reflect.Kind{"string": reflect.String, "int": reflect.Int}
	b := New(reg, WithParser(reflect.TypeOf(reflect.Kind(0)), func(raw string) (any, error) {
		k, ok := kinds[raw]
		if !ok {
			return nil, errors.New("unknown kind")
		}
		return k, nil
	}))

	ctx := &fakeContext{query: map[string]string{"level": "int"}}
	require.NoError(t, b.MustHandler(owner, "Custom")(ctx))
	assert.Equal(t, reflect.Int, ctx.written)

	err := b.MustHandler(owner, "Unsupported")(&fakeContext{query: map[string]string{"ch": "x"}})
	code, _ := ErrorResponse(err)
	assert.Equal(t, http.StatusBadRequest, code)
}

type statusController struct{}

func (statusController) Create(name string) (*Response, error) {
	if name == "" {
		return nil, nil
	}
	return Created(item{Name: name}), nil
}

func TestBinder_ResponseStatus(t *testing.T) {
	reg := params.NewRegistry()
	owner := statusController{}
	params.Must(reg.Apply(owner, "Create", 0, params.Query("name")))
	h := New(reg).MustHandler(owner, "Create")

	ctx := &fakeContext{query: map[string]string{"name": "widget"}}
	require.NoError(t, h(ctx))
	assert.Equal(t, http.StatusCreated, ctx.status)
	assert.Equal(t, item{Name: "widget"}, ctx.written)

	ctx = &fakeContext{query: map[string]string{}}
	require.NoError(t, h(ctx))
	assert.Equal(t, http.StatusNoContent, ctx.status)
}
