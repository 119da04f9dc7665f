package adapters

import (
	"github.com/labstack/echo/v4"
	"github.com/toyz/paramkit/pkg/binder"
)

// EchoRequestContext implements binder.RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
	binder  echo.DefaultBinder
}

// NewEchoRequestContext wraps an Echo context
func NewEchoRequestContext(c echo.Context) *EchoRequestContext {
	return &EchoRequestContext{context: c}
}

// Echo converts a bound handler into an echo.HandlerFunc
func Echo(handler binder.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := handler(NewEchoRequestContext(c)); err != nil {
			code, body := binder.ErrorResponse(err)
			return c.JSON(code, body)
		}
		return nil
	}
}

// Method returns the HTTP method
func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

// Path returns the request path
func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

// Param returns path parameter by name
func (erc *EchoRequestContext) Param(key string) string {
	return erc.context.Param(key)
}

// QueryParam returns query parameter by name and whether it was present
func (erc *EchoRequestContext) QueryParam(key string) (string, bool) {
	values, ok := erc.context.QueryParams()[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Header returns a request header
func (erc *EchoRequestContext) Header(key string) string {
	return erc.context.Request().Header.Get(key)
}

// HasBody reports whether the request carries a body
func (erc *EchoRequestContext) HasBody() bool {
	return requestHasBody(erc.context.Request())
}

// Bind binds the request body only; path and query values are bound per parameter
func (erc *EchoRequestContext) Bind(i interface{}) error {
	return erc.binder.BindBody(erc.context, i)
}

// Request returns the *http.Request
func (erc *EchoRequestContext) Request() interface{} {
	return erc.context.Request()
}

// Response returns the *echo.Response
func (erc *EchoRequestContext) Response() interface{} {
	return erc.context.Response()
}

// Native returns the echo.Context
func (erc *EchoRequestContext) Native() interface{} {
	return erc.context
}

// JSON writes a JSON response
func (erc *EchoRequestContext) JSON(code int, i interface{}) error {
	return erc.context.JSON(code, i)
}
