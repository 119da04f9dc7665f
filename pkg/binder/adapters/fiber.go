package adapters

import (
	"github.com/gofiber/fiber/v2"
	"github.com/toyz/paramkit/pkg/binder"
)

// FiberRequestContext implements binder.RequestContext for Fiber
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

// NewFiberRequestContext wraps a Fiber context
func NewFiberRequestContext(c *fiber.Ctx) *FiberRequestContext {
	return &FiberRequestContext{ctx: c}
}

// Fiber converts a bound handler into a fiber.Handler
func Fiber(handler binder.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(NewFiberRequestContext(c)); err != nil {
			code, body := binder.ErrorResponse(err)
			return c.Status(code).JSON(body)
		}
		return nil
	}
}

// Method returns the HTTP method
func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

// Path returns the request path
func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

// Param returns a path parameter
func (frc *FiberRequestContext) Param(name string) string {
	return frc.ctx.Params(name)
}

// QueryParam returns a query parameter and whether it was present
func (frc *FiberRequestContext) QueryParam(name string) (string, bool) {
	args := frc.ctx.Context().QueryArgs()
	if !args.Has(name) {
		return "", false
	}
	// fasthttp reuses the buffer after the request
	return string(args.Peek(name)), true
}

// Header returns a request header
func (frc *FiberRequestContext) Header(name string) string {
	return frc.ctx.Get(name)
}

// HasBody reports whether the request carries a body
func (frc *FiberRequestContext) HasBody() bool {
	return len(frc.ctx.Body()) > 0
}

// Bind binds the request body
func (frc *FiberRequestContext) Bind(i interface{}) error {
	return frc.ctx.BodyParser(i)
}

// Request returns the *fasthttp.Request
func (frc *FiberRequestContext) Request() interface{} {
	return frc.ctx.Request()
}

// Response returns the *fasthttp.Response
func (frc *FiberRequestContext) Response() interface{} {
	return frc.ctx.Response()
}

// Native returns the *fiber.Ctx
func (frc *FiberRequestContext) Native() interface{} {
	return frc.ctx
}

// JSON writes a JSON response
func (frc *FiberRequestContext) JSON(code int, i interface{}) error {
	return frc.ctx.Status(code).JSON(i)
}
