package adapters

import (
	"github.com/gin-gonic/gin"
	"github.com/toyz/paramkit/pkg/binder"
)

// GinRequestContext implements binder.RequestContext for Gin
type GinRequestContext struct {
	ctx *gin.Context
}

// NewGinRequestContext wraps a Gin context
func NewGinRequestContext(c *gin.Context) *GinRequestContext {
	return &GinRequestContext{ctx: c}
}

// Gin converts a bound handler into a gin.HandlerFunc
func Gin(handler binder.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(NewGinRequestContext(c)); err != nil {
			code, body := binder.ErrorResponse(err)
			c.AbortWithStatusJSON(code, body)
		}
	}
}

// Method returns the HTTP method
func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

// Path returns the request path
func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

// Param returns a path parameter
func (grc *GinRequestContext) Param(name string) string {
	return grc.ctx.Param(name)
}

// QueryParam returns a query parameter and whether it was present
func (grc *GinRequestContext) QueryParam(name string) (string, bool) {
	return grc.ctx.GetQuery(name)
}

// Header returns a request header
func (grc *GinRequestContext) Header(name string) string {
	return grc.ctx.GetHeader(name)
}

// HasBody reports whether the request carries a body
func (grc *GinRequestContext) HasBody() bool {
	return requestHasBody(grc.ctx.Request)
}

// Bind binds the JSON request body
func (grc *GinRequestContext) Bind(i interface{}) error {
	return grc.ctx.ShouldBindJSON(i)
}

// Request returns the *http.Request
func (grc *GinRequestContext) Request() interface{} {
	return grc.ctx.Request
}

// Response returns the gin.ResponseWriter
func (grc *GinRequestContext) Response() interface{} {
	return grc.ctx.Writer
}

// Native returns the *gin.Context
func (grc *GinRequestContext) Native() interface{} {
	return grc.ctx
}

// JSON writes a JSON response
func (grc *GinRequestContext) JSON(code int, i interface{}) error {
	grc.ctx.JSON(code, i)
	return nil
}
