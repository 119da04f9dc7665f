package binder

// RequestContext provides a framework-agnostic view of a request for binding
type RequestContext interface {
	// Request data
	Method() string
	Path() string

	// Parameters. Absent values are reported as "" (or false for queries).
	Param(name string) string
	QueryParam(name string) (string, bool)
	Header(name string) string

	// Body handling
	HasBody() bool
	Bind(target interface{}) error

	// Raw objects for injection
	Request() interface{}  // e.g. *http.Request
	Response() interface{} // e.g. http.ResponseWriter
	Native() interface{}   // framework context, e.g. *gin.Context

	// Response writing
	JSON(code int, i interface{}) error
}

// HandlerFunc defines the signature of a bound handler
type HandlerFunc func(RequestContext) error
