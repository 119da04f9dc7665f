package params

import "fmt"

// Source identifies where a dispatcher must look to obtain a parameter value
type Source int

const (
	UrlSource Source = iota
	QuerySource
	BodySource
	RequestSource
	ResponseSource
	HeaderSource
)

// Conventional binding names for sources that are not looked up by key
const (
	BodyName     = "body"
	RequestName  = "request"
	ResponseName = "response"
)

// String returns the string representation of the source
func (s Source) String() string {
	switch s {
	case UrlSource:
		return "url"
	case QuerySource:
		return "query"
	case BodySource:
		return "body"
	case RequestSource:
		return "request"
	case ResponseSource:
		return "response"
	case HeaderSource:
		return "header"
	default:
		return "unknown"
	}
}

// ParseSource converts a string to a Source
func ParseSource(s string) (Source, error) {
	switch s {
	case "url":
		return UrlSource, nil
	case "query":
		return QuerySource, nil
	case "body":
		return BodySource, nil
	case "request", "req":
		return RequestSource, nil
	case "response", "res":
		return ResponseSource, nil
	case "header":
		return HeaderSource, nil
	default:
		return 0, fmt.Errorf("unknown parameter source: %s", s)
	}
}

// Keyed reports whether the binding name is a lookup key into a request container.
// Body, Request and Response carry a fixed label instead.
func (s Source) Keyed() bool {
	return s == UrlSource || s == QuerySource || s == HeaderSource
}
