package binder

import "net/http"

// Response lets a handler choose the status code:
//
//	func (c *UserController) Create(u User) (*binder.Response, error) {
//		return binder.Created(u), nil
//	}
//
// A nil *Response writes 204 No Content.
type Response struct {
	StatusCode int
	Body       interface{}
}

// NewResponse creates a Response with the given status code and body
func NewResponse(statusCode int, body interface{}) *Response {
	return &Response{StatusCode: statusCode, Body: body}
}

// Created creates a 201 Created response
func Created(body interface{}) *Response {
	return NewResponse(http.StatusCreated, body)
}

// NoContent creates a 204 No Content response
func NoContent() *Response {
	return NewResponse(http.StatusNoContent, nil)
}

func (r *Response) write(c RequestContext) error {
	if r == nil {
		return c.JSON(http.StatusNoContent, nil)
	}
	code := r.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	return c.JSON(code, r.Body)
}
