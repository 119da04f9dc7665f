package adapters

import "net/http"

// requestHasBody reports whether r carries a request body
func requestHasBody(r *http.Request) bool {
	return r != nil && r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}
