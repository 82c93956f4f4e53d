package zipline

import (
	"fmt"
	"net/http"
)

// Method is an HTTP method accepted by the Zipline API.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodHead    Method = http.MethodHead
	MethodTrace   Method = http.MethodTrace
	MethodConnect Method = http.MethodConnect
	MethodOptions Method = http.MethodOptions
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete,
		MethodHead, MethodTrace, MethodConnect, MethodOptions:
		return true
	}
	return false
}

// Route identifies one API endpoint.
type Route struct {
	Method Method
	Path   string
}

// NewRoute builds a Route, rejecting unknown methods.
func NewRoute(method Method, path string) (Route, error) {
	if !method.Valid() {
		return Route{}, fmt.Errorf("unsupported http method %q", method)
	}
	return Route{Method: method, Path: path}, nil
}

// route is used for the client's own endpoints whose methods are known valid.
func route(method Method, format string, args ...any) Route {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return Route{Method: method, Path: format}
}

func (r Route) String() string {
	return string(r.Method) + " " + r.Path
}
