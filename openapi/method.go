package openapi

import (
	"fmt"
	"net/http"
)

// Method is one of the HTTP verbs a route can be registered for.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
)

// String returns the upper-case verb.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodPatch:
		return http.MethodPatch
	case MethodDelete:
		return http.MethodDelete
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps an upper-case verb to a Method. The match is
// case-sensitive: "get" is rejected like any other unknown verb.
func ParseMethod(s string) (Method, error) {
	switch s {
	case http.MethodGet:
		return MethodGet, nil
	case http.MethodPost:
		return MethodPost, nil
	case http.MethodPut:
		return MethodPut, nil
	case http.MethodPatch:
		return MethodPatch, nil
	case http.MethodDelete:
		return MethodDelete, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

// assign stores op in the path item field for the method.
func (m Method) assign(pathItem *PathItem, op *Operation) {
	switch m {
	case MethodGet:
		pathItem.Get = op
	case MethodPost:
		pathItem.Post = op
	case MethodPut:
		pathItem.Put = op
	case MethodPatch:
		pathItem.Patch = op
	case MethodDelete:
		pathItem.Delete = op
	}
}

// Operation returns the operation registered for the method, or nil.
func (p *PathItem) Operation(m Method) *Operation {
	switch m {
	case MethodGet:
		return p.Get
	case MethodPost:
		return p.Post
	case MethodPut:
		return p.Put
	case MethodPatch:
		return p.Patch
	case MethodDelete:
		return p.Delete
	}
	return nil
}

// operations returns the populated operations of a path item in a fixed
// verb order.
func (p *PathItem) operations() []*Operation {
	var ops []*Operation
	for _, op := range []*Operation{p.Get, p.Post, p.Put, p.Patch, p.Delete} {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}
