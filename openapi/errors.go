package openapi

import "errors"

var (
	// ErrUnsupportedMethod is returned by ParseMethod and AddRoute for any
	// verb other than GET, POST, PUT, PATCH and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")

	// ErrInvalidStatusCode is returned for response codes outside 100-599.
	ErrInvalidStatusCode = errors.New("invalid HTTP status code")

	// ErrMissingTitle is returned when a schema document has no string title
	// to register it under.
	ErrMissingTitle = errors.New("schema has no title")

	// ErrMalformedSchema is returned when a schema document cannot be parsed
	// or has an unexpected shape.
	ErrMalformedSchema = errors.New("malformed schema")

	// ErrDanglingRef is returned by Validate when a $ref points at a component
	// schema that is not registered.
	ErrDanglingRef = errors.New("unresolved component schema reference")
)
