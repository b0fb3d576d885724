package openapi

import (
	"fmt"
	"strings"
)

// StringTitle is the schema title that is embedded inline instead of
// being referenced through the component registry.
const StringTitle = "String"

const jsonContentType = "application/json"

// pathParamTrim are the characters stripped from a path segment to obtain
// the parameter name. ':' covers the legacy ":name" form.
const pathParamTrim = ":{}"

// RouteResponse describes one response of a route: the status code (or
// StatusDefault), a description, the title of the response type and its
// raw schema. Schema is only used when Title is "String".
type RouteResponse struct {
	Status      int
	Description string
	Title       string
	Schema      SchemaDoc
}

// RouteBody describes the request body of a route by the title of
// its type. The content map is always generated.
type RouteBody struct {
	Title       string
	Description string
}

// ResponseFor builds a RouteResponse whose title is taken from the schema
// document, the way the document would be registered.
func ResponseFor(status int, description string, schema SchemaDoc) RouteResponse {
	title, _ := schema["title"].(string)
	return RouteResponse{
		Status:      status,
		Description: description,
		Title:       title,
		Schema:      schema,
	}
}

// BodyFor builds a RouteBody from a schema document title.
func BodyFor(schema SchemaDoc) *RouteBody {
	title, _ := schema["title"].(string)
	return &RouteBody{Title: title}
}

// AddRoute registers one operation on the document. The path item for
// path is created on first use and shared by later calls. Path parameters
// are inferred from every segment containing "{"; params may add query,
// header or cookie parameters, path parameters in it are ignored. Request
// and response types titled "String" are embedded inline, every other
// title becomes a $ref into the component registry. When secure is set
// the operation requires the bearerAuth scheme.
//
// Registering the same path and method again replaces the operation.
// Methods other than GET, POST, PUT, PATCH and DELETE fail with
// ErrUnsupportedMethod and leave the document untouched.
//
// See: https://spec.openapis.org/oas/v3.0.0#operation-object
func (d *Document) AddRoute(secure bool, tag, method, path string, params []*Parameter, body *RouteBody, responses []RouteResponse) error {
	m, err := ParseMethod(method)
	if err != nil {
		return err
	}

	op := &Operation{
		Tags:       []string{tag},
		Parameters: mergeParameters(parsePath(path), params),
	}

	for _, rs := range responses {
		resp := &Response{
			Description: rs.Description,
			Content: map[string]*MediaType{
				jsonContentType: {Schema: schemaFor(rs.Title, rs.Schema)},
			},
		}
		if err := op.Responses.set(rs.Status, resp); err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	if body != nil {
		op.RequestBody = &RequestBody{
			Description: body.Description,
			Required:    true,
			Content: map[string]*MediaType{
				jsonContentType: {Schema: schemaFor(body.Title, SchemaDoc{"type": "string"})},
			},
		}
	}

	if secure {
		op.Security = []SecurityRequirement{{BearerAuth: {}}}
	}

	if d.Paths == nil {
		d.Paths = make(map[string]*PathItem)
	}
	pathItem, ok := d.Paths[path]
	if !ok {
		pathItem = &PathItem{}
		d.Paths[path] = pathItem
	}
	m.assign(pathItem, op)

	return nil
}

// schemaFor returns the inline schema for the String title and a
// component reference for anything else. A String title without a schema
// falls back to a plain string.
func schemaFor(title string, inline SchemaDoc) SchemaDoc {
	if title == StringTitle {
		if inline == nil {
			return SchemaDoc{"type": "string"}
		}
		return inline
	}
	return SchemaDoc{"$ref": ComponentSchemaPrefix + title}
}

// parsePath generates one required string path parameter for each path
// segment containing "{", in segment order.
//
// See: https://spec.openapis.org/oas/v3.0.0#path-templating
func parsePath(path string) []*Parameter {
	var params []*Parameter
	for _, segment := range strings.Split(path, "/") {
		if !strings.Contains(segment, "{") {
			continue
		}
		name := strings.Trim(segment, pathParamTrim)
		params = append(params, &Parameter{
			Name:        name,
			In:          InPath,
			Description: fmt.Sprintf("use %s parameter", name),
			Required:    true,
			Schema:      SchemaDoc{"type": "string"},
		})
	}
	return params
}

// mergeParameters appends the caller parameters to the inferred path
// parameters. Caller parameters located in the path are dropped because
// the path template is the only source of path parameters.
func mergeParameters(pathParams, custom []*Parameter) []*Parameter {
	merged := pathParams
	for _, p := range custom {
		if p == nil || p.In == InPath {
			continue
		}
		merged = append(merged, p)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
