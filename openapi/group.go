package openapi

import "net/http"

// RouteGroup registers routes that share a tag, a security setting and a
// set of non-path parameters. Groups are a registration shortcut only;
// every route ends up as a regular AddRoute call on the parent document.
type RouteGroup struct {
	doc        *Document
	tag        string
	secure     bool
	parameters []*Parameter
}

// Group creates a RouteGroup for the given tag. When secure is set every
// route in the group requires the bearerAuth scheme.
func (d *Document) Group(tag string, secure bool) *RouteGroup {
	return &RouteGroup{doc: d, tag: tag, secure: secure}
}

// Parameter appends a shared parameter applied to every route registered
// afterwards. Path parameters are always inferred from the route path, so
// only query, header and cookie parameters have an effect.
func (g *RouteGroup) Parameter(param *Parameter) *RouteGroup {
	g.parameters = append(g.parameters, param)
	return g
}

// Route registers an operation with the group defaults.
func (g *RouteGroup) Route(method, path string, body *RouteBody, responses ...RouteResponse) error {
	var params []*Parameter
	if len(g.parameters) > 0 {
		params = append(params, g.parameters...)
	}
	return g.doc.AddRoute(g.secure, g.tag, method, path, params, body, responses)
}

// Get registers a GET operation.
func (g *RouteGroup) Get(path string, responses ...RouteResponse) error {
	return g.Route(http.MethodGet, path, nil, responses...)
}

// Delete registers a DELETE operation.
func (g *RouteGroup) Delete(path string, responses ...RouteResponse) error {
	return g.Route(http.MethodDelete, path, nil, responses...)
}

// Post registers a POST operation with an optional request body.
func (g *RouteGroup) Post(path string, body *RouteBody, responses ...RouteResponse) error {
	return g.Route(http.MethodPost, path, body, responses...)
}

// Put registers a PUT operation with an optional request body.
func (g *RouteGroup) Put(path string, body *RouteBody, responses ...RouteResponse) error {
	return g.Route(http.MethodPut, path, body, responses...)
}

// Patch registers a PATCH operation with an optional request body.
func (g *RouteGroup) Patch(path string, body *RouteBody, responses ...RouteResponse) error {
	return g.Route(http.MethodPatch, path, body, responses...)
}
