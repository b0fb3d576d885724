// Package openapi builds OpenAPI 3.0.0 documents from JSON-Schema
// descriptions of types and an explicit list of routes.
//
// See: https://spec.openapis.org/oas/v3.0.0
// See: https://json-schema.org/draft-07/json-schema-core
//
// # Schemas
//
// Every request and response type is described by a raw JSON Schema
// document carrying a string "title". Documents may come from any
// generator; Reflector produces them from Go types:
//
//	r := openapi.NewReflector()
//	schemas, err := openapi.DescribeAll(r, User{}, []User{}, "")
//
// Normalize rewrites a raw document for OpenAPI 3.0, which predates JSON
// Schema type unions:
//
//	{"type": ["string", "null"]}          -> {"type": "string", "nullable": true}
//	{"anyOf": [{"$ref": "#/definitions/A"}, {"type": "null"}]}
//	                                      -> {"anyOf": [{"$ref": "#/components/schemas/A"}], "nullable": true}
//	{"type": ["integer"]}                 -> {"type": "integer"}
//	{"$ref": "#/definitions/IpNet"}       -> {"type": "string"}
//
// Values under enum, const, default, example and examples are data and
// are never rewritten. Keys of properties and definitions maps are names,
// so a property called "type" is left alone.
//
// # Documents
//
// NewDocument builds the component schema registry from the schema
// documents and declares the JWT bearer scheme "bearerAuth":
//
//	doc, err := openapi.NewDocument("Pet Store", "1.0.0",
//	    []string{"https://api.example.com"}, "Pets and owners", schemas)
//
// # Routes
//
// AddRoute registers one operation. Path parameters are inferred from
// every "{name}" segment; types are referenced by title, except "String"
// which is embedded inline:
//
//	err := doc.AddRoute(true, "users", http.MethodGet, "/users/{id}", nil, nil,
//	    []openapi.RouteResponse{{Status: http.StatusOK, Description: "user", Title: "User"}})
//
// Group shares the tag and security flag across routes:
//
//	users := doc.Group("users", true)
//	users.Get("/users", openapi.ResponseFor(http.StatusOK, "all users", listSchema))
//	users.Post("/users", &openapi.RouteBody{Title: "User"},
//	    openapi.ResponseFor(http.StatusCreated, "created", userSchema))
//
// Only GET, POST, PUT, PATCH and DELETE are accepted. Registering the
// same path and method twice keeps the last operation.
//
// # Output
//
// Document marshals with encoding/json; EncodeJSON and EncodeYAML write
// indented JSON and block YAML with identical keys. Validate checks that
// every $ref resolves and runs the OpenAPI 3.0 structural validation of
// github.com/getkin/kin-openapi:
//
//	if err := doc.Validate(ctx); err != nil {
//	    return err
//	}
//
// # Serving
//
// Handle registers the JSON and YAML documents and an interactive docs
// page on a http.ServeMux:
//
//	mux := http.NewServeMux()
//	openapi.Handle(mux, "/swagger", doc, nil)
//
// Serves:
//
//	GET /swagger/              - Swagger UI (or RapiDoc, Redoc via HandleConfig.UI)
//	GET /swagger/openapi.json  - JSON document
//	GET /swagger/openapi.yaml  - YAML document
package openapi
