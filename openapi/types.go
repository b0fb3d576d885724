package openapi

// Version is the only OpenAPI version this package emits.
const Version = "3.0.0"

// SchemaDoc is an untyped JSON Schema tree as produced by encoding/json:
// objects are map[string]any, arrays are []any.
//
// See: https://spec.openapis.org/oas/v3.0.0#schema-object
type SchemaDoc map[string]any

// Document represents the root of an OpenAPI v3.0.0 document.
//
// See: https://spec.openapis.org/oas/v3.0.0#openapi-object
type Document struct {
	OpenAPI      string                `json:"openapi"`
	Info         Info                  `json:"info"`
	Servers      []Server              `json:"servers"`
	Paths        map[string]*PathItem  `json:"paths"`
	Components   *Components           `json:"components,omitempty"`
	Security     []SecurityRequirement `json:"security,omitempty"`
	Tags         []Tag                 `json:"tags,omitempty"`
	ExternalDocs *ExternalDocs         `json:"externalDocs,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#info-object
type Info struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	TermsOfService string   `json:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty"`
	License        *License `json:"license,omitempty"`
	Version        string   `json:"version"`
}

// Contact represents contact information for the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#contact-object
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// License represents license information for the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#license-object
type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Server represents a server.
//
// See: https://spec.openapis.org/oas/v3.0.0#server-object
type Server struct {
	URL         string                     `json:"url"`
	Description string                     `json:"description,omitempty"`
	Variables   map[string]*ServerVariable `json:"variables,omitempty"`
}

// ServerVariable represents a server variable for URL template substitution.
//
// See: https://spec.openapis.org/oas/v3.0.0#server-variable-object
type ServerVariable struct {
	Enum        []string `json:"enum,omitempty"`
	Default     string   `json:"default"`
	Description string   `json:"description,omitempty"`
}

// PathItem describes the operations available on a single path.
// Only the five verbs accepted by ParseMethod can be populated through
// AddRoute.
//
// See: https://spec.openapis.org/oas/v3.0.0#path-item-object
type PathItem struct {
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Get         *Operation   `json:"get,omitempty"`
	Put         *Operation   `json:"put,omitempty"`
	Post        *Operation   `json:"post,omitempty"`
	Delete      *Operation   `json:"delete,omitempty"`
	Patch       *Operation   `json:"patch,omitempty"`
	Parameters  []*Parameter `json:"parameters,omitempty"`
}

// Operation describes a single API operation on a path.
//
// See: https://spec.openapis.org/oas/v3.0.0#operation-object
type Operation struct {
	Tags        []string              `json:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty"`
	Description string                `json:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty"`
	Parameters  []*Parameter          `json:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty"`
	Responses   Responses             `json:"responses"`
	Deprecated  bool                  `json:"deprecated,omitempty"`
	Security    []SecurityRequirement `json:"security,omitempty"`
}

// ParameterLocation is the value of the Parameter "in" field.
type ParameterLocation string

const (
	InQuery  ParameterLocation = "query"
	InHeader ParameterLocation = "header"
	InPath   ParameterLocation = "path"
	InCookie ParameterLocation = "cookie"
)

// Parameter describes a single operation parameter. Parameters with the
// same name and location must be unique within an operation.
//
// See: https://spec.openapis.org/oas/v3.0.0#parameter-object
type Parameter struct {
	Name            string            `json:"name"`
	In              ParameterLocation `json:"in"`
	Description     string            `json:"description,omitempty"`
	Required        bool              `json:"required,omitempty"`
	Deprecated      bool              `json:"deprecated,omitempty"`
	AllowEmptyValue bool              `json:"allowEmptyValue,omitempty"`
	Schema          SchemaDoc         `json:"schema,omitzero"`
}

// RequestBody describes a single request body.
//
// See: https://spec.openapis.org/oas/v3.0.0#request-body-object
type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content"`
	Required    bool                  `json:"required,omitempty"`
}

// Response describes a single response from an API operation.
// The description field is REQUIRED.
//
// See: https://spec.openapis.org/oas/v3.0.0#response-object
type Response struct {
	Description string                `json:"description"`
	Headers     map[string]*Header    `json:"headers,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// MediaType describes a media type with a schema and optional example.
//
// See: https://spec.openapis.org/oas/v3.0.0#media-type-object
type MediaType struct {
	Schema  SchemaDoc `json:"schema,omitzero"`
	Example any       `json:"example,omitempty"`
}

// Header describes a single response header.
//
// See: https://spec.openapis.org/oas/v3.0.0#header-object
type Header struct {
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required,omitempty"`
	Deprecated  bool      `json:"deprecated,omitempty"`
	Schema      SchemaDoc `json:"schema,omitzero"`
}

// Components holds the reusable objects of the document. Schemas is the
// component schema registry; it is filled once by NewDocument.
//
// See: https://spec.openapis.org/oas/v3.0.0#components-object
type Components struct {
	Schemas         map[string]SchemaDoc       `json:"schemas"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty"`
}

// SecurityScheme defines a security scheme used by API operations.
//
// See: https://spec.openapis.org/oas/v3.0.0#security-scheme-object
type SecurityScheme struct {
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	Name         string `json:"name,omitempty"`
	In           string `json:"in,omitempty"`
	Scheme       string `json:"scheme,omitempty"`
	BearerFormat string `json:"bearerFormat,omitempty"`
}

// SecurityRequirement lists required security schemes for an operation.
// Each key maps to a list of scope names, empty for HTTP schemes.
//
// See: https://spec.openapis.org/oas/v3.0.0#security-requirement-object
type SecurityRequirement map[string][]string

// Tag adds metadata to a single tag used by Operation Objects.
//
// See: https://spec.openapis.org/oas/v3.0.0#tag-object
type Tag struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty"`
}

// ExternalDocs allows referencing external documentation.
//
// See: https://spec.openapis.org/oas/v3.0.0#external-documentation-object
type ExternalDocs struct {
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}
