package openapi

// BearerAuth is the name of the security scheme every document declares
// and that secure routes require.
const BearerAuth = "bearerAuth"

// NewDocument creates an OpenAPI 3.0.0 document with the given metadata.
// Each server URL becomes a Server entry. The schemas are normalized into
// the component schema registry, which stays fixed for the lifetime of
// the document; an error means one of the schema documents is unusable.
// A JWT bearer security scheme named "bearerAuth" is always declared, but
// no document-level security requirement is set.
//
// See: https://spec.openapis.org/oas/v3.0.0#openapi-object
func NewDocument(title, version string, serverURLs []string, description string, schemas []SchemaDoc, opts ...RegistryOption) (*Document, error) {
	registry, err := BuildRegistry(schemas, opts...)
	if err != nil {
		return nil, err
	}

	servers := make([]Server, 0, len(serverURLs))
	for _, url := range serverURLs {
		servers = append(servers, Server{URL: url})
	}

	return &Document{
		OpenAPI: Version,
		Info: Info{
			Title:       title,
			Version:     version,
			Description: description,
		},
		Servers: servers,
		Paths:   make(map[string]*PathItem),
		Components: &Components{
			Schemas: registry,
			SecuritySchemes: map[string]*SecurityScheme{
				BearerAuth: {
					Type:         "http",
					Description:  "Bearer Authentication See RFC 6750",
					Scheme:       "bearer",
					BearerFormat: "JWT",
				},
			},
		},
	}, nil
}

// MustNewDocument is like NewDocument but panics on error. It is meant for
// documents built from schema lists fixed at compile time.
func MustNewDocument(title, version string, serverURLs []string, description string, schemas []SchemaDoc, opts ...RegistryOption) *Document {
	doc, err := NewDocument(title, version, serverURLs, description, schemas, opts...)
	if err != nil {
		panic("openapi: " + err.Error())
	}
	return doc
}

// Schema returns the registered component schema for a title.
func (d *Document) Schema(title string) (SchemaDoc, bool) {
	if d.Components == nil {
		return nil, false
	}
	s, ok := d.Components.Schemas[title]
	return s, ok
}
