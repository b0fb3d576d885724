package openapi

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// GenIntrospector describes types with kin-openapi's openapi3gen. Its
// output is already OpenAPI 3.0 shaped: nested named structs are exported
// as component schemas and carried under "definitions", references point
// at "#/components/schemas/<name>". Unlike Reflector it does not read the
// openapi struct tag or Exampler.
type GenIntrospector struct {
	titles *Reflector
	opts   []openapi3gen.Option
}

// NewGenIntrospector creates an introspector backed by openapi3gen. Extra
// options are applied after the component schema export option.
func NewGenIntrospector(opts ...openapi3gen.Option) *GenIntrospector {
	defaults := []openapi3gen.Option{
		openapi3gen.CreateComponentSchemas(openapi3gen.ExportComponentSchemasOptions{
			ExportComponentSchemas: true,
		}),
	}
	return &GenIntrospector{
		titles: NewReflector(),
		opts:   append(defaults, opts...),
	}
}

// Describe returns the schema document for the type of v.
func (g *GenIntrospector) Describe(v any) (SchemaDoc, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: cannot describe nil", ErrMalformedSchema)
	}

	// A generator accumulates refs across calls; use a fresh one each time.
	gen := openapi3gen.NewGenerator(g.opts...)
	components := make(openapi3.Schemas)

	ref, err := gen.NewSchemaRefForValue(v, components)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: unsupported type %T", ErrMalformedSchema, v)
	}

	doc, err := schemaDocOf(ref.Value)
	if err != nil {
		return nil, err
	}
	doc["title"] = g.titles.Title(reflect.TypeOf(v))

	if len(components) > 0 {
		defs := make(map[string]any, len(components))
		for name, component := range components {
			if component == nil || component.Value == nil {
				continue
			}
			def, err := schemaDocOf(component.Value)
			if err != nil {
				return nil, err
			}
			defs[strings.TrimPrefix(name, ComponentSchemaPrefix)] = def
		}
		doc["definitions"] = defs
	}
	return doc, nil
}

func schemaDocOf(schema *openapi3.Schema) (SchemaDoc, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	var doc SchemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	return doc, nil
}
