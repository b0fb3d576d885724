package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Validate checks that every component schema reference resolves to a
// registered schema and that the serialized document is a valid OpenAPI
// 3.0 document.
func (d *Document) Validate(ctx context.Context) error {
	if missing := d.DanglingRefs(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrDanglingRef, strings.Join(missing, ", "))
	}

	data, err := json.Marshal(d)
	if err != nil {
		return err
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loaded, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if err := loaded.Validate(ctx); err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	return nil
}

// DanglingRefs returns the sorted names of component schemas that are
// referenced from paths or from the registry itself but not registered.
func (d *Document) DanglingRefs() []string {
	var registered map[string]SchemaDoc
	if d.Components != nil {
		registered = d.Components.Schemas
	}

	seen := make(map[string]bool)
	visit := func(schema SchemaDoc) {
		collectRefs(map[string]any(schema), seen)
	}

	for _, schema := range registered {
		visit(schema)
	}
	for _, pathItem := range d.Paths {
		for _, p := range pathItem.Parameters {
			visit(p.Schema)
		}
		for _, op := range pathItem.operations() {
			for _, p := range op.Parameters {
				visit(p.Schema)
			}
			if op.RequestBody != nil {
				for _, mt := range op.RequestBody.Content {
					visit(mt.Schema)
				}
			}
			responses := make([]*Response, 0, op.Responses.Len())
			for _, resp := range op.Responses.Codes {
				responses = append(responses, resp)
			}
			if op.Responses.Default != nil {
				responses = append(responses, op.Responses.Default)
			}
			for _, resp := range responses {
				for _, mt := range resp.Content {
					visit(mt.Schema)
				}
			}
		}
	}

	var missing []string
	for name := range seen {
		if _, ok := registered[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// collectRefs records the component names of every $ref below node.
// Value keywords are skipped like in the normalizer.
func collectRefs(node any, seen map[string]bool) {
	switch v := node.(type) {
	case SchemaDoc:
		collectRefs(map[string]any(v), seen)
	case map[string]any:
		for key, child := range v {
			switch {
			case key == "$ref":
				if ref, ok := child.(string); ok {
					if name, ok := strings.CutPrefix(ref, ComponentSchemaPrefix); ok {
						seen[name] = true
					}
				}
			case valueKeywords[key]:
			case namedSchemaKeywords[key]:
				named, ok := child.(map[string]any)
				if s, isDoc := child.(SchemaDoc); isDoc {
					named, ok = s, true
				}
				if ok {
					for _, sub := range named {
						collectRefs(sub, seen)
					}
				}
			default:
				collectRefs(child, seen)
			}
		}
	case []any:
		for _, item := range v {
			collectRefs(item, seen)
		}
	}
}
