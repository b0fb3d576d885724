package openapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ComponentSchemaPrefix is the $ref base of the component schema registry.
const ComponentSchemaPrefix = "#/components/schemas/"

// definitionPrefixes are the $ref bases used by JSON Schema generators for
// embedded definitions (draft-07 and draft 2020-12).
var definitionPrefixes = []string{"#/definitions/", "#/$defs/"}

// defaultInlineStrings are component names replaced by a plain string
// schema. Network prefixes have no useful structural form in OpenAPI 3.0.
var defaultInlineStrings = []string{"IpNet", "Ipv4Net", "Ipv6Net"}

// singletonKinds are the type names a one-element type array collapses to.
var singletonKinds = map[string]bool{
	"array":   true,
	"object":  true,
	"string":  true,
	"boolean": true,
	"integer": true,
	"number":  true,
}

// valueKeywords hold instance data rather than subschemas and are never
// rewritten.
var valueKeywords = map[string]bool{
	"enum":     true,
	"const":    true,
	"default":  true,
	"example":  true,
	"examples": true,
}

// namedSchemaKeywords map arbitrary names to subschemas, so their keys are
// never interpreted as keywords.
var namedSchemaKeywords = map[string]bool{
	"properties":        true,
	"patternProperties": true,
	"dependentSchemas":  true,
	"definitions":       true,
	"$defs":             true,
}

// NormalizedSchema is a schema document rewritten for OpenAPI 3.0.
type NormalizedSchema struct {
	// Title is the registry key taken from the document's "title".
	Title string

	// Fragment is the rewritten schema without "$schema" and embedded
	// definitions.
	Fragment SchemaDoc

	// Definitions holds the embedded definitions lifted out of the
	// document, rewritten the same way and keyed by definition name.
	Definitions map[string]SchemaDoc
}

// Normalize rewrites a raw schema document into an OpenAPI 3.0 fragment:
// definition references are rebased onto the component registry, "null"
// type unions become "nullable": true, singleton type arrays collapse to
// a bare type, and references to network prefix types become
// {"type":"string"}. The input is not modified. Normalizing a fragment
// that is already normalized returns an identical fragment.
//
// See: https://spec.openapis.org/oas/v3.0.0#schema-object (nullable)
func Normalize(raw SchemaDoc) (*NormalizedSchema, error) {
	return newNormalizer(defaultInlineStrings).normalize(raw)
}

// NormalizeJSON parses a raw schema document and normalizes it.
func NormalizeJSON(data []byte) (*NormalizedSchema, error) {
	var raw SchemaDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	return Normalize(raw)
}

type normalizer struct {
	inline map[string]bool
}

func newNormalizer(inlineStrings []string) *normalizer {
	n := &normalizer{inline: make(map[string]bool, len(inlineStrings))}
	for _, name := range inlineStrings {
		n.inline[name] = true
	}
	return n
}

func (n *normalizer) normalize(raw SchemaDoc) (*NormalizedSchema, error) {
	tree, err := canonicalize(raw)
	if err != nil {
		return nil, err
	}

	title, ok := tree["title"].(string)
	if !ok || title == "" {
		return nil, ErrMissingTitle
	}

	delete(tree, "$schema")
	defs, err := liftDefinitions(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}

	// The root carries a title, so it is never swapped for an inline string.
	out := &NormalizedSchema{
		Title:    title,
		Fragment: n.schema(tree).(map[string]any),
	}

	if len(defs) > 0 {
		out.Definitions = make(map[string]SchemaDoc, len(defs))
		for name, def := range defs {
			switch v := n.schema(def).(type) {
			case map[string]any:
				out.Definitions[name] = v
			default:
				return nil, fmt.Errorf("%w: %s: definition %q is not an object", ErrMalformedSchema, title, name)
			}
		}
	}

	return out, nil
}

// canonicalize deep-copies a schema document into plain encoding/json
// values so typed slices and nested SchemaDoc values are handled uniformly.
func canonicalize(raw SchemaDoc) (map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	if tree == nil {
		return nil, ErrMissingTitle
	}
	return tree, nil
}

// liftDefinitions removes embedded definition maps from the root schema.
func liftDefinitions(tree map[string]any) (map[string]any, error) {
	var defs map[string]any
	for _, key := range []string{"definitions", "$defs"} {
		v, ok := tree[key]
		if !ok {
			continue
		}
		delete(tree, key)
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an object", ErrMalformedSchema, key)
		}
		if defs == nil {
			defs = make(map[string]any, len(m))
		}
		for name, def := range m {
			defs[name] = def
		}
	}
	return defs, nil
}

// schema rewrites a subschema in place (post-order) and returns the value
// that should replace it.
func (n *normalizer) schema(node any) any {
	switch v := node.(type) {
	case []any:
		for i := range v {
			v[i] = n.schema(v[i])
		}
		return v
	case map[string]any:
		for key, child := range v {
			switch {
			case key == "$ref":
				if ref, ok := child.(string); ok {
					v[key] = rebaseRef(ref)
				}
			case valueKeywords[key]:
			case namedSchemaKeywords[key]:
				if named, ok := child.(map[string]any); ok {
					for name, sub := range named {
						named[name] = n.schema(sub)
					}
				}
			default:
				v[key] = n.schema(child)
			}
		}

		collapseNullType(v)
		collapseNullVariant(v, "anyOf")
		collapseNullVariant(v, "oneOf")
		collapseSingletonType(v)

		if n.isInlineString(v) {
			return map[string]any{"type": "string"}
		}
		return v
	}
	return node
}

func rebaseRef(ref string) string {
	for _, prefix := range definitionPrefixes {
		if name, ok := strings.CutPrefix(ref, prefix); ok {
			return ComponentSchemaPrefix + name
		}
	}
	return ref
}

// collapseNullType turns {"type":["string","null"]} into
// {"type":["string"],"nullable":true}. A type array holding only "null"
// is left alone.
func collapseNullType(schema map[string]any) {
	types, ok := schema["type"].([]any)
	if !ok {
		return
	}
	kept, hasNull := dropNull(types, func(v any) bool { return v == "null" })
	if !hasNull || len(kept) == 0 {
		return
	}
	schema["type"] = kept
	schema["nullable"] = true
}

// collapseNullVariant removes a {"type":"null"} branch from anyOf/oneOf and
// marks the owning schema nullable.
func collapseNullVariant(schema map[string]any, key string) {
	variants, ok := schema[key].([]any)
	if !ok {
		return
	}
	kept, hasNull := dropNull(variants, isNullSchema)
	if !hasNull || len(kept) == 0 {
		return
	}
	schema[key] = kept
	schema["nullable"] = true
}

func dropNull(items []any, isNull func(any) bool) ([]any, bool) {
	kept := make([]any, 0, len(items))
	var hasNull bool
	for _, item := range items {
		if isNull(item) {
			hasNull = true
			continue
		}
		kept = append(kept, item)
	}
	return kept, hasNull
}

func isNullSchema(v any) bool {
	m, ok := v.(map[string]any)
	return ok && len(m) == 1 && m["type"] == "null"
}

func collapseSingletonType(schema map[string]any) {
	types, ok := schema["type"].([]any)
	if !ok || len(types) != 1 {
		return
	}
	if kind, ok := types[0].(string); ok && singletonKinds[kind] {
		schema["type"] = kind
	}
}

// isInlineString reports whether schema is exactly a reference to one of
// the inline-string component names.
func (n *normalizer) isInlineString(schema map[string]any) bool {
	if len(schema) != 1 {
		return false
	}
	ref, ok := schema["$ref"].(string)
	if !ok {
		return false
	}
	name, ok := strings.CutPrefix(ref, ComponentSchemaPrefix)
	return ok && n.inline[name]
}
