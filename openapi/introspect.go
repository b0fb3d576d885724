package openapi

import (
	"fmt"
	"net"
	"net/netip"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// draft07 is the "$schema" of documents produced by Reflector.
const draft07 = "http://json-schema.org/draft-07/schema#"

// Introspector produces the raw JSON-Schema-like description of a Go
// value's type. The result must carry a string "title" under which the
// type is registered; nested types live under "definitions" and are
// referenced through "#/definitions/<name>" or "#/components/schemas/<name>".
type Introspector interface {
	Describe(v any) (SchemaDoc, error)
}

// Exampler can be implemented by types to provide an example value
// for the generated JSON Schema. The returned value is set as the "example"
// field on the definition.
//
//	func (u User) OpenAPIExample() any {
//	    return User{ID: "550e8400-e29b-41d4-a716-446655440000", Name: "Alice"}
//	}
type Exampler interface {
	OpenAPIExample() any
}

var (
	timeType   = reflect.TypeOf(time.Time{})
	uuidType   = reflect.TypeOf(uuid.UUID{})
	ipType     = reflect.TypeOf(net.IP{})
	ipNetType  = reflect.TypeOf(net.IPNet{})
	addrType   = reflect.TypeOf(netip.Addr{})
	prefixType = reflect.TypeOf(netip.Prefix{})
)

// Reflector is an Introspector based on reflection and struct tags. Field
// names follow encoding/json tags, fields without omitempty are required,
// and the `openapi` tag adds constraints (see applyOpenAPITag). Pointers
// are nullable and expressed the JSON Schema way, as a ["T","null"] type
// array or an anyOf with a {"type":"null"} branch.
//
// Names chosen for struct types are kept across Describe calls, so two
// types from different packages sharing a name get distinct titles.
type Reflector struct {
	defs      map[string]SchemaDoc
	visited   map[reflect.Type]bool
	typeNames map[reflect.Type]string // type -> chosen schema name
	nameTypes map[string]reflect.Type // schema name -> type that claimed it
}

// NewReflector creates a new reflection-based introspector.
func NewReflector() *Reflector {
	return &Reflector{
		typeNames: make(map[reflect.Type]string),
		nameTypes: make(map[string]reflect.Type),
	}
}

// Describe returns the schema document for the type of v. Named struct
// types are described inline at the root; nested named structs go into
// "definitions".
func (r *Reflector) Describe(v any) (SchemaDoc, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: cannot describe nil", ErrMalformedSchema)
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.defs = make(map[string]SchemaDoc)
	r.visited = make(map[reflect.Type]bool)

	var root SchemaDoc
	if r.isNamedStruct(t) {
		r.visited[t] = true
		root = r.structSchema(t)
		if ex, ok := reflect.New(t).Interface().(Exampler); ok {
			root["example"] = ex.OpenAPIExample()
		}
	} else {
		root = r.generateType(t)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: unsupported type %s", ErrMalformedSchema, t)
	}

	doc := SchemaDoc{"$schema": draft07, "title": r.Title(t)}
	for k, val := range root {
		doc[k] = val
	}
	if len(r.defs) > 0 {
		doc["definitions"] = r.defs
	}
	return doc, nil
}

// DescribeAll describes every value in order, ready for NewDocument.
func DescribeAll(in Introspector, values ...any) ([]SchemaDoc, error) {
	docs := make([]SchemaDoc, 0, len(values))
	for _, v := range values {
		doc, err := in.Describe(v)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// MustDescribe is like Describe but panics on error.
func (r *Reflector) MustDescribe(v any) SchemaDoc {
	doc, err := r.Describe(v)
	if err != nil {
		panic("openapi: " + err.Error())
	}
	return doc
}

// Title returns the registry title used for a type.
func (r *Reflector) Title(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case timeType:
		return "DateTime"
	case uuidType:
		return "Uuid"
	case ipType, addrType:
		return "IpAddr"
	case ipNetType, prefixType:
		return "IpNet"
	}

	if r.isNamedStruct(t) {
		return r.schemaName(t)
	}

	switch t.Kind() {
	case reflect.Bool:
		return "Boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Integer"
	case reflect.Float32, reflect.Float64:
		return "Number"
	case reflect.String:
		return StringTitle
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return StringTitle
		}
		return "Array_of_" + r.Title(t.Elem())
	case reflect.Map:
		return "Map_of_" + r.Title(t.Elem())
	}
	return "AnyValue"
}

func (r *Reflector) isNamedStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Name() != "" && t.PkgPath() != "" &&
		t != timeType && t != ipNetType && t != prefixType && t != addrType
}

// generateType produces a schema for the given Go type, using a definition
// reference for named struct types and inline schemas for everything else.
func (r *Reflector) generateType(t reflect.Type) SchemaDoc {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	var schema SchemaDoc
	switch {
	case t == ipNetType || t == prefixType:
		schema = SchemaDoc{"$ref": "#/definitions/IpNet"}
	case r.isNamedStruct(t):
		name := r.schemaName(t)
		if !r.visited[t] {
			r.visited[t] = true
			def := r.structSchema(t)
			if ex, ok := reflect.New(t).Interface().(Exampler); ok {
				def["example"] = ex.OpenAPIExample()
			}
			r.defs[name] = def
		}
		schema = SchemaDoc{"$ref": "#/definitions/" + name}
	default:
		schema = r.generateInlineType(t)
	}

	if nullable && schema != nil {
		return applyNullable(schema)
	}
	return schema
}

// generateInlineType maps Go primitive and composite types to JSON Schema types.
func (r *Reflector) generateInlineType(t reflect.Type) SchemaDoc {
	switch t {
	case timeType:
		return SchemaDoc{"type": "string", "format": "date-time"}
	case uuidType:
		return SchemaDoc{"type": "string", "format": "uuid"}
	case ipType, addrType:
		return SchemaDoc{"type": "string"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return SchemaDoc{"type": "boolean"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return SchemaDoc{"type": "integer"}

	case reflect.Float32, reflect.Float64:
		return SchemaDoc{"type": "number"}

	case reflect.String:
		return SchemaDoc{"type": "string"}

	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return SchemaDoc{"type": "string", "format": "byte"}
		}
		schema := SchemaDoc{"type": "array"}
		if items := r.generateType(t.Elem()); items != nil {
			schema["items"] = items
		}
		return schema

	case reflect.Map:
		schema := SchemaDoc{"type": "object"}
		if t.Key().Kind() == reflect.String {
			if values := r.generateType(t.Elem()); values != nil {
				schema["additionalProperties"] = values
			}
		}
		return schema

	case reflect.Struct:
		return r.structSchema(t)

	case reflect.Interface:
		return SchemaDoc{}
	}

	return nil
}

// structSchema builds an object schema from struct fields.
func (r *Reflector) structSchema(t reflect.Type) SchemaDoc {
	props := make(map[string]any)
	var required []string
	r.collectFields(t, props, &required, false)

	schema := SchemaDoc{"type": "object"}
	if len(props) > 0 {
		schema["properties"] = props
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// collectFields recursively collects struct fields. When allOptional is
// true, all fields are treated as optional regardless of their json tags;
// this is used for pointer-embedded structs whose fields may all be absent.
func (r *Reflector) collectFields(t reflect.Type, props map[string]any, required *[]string, allOptional bool) {
	for i := range t.NumField() {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		// encoding/json inlines an anonymous struct field only when the
		// field has no explicit json name.
		if field.Anonymous {
			jsonName, _ := parseJSONTag(field.Tag.Get("json"))
			if jsonName == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					r.collectFields(ft, props, required, allOptional || isPtr)
					continue
				}
			}
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, opts := parseJSONTag(jsonTag)
		if name == "" {
			name = field.Name
		}

		fieldSchema := r.generateType(field.Type)
		if fieldSchema == nil {
			continue
		}

		if _, isRef := fieldSchema["$ref"]; !isRef {
			applyOpenAPITag(fieldSchema, field.Tag.Get("openapi"))
		}

		// The encoding/json ",string" option encodes numbers and booleans as
		// JSON strings.
		if opts.stringEncode {
			applyStringEncoding(fieldSchema)
		}

		props[name] = fieldSchema

		if !opts.omitempty && !allOptional {
			*required = append(*required, name)
		}
	}
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool
}

func parseJSONTag(tag string) (string, jsonTagOpts) {
	if tag == "" {
		return "", jsonTagOpts{}
	}
	name, rest, _ := strings.Cut(tag, ",")
	return name, jsonTagOpts{
		omitempty:    strings.Contains(rest, "omitempty") || strings.Contains(rest, "omitzero"),
		stringEncode: strings.Contains(rest, "string"),
	}
}

// applyOpenAPITag parses the `openapi` struct tag and applies constraints
// to the schema:
//
//	Name string `json:"name" openapi:"description=Display name,minLength=1,maxLength=64"`
//	Role string `json:"role" openapi:"enum=admin|user"`
func applyOpenAPITag(schema SchemaDoc, tag string) {
	if tag == "" {
		return
	}

	for part := range strings.SplitSeq(tag, ",") {
		key, value, hasValue := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if hasValue {
			value = strings.TrimSpace(value)
		}

		switch key {
		case "description", "format", "pattern", "title":
			schema[key] = value
		case "example":
			schema[key] = parseExampleValue(schema, value)
		case "minimum", "maximum", "multipleOf":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema[key] = v
			}
		case "minLength", "maxLength", "minItems", "maxItems", "minProperties", "maxProperties":
			if v, err := strconv.Atoi(value); err == nil {
				schema[key] = v
			}
		case "enum":
			values := strings.Split(value, "|")
			enum := make([]any, len(values))
			for i, v := range values {
				enum[i] = parseExampleValue(schema, v)
			}
			schema[key] = enum
		case "deprecated", "readOnly", "writeOnly", "uniqueItems":
			schema[key] = true
		}
	}
}

// parseExampleValue converts a string tag value to the Go type matching the
// schema's (first) type.
func parseExampleValue(schema SchemaDoc, value string) any {
	switch schemaKind(schema) {
	case "integer":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return value
}

func schemaKind(schema SchemaDoc) string {
	switch v := schema["type"].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			s, _ := v[0].(string)
			return s
		}
	}
	return ""
}

// schemaName returns a unique schema name for the given type. If two types
// from different packages share the same simple name (e.g., models.User and
// api.User), the second type gets a qualified name using its package's last
// path segment as a prefix (e.g., "ApiUser"). When the prefixed name still
// collides, a numeric suffix is appended (e.g., "ApiUser2").
func (r *Reflector) schemaName(t reflect.Type) string {
	if name, ok := r.typeNames[t]; ok {
		return name
	}

	simple := sanitizeSchemaName(t.Name())
	name := simple
	if existing, ok := r.nameTypes[name]; ok && existing != t {
		name = pkgPrefix(t.PkgPath()) + simple
		if existing, ok := r.nameTypes[name]; ok && existing != t {
			base := name
			for i := 2; ; i++ {
				candidate := base + strconv.Itoa(i)
				if _, ok := r.nameTypes[candidate]; !ok {
					name = candidate
					break
				}
			}
		}
	}

	r.typeNames[t] = name
	r.nameTypes[name] = t
	return name
}

// pkgPrefix extracts the last segment of a Go package path and capitalizes
// it for use as a schema name prefix (e.g., "net/http" -> "Http").
func pkgPrefix(pkgPath string) string {
	if idx := strings.LastIndexByte(pkgPath, '/'); idx >= 0 {
		pkgPath = pkgPath[idx+1:]
	}
	if len(pkgPath) == 0 {
		return ""
	}
	pkgPath = strings.ReplaceAll(pkgPath, "-", "_")
	pkgPath = strings.ReplaceAll(pkgPath, ".", "_")
	return strings.ToUpper(pkgPath[:1]) + pkgPath[1:]
}

// sanitizeSchemaName cleans up Go type names for use as component schema
// keys. Generic type names like "Page[User]" become "PageUser" and
// "Page[[]User]" becomes "PageUserList". Package paths in type parameters
// are stripped.
func sanitizeSchemaName(name string) string {
	idx := strings.IndexByte(name, '[')
	if idx < 0 {
		return name
	}

	base := name[:idx]
	inner := name[idx+1 : len(name)-1]

	isList := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")

	if dot := strings.LastIndexByte(inner, '.'); dot >= 0 {
		inner = inner[dot+1:]
	}

	result := base + inner
	if isList {
		result += "List"
	}

	return result
}

// applyNullable makes a schema accept null: a plain type becomes a
// ["T","null"] type array, a reference is wrapped in anyOf with a null
// branch.
func applyNullable(schema SchemaDoc) SchemaDoc {
	if _, isRef := schema["$ref"]; isRef {
		return SchemaDoc{"anyOf": []any{schema, SchemaDoc{"type": "null"}}}
	}
	if kind, ok := schema["type"].(string); ok {
		schema["type"] = []any{kind, "null"}
	}
	return schema
}

// applyStringEncoding overrides the schema type to "string" to match the
// encoding/json ",string" tag option. Nullable types keep the null variant.
func applyStringEncoding(schema SchemaDoc) {
	switch v := schema["type"].(type) {
	case string:
		schema["type"] = "string"
	case []any:
		for _, item := range v {
			if item == "null" {
				schema["type"] = []any{"string", "null"}
				return
			}
		}
		schema["type"] = "string"
	}
}
