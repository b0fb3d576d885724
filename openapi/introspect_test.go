package openapi

import (
	"net"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Pet struct {
	Name string `json:"name"`
}

type Owner struct {
	ID     uuid.UUID         `json:"id"`
	Name   string            `json:"name" openapi:"description=Display name,minLength=1"`
	Nick   *string           `json:"nick,omitempty"`
	Pet    *Pet              `json:"pet,omitempty"`
	Pets   []Pet             `json:"pets"`
	Net    net.IPNet         `json:"net"`
	Born   time.Time         `json:"born"`
	Labels map[string]string `json:"labels,omitempty"`
	Age    int               `json:"age,string"`
	secret string
}

type Audited struct {
	CreatedAt time.Time `json:"created_at"`
}

type Optional struct {
	Note string `json:"note"`
}

type Account struct {
	Audited
	*Optional
	Role  string `json:"role" openapi:"enum=admin|user,example=user"`
	Level int    `json:"level,omitempty" openapi:"minimum=1,maximum=10,enum=1|5|10"`
	Skip  string `json:"-"`
}

type Sample struct {
	Name string `json:"name"`
}

func (Sample) OpenAPIExample() any {
	return Sample{Name: "Rex"}
}

type Kennel struct {
	Resident Sample `json:"resident"`
}

func TestReflectorDescribe(t *testing.T) {
	t.Run("struct with nested types", func(t *testing.T) {
		doc, err := NewReflector().Describe(Owner{})
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "Owner",
			"type": "object",
			"properties": {
				"id": {"type": "string", "format": "uuid"},
				"name": {"type": "string", "description": "Display name", "minLength": 1},
				"nick": {"type": ["string", "null"]},
				"pet": {"anyOf": [{"$ref": "#/definitions/Pet"}, {"type": "null"}]},
				"pets": {"type": "array", "items": {"$ref": "#/definitions/Pet"}},
				"net": {"$ref": "#/definitions/IpNet"},
				"born": {"type": "string", "format": "date-time"},
				"labels": {"type": "object", "additionalProperties": {"type": "string"}},
				"age": {"type": "string"}
			},
			"required": ["id", "name", "pets", "net", "born", "age"],
			"definitions": {
				"Pet": {"type": "object", "properties": {"name": {"type": "string"}}, "required": ["name"]}
			}
		}`, toJSON(t, doc))
	})

	t.Run("normalized output fits OpenAPI 3.0", func(t *testing.T) {
		doc, err := NewReflector().Describe(&Owner{})
		require.NoError(t, err)

		out, err := Normalize(doc)
		require.NoError(t, err)

		props := out.Fragment["properties"].(map[string]any)
		assert.JSONEq(t, `{"type": "string", "nullable": true}`, toJSON(t, props["nick"]))
		assert.JSONEq(t, `{"anyOf": [{"$ref": "#/components/schemas/Pet"}], "nullable": true}`, toJSON(t, props["pet"]))
		assert.JSONEq(t, `{"type": "array", "items": {"$ref": "#/components/schemas/Pet"}}`, toJSON(t, props["pets"]))
		assert.JSONEq(t, `{"type": "string"}`, toJSON(t, props["net"]))
		assert.NotContains(t, out.Fragment, "$schema")
		assert.Contains(t, out.Definitions, "Pet")
	})

	t.Run("embedded structs and tags", func(t *testing.T) {
		doc, err := NewReflector().Describe(Account{})
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "Account",
			"type": "object",
			"properties": {
				"created_at": {"type": "string", "format": "date-time"},
				"note": {"type": "string"},
				"role": {"type": "string", "enum": ["admin", "user"], "example": "user"},
				"level": {"type": "integer", "minimum": 1, "maximum": 10, "enum": [1, 5, 10]}
			},
			"required": ["created_at", "role"]
		}`, toJSON(t, doc))
	})

	t.Run("primitive roots", func(t *testing.T) {
		r := NewReflector()

		str, err := r.Describe("")
		require.NoError(t, err)
		assert.JSONEq(t, `{"$schema": "http://json-schema.org/draft-07/schema#", "title": "String", "type": "string"}`,
			toJSON(t, str))

		n, err := r.Describe(new(int))
		require.NoError(t, err)
		assert.JSONEq(t, `{"$schema": "http://json-schema.org/draft-07/schema#", "title": "Integer", "type": "integer"}`,
			toJSON(t, n))
	})

	t.Run("slice of structs", func(t *testing.T) {
		doc, err := NewReflector().Describe([]Pet{})
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "Array_of_Pet",
			"type": "array",
			"items": {"$ref": "#/definitions/Pet"},
			"definitions": {
				"Pet": {"type": "object", "properties": {"name": {"type": "string"}}, "required": ["name"]}
			}
		}`, toJSON(t, doc))
	})

	t.Run("examples from Exampler", func(t *testing.T) {
		r := NewReflector()

		root, err := r.Describe(Sample{})
		require.NoError(t, err)
		assert.Equal(t, Sample{Name: "Rex"}, root["example"])

		kennel, err := r.Describe(Kennel{})
		require.NoError(t, err)
		defs := kennel["definitions"].(map[string]SchemaDoc)
		assert.Equal(t, Sample{Name: "Rex"}, defs["Sample"]["example"])
	})

	t.Run("same name from another type gets a package prefix", func(t *testing.T) {
		type Pet struct {
			Kind string `json:"kind"`
		}
		r := NewReflector()

		first, err := r.Describe(Owner{})
		require.NoError(t, err)
		assert.Contains(t, first["definitions"], "Pet")

		second, err := r.Describe(Pet{})
		require.NoError(t, err)
		assert.Equal(t, "OpenapiPet", second["title"])
	})

	t.Run("unsupported values", func(t *testing.T) {
		_, err := NewReflector().Describe(nil)
		assert.ErrorIs(t, err, ErrMalformedSchema)

		_, err = NewReflector().Describe(make(chan int))
		assert.ErrorIs(t, err, ErrMalformedSchema)
	})
}

func TestReflectorTitle(t *testing.T) {
	r := NewReflector()

	tests := []struct {
		value any
		want  string
	}{
		{time.Time{}, "DateTime"},
		{uuid.UUID{}, "Uuid"},
		{net.IP{}, "IpAddr"},
		{netip.Addr{}, "IpAddr"},
		{net.IPNet{}, "IpNet"},
		{netip.Prefix{}, "IpNet"},
		{Owner{}, "Owner"},
		{&Owner{}, "Owner"},
		{true, "Boolean"},
		{int64(0), "Integer"},
		{uint8(0), "Integer"},
		{float32(0), "Number"},
		{"", "String"},
		{[]byte{}, "String"},
		{[]Owner{}, "Array_of_Owner"},
		{[][]string{}, "Array_of_Array_of_String"},
		{map[string]int{}, "Map_of_Integer"},
		{struct{}{}, "AnyValue"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Title(reflect.TypeOf(tt.value)), "%T", tt.value)
	}
}

func TestReflectorMustDescribe(t *testing.T) {
	t.Run("returns the schema document", func(t *testing.T) {
		doc := NewReflector().MustDescribe(Pet{})
		assert.Equal(t, "Pet", doc["title"])
		assert.Equal(t, "object", doc["type"])
	})

	t.Run("panics on nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "openapi: malformed schema: cannot describe nil", func() {
			NewReflector().MustDescribe(nil)
		})
	})
}

func TestDescribeAll(t *testing.T) {
	t.Run("describes in order", func(t *testing.T) {
		docs, err := DescribeAll(NewReflector(), Pet{}, []Pet{}, "")
		require.NoError(t, err)
		require.Len(t, docs, 3)

		assert.Equal(t, "Pet", docs[0]["title"])
		assert.Equal(t, "Array_of_Pet", docs[1]["title"])
		assert.Equal(t, "String", docs[2]["title"])
	})

	t.Run("feeds NewDocument", func(t *testing.T) {
		docs, err := DescribeAll(NewReflector(), Owner{}, "")
		require.NoError(t, err)

		doc, err := NewDocument("T", "1.0", nil, "", docs)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Owner", "Pet", "String"}, keys(doc.Components.Schemas))
	})

	t.Run("stops at the first error", func(t *testing.T) {
		docs, err := DescribeAll(NewReflector(), Pet{}, nil)
		assert.ErrorIs(t, err, ErrMalformedSchema)
		assert.Nil(t, docs)
	})
}

func TestSanitizeSchemaName(t *testing.T) {
	assert.Equal(t, "User", sanitizeSchemaName("User"))
	assert.Equal(t, "PageUser", sanitizeSchemaName("Page[github.com/acme/models.User]"))
	assert.Equal(t, "PageUserList", sanitizeSchemaName("Page[[]models.User]"))
	assert.Equal(t, "Http", pkgPrefix("net/http"))
	assert.Equal(t, "Go_uuid", pkgPrefix("github.com/acme/go-uuid"))
}
