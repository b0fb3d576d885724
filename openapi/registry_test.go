package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRegistry(t *testing.T) {
	t.Run("registers each document by title", func(t *testing.T) {
		registry, err := BuildRegistry([]SchemaDoc{
			{"title": "User", "type": "object"},
			{"title": "String", "type": "string"},
		})
		require.NoError(t, err)

		assert.Len(t, registry, 2)
		assert.JSONEq(t, `{"title": "User", "type": "object"}`, toJSON(t, registry["User"]))
		assert.JSONEq(t, `{"title": "String", "type": "string"}`, toJSON(t, registry["String"]))
	})

	t.Run("empty input gives an empty registry", func(t *testing.T) {
		registry, err := BuildRegistry(nil)
		require.NoError(t, err)
		assert.NotNil(t, registry)
		assert.Empty(t, registry)
	})

	t.Run("embedded definitions are registered", func(t *testing.T) {
		registry, err := BuildRegistry([]SchemaDoc{{
			"title": "Owner",
			"type":  "object",
			"properties": map[string]any{
				"pet": map[string]any{"$ref": "#/definitions/Pet"},
			},
			"definitions": map[string]any{
				"Pet": map[string]any{"type": "object", "properties": map[string]any{
					"tag": map[string]any{"$ref": "#/definitions/Tag"},
				}},
				"Tag": map[string]any{"type": []any{"string", "null"}},
			},
		}})
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"Owner", "Pet", "Tag"}, keys(registry))
		assert.JSONEq(t, `{"type": "object", "properties": {"tag": {"$ref": "#/components/schemas/Tag"}}}`,
			toJSON(t, registry["Pet"]))
		assert.JSONEq(t, `{"type": "string", "nullable": true}`, toJSON(t, registry["Tag"]))
	})

	t.Run("later title replaces earlier", func(t *testing.T) {
		registry, err := BuildRegistry([]SchemaDoc{
			{"title": "User", "description": "first"},
			{"title": "User", "description": "second"},
		})
		require.NoError(t, err)

		assert.Len(t, registry, 1)
		assert.Equal(t, "second", registry["User"]["description"])
	})

	t.Run("document title wins over its own definition", func(t *testing.T) {
		registry, err := BuildRegistry([]SchemaDoc{{
			"title":       "Node",
			"description": "root",
			"definitions": map[string]any{"Node": map[string]any{"description": "embedded"}},
		}})
		require.NoError(t, err)
		assert.Equal(t, "root", registry["Node"]["description"])
	})

	t.Run("later definition replaces earlier title", func(t *testing.T) {
		registry, err := BuildRegistry([]SchemaDoc{
			{"title": "Pet", "description": "standalone"},
			{"title": "Owner", "definitions": map[string]any{"Pet": map[string]any{"description": "embedded"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, "embedded", registry["Pet"]["description"])
	})

	t.Run("custom inline strings", func(t *testing.T) {
		registry, err := BuildRegistry([]SchemaDoc{{
			"title": "Route",
			"properties": map[string]any{
				"cidr": map[string]any{"$ref": "#/definitions/Cidr"},
				"net":  map[string]any{"$ref": "#/definitions/IpNet"},
			},
		}}, WithInlineStrings("Cidr"))
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"title": "Route",
			"properties": {
				"cidr": {"type": "string"},
				"net": {"$ref": "#/components/schemas/IpNet"}
			}
		}`, toJSON(t, registry["Route"]))
	})

	t.Run("invalid document fails the whole registry", func(t *testing.T) {
		registry, err := BuildRegistry([]SchemaDoc{
			{"title": "User"},
			{"type": "object"},
		})
		assert.ErrorIs(t, err, ErrMissingTitle)
		assert.Nil(t, registry)
	})
}

func keys(m map[string]SchemaDoc) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
