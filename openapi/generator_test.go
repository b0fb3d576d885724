package openapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenIntrospectorDescribe(t *testing.T) {
	t.Run("flat struct", func(t *testing.T) {
		doc, err := NewGenIntrospector().Describe(Pet{})
		require.NoError(t, err)

		assert.Equal(t, "Pet", doc["title"])
		assert.Equal(t, "object", doc["type"])
		props := doc["properties"].(map[string]any)
		assert.Equal(t, map[string]any{"type": "string"}, props["name"])
		assert.NotContains(t, doc, "definitions")
	})

	t.Run("nested structs become definitions", func(t *testing.T) {
		doc, err := NewGenIntrospector().Describe(&Kennel{})
		require.NoError(t, err)

		assert.Equal(t, "Kennel", doc["title"])
		require.Contains(t, doc, "definitions")
		assert.Contains(t, doc["definitions"], "Sample")

		props := doc["properties"].(map[string]any)
		assert.Equal(t, map[string]any{"$ref": "#/components/schemas/Sample"}, props["resident"])
	})

	t.Run("nil is rejected", func(t *testing.T) {
		_, err := NewGenIntrospector().Describe(nil)
		assert.ErrorIs(t, err, ErrMalformedSchema)
	})

	t.Run("output feeds a valid document", func(t *testing.T) {
		schemas, err := DescribeAll(NewGenIntrospector(), Kennel{})
		require.NoError(t, err)

		doc, err := NewDocument("Kennels", "1.0", nil, "", schemas)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Kennel", "Sample"}, keys(doc.Components.Schemas))

		require.NoError(t, doc.AddRoute(false, "kennels", http.MethodGet, "/kennel", nil, nil,
			[]RouteResponse{{Status: http.StatusOK, Description: "kennel", Title: "Kennel"}}))
		assert.Empty(t, doc.DanglingRefs())
		assert.NoError(t, doc.Validate(context.Background()))
	})
}
