package validation

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	fsys := fstest.MapFS{
		"test.schema.json": &fstest.MapFile{Data: []byte(`{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"age": {"type": "integer", "minimum": 0}
			},
			"required": ["name"]
		}`)},
	}
	v := NewSchemaValidatorFS(fsys)

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{name: "valid data", data: `{"name": "John", "age": 30}`},
		{name: "valid without optional field", data: `{"name": "Jane"}`},
		{name: "missing required field", data: `{"age": 25}`, wantError: true, errorMsg: "required"},
		{name: "wrong type", data: `{"name": "John", "age": "thirty"}`, wantError: true, errorMsg: "type"},
		{name: "negative age", data: `{"name": "John", "age": -1}`, wantError: true, errorMsg: "minimum"},
		{name: "not json", data: `{`, wantError: true, errorMsg: "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.data), "test.schema.json")
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchemaValidator_MissingSchema(t *testing.T) {
	v := NewSchemaValidatorFS(fstest.MapFS{})
	err := v.ValidateBytes([]byte(`{}`), "nope.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestSchemaValidator_EmbeddedSchemas(t *testing.T) {
	v := NewSchemaValidator()

	recipes := `{"version": "1.0", "recipes": [{"id": "plank_box", "result": "box", "category": "other", "components": [[["plank", 4]]]}]}`
	assert.NoError(t, v.ValidateBytes([]byte(recipes), RecipesSchema))
	assert.Error(t, v.ValidateBytes([]byte(`{"version": "1.0", "recipes": [{"id": "x"}]}`), RecipesSchema))

	items := `{"version": "1.0", "items": [{"id": "nails", "name": "nails", "category": "generic"}]}`
	assert.NoError(t, v.ValidateBytes([]byte(items), ItemsSchema))
	assert.Error(t, v.ValidateBytes([]byte(`{"version": "1.0", "items": [{"id": "x", "name": "x", "category": "weapon"}]}`), ItemsSchema))

	traps := `{"version": "1.0", "traps": [{"id": "tr_bubblewrap", "name": "bubble wrap", "action": "bubble"}]}`
	assert.NoError(t, v.ValidateBytes([]byte(traps), TrapsSchema))
}

func TestSchemaValidator_ValidateFile(t *testing.T) {
	v := NewSchemaValidator()
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "1.0", "items": []}`), 0644))

	err := v.ValidateFile(path, ItemsSchema)
	require.Error(t, err, "minItems is 1")

	assert.Error(t, v.ValidateFile(filepath.Join(t.TempDir(), "missing.json"), ItemsSchema))
}

type sample struct {
	Name  string `validate:"required"`
	Kind  string `validate:"oneof=a b"`
	Count int    `validate:"gte=1"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "x", Kind: "a", Count: 1}))

	err := Struct(sample{Kind: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "kind must be one of [a b]")
	assert.Contains(t, err.Error(), "count must be at least 1")
}
