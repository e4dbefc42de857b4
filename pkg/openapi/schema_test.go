package openapi_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/JaimeStill/crudify/pkg/openapi"
)

func postSchema() *openapi.Schema {
	return &openapi.Schema{
		Type:     "object",
		Required: []string{"title", "author"},
		Properties: map[string]*openapi.Schema{
			"title": {Type: "string"},
			"author": {
				Type:       "string",
				Extensions: map[string]any{"x-ref": "users", "x-label": "Author"},
			},
			"meta": {
				Type: "object",
				Default: map[string]any{
					"x-ref": "nested",
					"kept":  true,
				},
			},
		},
	}
}

func TestSchema_UnmarshalJSON_CollectsExtensions(t *testing.T) {
	var s openapi.Schema
	data := []byte(`{"type":"string","x-ref":"users","description":"Author"}`)

	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if s.Type != "string" || s.Description != "Author" {
		t.Errorf("schema = %+v", s)
	}
	if s.Extensions["x-ref"] != "users" {
		t.Errorf("Extensions[x-ref] = %v, want users", s.Extensions["x-ref"])
	}
}

func TestSchema_Clone_IsDeep(t *testing.T) {
	orig := postSchema()
	clone := orig.Clone()

	clone.Properties["title"].Type = "integer"
	clone.Required[0] = "changed"
	clone.Properties["author"].Extensions["x-ref"] = "changed"

	if orig.Properties["title"].Type != "string" {
		t.Error("Clone shares property schemas")
	}
	if orig.Required[0] != "title" {
		t.Error("Clone shares required slice")
	}
	if orig.Properties["author"].Extensions["x-ref"] != "users" {
		t.Error("Clone shares extensions")
	}
}

func TestSchema_Clone_Nil(t *testing.T) {
	var s *openapi.Schema
	if s.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestSchema_StripExtension(t *testing.T) {
	orig := postSchema()
	stripped := orig.StripExtension("x-ref")

	author := stripped.Properties["author"]
	if _, ok := author.Extensions["x-ref"]; ok {
		t.Error("x-ref not stripped from property")
	}
	if author.Extensions["x-label"] != "Author" {
		t.Error("unrelated extension removed")
	}

	def := stripped.Properties["meta"].Default.(map[string]any)
	if _, ok := def["x-ref"]; ok {
		t.Error("x-ref not stripped from nested value")
	}
	if def["kept"] != true {
		t.Error("nested value lost unrelated key")
	}

	if orig.Properties["author"].Extensions["x-ref"] != "users" {
		t.Error("StripExtension modified the original")
	}
}

func TestSchema_Omit(t *testing.T) {
	out := postSchema().Omit("author", "missing")

	if _, ok := out.Properties["author"]; ok {
		t.Error("author not omitted")
	}
	if !slices.Equal(out.Required, []string{"title"}) {
		t.Errorf("Required = %v, want [title]", out.Required)
	}

	none := postSchema().Omit("title", "author")
	if none.Required != nil {
		t.Errorf("Required = %v, want nil", none.Required)
	}
}

func TestArrayOf(t *testing.T) {
	item := postSchema()
	arr := openapi.ArrayOf(item)

	if arr.Type != "array" {
		t.Errorf("Type = %q, want array", arr.Type)
	}
	if arr.Items == item {
		t.Error("ArrayOf should copy the item schema")
	}
}

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "posts.yaml")
	os.WriteFile(yamlPath, []byte(`
type: object
required: [title]
properties:
  title:
    type: string
  author:
    type: string
    x-ref: users
`), 0644)

	jsonPath := filepath.Join(dir, "posts.json")
	os.WriteFile(jsonPath, []byte(`{"type":"object","properties":{"title":{"type":"string"}}}`), 0644)

	tests := []struct {
		name string
		path string
	}{
		{"yaml", yamlPath},
		{"json", jsonPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := openapi.LoadSchema(tt.path)
			if err != nil {
				t.Fatalf("LoadSchema() error = %v", err)
			}
			if s.Type != "object" {
				t.Errorf("Type = %q, want object", s.Type)
			}
			if s.Properties["title"] == nil {
				t.Error("title property missing")
			}
		})
	}

	s, _ := openapi.LoadSchema(yamlPath)
	if s.Properties["author"].Extensions["x-ref"] != "users" {
		t.Error("YAML extension not preserved")
	}
}

func TestLoadSchema_Missing(t *testing.T) {
	if _, err := openapi.LoadSchema(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("LoadSchema() expected error for missing file")
	}
}
