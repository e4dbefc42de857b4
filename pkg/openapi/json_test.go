package openapi_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/crudify/pkg/openapi"
	"gopkg.in/yaml.v3"
)

func testSpec() *openapi.Spec {
	spec := openapi.NewSpec("Test API", "1.0.0")
	spec.AddOperation("/users", "GET", &openapi.Operation{
		Summary: "List users",
		Responses: map[int]*openapi.Response{
			200: {Description: "Success"},
		},
	})
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Posts": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"author": {Type: "string", Extensions: map[string]any{"x-ref": "users"}},
			},
		},
	})
	return spec
}

func TestMarshalJSON(t *testing.T) {
	data, err := openapi.MarshalJSON(testSpec())
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if result["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v, want 3.1.0", result["openapi"])
	}

	info, ok := result["info"].(map[string]any)
	if !ok {
		t.Fatal("info is not an object")
	}

	if info["title"] != "Test API" {
		t.Errorf("info.title = %v, want Test API", info["title"])
	}

	if !strings.Contains(string(data), `"x-ref": "users"`) {
		t.Error("extension x-ref not inlined in output")
	}
}

func TestWriteJSON(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "openapi.json")

	if err := openapi.WriteJSON(testSpec(), filePath); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
}

func TestWriteJSON_InvalidPath(t *testing.T) {
	err := openapi.WriteJSON(testSpec(), "/nonexistent/directory/openapi.json")
	if err == nil {
		t.Error("WriteJSON() expected error for invalid path, got nil")
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := openapi.EncodeYAML(testSpec(), &buf); err != nil {
		t.Fatalf("EncodeYAML() error = %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}

	if doc["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v, want 3.1.0", doc["openapi"])
	}
	if !strings.Contains(buf.String(), "x-ref: users") {
		t.Error("extension x-ref missing from YAML output")
	}
}

func TestServeSpec(t *testing.T) {
	body := []byte(`{"openapi":"3.1.0"}`)
	rec := httptest.NewRecorder()

	openapi.ServeSpec(body)(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != string(body) {
		t.Errorf("body = %q", rec.Body.String())
	}
}
