package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func storedUsers(t *testing.T, configFile string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(filepath.Dir(configFile), "data", "users.json"))
	if err != nil {
		t.Fatalf("read store: %v", err)
	}

	var file struct {
		Documents []map[string]any `json:"documents"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("decode store: %v", err)
	}
	return file.Documents
}

func TestSeedCommand(t *testing.T) {
	path := writeConfig(t, getAvailablePort(t))
	dir := t.TempDir()
	t.Cleanup(func() { configPath = "" })

	array := filepath.Join(dir, "users.json")
	os.WriteFile(array, []byte(`[{"name": "Ada"}, {"name": "Grace"}]`), 0o644)

	single := filepath.Join(dir, "user.yaml")
	os.WriteFile(single, []byte("name: Linus\n"), 0o644)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"seed", "-c", path, "users", array})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "seeded 2 users" {
		t.Errorf("output = %q", got)
	}

	out.Reset()
	rootCmd.SetArgs([]string{"seed", "-c", path, "users", single})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	docs := storedUsers(t, path)
	if len(docs) != 3 {
		t.Fatalf("stored %d documents, want 3", len(docs))
	}
	for _, doc := range docs {
		if doc["_id"] == nil {
			t.Errorf("document without id: %v", doc)
		}
	}
}

func TestSeedCommand_Errors(t *testing.T) {
	path := writeConfig(t, getAvailablePort(t))
	dir := t.TempDir()
	t.Cleanup(func() { configPath = "" })

	valid := filepath.Join(dir, "valid.json")
	os.WriteFile(valid, []byte(`{"name": "Ada"}`), 0o644)

	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`[{"name": "Ada"}, {"age": 3}]`), 0o644)

	scalar := filepath.Join(dir, "scalar.json")
	os.WriteFile(scalar, []byte(`42`), 0o644)

	mixed := filepath.Join(dir, "mixed.json")
	os.WriteFile(mixed, []byte(`[{"name": "Ada"}, "Grace"]`), 0o644)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown model", []string{"posts", valid}},
		{"missing file", []string{"users", filepath.Join(dir, "missing.json")}},
		{"invalid document", []string{"users", invalid}},
		{"scalar", []string{"users", scalar}},
		{"non-object item", []string{"users", mixed}},
		{"missing args", []string{"users"}},
	}

	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(append([]string{"seed", "-c", path}, tt.args...))
			if err := rootCmd.Execute(); err == nil {
				t.Error("Execute() expected error")
			}
		})
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "data", "users.json")); err == nil {
		if docs := storedUsers(t, path); len(docs) != 0 {
			t.Errorf("stored %d documents after failed seeds, want 0", len(docs))
		}
	}
}
