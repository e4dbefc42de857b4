package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const extensionPrefix = "x-"

// MarshalJSON encodes the schema with its extensions inlined as top-level keys.
func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	data, err := json.Marshal(plain(s))
	if err != nil || len(s.Extensions) == 0 {
		return data, err
	}

	var merged map[string]any
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extensions {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes a schema, collecting "x-" prefixed keys into Extensions.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type plain Schema
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if !strings.HasPrefix(k, extensionPrefix) {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("extension %s: %w", k, err)
		}
		if p.Extensions == nil {
			p.Extensions = make(map[string]any)
		}
		p.Extensions[k] = val
	}

	*s = Schema(p)
	return nil
}

// Clone returns a deep copy of the schema. Nil schemas clone to nil.
func (s *Schema) Clone() *Schema {
	return s.transform(func(string) bool { return false })
}

// StripExtension returns a deep copy of the schema with every extension named key
// removed, at any depth, including inside nested extension values.
func (s *Schema) StripExtension(key string) *Schema {
	return s.transform(func(k string) bool { return k == key })
}

// Omit returns a deep copy of the schema without the named top-level properties.
// The names are also removed from the required list.
func (s *Schema) Omit(names ...string) *Schema {
	out := s.Clone()
	if out == nil {
		return nil
	}
	for _, name := range names {
		delete(out.Properties, name)
	}
	out.Required = slices.DeleteFunc(out.Required, func(r string) bool {
		return slices.Contains(names, r)
	})
	if len(out.Required) == 0 {
		out.Required = nil
	}
	return out
}

// ArrayOf returns an array schema whose items are a deep copy of s.
func ArrayOf(s *Schema) *Schema {
	return &Schema{Type: "array", Items: s.Clone()}
}

func (s *Schema) transform(drop func(string) bool) *Schema {
	if s == nil {
		return nil
	}

	out := *s
	out.Required = slices.Clone(s.Required)
	out.Enum = cloneSlice(s.Enum, drop)
	out.Default = cloneValue(s.Default, drop)
	out.Example = cloneValue(s.Example, drop)
	out.Minimum = clonePtr(s.Minimum)
	out.Maximum = clonePtr(s.Maximum)
	out.MinLength = clonePtr(s.MinLength)
	out.MaxLength = clonePtr(s.MaxLength)
	out.Items = s.Items.transform(drop)

	if s.OneOf != nil {
		out.OneOf = make([]*Schema, len(s.OneOf))
		for i, alt := range s.OneOf {
			out.OneOf[i] = alt.transform(drop)
		}
	}

	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.transform(drop)
		}
	}

	out.Extensions = nil
	for k, v := range s.Extensions {
		if drop(k) {
			continue
		}
		if out.Extensions == nil {
			out.Extensions = make(map[string]any, len(s.Extensions))
		}
		out.Extensions[k] = cloneValue(v, drop)
	}

	return &out
}

func cloneValue(v any, drop func(string) bool) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if drop(k) {
				continue
			}
			out[k] = cloneValue(val, drop)
		}
		return out
	case []any:
		return cloneSlice(t, drop)
	default:
		return v
	}
}

func cloneSlice(s []any, drop func(string) bool) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = cloneValue(v, drop)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// LoadSchema reads a schema description from a JSON or YAML file.
// The format is inferred from the file extension; anything but .yaml/.yml is read as JSON.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("convert schema %s: %w", path, err)
		}
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	return &s, nil
}
