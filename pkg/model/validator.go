package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/JaimeStill/crudify/pkg/openapi"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Validator enforces a model schema on documents.
// Required fields reject missing, null and empty string values. Every other rule
// of the declared schema is checked through JSON Schema validation.
type Validator struct {
	model      string
	required   []string
	document   *jsonschema.Schema
	properties map[string]*jsonschema.Schema
	printer    *message.Printer
}

// NewValidator compiles schema for the named model. A nil schema accepts every document.
// Store assigned fields are exempt from the required rule.
func NewValidator(name string, schema *openapi.Schema) (*Validator, error) {
	v := &Validator{
		model:      name,
		properties: make(map[string]*jsonschema.Schema),
		printer:    message.NewPrinter(language.English),
	}
	if schema == nil {
		return v, nil
	}

	v.required = slices.DeleteFunc(slices.Clone(schema.Required), isSystemField)

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode %s schema: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s schema: %w", name, err)
	}
	if root, ok := doc.(map[string]any); ok {
		delete(root, "required")
	}
	normalize(doc)

	loc := name + ".schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("load %s schema: %w", name, err)
	}

	if v.document, err = c.Compile(loc); err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	for prop := range schema.Properties {
		ptr := loc + "#/properties/" + url.PathEscape(escapePointer(prop))
		compiled, err := c.Compile(ptr)
		if err != nil {
			return nil, fmt.Errorf("compile %s.%s schema: %w", name, prop, err)
		}
		v.properties[prop] = compiled
	}

	return v, nil
}

// Validate checks a full document.
func (v *Validator) Validate(doc Document) error {
	var fields []FieldError
	for _, name := range v.required {
		if empty(doc[name]) {
			fields = append(fields, v.requiredError(name))
		}
	}

	if v.document != nil {
		if err := v.document.Validate(map[string]any(doc.Client())); err != nil {
			fields = append(fields, v.translate("", err)...)
		}
	}

	return v.result(fields)
}

// ValidateUpdate checks only the paths present in patch.
func (v *Validator) ValidateUpdate(patch Document) error {
	var fields []FieldError
	for _, name := range v.required {
		if val, ok := patch[name]; ok && empty(val) {
			fields = append(fields, v.requiredError(name))
		}
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		sch, ok := v.properties[k]
		if !ok || isSystemField(k) || (slices.Contains(v.required, k) && empty(patch[k])) {
			continue
		}
		if err := sch.Validate(patch[k]); err != nil {
			fields = append(fields, v.translate(k, err)...)
		}
	}

	return v.result(fields)
}

func (v *Validator) result(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Model: v.model, Fields: fields}
}

func (v *Validator) requiredError(path string) FieldError {
	return FieldError{
		Path:    path,
		Kind:    KindRequired,
		Message: fmt.Sprintf("Path `%s` is required.", path),
	}
}

func (v *Validator) translate(prefix string, err error) []FieldError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []FieldError{{Path: prefix, Kind: KindInvalid, Message: err.Error()}}
	}

	var fields []FieldError
	v.collect(prefix, ve, &fields)
	return fields
}

func (v *Validator) collect(prefix string, ve *jsonschema.ValidationError, out *[]FieldError) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			v.collect(prefix, cause, out)
		}
		return
	}

	path := joinPath(prefix, ve.InstanceLocation)

	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		for _, missing := range k.Missing {
			*out = append(*out, v.requiredError(joinPath(path, []string{missing})))
		}
	case *kind.Type:
		*out = append(*out, FieldError{Path: path, Kind: KindType, Message: ve.ErrorKind.LocalizedString(v.printer)})
	default:
		*out = append(*out, FieldError{Path: path, Kind: KindInvalid, Message: ve.ErrorKind.LocalizedString(v.printer)})
	}
}

// normalize rewrites OpenAPI "nullable" into a JSON Schema type union.
func normalize(v any) {
	switch t := v.(type) {
	case map[string]any:
		if nullable, ok := t["nullable"].(bool); ok {
			if typ, isString := t["type"].(string); nullable && isString {
				t["type"] = []any{typ, "null"}
			}
			delete(t, "nullable")
		}
		for _, child := range t {
			normalize(child)
		}
	case []any:
		for _, child := range t {
			normalize(child)
		}
	}
}

func empty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func joinPath(prefix string, segments []string) string {
	parts := make([]string, 0, len(segments)+1)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, segments...)
	return strings.Join(parts, ".")
}

func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
