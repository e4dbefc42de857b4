// Package model defines the document model contract that generated routes run against,
// along with the filter, validation and ordering primitives shared by store implementations.
package model

import (
	"context"
	"maps"
	"time"

	"github.com/JaimeStill/crudify/pkg/openapi"
	"github.com/JaimeStill/crudify/pkg/pagination"
)

// Fields assigned by the store rather than the client.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// TimeLayout formats createdAt and updatedAt values.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t in UTC with TimeLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// SystemFields lists the store assigned fields in declaration order.
func SystemFields() []string {
	return []string{FieldID, FieldCreatedAt, FieldUpdatedAt}
}

// Document is a schemaless JSON object.
type Document map[string]any

// ID returns the document identifier, or "" when unset.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

// Apply overwrites top-level fields with the values in patch.
// System fields in patch are ignored.
func (d Document) Apply(patch Document) {
	for k, v := range patch {
		if isSystemField(k) {
			continue
		}
		d[k] = cloneValue(v)
	}
}

// Client returns a copy of the document without system fields.
func (d Document) Client() Document {
	out := maps.Clone(d)
	for _, f := range SystemFields() {
		delete(out, f)
	}
	return out
}

// UpdateOptions control FindOneAndUpdate.
type UpdateOptions struct {
	// ReturnUpdated returns the document after the patch instead of before it.
	ReturnUpdated bool
	// RunValidators validates the patched paths before writing.
	RunValidators bool
}

// Definition declares a model: its name, optional schema and whether the store
// maintains createdAt and updatedAt.
type Definition struct {
	Name       string
	Schema     *openapi.Schema
	Timestamps bool
}

// Model is a handle over one collection of documents.
// Lookups that match nothing return ErrNotFound; rule violations return *ValidationError.
type Model interface {
	Name() string
	Paginate(ctx context.Context, filter Filter, opts pagination.Options) (*pagination.Result[Document], error)
	FindByID(ctx context.Context, id string) (Document, error)
	Validate(ctx context.Context, doc Document) error
	Create(ctx context.Context, doc Document) (Document, error)
	InsertMany(ctx context.Context, docs []Document) ([]Document, error)
	FindOneAndUpdate(ctx context.Context, id string, patch Document, opts UpdateOptions) (Document, error)
	FindOneAndDelete(ctx context.Context, id string) (Document, error)
}

func isSystemField(name string) bool {
	return name == FieldID || name == FieldCreatedAt || name == FieldUpdatedAt
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Document:
		return Document(cloneValue(map[string]any(t)).(map[string]any))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
