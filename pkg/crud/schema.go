package crud

import (
	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/JaimeStill/crudify/pkg/openapi"
)

// RefMarker is the schema extension naming the model a field references.
// It is internal to model declarations and never published.
const RefMarker = "x-ref"

// Schemas are the published variants of a model schema.
type Schemas struct {
	// Create is the request body for POST, without store assigned fields.
	Create *openapi.Schema
	// Single is a stored document.
	Single *openapi.Schema
	// List is an array of Single.
	List *openapi.Schema
}

// DeriveSchemas computes the published variants of s. The input is never modified.
// A nil schema derives nil.
func DeriveSchemas(s *openapi.Schema) *Schemas {
	if s == nil {
		return nil
	}

	single := s.StripExtension(RefMarker)
	return &Schemas{
		Create: single.Omit(model.SystemFields()...),
		Single: single,
		List:   openapi.ArrayOf(single),
	}
}

// page wraps the list schema in the paginated result envelope.
func page(list *openapi.Schema) *openapi.Schema {
	integer := func(desc string) *openapi.Schema {
		return &openapi.Schema{Type: "integer", Description: desc}
	}
	nullableInteger := func(desc string) *openapi.Schema {
		return &openapi.Schema{Type: "integer", Nullable: true, Description: desc}
	}

	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"docs":          list,
			"totalDocs":     integer("Documents matching the filters"),
			"limit":         integer("Page size"),
			"page":          integer("Current page (1-indexed)"),
			"totalPages":    integer("Number of pages"),
			"pagingCounter": integer("Position of the first document on the page"),
			"hasPrevPage":   {Type: "boolean"},
			"hasNextPage":   {Type: "boolean"},
			"prevPage":      nullableInteger("Previous page number"),
			"nextPage":      nullableInteger("Next page number"),
		},
		Required: []string{"docs", "totalDocs", "limit", "page", "totalPages"},
	}
}
