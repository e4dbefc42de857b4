package crud

import "github.com/JaimeStill/crudify/pkg/openapi"

// spec holds OpenAPI operation definitions for one generated resource.
type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
}

// newSpec builds the operations for a resource published under component.
// Without schemas the operations carry no request or response schemas.
func newSpec(component string, schemas *Schemas) spec {
	withSchema := schemas != nil

	respond := func(desc, schema string) *openapi.Response {
		if !withSchema {
			return &openapi.Response{Description: desc}
		}
		return openapi.ResponseJSON(desc, schema)
	}

	s := spec{
		List: &openapi.Operation{
			Summary:     "List " + component,
			Description: "Returns matching documents in a paginated envelope",
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("filters", "string", `JSON object of field filters. String values written as "/expr/" match case-insensitively`, false),
				openapi.QueryParam("pagination", "string", `JSON object of page, limit, offset, sort and pagination. Defaults to {"pagination": false}`, false),
			},
			Responses: map[int]*openapi.Response{
				200: respond("Paginated list of "+component, component+"Page"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Find: &openapi.Operation{
			Summary:     "Get " + component + " by ID",
			Description: "Retrieves a single document",
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Document ID"),
			},
			Responses: map[int]*openapi.Response{
				200: respond("Document", component),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Create: &openapi.Operation{
			Summary:     "Create " + component,
			Description: "Creates one document from an object, or many from an array of objects",
			Responses: map[int]*openapi.Response{
				201: created(component, withSchema),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Update: &openapi.Operation{
			Summary:     "Update " + component,
			Description: "Applies a partial update and returns the updated document",
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Document ID"),
			},
			Responses: map[int]*openapi.Response{
				200: respond("Document updated", component),
				400: {
					Description: "Missing required fields or invalid body",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{
							OneOf: []*openapi.Schema{openapi.SchemaRef("StatusError"), openapi.SchemaRef("Error")},
						}},
					},
				},
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Delete: &openapi.Operation{
			Summary:     "Delete " + component,
			Description: "Removes a document and returns it",
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Document ID"),
			},
			Responses: map[int]*openapi.Response{
				200: respond("Document deleted", component),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
	}

	if withSchema {
		s.Create.RequestBody = &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					OneOf: []*openapi.Schema{
						openapi.SchemaRef(component + "Input"),
						{Type: "array", Items: openapi.SchemaRef(component + "Input")},
					},
				}},
			},
		}
		patch := schemas.Create.Clone()
		patch.Required = nil
		s.Update.RequestBody = &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: patch},
			},
		}
	}

	return s
}

func created(component string, withSchema bool) *openapi.Response {
	const desc = "Document created, or a confirmation message for an array"
	if !withSchema {
		return &openapi.Response{Description: desc}
	}
	return &openapi.Response{
		Description: desc,
		Content: map[string]*openapi.MediaType{
			"application/json": {Schema: &openapi.Schema{
				OneOf: []*openapi.Schema{openapi.SchemaRef(component), openapi.SchemaRef("Message")},
			}},
		},
	}
}
