package openapi

import "net/http"

// NewSpec creates an OpenAPI 3.1 document with empty paths and default components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

// SetDescription sets the API description.
func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddServer appends a server URL. Empty URLs are ignored.
func (s *Spec) AddServer(url string) {
	if url == "" {
		return
	}
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddOperation attaches op to path under the given HTTP method.
// Unsupported methods are ignored.
func (s *Spec) AddOperation(path, method string, op *Operation) {
	if s.Paths == nil {
		s.Paths = make(map[string]*PathItem)
	}
	if s.Paths[path] == nil {
		s.Paths[path] = &PathItem{}
	}

	switch method {
	case http.MethodGet:
		s.Paths[path].Get = op
	case http.MethodPost:
		s.Paths[path].Post = op
	case http.MethodPut:
		s.Paths[path].Put = op
	case http.MethodPatch:
		s.Paths[path].Patch = op
	case http.MethodDelete:
		s.Paths[path].Delete = op
	}
}

// NewComponents creates components pre-populated with the shared error
// schemas and responses used by every generated resource.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
			"StatusError": {
				Type:     "object",
				Required: []string{"status", "error", "message"},
				Properties: map[string]*Schema{
					"status":  {Type: "integer", Description: "HTTP status code"},
					"error":   {Type: "string", Description: "HTTP status text"},
					"message": {Type: "string", Description: "Error detail"},
				},
			},
			"Message": {
				Type:     "object",
				Required: []string{"message"},
				Properties: map[string]*Schema{
					"message": {Type: "string"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":    ResponseJSON("Invalid request", "Error"),
			"NotFound":      ResponseJSON("Resource not found", "StatusError"),
			"InternalError": ResponseJSON("Unexpected store failure", "Error"),
		},
	}
}

// AddSchemas merges schemas into the components, replacing same-named entries.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	if c.Schemas == nil {
		c.Schemas = make(map[string]*Schema, len(schemas))
	}
	for name, s := range schemas {
		c.Schemas[name] = s
	}
}

// AddResponses merges responses into the components, replacing same-named entries.
func (c *Components) AddResponses(responses map[string]*Response) {
	if c.Responses == nil {
		c.Responses = make(map[string]*Response, len(responses))
	}
	for name, r := range responses {
		c.Responses[name] = r
	}
}
