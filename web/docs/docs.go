// Package docs serves the interactive API reference using Scalar UI.
// The page loads Scalar from its CDN and renders the document published by the API.
package docs

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/JaimeStill/crudify/pkg/routes"
)

// Prefix is the route the reference is served at.
const Prefix = "/docs"

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type page struct {
	Title   string
	SpecURL string
}

// Handler serves the rendered reference page.
type Handler struct {
	body []byte
}

// NewHandler renders the reference page for the document served at specURL.
func NewHandler(title, specURL string) (*Handler, error) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page{Title: title, SpecURL: specURL}); err != nil {
		return nil, fmt.Errorf("render docs: %w", err)
	}
	return &Handler{body: buf.Bytes()}, nil
}

// Routes returns the route group for the reference page.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      Prefix,
		Tags:        []string{"Documentation"},
		Description: "Interactive API reference powered by Scalar",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.serveIndex},
		},
	}
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(h.body)
}
