// Package crud generates REST endpoints over a document model.
//
// Register adds five routes under a URL prefix:
//
//	GET    {url}       list documents matching filters, paginated
//	GET    {url}/{id}  fetch one document
//	POST   {url}       create from an object, or many from an array
//	PUT    {url}/{id}  partially update one document
//	DELETE {url}/{id}  remove one document
//
// The list route reads two JSON encoded query parameters: filters, whose
// "/expr/" string values match case-insensitively, and pagination, which
// defaults to {"pagination": false}.
package crud

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/JaimeStill/crudify/pkg/openapi"
	"github.com/JaimeStill/crudify/pkg/routes"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Config declares a generated resource. It is read at registration and never modified.
type Config struct {
	// URL is the route prefix, e.g. "/api/users".
	URL string
	// Model backs every generated route.
	Model model.Model
	// Schema declares the document shape. Without it the routes publish no
	// schemas and request bodies are checked by the model alone.
	Schema *openapi.Schema
	// Tags group the operations in the published document. Defaults to the component name.
	Tags []string
	// MaxBodySize limits POST and PUT bodies in bytes. Zero means unlimited.
	MaxBodySize int64
	// AdditionalRoutes runs after the generated routes are registered.
	AdditionalRoutes func(r routes.System, cfg Config)
}

func (c Config) validate() error {
	if c.Model == nil {
		return errors.New("crud: model required")
	}
	if c.URL == "" || !strings.HasPrefix(c.URL, "/") || strings.HasSuffix(c.URL, "/") {
		return errors.New("crud: url must start with / and not end with /")
	}
	return nil
}

// Register adds the generated routes for cfg to r, then invokes cfg.AdditionalRoutes.
func Register(r routes.System, cfg Config, logger *slog.Logger) (*Handler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	h, err := NewHandler(cfg, logger.With("handler", cfg.Model.Name()))
	if err != nil {
		return nil, err
	}

	r.RegisterGroup(h.Routes())

	if cfg.AdditionalRoutes != nil {
		cfg.AdditionalRoutes(r, cfg)
	}
	return h, nil
}

// ComponentName returns the OpenAPI component name for a model, e.g. "users" -> "Users".
func ComponentName(model string) string {
	return cases.Title(language.English, cases.NoLower).String(model)
}
