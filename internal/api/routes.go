package api

import (
	"github.com/JaimeStill/crudify/internal/config"
	"github.com/JaimeStill/crudify/pkg/crud"
	"github.com/JaimeStill/crudify/pkg/openapi"
	"github.com/JaimeStill/crudify/pkg/routes"
)

// registerRoutes adds one generated resource per domain model under the API base path
// and returns the components its schemas contribute.
func registerRoutes(
	r routes.System,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) (*openapi.Components, error) {
	components := openapi.NewComponents()

	for _, res := range domain.Resources {
		h, err := crud.Register(r, crud.Config{
			URL:         cfg.API.BasePath + res.Config.URL,
			Model:       res.Model,
			Schema:      res.Definition.Schema,
			Tags:        res.Config.Tags,
			MaxBodySize: runtime.MaxBodySize,
		}, runtime.Logger)
		if err != nil {
			return nil, err
		}
		components.AddSchemas(h.Schemas())
	}

	return components, nil
}
