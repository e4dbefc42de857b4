// Package api assembles the generated REST resources for every configured model
// and publishes their OpenAPI document.
package api

import (
	"fmt"

	"github.com/JaimeStill/crudify/internal/config"
	"github.com/JaimeStill/crudify/pkg/openapi"
	"github.com/JaimeStill/crudify/pkg/routes"
	"github.com/JaimeStill/crudify/web/docs"
)

// SpecPath is the document route relative to the API base path.
const SpecPath = "/openapi.json"

// Module is the registered API: its resources and the document describing them.
type Module struct {
	Domain *Domain
	Spec   *openapi.Spec
}

// NewModule registers every resource with r, generates the document from all
// documented routes in r, and serves it at the base path plus SpecPath with
// an interactive reference at docs.Prefix.
func NewModule(cfg *config.Config, runtime *Runtime, r routes.System) (*Module, error) {
	domain, err := NewDomain(runtime, cfg)
	if err != nil {
		return nil, err
	}

	components, err := registerRoutes(r, runtime, domain, cfg)
	if err != nil {
		return nil, err
	}

	spec := GenerateSpec(r, components, cfg)
	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal spec: %w", err)
	}

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: cfg.API.BasePath + SpecPath,
		Handler: openapi.ServeSpec(specBytes),
	})

	reference, err := docs.NewHandler(spec.Info.Title, cfg.API.BasePath+SpecPath)
	if err != nil {
		return nil, err
	}
	r.RegisterGroup(reference.Routes())

	runtime.Logger.Info(
		"api module initialized",
		"resources", len(domain.Resources),
		"base_path", cfg.API.BasePath,
	)

	return &Module{Domain: domain, Spec: spec}, nil
}
