package api

import (
	"github.com/JaimeStill/crudify/internal/config"
	"github.com/JaimeStill/crudify/pkg/openapi"
	"github.com/JaimeStill/crudify/pkg/routes"
)

// GenerateSpec builds the OpenAPI document from every documented route in rs.
func GenerateSpec(rs routes.System, components *openapi.Components, cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.Domain)
	spec.Components = components

	for _, group := range rs.Groups() {
		processGroup(spec, "", group)
	}

	for _, route := range rs.Routes() {
		if route.OpenAPI == nil {
			continue
		}
		spec.AddOperation(route.Pattern, route.Method, route.OpenAPI)
	}

	return spec
}

func processGroup(spec *openapi.Spec, parentPrefix string, group routes.Group) {
	prefix := parentPrefix + group.Prefix

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}

		spec.AddOperation(prefix+route.Pattern, route.Method, op)
	}

	for _, child := range group.Children {
		processGroup(spec, prefix, child)
	}
}
