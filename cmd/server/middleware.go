package main

import (
	"github.com/JaimeStill/crudify/internal/config"
	"github.com/JaimeStill/crudify/internal/infrastructure"
	"github.com/JaimeStill/crudify/pkg/middleware"
)

// buildMiddleware creates the middleware stack. TrimSlash runs first so the
// mux sees canonical paths; metrics wrap the mux to observe matched patterns.
func buildMiddleware(infra *infrastructure.Infrastructure, cfg *config.Config) middleware.System {
	mw := middleware.New()
	mw.Use(middleware.TrimSlash())
	mw.Use(middleware.Logger(infra.Logger))
	mw.Use(middleware.CORS(&cfg.API.CORS))
	mw.Use(infra.Metrics.Instrument())
	return mw
}
