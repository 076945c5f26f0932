// Package di provides dependency injection configuration for the termalign server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/config"
	"github.com/termalign/termalign-server/internal/di/providers"
	"github.com/termalign/termalign-server/internal/logger"
	"github.com/termalign/termalign-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// args are parsed as configuration flags.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, providers.Args(args))
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Data layer
	do.Provide(injector, providers.ProvideCatalogue)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSSEManager)

	// Business services
	do.Provide(injector, providers.ProvideSimulator)
	do.Provide(injector, providers.ProvideCatalogueService)
	do.Provide(injector, providers.ProvideAnalysisService)
	do.Provide(injector, providers.ProvideWorkspaceService)
	do.Provide(injector, providers.ProvideExportService)

	// Surfaces
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMCPServer)

	return injector
}

// Bootstrap initializes the core services and starts the HTTP server.
// This triggers lazy initialization so configuration errors surface at startup.
func Bootstrap(injector *do.RootScope) error {
	if err := BootstrapCore(injector); err != nil {
		return err
	}

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}

// BootstrapCore initializes everything except the network surfaces.
func BootstrapCore(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*catalogue.Catalogue](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.CatalogueService](injector)
	_ = do.MustInvoke[*service.AnalysisService](injector)
	_ = do.MustInvoke[*service.WorkspaceService](injector)
	_ = do.MustInvoke[*service.ExportService](injector)

	return nil
}
