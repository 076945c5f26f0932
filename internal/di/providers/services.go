package providers

import (
	"github.com/samber/do/v2"

	"github.com/termalign/termalign-server/internal/analysis"
	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/config"
	"github.com/termalign/termalign-server/internal/logger"
	"github.com/termalign/termalign-server/internal/service"
	"github.com/termalign/termalign-server/internal/validation"
)

// ProvideValidator provides the struct validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSimulator provides the delayed analysis runner.
func ProvideSimulator(i do.Injector) (*analysis.Simulator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return analysis.NewSimulator(cfg.Analysis.SimulatedDelay), nil
}

// ProvideCatalogueService provides the catalogue service.
func ProvideCatalogueService(i do.Injector) (*service.CatalogueService, error) {
	cat := do.MustInvoke[*catalogue.Catalogue](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogueService(cat, indexHandle.SearchIndex, log.Logger), nil
}

// ProvideAnalysisService provides the synchronous analysis service.
func ProvideAnalysisService(i do.Injector) (*service.AnalysisService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	cat := do.MustInvoke[*catalogue.Catalogue](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAnalysisService(cat, log.Logger, cfg.Analysis.MaxUploadBytes), nil
}

// ProvideWorkspaceService provides the workspace service.
func ProvideWorkspaceService(i do.Injector) (*service.WorkspaceService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cat := do.MustInvoke[*catalogue.Catalogue](i)
	sim := do.MustInvoke[*analysis.Simulator](i)
	v := do.MustInvoke[*validation.Validator](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewWorkspaceService(storeHandle.Store, cat, sim, v, sseHandle.Manager, log.Logger), nil
}

// ProvideExportService provides the export service.
func ProvideExportService(i do.Injector) (*service.ExportService, error) {
	cat := do.MustInvoke[*catalogue.Catalogue](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewExportService(cat, log.Logger), nil
}
