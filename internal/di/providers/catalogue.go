package providers

import (
	"github.com/samber/do/v2"

	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/config"
	"github.com/termalign/termalign-server/internal/logger"
	"github.com/termalign/termalign-server/internal/search"
)

// ProvideCatalogue loads the KPI catalogue. Soft data problems are logged,
// not fatal.
func ProvideCatalogue(i do.Injector) (*catalogue.Catalogue, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cat, err := catalogue.Load(cfg.Catalogue.Path)
	if err != nil {
		return nil, err
	}

	for _, w := range cat.Validate() {
		log.Warn("Catalogue data warning", "warning", w)
	}
	log.Info("Catalogue loaded",
		"metrics", len(cat.Metrics()),
		"glossary_terms", len(cat.Glossary()),
		"mappings", len(cat.Mappings()),
	)

	return cat, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex builds the in-memory Bleve index over the catalogue.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cat := do.MustInvoke[*catalogue.Catalogue](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{Logger: log.Logger})
	if err != nil {
		return nil, err
	}
	if err := index.IndexCatalogue(cat); err != nil {
		_ = index.Close()
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}
