package search

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/termalign/termalign-server/internal/catalogue"
)

// SearchIndex wraps an in-memory Bleve index with catalogue operations.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex guards the index pointer across Rebuild.
type SearchIndex struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	Logger *slog.Logger // uses discard if nil
}

// NewSearchIndex creates an empty in-memory index.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SearchIndex{index: index, logger: logger}, nil
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexDocument indexes a single document.
func (s *SearchIndex) IndexDocument(doc *SearchDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexDocuments indexes multiple documents in one batch.
func (s *SearchIndex) IndexDocuments(docs []*SearchDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}

	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// IndexCatalogue indexes every metric, glossary term and mapping in c.
func (s *SearchIndex) IndexCatalogue(c *catalogue.Catalogue) error {
	docs := make([]*SearchDocument, 0, 32)
	for _, m := range c.Metrics() {
		docs = append(docs, MetricToSearchDocument(m))
	}
	for _, g := range c.Glossary() {
		docs = append(docs, GlossaryToSearchDocument(g))
	}
	for _, mp := range c.Mappings() {
		docs = append(docs, MappingToSearchDocument(mp))
	}

	if err := s.IndexDocuments(docs); err != nil {
		return err
	}
	s.logger.Info("indexed catalogue", "documents", len(docs))
	return nil
}

// DeleteDocument removes a document from the index.
func (s *SearchIndex) DeleteDocument(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the total number of indexed documents.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild swaps in a fresh index and fills it from c.
func (s *SearchIndex) Rebuild(c *catalogue.Catalogue) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}

	if err := s.IndexCatalogue(c); err != nil {
		return err
	}
	s.logger.Info("rebuilt search index")
	return nil
}
