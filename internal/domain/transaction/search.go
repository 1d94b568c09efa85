package transaction

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/google/uuid"
)

// searchDocument is the indexed shape of a ledger row.
type searchDocument struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

// SearchHit is one full-text match against the ledger.
type SearchHit struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Score       float64   `json:"score"`
}

// SearchIndex holds an in-memory full-text index over transaction
// descriptions, with typo tolerance the ILIKE filter cannot offer.
// Rebuild after imports or bulk edits to pick up new rows.
type SearchIndex struct {
	mu    sync.RWMutex
	index bleve.Index
}

func NewSearchIndex() (*SearchIndex, error) {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = simple.Name

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("description", textField)
	docMapping.AddFieldMappingsAt("category", keywordField)
	docMapping.AddFieldMappingsAt("type", keywordField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &SearchIndex{index: index}, nil
}

// Rebuild replaces the index contents with the given ledger rows.
func (si *SearchIndex) Rebuild(txs []*Transaction) error {
	si.mu.Lock()
	defer si.mu.Unlock()

	if err := si.clearLocked(); err != nil {
		return err
	}

	batch := si.index.NewBatch()
	for _, tx := range txs {
		doc := searchDocument{
			Description: tx.Description,
			Category:    tx.Category,
			Type:        tx.Type,
		}
		if err := batch.Index(tx.ID.String(), doc); err != nil {
			return fmt.Errorf("indexing transaction %s: %w", tx.ID, err)
		}
	}
	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("writing index batch: %w", err)
	}
	return nil
}

func (si *SearchIndex) clearLocked() error {
	query := bleve.NewMatchAllQuery()
	req := bleve.NewSearchRequest(query)
	req.Size = 100000

	existing, err := si.index.Search(req)
	if err != nil {
		return fmt.Errorf("listing indexed documents: %w", err)
	}

	batch := si.index.NewBatch()
	for _, hit := range existing.Hits {
		batch.Delete(hit.ID)
	}
	return si.index.Batch(batch)
}

// Search runs a fuzzy full-text query over descriptions.
func (si *SearchIndex) Search(query string, limit int) ([]SearchHit, error) {
	si.mu.RLock()
	defer si.mu.RUnlock()

	if limit <= 0 {
		limit = 25
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("description")
	matchQuery.SetFuzziness(1)

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = limit
	req.Fields = []string{"description", "category"}

	results, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		sh := SearchHit{ID: id, Score: hit.Score}
		if d, ok := hit.Fields["description"].(string); ok {
			sh.Description = d
		}
		if c, ok := hit.Fields["category"].(string); ok {
			sh.Category = c
		}
		hits = append(hits, sh)
	}
	return hits, nil
}

// Count returns the number of indexed rows.
func (si *SearchIndex) Count() (uint64, error) {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.index.DocCount()
}

func (si *SearchIndex) Close() error {
	si.mu.Lock()
	defer si.mu.Unlock()
	return si.index.Close()
}
