package searchdb

import (
	"context"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"

	"github.com/lumenlearn/discovery/config"
	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/logger"
)

const indexingBatchSize = 100

type BleveDB struct {
	indexPath string
	indexName string
	logger    logger.Logger
	index     bleve.Index
}

// New opens (or creates) the experience index. keywordFields are the
// configured filter/sort field paths that need exact-match sibling fields;
// they are baked into the mapping at creation time, so definitions pointing
// at new fields require a reindex.
func New(logger logger.Logger, cfg *config.Config, keywordFields []configstore.FieldPath) (*BleveDB, error) {
	mapping := createIndexMapping(keywordFields)
	indexPath := filepath.Join(cfg.GetStoragePath(), cfg.GetIndexPath())
	index, err := bleve.New(indexPath, mapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{
		indexPath: indexPath,
		indexName: cfg.GetIndexName(),
		logger:    logger,
		index:     index,
	}, nil
}

// Search executes a fully built request. Engine failures come back as
// transport errors; retrying is the caller's call.
func (b *BleveDB) Search(ctx context.Context, params Params, snapshot configstore.Snapshot) (*Response, error) {
	request := BuildSearchRequest(params, snapshot)

	result, err := b.index.SearchInContext(ctx, request)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, &TransportError{Op: "search", Err: err}
	}

	response := &Response{
		Hits:   b.toHits(result.Hits),
		Total:  result.Total,
		Facets: map[string]FacetBuckets{},
	}

	for name, facet := range result.Facets {
		buckets := FacetBuckets{}
		for _, term := range facet.Terms.Terms() {
			buckets[term.Term] = term.Count
		}
		response.Facets[name] = buckets
	}

	return response, nil
}

// Similar finds the documents closest to the seed document by title and
// description text. A missing seed surfaces as MissingDocumentError.
func (b *BleveDB) Similar(ctx context.Context, docID string) (*Response, error) {
	seedRequest := bleve.NewSearchRequestOptions(bleve.NewDocIDQuery([]string{docID}), 1, 0, false)
	seedRequest.Fields = SearchFields

	seedResult, err := b.index.SearchInContext(ctx, seedRequest)
	if err != nil {
		b.logger.Error("similarity seed fetch failed", "doc_id", docID, "err", err.Error())
		return nil, &TransportError{Op: "similarity seed fetch", Err: err}
	}
	if len(seedResult.Hits) == 0 {
		return nil, &MissingDocumentError{ID: docID}
	}

	seedText := map[string]string{}
	for _, field := range SearchFields {
		seedText[field] = fieldText(seedResult.Hits[0].Fields[field])
	}
	if allEmpty(seedText) {
		b.logger.Warn("similarity seed has no searchable text", "doc_id", docID)
		return &Response{Hits: []Hit{}}, nil
	}

	request := BuildSimilarityRequest(docID, seedText)
	result, err := b.index.SearchInContext(ctx, request)
	if err != nil {
		b.logger.Error("similarity search failed", "doc_id", docID, "err", err.Error())
		return nil, &TransportError{Op: "similarity search", Err: err}
	}

	return &Response{
		Hits:  b.toHits(result.Hits),
		Total: result.Total,
	}, nil
}

// MultiGet fetches documents by identifier. IDs absent from the index are
// simply not part of the result.
func (b *BleveDB) MultiGet(ctx context.Context, docIDs []string) ([]Hit, error) {
	if len(docIDs) == 0 {
		return []Hit{}, nil
	}

	request := bleve.NewSearchRequestOptions(bleve.NewDocIDQuery(docIDs), len(docIDs), 0, false)
	request.Fields = []string{"*"}

	result, err := b.index.SearchInContext(ctx, request)
	if err != nil {
		b.logger.Error("multi-get failed", "err", err.Error())
		return nil, &TransportError{Op: "multi-get", Err: err}
	}

	return b.toHits(result.Hits), nil
}

func (b *BleveDB) Index(documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		err := batch.Index(doc.ID, doc.Source)
		if err != nil {
			b.logger.Error("could not index document", "err", err.Error())
			return err
		}

		// Execute batch when it reaches the batch size
		if (i+1)%indexingBatchSize == 0 {
			err = b.index.Batch(batch)
			if err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index document", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) DeleteDocuments(documentIDs []string) error {
	batch := b.index.NewBatch()

	for i, docID := range documentIDs {
		batch.Delete(docID)

		if (i+1)%indexingBatchSize == 0 {
			err := b.index.Batch(batch)
			if err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not delete documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) DocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}

func (b *BleveDB) toHits(matches search.DocumentMatchCollection) []Hit {
	hits := make([]Hit, len(matches))
	for i, match := range matches {
		hits[i] = Hit{
			ID:     match.ID,
			Index:  b.indexName,
			Score:  match.Score,
			Source: unflatten(match.Fields),
		}
	}

	return hits
}

// fieldText normalizes a stored field value (single string or multi-valued)
// into one text blob.
func fieldText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		text := ""
		for _, item := range v {
			if s, ok := item.(string); ok {
				if text != "" {
					text += " "
				}
				text += s
			}
		}
		return text
	}
	return ""
}

func allEmpty(seedText map[string]string) bool {
	for _, text := range seedText {
		if text != "" {
			return false
		}
	}
	return true
}
