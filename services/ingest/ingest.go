package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumenlearn/discovery/db/searchdb"
	"github.com/lumenlearn/discovery/logger"
)

// Client pulls experience records from the metadata service.
type Client interface {
	Experiences(ctx context.Context) ([]map[string]any, error)
}

// Indexer is the write slice of the search database.
type Indexer interface {
	Index(documents []searchdb.Document) error
	DocCount() (uint64, error)
}

type Service struct {
	logger  logger.Logger
	client  Client
	indexer Indexer
}

func New(logger logger.Logger, client Client, indexer Indexer) *Service {
	return &Service{
		logger:  logger,
		client:  client,
		indexer: indexer,
	}
}

// Run pulls the full record set from the metadata service and indexes it,
// returning the number of documents written. Records without an identifier
// get a generated one; the engine document id must exist for spotlighting
// and similarity lookups.
func (s *Service) Run(ctx context.Context) (int, error) {
	records, err := s.client.Experiences(ctx)
	if err != nil {
		s.logger.Error("could not fetch experience records", "err", err.Error())
		return 0, fmt.Errorf("could not fetch experience records: %w", err)
	}

	documents := make([]searchdb.Document, 0, len(records))
	for _, record := range records {
		id := recordID(record)
		if id == "" {
			id = uuid.NewString()
		}

		// the engine attaches its own metadata on the way out
		delete(record, "meta")

		documents = append(documents, searchdb.Document{
			ID:     id,
			Source: record,
		})
	}

	if err := s.indexer.Index(documents); err != nil {
		s.logger.Error("could not index experience records", "err", err.Error())
		return 0, fmt.Errorf("could not index experience records: %w", err)
	}

	total, err := s.indexer.DocCount()
	if err == nil {
		s.logger.Info("ingest complete", "indexed", len(documents), "index_size", total)
	}

	return len(documents), nil
}

func recordID(record map[string]any) string {
	meta, ok := record["meta"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := meta["id"].(string)

	return id
}
