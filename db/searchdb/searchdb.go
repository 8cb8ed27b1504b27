package searchdb

import (
	"context"

	"github.com/lumenlearn/discovery/db/configstore"
)

type DB interface {
	Search(ctx context.Context, params Params, snapshot configstore.Snapshot) (*Response, error)
	Similar(ctx context.Context, docID string) (*Response, error)
	MultiGet(ctx context.Context, docIDs []string) ([]Hit, error)
	Index(documents []Document) error
	DeleteDocuments(documentIDs []string) error
	DocCount() (uint64, error)
	Close() error
}
