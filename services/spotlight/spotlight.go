package spotlight

import (
	"context"

	"github.com/lumenlearn/discovery/db/searchdb"
	"github.com/lumenlearn/discovery/logger"
)

// Fetcher is the multi-get slice of the search database.
type Fetcher interface {
	MultiGet(ctx context.Context, docIDs []string) ([]searchdb.Hit, error)
}

// Store provides the administrator-curated spotlight entries.
type Store interface {
	ActiveSpotlightIDs() ([]string, error)
}

type Service struct {
	logger  logger.Logger
	fetcher Fetcher
	store   Store
}

func New(logger logger.Logger, fetcher Fetcher, store Store) *Service {
	return &Service{
		logger:  logger,
		fetcher: fetcher,
		store:   store,
	}
}

// Courses resolves the active spotlight entries into full documents. No
// active entries means an empty sequence. Entries whose document is no
// longer in the index are dropped; a spotlight pointing at a vanished
// course should not take the whole response down.
func (s *Service) Courses(ctx context.Context) ([]map[string]any, error) {
	ids, err := s.store.ActiveSpotlightIDs()
	if err != nil {
		s.logger.Error("could not load spotlight entries", "err", err.Error())
		return nil, err
	}

	if len(ids) == 0 {
		return []map[string]any{}, nil
	}

	hits, err := s.fetcher.MultiGet(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(hits) < len(ids) {
		s.logger.Warn("spotlight entries reference missing documents",
			"configured", len(ids), "found", len(hits))
	}

	courses := make([]map[string]any, 0, len(hits))
	for _, hit := range hits {
		courses = append(courses, hit.Body())
	}

	return courses, nil
}
