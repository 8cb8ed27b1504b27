package search

import (
	"context"
	"strconv"
	"strings"

	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/db/searchdb"
	"github.com/lumenlearn/discovery/logger"
)

// Engine is the slice of the search database this service needs.
type Engine interface {
	Search(ctx context.Context, params searchdb.Params, snapshot configstore.Snapshot) (*searchdb.Response, error)
	Similar(ctx context.Context, docID string) (*searchdb.Response, error)
}

// ConfigSource provides the per-request configuration snapshot.
type ConfigSource interface {
	Snapshot() (configstore.Snapshot, error)
}

// Envelope is the stable client-facing result contract.
type Envelope struct {
	Hits         []map[string]any          `json:"hits"`
	Total        uint64                    `json:"total"`
	Aggregations map[string]map[string]any `json:"aggregations,omitempty"`
}

type Service struct {
	logger  logger.Logger
	engine  Engine
	configs ConfigSource
}

func New(logger logger.Logger, engine Engine, configs ConfigSource) *Service {
	return &Service{
		logger:  logger,
		engine:  engine,
		configs: configs,
	}
}

// Search runs a keyword search. rawFilters is the caller's untouched
// field -> values map; anything that does not name an active filter
// definition is scoped out here, before query building.
func (s *Service) Search(ctx context.Context, keyword string, rawFilters map[string][]string, sortKey string, rawPage string) (*Envelope, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrMissingKeyword
	}

	page, err := ParsePage(rawPage)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.configs.Snapshot()
	if err != nil {
		s.logger.Error("could not load configuration snapshot", "err", err.Error())
		return nil, err
	}

	params := searchdb.Params{
		Keyword: keyword,
		Filters: scopeFilters(rawFilters, snapshot),
		Sort:    sortKey,
		Page:    page,
	}

	response, err := s.engine.Search(ctx, params, snapshot)
	if err != nil {
		return nil, err
	}

	return shape(response, snapshot, true)
}

// Similar returns the results of a more-like-this query for the given
// document. The envelope carries no aggregations.
func (s *Service) Similar(ctx context.Context, docID string) (*Envelope, error) {
	response, err := s.engine.Similar(ctx, docID)
	if err != nil {
		return nil, err
	}

	return shape(response, configstore.Snapshot{}, false)
}

// ParsePage validates the raw page parameter. Empty input means the first
// page; anything that is not a positive integer is an InvalidPageError.
func ParsePage(rawPage string) (int, error) {
	if rawPage == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		return 0, &InvalidPageError{Raw: rawPage}
	}

	return page, nil
}

// scopeFilters keeps only the request parameters backed by an active filter
// definition. Unknown or inactive filter keys are dropped, not errored:
// stale links keep working even after an administrator retires a filter.
func scopeFilters(rawFilters map[string][]string, snapshot configstore.Snapshot) map[string][]string {
	scoped := map[string][]string{}

	for field, values := range rawFilters {
		if len(values) == 0 {
			continue
		}
		if _, ok := snapshot.FilterByFieldPath(field); !ok {
			continue
		}
		scoped[field] = values
	}

	return scoped
}

// shape converts a raw engine response into the client envelope: hit bodies
// with engine metadata merged in, the verbatim total, and per-filter bucket
// maps annotated with the underlying field name.
func shape(response *searchdb.Response, snapshot configstore.Snapshot, withAggregations bool) (*Envelope, error) {
	envelope := &Envelope{
		Hits:  make([]map[string]any, 0, len(response.Hits)),
		Total: response.Total,
	}

	for _, hit := range response.Hits {
		envelope.Hits = append(envelope.Hits, hit.Body())
	}

	if !withAggregations {
		return envelope, nil
	}

	envelope.Aggregations = map[string]map[string]any{}
	for name, buckets := range response.Facets {
		filter, ok := snapshot.FilterByDisplayName(name)
		if !ok {
			return nil, &ConfigurationInconsistencyError{Bucket: name}
		}

		aggregation := make(map[string]any, len(buckets)+1)
		for value, count := range buckets {
			aggregation[value] = count
		}
		aggregation["field_name"] = string(filter.FieldPath)
		envelope.Aggregations[name] = aggregation
	}

	return envelope, nil
}
