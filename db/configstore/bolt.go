package configstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/lumenlearn/discovery/config"
	"github.com/lumenlearn/discovery/logger"
)

// Store holds the admin-managed search configuration: the singleton
// SearchConfiguration plus filter, sort, spotlight and highlight
// definitions. The query path only ever reads it; writes happen
// out-of-band through seeding or administration.
type Store struct {
	store  *bolt.DB
	logger logger.Logger
}

const (
	configurationBucket = "configuration"
	filtersBucket       = "filters"
	sortsBucket         = "sorts"
	spotlightsBucket    = "spotlights"
	highlightsBucket    = "highlights"

	configurationKey = "__active__"
)

var buckets = []string{
	configurationBucket,
	filtersBucket,
	sortsBucket,
	spotlightsBucket,
	highlightsBucket,
}

func New(logger logger.Logger, cfg *config.Config) (*Store, error) {
	configDBPath := cfg.GetConfigDBPath()
	if err := os.MkdirAll(filepath.Dir(configDBPath), 0755); err != nil {
		logger.Error("failed to create configuration database directory", "err", err.Error(), "path", configDBPath)
		return nil, fmt.Errorf("failed to create configuration database directory: %w", err)
	}

	store, err := bolt.Open(configDBPath, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		logger.Error("failed to open configuration database", "err", err.Error(), "path", configDBPath)
		return nil, fmt.Errorf("failed to open configuration database: %w", err)
	}

	s := &Store{
		store:  store,
		logger: logger,
	}

	if err := s.initBuckets(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

func (s *Store) initBuckets() error {
	return s.store.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				s.logger.Error("failed to create bucket", "bucket", bucket, "err", err.Error())
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
}

// SaveConfiguration replaces the singleton search configuration. The fixed
// key keeps the at-most-one invariant without any explicit counting.
func (s *Store) SaveConfiguration(configuration SearchConfiguration) error {
	if configuration.ResultsPerPage < 1 {
		return &InvalidEntryError{Kind: "search configuration", Reason: "results per page should be at least 1"}
	}

	return s.put(configurationBucket, configurationKey, configuration)
}

func (s *Store) Configuration() (SearchConfiguration, error) {
	var configuration SearchConfiguration
	if err := s.get(configurationBucket, configurationKey, &configuration); err != nil {
		return SearchConfiguration{}, err
	}

	return configuration, nil
}

// SaveFilter upserts a filter definition keyed by display name, which keeps
// display names unique among definitions.
func (s *Store) SaveFilter(filter FilterDefinition) error {
	if filter.DisplayName == "" {
		return &InvalidEntryError{Kind: "filter definition", Reason: "display name cannot be empty"}
	}
	if filter.FilterKind == "" {
		filter.FilterKind = FilterKindTerms
	}
	if filter.FilterKind != FilterKindTerms {
		return &InvalidEntryError{Kind: "filter definition", Reason: fmt.Sprintf("unsupported filter kind %q", filter.FilterKind)}
	}
	if _, err := ParseFieldPath(string(filter.FieldPath)); err != nil {
		return err
	}

	return s.put(filtersBucket, filter.DisplayName, filter)
}

func (s *Store) ActiveFilters() ([]FilterDefinition, error) {
	filters := []FilterDefinition{}
	err := s.forEach(filtersBucket, func(value []byte) error {
		var filter FilterDefinition
		if err := json.Unmarshal(value, &filter); err != nil {
			return err
		}
		if filter.Active {
			filters = append(filters, filter)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return filters, nil
}

func (s *Store) SaveSort(sortOption SortDefinition) error {
	if sortOption.DisplayName == "" {
		return &InvalidEntryError{Kind: "sort definition", Reason: "display name cannot be empty"}
	}
	if _, err := ParseFieldPath(string(sortOption.FieldPath)); err != nil {
		return err
	}

	return s.put(sortsBucket, sortOption.DisplayName, sortOption)
}

func (s *Store) ActiveSorts() ([]SortDefinition, error) {
	sorts := []SortDefinition{}
	err := s.forEach(sortsBucket, func(value []byte) error {
		var sortOption SortDefinition
		if err := json.Unmarshal(value, &sortOption); err != nil {
			return err
		}
		if sortOption.Active {
			sorts = append(sorts, sortOption)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sorts, nil
}

func (s *Store) SaveSpotlight(entry SpotlightEntry) error {
	if entry.CourseID == "" {
		return &InvalidEntryError{Kind: "spotlight entry", Reason: "course id cannot be empty"}
	}

	return s.put(spotlightsBucket, entry.CourseID, entry)
}

// ActiveSpotlightIDs returns the ids of all active spotlight entries.
// Ordering is not significant; bucket key order keeps it stable.
func (s *Store) ActiveSpotlightIDs() ([]string, error) {
	ids := []string{}
	err := s.forEach(spotlightsBucket, func(value []byte) error {
		var entry SpotlightEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			return err
		}
		if entry.Active {
			ids = append(ids, entry.CourseID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (s *Store) SaveHighlight(highlight DetailHighlight) error {
	if highlight.DisplayName == "" {
		return &InvalidEntryError{Kind: "detail highlight", Reason: "display name cannot be empty"}
	}
	if highlight.Rank < 1 {
		return &InvalidEntryError{Kind: "detail highlight", Reason: "rank should be at least 1"}
	}
	if _, err := ParseFieldPath(string(highlight.FieldPath)); err != nil {
		return err
	}

	return s.put(highlightsBucket, highlight.DisplayName, highlight)
}

// ActiveHighlights returns active detail highlights ordered by rank, the
// order in which they render on the course detail page.
func (s *Store) ActiveHighlights() ([]DetailHighlight, error) {
	highlights := []DetailHighlight{}
	err := s.forEach(highlightsBucket, func(value []byte) error {
		var highlight DetailHighlight
		if err := json.Unmarshal(value, &highlight); err != nil {
			return err
		}
		if highlight.Active {
			highlights = append(highlights, highlight)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(highlights, func(i, j int) bool { return highlights[i].Rank < highlights[j].Rank })

	return highlights, nil
}

// Snapshot reads the configuration, active filters and active sorts in one
// view transaction so a request works against a consistent picture even if
// an administrator edits definitions mid-flight.
func (s *Store) Snapshot() (Snapshot, error) {
	var snapshot Snapshot

	err := s.store.View(func(tx *bolt.Tx) error {
		configurationRaw := tx.Bucket([]byte(configurationBucket)).Get([]byte(configurationKey))
		if configurationRaw == nil {
			return &NotFoundError{Kind: "search configuration", Key: configurationKey}
		}
		if err := json.Unmarshal(configurationRaw, &snapshot.Configuration); err != nil {
			return fmt.Errorf("failed to unmarshal search configuration: %w", err)
		}

		if err := tx.Bucket([]byte(filtersBucket)).ForEach(func(_, value []byte) error {
			var filter FilterDefinition
			if err := json.Unmarshal(value, &filter); err != nil {
				return err
			}
			if filter.Active {
				snapshot.Filters = append(snapshot.Filters, filter)
			}
			return nil
		}); err != nil {
			return err
		}

		return tx.Bucket([]byte(sortsBucket)).ForEach(func(_, value []byte) error {
			var sortOption SortDefinition
			if err := json.Unmarshal(value, &sortOption); err != nil {
				return err
			}
			if sortOption.Active {
				snapshot.Sorts = append(snapshot.Sorts, sortOption)
			}
			return nil
		})
	})
	if err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}

func (s *Store) put(bucket string, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to marshal configuration entry", "bucket", bucket, "key", key, "err", err.Error())
		return fmt.Errorf("failed to marshal %s entry: %w", bucket, err)
	}

	return s.store.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucket)).Put([]byte(key), data); err != nil {
			s.logger.Error("failed to store configuration entry", "bucket", bucket, "key", key, "err", err.Error())
			return fmt.Errorf("failed to store %s entry %s: %w", bucket, key, err)
		}
		return nil
	})
}

func (s *Store) get(bucket string, key string, value any) error {
	return s.store.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if data == nil {
			return &NotFoundError{Kind: bucket, Key: key}
		}
		return json.Unmarshal(data, value)
	})
}

func (s *Store) forEach(bucket string, fn func(value []byte) error) error {
	return s.store.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(func(_, value []byte) error {
			return fn(value)
		})
	})
}

func (s *Store) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
