package search

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPage        = errors.New("invalid page parameter")
	ErrInconsistentConfig = errors.New("configuration changed between query build and result shaping")
	ErrMissingKeyword     = errors.New("missing keyword")
)

// InvalidPageError marks a page parameter that is not a positive integer.
// It is a client error, never retried.
type InvalidPageError struct {
	Raw string
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("invalid page parameter %q: expected a positive integer", e.Raw)
}

func (e *InvalidPageError) Is(target error) bool {
	return target == ErrInvalidPage
}

// ConfigurationInconsistencyError is raised when the engine returns an
// aggregation bucket whose display name no longer matches an active filter
// definition. It means the configuration was edited while the query was in
// flight and is reported loudly rather than dropped.
type ConfigurationInconsistencyError struct {
	Bucket string
}

func (e *ConfigurationInconsistencyError) Error() string {
	return fmt.Sprintf("aggregation bucket %q has no matching active filter definition", e.Bucket)
}

func (e *ConfigurationInconsistencyError) Is(target error) bool {
	return target == ErrInconsistentConfig
}
