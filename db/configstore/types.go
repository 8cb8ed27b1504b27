package configstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("configuration entry not found")
	ErrInvalidFieldPath = errors.New("invalid field path")
	ErrInvalidEntry     = errors.New("invalid configuration entry")
)

// FieldPath is a dot-notation path into the experience document schema,
// e.g. "Course.CourseTitle". Paths are validated once when a definition is
// saved so that query building never sees a malformed field name.
type FieldPath string

func ParseFieldPath(raw string) (FieldPath, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &InvalidFieldPathError{Path: raw, Reason: "path cannot be empty"}
	}

	for _, segment := range strings.Split(raw, ".") {
		if segment == "" {
			return "", &InvalidFieldPathError{Path: raw, Reason: "path has an empty segment"}
		}
		for _, r := range segment {
			if !isFieldPathRune(r) {
				return "", &InvalidFieldPathError{Path: raw, Reason: fmt.Sprintf("segment %q has an unexpected character", segment)}
			}
		}
	}

	return FieldPath(raw), nil
}

func isFieldPathRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// Keyword returns the exact-match sibling of the field, used for term
// filtering, sorting and bucket aggregations. Full-text analyzed fields
// are not directly filterable.
func (p FieldPath) Keyword() string {
	return string(p) + ".keyword"
}

func (p FieldPath) Leaf() string {
	segments := strings.Split(string(p), ".")
	return segments[len(segments)-1]
}

func (p FieldPath) Segments() []string {
	return strings.Split(string(p), ".")
}

// SearchConfiguration is the singleton holding result-page sizing and the
// fallback image shown for courses without one.
type SearchConfiguration struct {
	ResultsPerPage    int    `json:"results_per_page" mapstructure:"results_per_page"`
	CourseImgFallback string `json:"course_img_fallback" mapstructure:"course_img_fallback"`
}

// FilterKindTerms is the only supported filter kind: exact-term bucket
// matching on the keyword sibling of the field.
const FilterKindTerms = "terms"

type FilterDefinition struct {
	DisplayName string    `json:"display_name" mapstructure:"display_name"`
	FieldPath   FieldPath `json:"field_name" mapstructure:"field_name"`
	FilterKind  string    `json:"filter_type" mapstructure:"filter_type"`
	Active      bool      `json:"active" mapstructure:"active"`
}

type SortDefinition struct {
	DisplayName string    `json:"display_name" mapstructure:"display_name"`
	FieldPath   FieldPath `json:"field_name" mapstructure:"field_name"`
	Active      bool      `json:"active" mapstructure:"active"`
}

type SpotlightEntry struct {
	CourseID string `json:"course_id" mapstructure:"course_id"`
	Active   bool   `json:"active" mapstructure:"active"`
}

type DetailHighlight struct {
	DisplayName   string    `json:"display_name" mapstructure:"display_name"`
	FieldPath     FieldPath `json:"field_name" mapstructure:"field_name"`
	HighlightIcon string    `json:"highlight_icon" mapstructure:"highlight_icon"`
	Rank          int       `json:"rank" mapstructure:"rank"`
	Active        bool      `json:"active" mapstructure:"active"`
}

// Snapshot is a read-only view of the active search configuration, taken
// once per request and passed into query building and result shaping so
// that both see the same filter/sort sets.
type Snapshot struct {
	Configuration SearchConfiguration
	Filters       []FilterDefinition
	Sorts         []SortDefinition
}

// FilterByDisplayName resolves an aggregation bucket name back to its
// filter definition.
func (s Snapshot) FilterByDisplayName(name string) (FilterDefinition, bool) {
	for _, f := range s.Filters {
		if f.DisplayName == name {
			return f, true
		}
	}
	return FilterDefinition{}, false
}

// FilterByFieldPath reports whether a raw request parameter corresponds to
// an active filter definition.
func (s Snapshot) FilterByFieldPath(path string) (FilterDefinition, bool) {
	for _, f := range s.Filters {
		if string(f.FieldPath) == path {
			return f, true
		}
	}
	return FilterDefinition{}, false
}

type InvalidFieldPathError struct {
	Path   string
	Reason string
}

func (e *InvalidFieldPathError) Error() string {
	return fmt.Sprintf("invalid field path %q: %s", e.Path, e.Reason)
}

func (e *InvalidFieldPathError) Is(target error) bool {
	return target == ErrInvalidFieldPath
}

type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type InvalidEntryError struct {
	Kind   string
	Reason string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
}

func (e *InvalidEntryError) Is(target error) bool {
	return target == ErrInvalidEntry
}
