package searchdb

import "strings"

// Params carries the request-scoped search inputs. Filters maps document
// field paths to one or more selected values, exactly as submitted by the
// caller after scoping to the active filter configuration.
type Params struct {
	Keyword string
	Filters map[string][]string
	Sort    string
	Page    int
}

type Document struct {
	ID     string
	Source map[string]any
}

// Hit is one matched document plus the engine metadata needed by clients.
type Hit struct {
	ID     string
	Index  string
	Score  float64
	Source map[string]any
}

// Body returns the document body with the engine metadata merged in under
// the reserved "meta" key.
func (h Hit) Body() map[string]any {
	body := make(map[string]any, len(h.Source)+1)
	for key, value := range h.Source {
		body[key] = value
	}
	body["meta"] = map[string]any{
		"id":    h.ID,
		"index": h.Index,
	}

	return body
}

// FacetBuckets maps a distinct field value to its document count.
type FacetBuckets map[string]int

type Response struct {
	Hits   []Hit
	Total  uint64
	Facets map[string]FacetBuckets
}

const keywordFieldSuffix = ".keyword"

// unflatten rebuilds a nested document body from the engine's flattened
// stored-field keys ("Course.CourseTitle" -> {"Course": {"CourseTitle": ...}}).
// Keyword sibling fields are index-only and never belong in the body.
func unflatten(fields map[string]any) map[string]any {
	body := map[string]any{}

	for key, value := range fields {
		if strings.HasSuffix(key, keywordFieldSuffix) {
			continue
		}

		segments := strings.Split(key, ".")
		current := body
		for i, segment := range segments {
			if i == len(segments)-1 {
				current[segment] = value
				break
			}

			next, ok := current[segment].(map[string]any)
			if !ok {
				if _, exists := current[segment]; exists {
					// a scalar already lives at this path; leave it alone
					break
				}
				next = map[string]any{}
				current[segment] = next
			}
			current = next
		}
	}

	return body
}
