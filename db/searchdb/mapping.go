package searchdb

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/lumenlearn/discovery/db/configstore"
)

// createIndexMapping builds the experience document mapping. The fields
// named by SearchFields get a standard-analyzed mapping for full-text
// matching; every field path in keywordFields additionally gets a
// "<field>.keyword" sibling indexed with the keyword analyzer, the
// non-analyzed variant that term filters, sorts and aggregations run
// against. Fields outside the configuration fall through to the default
// dynamic mapping.
func createIndexMapping(keywordFields []configstore.FieldPath) mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	mapped := map[string]bool{}

	for _, fieldPath := range keywordFields {
		if mapped[string(fieldPath)] {
			continue
		}
		mapped[string(fieldPath)] = true

		leafMapping := ensureParentMapping(docMapping, fieldPath.Segments())

		analyzedMapping := bleve.NewTextFieldMapping()
		analyzedMapping.Analyzer = standard.Name

		keywordMapping := bleve.NewTextFieldMapping()
		keywordMapping.Analyzer = keyword.Name
		keywordMapping.Name = fieldPath.Leaf() + keywordFieldSuffix
		keywordMapping.Store = false
		keywordMapping.IncludeInAll = false

		leafMapping.AddFieldMappingsAt(fieldPath.Leaf(), analyzedMapping, keywordMapping)
	}

	for _, field := range SearchFields {
		fieldPath := configstore.FieldPath(field)
		if mapped[field] {
			continue
		}
		mapped[field] = true

		leafMapping := ensureParentMapping(docMapping, fieldPath.Segments())

		analyzedMapping := bleve.NewTextFieldMapping()
		analyzedMapping.Analyzer = standard.Name
		leafMapping.AddFieldMappingsAt(fieldPath.Leaf(), analyzedMapping)
	}

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// ensureParentMapping walks all but the last path segment, creating
// sub-document mappings as needed, and returns the mapping the leaf field
// belongs to.
func ensureParentMapping(docMapping *mapping.DocumentMapping, segments []string) *mapping.DocumentMapping {
	current := docMapping
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current.Properties[segment]
		if !ok {
			child = bleve.NewDocumentMapping()
			current.AddSubDocumentMapping(segment, child)
		}
		current = child
	}

	return current
}
