package searchdb

import (
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/lumenlearn/discovery/db/configstore"
)

// SearchFields are the full-text fields a keyword is matched against. A
// match on any of them counts.
var SearchFields = []string{
	"Course.CourseTitle",
	"Course.CourseShortDescription",
	"Course.CourseFullDescription",
}

const (
	reservedKeyPage = "page"
	reservedKeySort = "sort"

	facetSize = 10

	boostForTitle        = 2.0
	boostForPartialMatch = 1.5

	// similarResultCount caps more-like-this responses.
	similarResultCount = 6
)

// PageStart returns the window start offset for a 1-based page number and
// a page size.
func PageStart(pageNumber int, pageSize int) int {
	if pageNumber <= 1 {
		return 0
	}

	return (pageNumber - 1) * pageSize
}

// BuildSearchRequest constructs an engine query from the request inputs and
// the configuration snapshot: a full-text clause over SearchFields, one
// exact-term constraint per filter entry, a whitelisted sort clause, one
// bucket aggregation per active filter, and the pagination window. It has
// no side effects; identical inputs produce a structurally identical
// request.
func BuildSearchRequest(params Params, snapshot configstore.Snapshot) *bleve.SearchRequest {
	rootQuery := bleve.NewBooleanQuery()
	rootQuery.AddMust(keywordQuery(params.Keyword))

	for _, field := range sortedFilterFields(params.Filters) {
		if field == reservedKeyPage || field == reservedKeySort {
			continue
		}
		rootQuery.AddMust(termsFilter(field, params.Filters[field]))
	}

	pageSize := snapshot.Configuration.ResultsPerPage
	request := bleve.NewSearchRequestOptions(rootQuery, pageSize, PageStart(params.Page, pageSize), false)
	request.Fields = []string{"*"}

	// a sort key is honored only when it names an active sort definition;
	// anything else falls back to relevance ordering
	if params.Sort != "" {
		for _, sortOption := range snapshot.Sorts {
			if string(sortOption.FieldPath) == params.Sort {
				request.SortBy([]string{sortOption.FieldPath.Keyword()})
				break
			}
		}
	}

	for _, filter := range snapshot.Filters {
		request.AddFacet(filter.DisplayName, bleve.NewFacetRequest(filter.FieldPath.Keyword(), facetSize))
	}

	return request
}

// keywordQuery matches the keyword against every search field, with a
// prefix clause on the title for partial matches.
func keywordQuery(keyword string) query.Query {
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	disjunctQuery := bleve.NewDisjunctionQuery()

	for _, field := range SearchFields {
		matchQuery := bleve.NewMatchQuery(keyword)
		matchQuery.SetField(field)
		if field == SearchFields[0] {
			matchQuery.SetBoost(boostForTitle)
		}
		disjunctQuery.AddQuery(matchQuery)
	}

	if len(keyword) > 2 {
		prefixQuery := bleve.NewPrefixQuery(keyword)
		prefixQuery.SetField(SearchFields[0])
		prefixQuery.SetBoost(boostForPartialMatch)
		disjunctQuery.AddQuery(prefixQuery)
	}

	return disjunctQuery
}

// termsFilter builds the exact-match constraint for one field: values are
// OR-combined term queries against the field's keyword sibling.
func termsFilter(field string, values []string) query.Query {
	keywordField := configstore.FieldPath(field).Keyword()

	disjunctQuery := bleve.NewDisjunctionQuery()
	for _, value := range values {
		termQuery := bleve.NewTermQuery(value)
		termQuery.SetField(keywordField)
		disjunctQuery.AddQuery(termQuery)
	}

	return disjunctQuery
}

// sortedFilterFields fixes the iteration order so that building is
// deterministic.
func sortedFilterFields(filters map[string][]string) []string {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fields
}

// BuildSimilarityRequest constructs the more-like-this query: the seed
// document's text is matched back against the search fields, the seed
// itself is excluded, and the response is capped at the fixed similar
// result count. No filters, sorting or aggregations apply on this path.
func BuildSimilarityRequest(seedID string, seedText map[string]string) *bleve.SearchRequest {
	likeQuery := bleve.NewDisjunctionQuery()
	for _, field := range SearchFields {
		text := strings.TrimSpace(seedText[field])
		if text == "" {
			continue
		}
		matchQuery := bleve.NewMatchQuery(text)
		matchQuery.SetField(field)
		likeQuery.AddQuery(matchQuery)
	}

	rootQuery := bleve.NewBooleanQuery()
	rootQuery.AddMust(likeQuery)
	rootQuery.AddMustNot(bleve.NewDocIDQuery([]string{seedID}))

	request := bleve.NewSearchRequestOptions(rootQuery, similarResultCount, 0, false)
	request.Fields = []string{"*"}

	return request
}
