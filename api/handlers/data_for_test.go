package handlers

import (
	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/db/searchdb"
)

var testCourses = []searchdb.Document{
	{
		ID: "course-python",
		Source: map[string]any{
			"Course": map[string]any{
				"CourseTitle":            "Intro to Python",
				"CourseShortDescription": "Learn Python programming from scratch",
				"CourseFullDescription":  "A beginner friendly course covering Python syntax and data structures",
				"CourseProviderName":     "edX",
			},
			"CourseInstance": map[string]any{"CourseLevel": "Beginner"},
		},
	},
	{
		ID: "course-python-advanced",
		Source: map[string]any{
			"Course": map[string]any{
				"CourseTitle":            "Advanced Python",
				"CourseShortDescription": "Deep dive into Python internals",
				"CourseFullDescription":  "Advanced Python topics such as concurrency and metaprogramming",
				"CourseProviderName":     "Coursera",
			},
			"CourseInstance": map[string]any{"CourseLevel": "Advanced"},
		},
	},
	{
		ID: "course-algebra",
		Source: map[string]any{
			"Course": map[string]any{
				"CourseTitle":            "Linear Algebra",
				"CourseShortDescription": "Learn vectors and matrices",
				"CourseFullDescription":  "An introduction to linear algebra for engineers",
				"CourseProviderName":     "edX",
			},
			"CourseInstance": map[string]any{"CourseLevel": "Beginner"},
		},
	},
}

var testConfiguration = configstore.SearchConfiguration{
	ResultsPerPage:    10,
	CourseImgFallback: "images/default-course.png",
}

var testFilters = []configstore.FilterDefinition{
	{DisplayName: "Course Provider", FieldPath: "Course.CourseProviderName", FilterKind: configstore.FilterKindTerms, Active: true},
	{DisplayName: "Course Level", FieldPath: "CourseInstance.CourseLevel", FilterKind: configstore.FilterKindTerms, Active: true},
}

var testSorts = []configstore.SortDefinition{
	{DisplayName: "Course Title", FieldPath: "Course.CourseTitle", Active: true},
}

var testSpotlights = []configstore.SpotlightEntry{
	{CourseID: "course-python", Active: true},
	{CourseID: "course-gone", Active: true},
	{CourseID: "course-algebra", Active: false},
}

var testHighlights = []configstore.DetailHighlight{
	{DisplayName: "Provider", FieldPath: "Course.CourseProviderName", HighlightIcon: "clipboard", Rank: 1, Active: true},
	{DisplayName: "Level", FieldPath: "CourseInstance.CourseLevel", HighlightIcon: "chart", Rank: 2, Active: true},
}

func testKeywordFields() []configstore.FieldPath {
	fields := make([]configstore.FieldPath, 0, len(testFilters)+len(testSorts))
	for _, filter := range testFilters {
		fields = append(fields, filter.FieldPath)
	}
	for _, sortOption := range testSorts {
		fields = append(fields, sortOption.FieldPath)
	}

	return fields
}
