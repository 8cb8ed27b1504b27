package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/logger"
)

// UIConfigurationResponse is everything a frontend needs to render the
// search surface: pagination size, fallback image, and the active filter,
// sort and detail-highlight definitions.
type UIConfigurationResponse struct {
	SearchResultsPerPage int                            `json:"search_results_per_page"`
	CourseImgFallback    string                         `json:"course_img_fallback"`
	SearchFilters        []configstore.FilterDefinition `json:"search_filters"`
	SearchSortOptions    []configstore.SortDefinition   `json:"search_sort_options"`
	CourseHighlights     []configstore.DetailHighlight  `json:"course_highlights"`
}

func SetupUIConfiguration(router *gin.Engine, logger logger.Logger, configs *configstore.Store) {
	router.GET("/api/ui-configuration", handleUIConfiguration(configs, logger))
}

func handleUIConfiguration(configs *configstore.Store, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		configuration, err := configs.Configuration()
		if err != nil {
			c.Abort()
			if errors.Is(err, configstore.ErrNotFound) {
				writeResponse(c, nil, http.StatusNotFound, []string{"search configuration has not been set up"})
				return
			}
			logger.Error("could not load search configuration", "err", err.Error())
			writeResponse(c, nil, http.StatusInternalServerError, []string{"error loading configuration"})
			return
		}

		filters, err := configs.ActiveFilters()
		if err != nil {
			logger.Error("could not load filter definitions", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{"error loading configuration"})
			return
		}

		sorts, err := configs.ActiveSorts()
		if err != nil {
			logger.Error("could not load sort definitions", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{"error loading configuration"})
			return
		}

		highlights, err := configs.ActiveHighlights()
		if err != nil {
			logger.Error("could not load detail highlights", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{"error loading configuration"})
			return
		}

		writeResponse(c, UIConfigurationResponse{
			SearchResultsPerPage: configuration.ResultsPerPage,
			CourseImgFallback:    configuration.CourseImgFallback,
			SearchFilters:        filters,
			SearchSortOptions:    sorts,
			CourseHighlights:     highlights,
		}, http.StatusOK, nil)
	}
}
