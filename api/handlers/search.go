package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/db/searchdb"
	"github.com/lumenlearn/discovery/logger"
	"github.com/lumenlearn/discovery/services/search"
	"github.com/lumenlearn/discovery/validation"
)

type SearchRequest struct {
	Keyword string `form:"keyword" json:"keyword" validate:"required,valid_keyword,max=1000"`
	Page    string `form:"p" json:"p"`
	Sort    string `form:"sort" json:"sort"`
}

type SimilarRequest struct {
	DocID string `uri:"doc_id" json:"doc_id" validate:"required,valid_doc_id"`
}

// reserved query parameters that never act as filter fields
var reservedSearchParams = map[string]bool{
	"keyword": true,
	"p":       true,
	"sort":    true,
}

func SetupSearch(router *gin.Engine, logger logger.Logger, engine searchdb.DB, configs *configstore.Store, validator *validation.Validator, timeout time.Duration) {
	service := search.New(logger, engine, configs)
	router.GET("/api/search", handleSearch(service, logger, validator, timeout))
	router.GET("/api/search/more-like-this/:doc_id", handleSimilar(service, logger, validator, timeout))
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		envelope, err := service.Search(ctx, request.Keyword, filterParams(c), request.Sort, request.Page)
		if err != nil {
			writeSearchError(c, logger, err)
			return
		}

		writeResponse(c, envelope, http.StatusOK, nil)
	}
}

func handleSimilar(service *search.Service, logger logger.Logger, validator *validation.Validator, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SimilarRequest{}
		if err := c.ShouldBindUri(&request); err != nil {
			logger.Warn("could not extract document id from similarity request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate similarity request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		envelope, err := service.Similar(ctx, request.DocID)
		if err != nil {
			writeSearchError(c, logger, err)
			return
		}

		writeResponse(c, envelope, http.StatusOK, nil)
	}
}

// filterParams collects every query parameter that is not reserved, as the
// raw field -> values filter map. Scoping to active filter definitions
// happens in the search service.
func filterParams(c *gin.Context) map[string][]string {
	filters := map[string][]string{}
	for key, values := range c.Request.URL.Query() {
		if reservedSearchParams[key] {
			continue
		}
		nonEmpty := make([]string, 0, len(values))
		for _, value := range values {
			if value != "" {
				nonEmpty = append(nonEmpty, value)
			}
		}
		if len(nonEmpty) > 0 {
			filters[key] = nonEmpty
		}
	}

	return filters
}

func writeSearchError(c *gin.Context, logger logger.Logger, err error) {
	c.Abort()

	switch {
	case errors.Is(err, search.ErrMissingKeyword):
		writeResponse(c, nil, http.StatusBadRequest, []string{"request is missing 'keyword' query parameter"})
	case errors.Is(err, search.ErrInvalidPage):
		logger.Warn("invalid page parameter", "err", err.Error())
		writeResponse(c, nil, http.StatusBadRequest, []string{err.Error()})
	case errors.Is(err, search.ErrInconsistentConfig):
		logger.Error("configuration changed mid-flight", "err", err.Error())
		writeResponse(c, nil, http.StatusInternalServerError, []string{ErrMsgSearchFailed})
	default:
		// transport failures and missing similarity seeds land here
		logger.Error("search failed", "err", err.Error())
		writeResponse(c, nil, http.StatusInternalServerError, []string{ErrMsgSearchFailed})
	}
}
