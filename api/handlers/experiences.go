package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/discovery/logger"
	"github.com/lumenlearn/discovery/validation"
	"github.com/lumenlearn/discovery/xis"
)

type ExperienceRequest struct {
	ExperienceID string `uri:"experience_id" json:"experience_id" validate:"required,valid_doc_id"`
}

// MetadataClient fetches single experience records from the metadata
// service.
type MetadataClient interface {
	Experience(ctx context.Context, recordID string) (map[string]any, error)
}

func SetupExperiences(router *gin.Engine, logger logger.Logger, client MetadataClient, validator *validation.Validator, timeout time.Duration) {
	router.GET("/api/experiences/:experience_id", handleExperience(client, logger, validator, timeout))
}

func handleExperience(client MetadataClient, logger logger.Logger, validator *validation.Validator, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ExperienceRequest{}
		if err := c.ShouldBindUri(&request); err != nil {
			logger.Warn("could not extract experience id", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate experience request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		record, err := client.Experience(ctx, request.ExperienceID)
		if err != nil {
			c.Abort()
			if errors.Is(err, xis.ErrRecordNotFound) {
				writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
				return
			}
			logger.Error("experience fetch failed", "experience_id", request.ExperienceID, "err", err.Error())
			writeResponse(c, nil, http.StatusInternalServerError, []string{"error fetching experience record; please contact an administrator"})
			return
		}

		writeResponse(c, record, http.StatusOK, nil)
	}
}
