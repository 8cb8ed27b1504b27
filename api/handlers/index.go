package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumenlearn/discovery/logger"
	"github.com/lumenlearn/discovery/services/ingest"
)

type IndexResponse struct {
	RequestID string `json:"request_id"`
	Indexed   int    `json:"indexed"`
}

func SetupIndex(router *gin.Engine, logger logger.Logger, client ingest.Client, indexer ingest.Indexer, timeout time.Duration) {
	service := ingest.New(logger, client, indexer)
	router.POST("/api/index", handleIndex(service, logger, timeout))
}

func handleIndex(service *ingest.Service, logger logger.Logger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		logger.Info("starting ingest", "request_id", requestID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		indexed, err := service.Run(ctx)
		if err != nil {
			logger.Error("ingest failed", "request_id", requestID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, IndexResponse{RequestID: requestID, Indexed: indexed}, http.StatusOK, nil)
	}
}
