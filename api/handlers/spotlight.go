package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/db/searchdb"
	"github.com/lumenlearn/discovery/logger"
	"github.com/lumenlearn/discovery/services/spotlight"
)

func SetupSpotlight(router *gin.Engine, logger logger.Logger, engine searchdb.DB, configs *configstore.Store, timeout time.Duration) {
	service := spotlight.New(logger, engine, configs)
	router.GET("/api/spotlight-courses", handleSpotlight(service, logger, timeout))
}

func handleSpotlight(service *spotlight.Service, logger logger.Logger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		courses, err := service.Courses(ctx)
		if err != nil {
			logger.Error("spotlight lookup failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{ErrMsgSearchFailed})
			return
		}

		writeResponse(c, courses, http.StatusOK, nil)
	}
}
