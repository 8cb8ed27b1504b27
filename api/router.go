package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/discovery/api/handlers"
	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/db/searchdb"
	"github.com/lumenlearn/discovery/logger"
	"github.com/lumenlearn/discovery/validation"
	"github.com/lumenlearn/discovery/xis"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, engine searchdb.DB, configs *configstore.Store, metadataClient *xis.Client, validator *validation.Validator, timeout time.Duration) {
	router.GET("/health", health())

	handlers.SetupSearch(router, logger, engine, configs, validator, timeout)
	handlers.SetupSpotlight(router, logger, engine, configs, timeout)
	handlers.SetupExperiences(router, logger, metadataClient, validator, timeout)
	handlers.SetupUIConfiguration(router, logger, configs)
	handlers.SetupIndex(router, logger, metadataClient, engine, timeout)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(authMiddleware())

	return router
}
