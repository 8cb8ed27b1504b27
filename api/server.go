package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/discovery/config"
	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/db/searchdb"
	"github.com/lumenlearn/discovery/logger"
	"github.com/lumenlearn/discovery/validation"
	"github.com/lumenlearn/discovery/xis"
)

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	cfg            *config.Config
	configs        *configstore.Store
	searchdb       searchdb.DB
	metadataClient *xis.Client
	validator      *validation.Validator
	logger         logger.Logger
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(),
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	s.setupRouter()
	s.setupHTTPServer()
	s.setupGracefulShutdown(ctx)

	return nil
}

func (s *server) setupDependencies() error {
	var err error
	s.configs, err = configstore.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating configuration store", "err", err.Error())
		return err
	}

	if seedPath := s.cfg.GetSeedPath(); seedPath != "" {
		if err := s.configs.LoadSeed(seedPath); err != nil {
			s.logger.Error("error seeding configuration store", "err", err.Error())
			return err
		}
	}

	keywordFields, err := s.keywordFields()
	if err != nil {
		return err
	}

	s.searchdb, err = searchdb.New(s.logger, s.cfg, keywordFields)
	if err != nil {
		s.logger.Error("error creating search database", "err", err.Error())
		return err
	}

	s.metadataClient = xis.NewClient(s.logger, s.cfg)

	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	return nil

}

// keywordFields gathers every configured filter and sort field path; the
// index mapping gives each one an exact-match sibling field.
func (s *server) keywordFields() ([]configstore.FieldPath, error) {
	filters, err := s.configs.ActiveFilters()
	if err != nil {
		s.logger.Error("error reading filter definitions", "err", err.Error())
		return nil, err
	}
	sorts, err := s.configs.ActiveSorts()
	if err != nil {
		s.logger.Error("error reading sort definitions", "err", err.Error())
		return nil, err
	}

	fields := make([]configstore.FieldPath, 0, len(filters)+len(sorts))
	for _, filter := range filters {
		fields = append(fields, filter.FieldPath)
	}
	for _, sortOption := range sorts {
		fields = append(fields, sortOption.FieldPath)
	}

	return fields, nil
}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.searchdb, s.configs, s.metadataClient, s.validator, s.cfg.GetRequestTimeout())

	s.router = router
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		s.configs.Close()
		s.searchdb.Close()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
}
