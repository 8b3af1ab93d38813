// Package api provides the HTTP server for uploading documents, asking
// questions, and managing the stored collection.
package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/rag"
)

// Server is the API server for the document question-answering pipeline.
type Server struct {
	config Config
	svc    *rag.Service
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a new API server around an assembled pipeline service.
func NewServer(config Config, svc *rag.Service, logger *zap.Logger) *Server {
	config = config.withDefaults()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             config.BodyLimit,
	})

	s := &Server{
		config: config,
		svc:    svc,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/status", s.handleStatus)
	app.Post("/v1/documents", s.handleIngest)
	app.Delete("/v1/documents", s.handleReset)
	app.Post("/v1/query", s.handleQuery)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
