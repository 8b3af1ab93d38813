// Package servecmder provides the HTTP API server cobra command.
package servecmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/api"
	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/logger"
	ragutils "github.com/NimanthaSupun/localrag/pkg/rag/utils"
)

type serveCommander struct {
	listen    string
	configDir string
	debug     bool
	logger    *zap.Logger
}

const serveLongDesc string = `Run the localrag HTTP API server.

Exposes document upload, question answering, and collection management over
HTTP. Answers are streamed as newline-delimited JSON.

Endpoints:
  GET    /ping            Liveness check
  GET    /v1/status       Service connectivity and configuration
  POST   /v1/documents    Upload and index documents (multipart)
  DELETE /v1/documents    Delete all indexed documents
  POST   /v1/query        Ask a question, streaming the answer

Examples:
  localrag serve
  localrag serve --listen :9090`

const serveShortDesc string = "Run the HTTP API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for the API server to listen on")

	return cmd
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	// CLI flags take precedence over config file and environment.
	if cmd.Flags().Changed("listen") {
		cfg.API.Listen = c.listen
	}

	svc, err := ragutils.NewService(cfg, c.logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	server := api.NewServer(api.Config{
		ListenAddr: cfg.API.Listen,
	}, svc, c.logger)

	c.logger.Info("starting API server",
		zap.String("listen", cfg.API.Listen),
		zap.String("vector_store", cfg.VectorStore.Provider),
		zap.String("embed_model", cfg.Ollama.EmbedModel),
		zap.String("gen_model", cfg.Ollama.GenModel),
	)

	return server.Run()
}
