// Package ingestcmder provides the ingest command for indexing documents
// from the command line.
package ingestcmder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/cliui"
	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/logger"
	"github.com/NimanthaSupun/localrag/pkg/rag"
	ragutils "github.com/NimanthaSupun/localrag/pkg/rag/utils"
)

type ingestCommander struct {
	configDir string
	debug     bool
	logger    *zap.Logger
}

const ingestLongDesc string = `Index one or more documents for question answering.

Each file is read, split into overlapping chunks, embedded, and stored in
the vector database. PDF and plain-text files are supported. A file that
fails to index does not stop the remaining files.

Examples:
  localrag ingest report.pdf
  localrag ingest notes.txt report.pdf readme.md`

const ingestShortDesc string = "Index documents"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <file> [file...]",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(args)
		},
	}

	return cmd
}

func (c *ingestCommander) run(paths []string) error {
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

	svc, err := ragutils.NewService(cfg, c.logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	failed := 0
	totalChunks := 0

	fmt.Println()
	for _, path := range paths {
		var result rag.IngestResult

		err := cliui.Step(os.Stdout, filepath.Base(path), func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			result, err = svc.IngestFile(ctx, rag.File{
				Name: filepath.Base(path),
				Data: data,
			})
			return err
		})
		if err != nil {
			failed++
			fmt.Printf("      %s\n", cliui.DimStyle.Render(err.Error()))
			continue
		}

		if result.NoContent {
			fmt.Printf("      %s\n", cliui.DimStyle.Render("no extractable text, nothing stored"))
			continue
		}

		totalChunks += result.Chunks
	}

	fmt.Printf("\n  %s Indexed %s chunks from %s file(s)\n\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(fmt.Sprintf("%d", totalChunks)),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", len(paths)-failed)),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to index", failed, len(paths))
	}
	return nil
}
