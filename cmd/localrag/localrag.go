// Package localragcmder
package localragcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/NimanthaSupun/localrag/cmd/localrag/ask"
	configcmder "github.com/NimanthaSupun/localrag/cmd/localrag/config"
	ingestcmder "github.com/NimanthaSupun/localrag/cmd/localrag/ingest"
	resetcmder "github.com/NimanthaSupun/localrag/cmd/localrag/reset"
	servecmder "github.com/NimanthaSupun/localrag/cmd/localrag/serve"
	statuscmder "github.com/NimanthaSupun/localrag/cmd/localrag/status"
	watchcmder "github.com/NimanthaSupun/localrag/cmd/localrag/watch"
	versioncmder "github.com/NimanthaSupun/localrag/cmd/version"
)

const localragLongDesc string = `Localrag answers questions over your own documents.

Documents are split into overlapping chunks, embedded with a local Ollama
model, and stored in a vector database. Questions are answered by retrieving
the closest chunks and generating a grounded response.

Common workflows:
  localrag ingest doc.pdf      Index a document
  localrag ask "question"      Ask a question over indexed documents
  localrag serve               Run the HTTP API server`

const localragShortDesc string = "Localrag - Local Document Q&A"

func NewLocalragCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localrag",
		Short: localragShortDesc,
		Long:  localragLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: ~/.localrag)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(resetcmder.NewResetCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
