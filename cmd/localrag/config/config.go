// Package configcmder provides the config command for managing persistent
// localrag configuration stored in the .localrag/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent localrag configuration.

Configuration is stored as config.toml in the ~/.localrag/ directory and
provides default values for command flags. CLI flags and environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  ollama.url, ollama.embed_model, ollama.gen_model,
  qdrant.url, qdrant.collection,
  vector_store.provider, vector_store.sqlite_path,
  embedding.dimensions,
  chunking.size, chunking.overlap,
  retrieval.top_k, api.listen

Use subcommands to get, set, or list configuration values:
  localrag config set <key> <value>    Set a configuration value
  localrag config get <key>            Get a configuration value
  localrag config list                 List all configuration values

Examples:
  localrag config set ollama.embed_model nomic-embed-text
  localrag config set embedding.dimensions 768
  localrag config get qdrant.url
  localrag config list`

const configShortDesc string = "Manage persistent localrag configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
