// Package statuscmder provides the status command for checking service
// connectivity and the active configuration.
package statuscmder

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/cliui"
	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/logger"
	ragutils "github.com/NimanthaSupun/localrag/pkg/rag/utils"
)

type statusCommander struct {
	configDir string
	debug     bool
	logger    *zap.Logger
}

const statusLongDesc string = `Show service connectivity and active configuration.

Checks that the Ollama inference service and the vector store are reachable,
reports the number of stored chunks, and lists the effective configuration.

Examples:
  localrag status`

const statusShortDesc string = "Show service connectivity and configuration"

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run()
		},
	}

	return cmd
}

func (c *statusCommander) run() error {
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

	status := svc.Status(context.Background())

	fmt.Printf("\n  %s %s\n", mark(status.OllamaOK), cliui.KeyStyle.Render("Ollama"))
	fmt.Printf("  %s %s\n", mark(status.StoreOK), cliui.KeyStyle.Render("Vector store"))
	fmt.Printf("\n  %s  %s\n\n",
		cliui.KeyStyle.Render("Indexed chunks:"),
		cliui.ValueStyle.Render(strconv.FormatUint(status.Points, 10)),
	)

	for _, setting := range status.Config {
		fmt.Printf("  %-24s %s\n",
			cliui.DimStyle.Render(setting.Key),
			cliui.ValueStyle.Render(setting.Value),
		)
	}
	fmt.Println()

	return nil
}

func mark(ok bool) string {
	if ok {
		return cliui.SuccessMark
	}
	return cliui.FailMark
}
