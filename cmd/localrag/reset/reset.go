// Package resetcmder provides the reset command for deleting all indexed
// documents.
package resetcmder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/cliui"
	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/logger"
	ragutils "github.com/NimanthaSupun/localrag/pkg/rag/utils"
)

type resetCommander struct {
	yes       bool
	configDir string
	debug     bool
	logger    *zap.Logger
}

const resetLongDesc string = `Delete all indexed documents.

Drops the vector collection and recreates it empty. This cannot be undone;
use --yes to skip the confirmation prompt.

Examples:
  localrag reset
  localrag reset --yes`

const resetShortDesc string = "Delete all indexed documents"

func NewResetCmd() *cobra.Command {
	cmder := &resetCommander{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: resetShortDesc,
		Long:  resetLongDesc,
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

	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (c *resetCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	if !c.yes && !confirm() {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Aborted."))
		return nil
	}

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

	if err := svc.Reset(context.Background()); err != nil {
		return err
	}

	fmt.Printf("\n  %s Collection %s reset\n\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(cfg.Qdrant.Collection),
	)
	return nil
}

func confirm() bool {
	fmt.Print("Delete all indexed documents? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
