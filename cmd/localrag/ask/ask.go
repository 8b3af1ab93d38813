// Package askcmder provides the ask command for answering a question over
// indexed documents.
package askcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/cliui"
	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/generate"
	"github.com/NimanthaSupun/localrag/pkg/logger"
	ragutils "github.com/NimanthaSupun/localrag/pkg/rag/utils"
	"github.com/NimanthaSupun/localrag/pkg/utils"
	"github.com/NimanthaSupun/localrag/pkg/vector"
)

type askCommander struct {
	topK      int
	render    bool
	noSources bool
	configDir string
	debug     bool
	logger    *zap.Logger
}

const askLongDesc string = `Ask a question over the indexed documents.

The question is embedded and matched against stored chunks; the closest
chunks are fed to the generation model as context and the answer is streamed
to stdout as it is generated.

With --render the answer is collected first and printed as formatted
markdown instead of a raw token stream.

Examples:
  localrag ask "What does the report say about latency?"
  localrag ask --top-k 5 --render "Summarize the architecture"`

const askShortDesc string = "Ask a question over indexed documents"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top-k", "k", 0, "Number of chunks to retrieve (default: configured value)")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Render the answer as markdown instead of streaming")
	cmd.Flags().BoolVar(&cmder.noSources, "no-sources", false, "Suppress the retrieved source listing")

	return cmd
}

func (c *askCommander) run(cmd *cobra.Command, question string) error {
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

	if cmd.Flags().Changed("top-k") {
		cfg.Retrieval.TopK = c.topK
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	svc, err := ragutils.NewService(cfg, c.logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	answer, err := svc.Query(context.Background(), question)
	if err != nil {
		return err
	}
	defer answer.Stream.Close()

	if !c.noSources {
		c.printSources(answer.Sources)
	}

	if c.render {
		return c.renderAnswer(answer.Stream)
	}
	return c.streamAnswer(answer.Stream)
}

func (c *askCommander) printSources(sources []vector.QueryResult) {
	if len(sources) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No matching chunks found."))
		return
	}

	fmt.Println()
	for i, src := range sources {
		preview := utils.Truncate(strings.ReplaceAll(src.Payload.Text, "\n", " "), 72)
		fmt.Printf("  %s %s %s\n      %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.SourceStyle.Render(src.Payload.SourceFile),
			cliui.ScoreStyle.Render(fmt.Sprintf("(%.3f)", src.Score)),
			cliui.DimStyle.Render(preview),
		)
	}
	fmt.Println()
}

func (c *askCommander) streamAnswer(stream *generate.Stream) error {
	for {
		token, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Println()
			return c.finishPartial(err)
		}
		fmt.Print(token)
	}

	fmt.Println()
	return nil
}

func (c *askCommander) renderAnswer(stream *generate.Stream) error {
	text, err := stream.Collect()
	if err != nil {
		if text != "" {
			if rendered, rerr := cliui.RenderMarkdown(text); rerr == nil {
				fmt.Print(rendered)
			} else {
				fmt.Println(text)
			}
		}
		return c.finishPartial(err)
	}

	rendered, err := cliui.RenderMarkdown(text)
	if err != nil {
		fmt.Println(text)
		return nil
	}

	fmt.Print(rendered)
	return nil
}

func (c *askCommander) finishPartial(err error) error {
	if errors.Is(err, generate.ErrPartialAnswer) {
		fmt.Fprintf(os.Stderr, "\n  %s answer is incomplete: %v\n", cliui.FailMark, err)
	}
	return err
}
