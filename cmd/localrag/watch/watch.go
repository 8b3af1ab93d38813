// Package watchcmder provides the watch command for continuously indexing
// documents dropped into a directory.
package watchcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/extract"
	"github.com/NimanthaSupun/localrag/pkg/logger"
	"github.com/NimanthaSupun/localrag/pkg/rag"
	ragutils "github.com/NimanthaSupun/localrag/pkg/rag/utils"
)

type watchCommander struct {
	settle    time.Duration
	configDir string
	debug     bool
	logger    *zap.Logger
}

const watchLongDesc string = `Watch a directory and index documents as they appear.

New or modified PDF and plain-text files in the watched directory are
indexed automatically. Writes are debounced so a file is only indexed once
it has stopped changing. Unsupported file types are ignored.

Runs until interrupted.

Examples:
  localrag watch ./inbox
  localrag watch --settle 2s ./inbox`

const watchShortDesc string = "Watch a directory and index new documents"

func NewWatchCmd() *cobra.Command {
	cmder := &watchCommander{}

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: watchShortDesc,
		Long:  watchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(args[0])
		},
	}

	cmd.Flags().DurationVar(&cmder.settle, "settle", time.Second, "How long a file must be quiet before indexing")

	return cmd
}

func (c *watchCommander) run(dir string) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target is not a directory: %s", dir)
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

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.logger.Info("watching directory", zap.String("dir", dir))

	pending := newDebouncer(c.settle, func(path string) {
		c.ingest(ctx, svc, path)
	})
	defer pending.stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if extract.DetectType(event.Name) == "" {
				continue
			}
			pending.touch(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (c *watchCommander) ingest(ctx context.Context, svc *rag.Service, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("reading file", zap.String("file", path), zap.Error(err))
		return
	}

	result, err := svc.IngestFile(ctx, rag.File{
		Name: filepath.Base(path),
		Data: data,
	})
	if err != nil {
		c.logger.Warn("indexing failed",
			zap.String("file", path),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("indexed",
		zap.String("file", result.File),
		zap.Int("chunks", result.Chunks),
		zap.Bool("no_content", result.NoContent),
	)
}

// debouncer delays per-path callbacks until the path has been quiet for the
// settle duration, collapsing bursts of write events into one ingest.
type debouncer struct {
	mu      sync.Mutex
	settle  time.Duration
	timers  map[string]*time.Timer
	fire    func(path string)
	stopped bool
}

func newDebouncer(settle time.Duration, fire func(path string)) *debouncer {
	return &debouncer{
		settle: settle,
		timers: make(map[string]*time.Timer),
		fire:   fire,
	}
}

func (d *debouncer) touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, ok := d.timers[path]; ok {
		timer.Reset(d.settle)
		return
	}

	d.timers[path] = time.AfterFunc(d.settle, func() {
		d.mu.Lock()
		delete(d.timers, path)
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			d.fire(path)
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}
