// Command hwcfilter runs a recorded frame sequence through a filter
// pipeline and prints the resulting layer stacks.
//
// Usage:
//
//	hwcfilter -config pipeline.toml -frames frames.yaml [-watch] [-v]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/hwcfilter"
	"github.com/gogpu/hwcfilter/content"
	"github.com/gogpu/hwcfilter/internal/scenario"
)

func main() {
	var (
		configPath = flag.String("config", "pipeline.toml", "pipeline configuration")
		framesPath = flag.String("frames", "frames.yaml", "frame sequence")
		watch      = flag.Bool("watch", false, "re-run whenever the frames file changes")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := scenario.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	hwcfilter.SetLogger(logger)

	m, err := cfg.Build(logger)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	m.OpenSession(hwcfilter.NullDevice{})

	if err := runFile(os.Stdout, m, *framesPath); err != nil {
		log.Fatal(err)
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := watchFile(ctx, logger, *framesPath, func() {
		// A new recording starts a new session.
		m.OpenSession(hwcfilter.NullDevice{})
		if err := runFile(os.Stdout, m, *framesPath); err != nil {
			logger.Error("run failed", "err", err)
		}
	}); err != nil {
		log.Fatal(err)
	}
}

func runFile(w io.Writer, m *hwcfilter.Manager, path string) error {
	frames, err := scenario.LoadFrames(path)
	if err != nil {
		return err
	}
	for i, frame := range frames {
		out := m.Apply(frame, hwcfilter.PositionDebug, hwcfilter.PositionLast)
		printFrame(w, i, out)
	}
	if dump := m.Dump(); dump != "" {
		fmt.Fprint(w, dump)
	}
	return nil
}

func printFrame(w io.Writer, i int, c *content.Content) {
	fmt.Fprintf(w, "frame %d\n", i)
	for d := range c.Len() {
		disp := c.Display(d)
		if !disp.Enabled {
			fmt.Fprintf(w, "  display %d: disabled\n", disp.ID)
			continue
		}
		fmt.Fprintf(w, "  display %d: %d layers\n", disp.ID, disp.Stack.Len())
		for _, l := range disp.Stack.Layers {
			fmt.Fprintf(w, "    %d %-12s dst=%v src=%v\n", l.ID, l.Name, l.Dst, l.Src)
		}
	}
}

// watchFile calls fn after every write to path until ctx is done. The
// directory is watched so editors that replace the file are followed.
func watchFile(ctx context.Context, logger *slog.Logger, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watching", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug("frames changed", "op", event.Op.String())
				fn()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
