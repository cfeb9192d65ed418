package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"skein/internal/hub"
	"skein/internal/model"
	"skein/internal/tailer"
	"skein/internal/watcher"
)

var watchThreshold int

var watchCmd = &cobra.Command{
	Use:   "watch <paths...>",
	Short: "Follow log files live in the terminal",
	Long: `Watch one or more files (or glob patterns) and stream newly appended
entries to the terminal as they are classified.

Examples:
  skein watch /var/log/app.log
  skein watch "/var/log/**/*.log"
  skein watch app.log server.log --output json
  skein watch app.log --errors-above 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchThreshold, "errors-above", 0, "show only error entries with severity strictly above N")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nskein shutting down...")
		cancel()
	}()

	w, t, h, err := buildPipeline(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "skein watching %d file(s):\n", w.FileCount())
	for _, p := range w.Paths() {
		fmt.Fprintf(os.Stderr, "  %s\n", p)
	}
	fmt.Fprintln(os.Stderr)

	renderer := newRenderer()
	entries := h.Subscribe()

	go w.Start(ctx)
	go t.Start(ctx)
	go h.Start(ctx)

	onlyErrorsAbove := cmd.Flags().Changed("errors-above")
	for entry := range entries {
		if onlyErrorsAbove && !errorAbove(entry.Message, watchThreshold) {
			continue
		}
		if err := renderer.Render(entry); err != nil {
			log.Printf("render error: %v", err)
		}
	}

	return nil
}

// buildPipeline wires watcher → tailer → hub for the given patterns.
func buildPipeline(patterns []string) (*watcher.Watcher, *tailer.Tailer, *hub.Hub, error) {
	w, err := watcher.New(patterns)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if w.FileCount() == 0 {
		return nil, nil, nil, fmt.Errorf("no files matched the given patterns: %v", patterns)
	}

	ckpt, err := tailer.NewCheckpoint(filepath.Join(".", ".skein-state.json"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	t := tailer.New(w, ckpt)
	h := hub.New(t.Lines())
	return w, t, h, nil
}

// errorAbove reports whether a message is an error entry with severity
// strictly greater than threshold.
func errorAbove(m model.Message, threshold int) bool {
	known, ok := m.(model.Known)
	if !ok {
		return false
	}
	err, ok := known.Level.(model.Error)
	return ok && err.Severity > threshold
}
