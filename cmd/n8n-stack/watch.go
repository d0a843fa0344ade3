package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for re-synthesizing on env changes.
func newWatchCmd(opts *globalOptions) *cobra.Command {
	var (
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-synthesize when the env file changes",
		Long: `Watch monitors the env file and re-synthesizes the template on each change.

The watch command:
- Monitors the directory holding the env file, so the file may appear later
- Debounces rapid changes to avoid excessive rebuilds
- Reports configuration errors without exiting

Examples:
    n8n-stack watch -o template.json
    n8n-stack watch --env-file .env.staging --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd.OutOrStdout(), opts, watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format for synth: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for synth (default: summary only)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch re-synthesizes whenever the env file is written, created or removed.
func runWatch(ctx context.Context, w io.Writer, opts *globalOptions, wo watchOptions) error {
	logger := opts.logger()

	target, err := filepath.Abs(opts.envFile)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.envFile, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching env file", "path", target)

	runWatchSynth(w, logger, opts, wo)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isEnvFileEvent(event, target) {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(wo.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			logger.Info("env file changed, re-synthesizing")
			runWatchSynth(w, logger, opts, wo)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)

		case <-ctx.Done():
			logger.Info("stopping watch")
			return nil
		}
	}
}

// isEnvFileEvent reports whether event changes the content of target.
func isEnvFileEvent(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func runWatchSynth(w io.Writer, logger *slog.Logger, opts *globalOptions, wo watchOptions) {
	s, _, err := opts.synthesize()
	if err != nil {
		logger.Error("synth failed", "err", err)
		return
	}

	data, err := renderTemplate(s.Template, wo.outputFormat)
	if err != nil {
		logger.Error("render failed", "err", err)
		return
	}

	if wo.outputFile == "" {
		fmt.Fprintf(w, "Synth successful: %d resources\n", len(s.Template.Resources))
		return
	}
	if err := os.WriteFile(wo.outputFile, data, 0644); err != nil {
		logger.Error("failed to write output", "path", wo.outputFile, "err", err)
		return
	}
	fmt.Fprintf(w, "Synth successful, wrote %s\n", wo.outputFile)
}
