package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/ReviewRAG/internal/rag"
)

// reindexDebounce coalesces bursts of write events into one rebuild
const reindexDebounce = 500 * time.Millisecond

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [corpus.csv]",
		Short: "Watch the corpus file and re-index on change",
		Long: `Monitor the review corpus for changes and rebuild the vector index
whenever the file is written.

Uses file system notifications to detect changes. Bursts of writes are
coalesced so the corpus is embedded once per save. Press Ctrl+C to stop.

Examples:
  reviewrag watch
  reviewrag watch reviews.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	path := cfg.Corpus.Path
	if len(args) == 1 {
		path = args[0]
	}

	if err := validateWatchFilePath(path); err != nil {
		return fmt.Errorf("invalid corpus path: %w", err)
	}

	indexer, components, err := buildIndexer(cfg)
	if err != nil {
		return err
	}
	defer components.close()

	watcher, err := createWatcher(path)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching corpus: %s\n", path)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	// Index once up front so the watcher starts from a fresh state
	if err := rebuildIndex(cmd.Context(), indexer, path); err != nil {
		return err
	}

	return runWatchLoop(cmd.Context(), watcher, indexer, path)
}

// createWatcher creates and configures a new file system watcher
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save
	// and a file-level watch dies with the old inode
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// runWatchLoop runs the main watch loop with signal handling
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, indexer *rag.Indexer, path string) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	var debounce *time.Timer
	var rebuild <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !eventTouchesCorpus(event, path) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reindexDebounce)
			} else {
				debounce.Reset(reindexDebounce)
			}
			rebuild = debounce.C

		case <-rebuild:
			rebuild = nil
			if err := rebuildIndex(ctx, indexer, path); err != nil {
				// Keep watching; the next save may fix the corpus
				fmt.Fprintf(os.Stderr, "Re-index failed: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// eventTouchesCorpus reports whether the event concerns the corpus file
func eventTouchesCorpus(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func rebuildIndex(ctx context.Context, indexer *rag.Indexer, path string) error {
	start := time.Now()
	count, err := indexer.Build(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("[%s] indexed %d reviews in %s\n",
		time.Now().Format("15:04:05"), count, time.Since(start).Round(time.Millisecond))
	return nil
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
