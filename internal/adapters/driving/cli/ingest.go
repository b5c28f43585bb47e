package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/logger"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Index parsed presentations",
	Long: `Chunks each presentation at deck, slide, and element granularity,
computes embeddings, and upserts the chunks into the index.

Input paths are JSON documents following the parsed-presentation contract
(frontmatter metadata plus an ordered slide list), or directories that are
scanned for .json files. With --watch, the command keeps running and
re-indexes files as they are created or modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false,
		"keep running and re-index files on change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	for _, path := range args {
		if err := ingestPath(ctx, cmd, path); err != nil {
			return err
		}
	}

	if ingestWatch {
		return watchAndIngest(ctx, cmd, args)
	}
	return nil
}

// ingestPath indexes a single file, or every .json file under a directory.
func ingestPath(ctx context.Context, cmd *cobra.Command, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return ingestFile(ctx, cmd, path)
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isHidden(p) || !strings.HasSuffix(p, ".json") {
			return nil
		}
		return ingestFile(ctx, cmd, p)
	})
}

func ingestFile(ctx context.Context, cmd *cobra.Command, path string) error {
	p, err := loadPresentation(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	deckID, slides, elements, err := indexerService.Index(ctx, *p, path)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", path, err)
	}

	cmd.Printf("Indexed %s\n", path)
	cmd.Printf("  deck %s: %d slides, %d elements\n", deckID, slides, elements)
	return nil
}

// watchAndIngest blocks, re-indexing presentation files as they change.
// Files are watched through their containing directory so editors that
// replace-on-save still trigger events.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dirs := make(map[string]bool)
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		dir := path
		if !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	cmd.Printf("Watching %d directories for changes (Ctrl+C to stop)\n", len(dirs))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if isHidden(event.Name) || !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}
			if err := ingestFile(ctx, cmd, event.Name); err != nil {
				logger.Warn("Re-index failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-sigCh:
			cmd.Println("Stopping watch")
			return nil
		}
	}
}

// isHidden reports whether any path component starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func loadPresentation(path string) (*domain.Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p domain.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}
	if len(p.Slides) == 0 {
		return nil, fmt.Errorf("%w: no slides", domain.ErrInvalidInput)
	}
	return &p, nil
}
