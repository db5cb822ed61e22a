package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/logger"
)

var (
	watchSets     string
	watchFormat   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-analyse a data file whenever the override definition changes",
	Long: `Analyses a data file with an override set definition, then watches the
definition file and re-runs the analysis each time it is saved.

Analysis errors are reported and watching continues. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchSets, "sets", "s", "", "override set definition file to watch (.xml or .iif)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "output format: json, csv or table")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "quiet period before re-analysing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}
	if watchSets == "" {
		return errors.New("--sets is required")
	}

	opts, err := outputOptions(cmd, watchFormat, false, 0)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	req := domain.AnalysisRequest{
		DataPath:         args[0],
		OverridePath:     watchSets,
		IncludeParticles: opts.particles,
	}
	analyze := func() {
		result, err := analysisService.Analyze(ctx, req)
		writeMetrics(cmd, "")
		if err != nil {
			logger.Error("analysis failed: %v", err)
			return
		}
		if err := writeResults(cmd.OutOrStdout(), opts.format, []*domain.AnalysisResult{result}); err != nil {
			logger.Error("%v", err)
		}
	}

	watcher, err := newFileWatcher(watchSets)
	if err != nil {
		return err
	}
	defer watcher.Close()

	analyze()
	cmd.Printf("Watching %s for changes...\n", watchSets)
	return watcher.Run(ctx, watchDebounce, func() {
		logger.Info("%s changed, re-analysing", watchSets)
		analyze()
	})
}

// fileWatcher reports writes to one file. It watches the parent directory
// so editors that save by rename are still seen.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &fileWatcher{watcher: w, path: abs}, nil
}

// Run calls onChange once per burst of writes, after debounce of quiet.
// It returns when ctx is cancelled or the watcher is closed.
func (fw *fileWatcher) Run(ctx context.Context, debounce time.Duration, onChange func()) error {
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(event) {
				continue
			}
			logger.Debug("watch: %s", event)
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}

		case <-fire:
			onChange()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

func (fw *fileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != fw.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops watching.
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
