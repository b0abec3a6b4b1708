package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/voterscan/voterscan/constants"
)

type WatchConfig struct {
	Root        string        // inbox directory to watch (recursive)
	InitialScan bool          // if true, walk the root and emit existing files
	Debounce    time.Duration // coalesce rapid create/write bursts
}

// StartWatcher emits paths of card images dropped into the inbox. Events are
// debounced so a file still being written is only announced once it settles.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Root == "" {
		return nil, nil, errors.New("no inbox root provided")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}

	// Watch the root and any nested directories; optionally announce what is
	// already there.
	walk := func() error {
		return filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && constants.IsAllowedExt(filepath.Ext(path)) {
				deliver(evCh, path, logger)
			}
			return nil
		})
	}
	if err := walk(); err != nil {
		logger.Error("failed to watch inbox", "root", cfg.Root, "error", err)
		_ = w.Close()
		return nil, nil, err
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watcher close failed", "error", err)
			}
		}()

		pending := map[string]struct{}{}
		var timer *time.Timer
		var fire <-chan time.Time

		flush := func() {
			for p := range pending {
				deliver(evCh, p, logger)
				delete(pending, p)
			}
			fire = nil
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op&fsnotify.Create != 0 {
					// A new directory starts being watched too.
					if st, err := os.Stat(e.Name); err == nil && st.IsDir() {
						_ = w.Add(e.Name)
						continue
					}
				}
				if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if !constants.IsAllowedExt(filepath.Ext(e.Name)) {
					continue
				}
				pending[e.Name] = struct{}{}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					timer.Reset(cfg.Debounce)
				}
				fire = timer.C
			case <-fire:
				flush()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

// deliver hands a path to the consumer without ever blocking the watch loop.
// A full channel means the consumer is badly behind; the path is dropped, but
// loudly, so a missing inbox file can be traced in the logs.
func deliver(ch chan<- string, path string, logger *slog.Logger) bool {
	select {
	case ch <- path:
		return true
	default:
		logger.Warn("ingest.watch.dropped", "path", path)
		return false
	}
}
