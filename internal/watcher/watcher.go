package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// DefaultDebounce is how long the file must stay quiet before a reload.
const DefaultDebounce = time.Second

// Reloader reloads the catalog.
type Reloader interface {
	Reload(ctx context.Context) (*entities.Catalog, error)
}

// CatalogWatcher reloads the catalog after its file changes.
type CatalogWatcher struct {
	path     string
	reloader Reloader
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a CatalogWatcher for path.
func New(path string, reloader Reloader, debounce time.Duration, logger *zap.Logger) *CatalogWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &CatalogWatcher{
		path:     path,
		reloader: reloader,
		debounce: debounce,
		logger:   logger,
	}
}

// Run watches until ctx is done. The parent directory is watched so that
// editors replacing the file by rename are noticed too.
func (w *CatalogWatcher) Run(ctx context.Context) error {
	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve catalog path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}
	w.logger.Info("watching catalog file", zap.String("path", absPath))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath || !relevant(event.Op) {
				continue
			}
			w.logger.Debug("catalog file changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			if _, err := w.reloader.Reload(ctx); err != nil {
				w.logger.Error("failed to reload catalog", zap.Error(err))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("catalog watcher error", zap.Error(err))
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
