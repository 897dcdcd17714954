// Package loader populates entity indices from JSON files on disk. Each
// <class>.json file in the data directory holds an array of records; the
// file name (without extension) is the class name. A watcher re-indexes
// a class whenever its file changes.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/indu-doc/tagdex/internal/logger"
	"github.com/indu-doc/tagdex/internal/usecase/index"
)

// Indexer receives the decoded records. Satisfied by the index use case.
type Indexer interface {
	IndexBatch(ctx context.Context, class string, items []index.Item) (int, error)
}

// fileRecord is the on-disk shape of one array element.
type fileRecord struct {
	ID     string          `json:"id"`
	Record json.RawMessage `json:"record"`
}

// Loader reads record files and feeds them to an Indexer.
type Loader struct {
	dir     string
	indexer Indexer
	watcher *fsnotify.Watcher
}

// New creates a loader over dir.
func New(dir string, indexer Indexer) *Loader {
	return &Loader{dir: dir, indexer: indexer}
}

// LoadAll indexes every *.json file in the data directory. Files are
// loaded independently: one malformed file fails the whole load so a
// partially indexed corpus is never silently served.
func (l *Loader) LoadAll(ctx context.Context) error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read data dir %s: %w", l.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := l.LoadFile(ctx, filepath.Join(l.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile indexes one class file. The class name is the file name
// without its extension.
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	class := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	items := make([]index.Item, 0, len(raw))
	for i, r := range raw {
		if r.ID == "" {
			return fmt.Errorf("parse %s: record %d has no id", path, i)
		}
		var source any
		if err := json.Unmarshal(r.Record, &source); err != nil {
			return fmt.Errorf("parse %s: record %q: %w", path, r.ID, err)
		}
		items = append(items, index.Item{ID: r.ID, Source: source})
	}

	stored, err := l.indexer.IndexBatch(ctx, class, items)
	if err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}

	logger.FromContext(ctx).Info("class file loaded",
		zap.String("class", class),
		zap.String("path", path),
		zap.Int("records", stored),
	)
	return nil
}

// Watch re-loads a class file whenever it is created or written. It
// blocks until ctx is cancelled. Load failures for individual files are
// logged and watching continues; the in-memory index keeps its previous
// contents for that class.
func (l *Loader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	l.watcher = w
	defer w.Close()

	if err := w.Add(l.dir); err != nil {
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}

	log := logger.FromContext(ctx)
	log.Info("watching data dir", zap.String("dir", l.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if err := l.LoadFile(ctx, event.Name); err != nil {
				log.Warn("reload failed", zap.String("path", event.Name), zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
