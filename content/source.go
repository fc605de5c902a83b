package content

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/gallery"
)

// Source holds the current Site snapshot. Snapshots are replaced whole on
// reload and never modified, so readers may keep one as long as they like.
type Source struct {
	dir string
	log *zap.Logger
	cur atomic.Pointer[Site]
}

// NewSource loads dir and returns a source serving it.
func NewSource(dir string, log *zap.Logger) (*Source, error) {
	s := &Source{dir: dir, log: log}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Site returns the current snapshot.
func (s *Source) Site() *Site { return s.cur.Load() }

// Projects returns the project list of the current snapshot.
func (s *Source) Projects() []gallery.Project { return s.cur.Load().Projects }

// Reload reads the content directory again. On error the previous
// snapshot stays in place.
func (s *Source) Reload() error {
	site, err := Load(s.dir)
	if err != nil {
		return err
	}
	s.cur.Store(site)
	s.log.Info("content loaded",
		zap.String("dir", s.dir),
		zap.Int("projects", len(site.Projects)),
		zap.Int("dropped", site.Dropped()))
	return nil
}

const reloadDelay = 250 * time.Millisecond

// Watch reloads the content whenever a content file in the directory
// changes, until ctx is cancelled. Bursts of events are coalesced.
func (s *Source) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if slices.Contains(Extensions, filepath.Ext(ev.Name)) {
				pending = time.After(reloadDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("content watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := s.Reload(); err != nil {
				s.log.Error("content reload failed, keeping previous content", zap.Error(err))
			}
		}
	}
}
