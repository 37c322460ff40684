// Package autosave periodically writes the served itinerary as a JSON
// snapshot, skipping runs where nothing changed since the last save.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"

	"stageplan/internal/config"
	"stageplan/internal/datetime"
	appLog "stageplan/internal/log"
	"stageplan/internal/snapshot"
	"stageplan/internal/state"
)

const defaultName = "stageplan"

// Saver owns the cron schedule for one store.
type Saver struct {
	store *state.Store
	dir   string
	clock datetime.Clock
	cron  *cron.Cron

	mu      sync.Mutex
	lastRev uint64
	saved   bool
}

// New validates spec (standard 5-field cron syntax) and prepares a Saver
// writing into dir. Call Start to begin.
func New(store *state.Store, dir, spec string, clk datetime.Clock) (*Saver, error) {
	if store == nil {
		return nil, errors.New("autosave: store is nil")
	}
	if dir == "" {
		return nil, errors.New("autosave: directory is empty")
	}
	if clk == nil {
		clk = datetime.SystemClock{}
	}

	s := &Saver{store: store, dir: dir, clock: clk, cron: cron.New()}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("autosave: invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Saver) Start() {
	appLog.Info("autosave started", "dir", s.dir)
	s.cron.Start()
}

// Stop halts the schedule and returns a context that is done once a
// running save has finished.
func (s *Saver) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Saver) run() {
	if _, _, err := s.SaveNow(); err != nil {
		appLog.Error("autosave failed", err, "dir", s.dir)
	}
}

// SaveNow writes a snapshot if the store changed since the previous save.
// It returns the written path and whether a file was written.
func (s *Saver) SaveNow() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.store.Snapshot()
	if s.saved && snap.Revision == s.lastRev {
		appLog.Debug("autosave skipped, no changes", "revision", snap.Revision)
		return "", false, nil
	}

	data, err := snapshot.Export(snap.Itinerary)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", false, err
	}

	name := snap.Itinerary.Name
	if name == "" {
		name = defaultName
	}
	path := filepath.Join(s.dir, snapshot.Filename(name, s.clock))
	if err := config.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", false, err
	}

	s.lastRev = snap.Revision
	s.saved = true
	appLog.Info("autosave written", "file", path, "revision", snap.Revision)
	return path, true, nil
}
