// Package app provides application state, the dataset model, and events.
package app

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/igridvu/igridvu/internal/config"
	"github.com/igridvu/igridvu/internal/errs"
	"github.com/igridvu/igridvu/internal/imageload"
	"github.com/igridvu/igridvu/internal/logx"
	"github.com/igridvu/igridvu/internal/suffix"
	"github.com/igridvu/igridvu/pkg/viewgeom"
)

// State holds the application state: the open dataset, its loaded
// entries, and the shared view transform.
type State struct {
	mu sync.RWMutex

	// Dataset identity
	Prefix     string   // Path prefix each suffix is resolved against
	SuffixPath string   // Suffix file backing the dataset
	Suffixes   []string // Ordered suffixes, already capped

	// Grid shape
	Columns int

	// Loaded members, one per suffix, in grid order. Watcher-driven
	// reloads swap elements from another goroutine, so reads go
	// through Entry/Entries
	entries []*imageload.Entry

	// Shared view transform; kept equal across panels by broadcast
	Transform viewgeom.ViewTransform

	// Limits and defaults
	Config *config.Config

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDatasetLoaded EventType = iota
	EventEntryReloaded
	EventTransformChanged
	EventCursorMoved
	EventSuffixesEdited
	EventStatusMessage
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// CursorEvent reports a pointer position inside one panel, mapped to
// scene coordinates.
type CursorEvent struct {
	PanelIndex int
	SceneX     int
	SceneY     int
}

// NewState creates a new application state.
func NewState(cfg *config.Config) *State {
	if cfg == nil {
		cfg = config.NewTestConfig()
	}
	return &State{
		Columns:   cfg.Grid.Columns,
		Transform: viewgeom.Identity(),
		Config:    cfg,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// ResolvePath resolves a suffix against the dataset prefix. A prefix
// that names a directory joins; anything else concatenates, so a stem
// like "testscene/scene1_" keeps working.
func (s *State) ResolvePath(sfx string) string {
	s.mu.RLock()
	prefix := s.Prefix
	s.mu.RUnlock()
	if info, err := os.Stat(prefix); err == nil && info.IsDir() {
		return filepath.Join(prefix, sfx)
	}
	return prefix + sfx
}

// LoadDataset opens a dataset: reads the suffix file, loads every
// member under the configured ceilings, and resets the shared view. A
// missing suffix file yields an empty grid rather than an error so a
// fresh dataset can be assembled in place. Columns below one fall back
// to the configured default.
func (s *State) LoadDataset(prefix, suffixPath string, columns int) error {
	suffixes, err := suffix.Load(suffixPath)
	if err != nil {
		if !errs.IsFileNotFound(err) {
			return err
		}
		logx.Logger().Warn("suffix file missing, showing empty grid", "path", suffixPath)
		suffixes = nil
	}

	capped, dropped := suffix.Truncate(suffixes, s.Config.Limits.MaxImages)
	if dropped > 0 {
		logx.Logger().Warn("dataset capped", "max", s.Config.Limits.MaxImages, "dropped", dropped)
	}

	if columns < 1 {
		columns = s.Config.Grid.Columns
	}

	s.mu.Lock()
	s.Prefix = prefix
	s.SuffixPath = suffixPath
	s.Suffixes = capped
	s.Columns = columns
	s.Transform = viewgeom.Identity()
	s.mu.Unlock()

	loader := imageload.NewLoader(s.Config.MaxFileBytes(), s.Config.Limits.MaxDimension)
	entries := make([]*imageload.Entry, 0, len(capped))
	for _, sfx := range capped {
		entry := loader.Load(s.ResolvePath(sfx))
		entry.Suffix = sfx
		if !entry.Loaded() {
			logx.Logger().Warn("member failed to load",
				"suffix", sfx, "path", entry.Path, "status", entry.Status.String())
		}
		entries = append(entries, entry)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	logx.Logger().Info("dataset loaded",
		"prefix", prefix, "members", len(entries), "columns", columns)
	s.Emit(EventDatasetLoaded, nil)
	if dropped > 0 {
		s.Emit(EventStatusMessage, "Suffix list truncated to the configured maximum")
	}
	return nil
}

// ReloadAll reloads every member of the current dataset in place.
func (s *State) ReloadAll() error {
	s.mu.RLock()
	prefix, suffixPath, columns := s.Prefix, s.SuffixPath, s.Columns
	s.mu.RUnlock()
	return s.LoadDataset(prefix, suffixPath, columns)
}

// ReloadEntry reloads the member at index i, replacing its entry. A
// failed entry only transitions to loaded through this explicit path.
func (s *State) ReloadEntry(i int) {
	s.mu.RLock()
	if i < 0 || i >= len(s.entries) {
		s.mu.RUnlock()
		return
	}
	sfx := s.entries[i].Suffix
	s.mu.RUnlock()

	loader := imageload.NewLoader(s.Config.MaxFileBytes(), s.Config.Limits.MaxDimension)
	entry := loader.Load(s.ResolvePath(sfx))
	entry.Suffix = sfx

	// The dataset may have been replaced while the load ran; only swap
	// the entry if the index still exists.
	s.mu.Lock()
	if i >= len(s.entries) {
		s.mu.Unlock()
		return
	}
	s.entries[i] = entry
	s.mu.Unlock()

	s.Emit(EventEntryReloaded, i)
}

// ReloadByPath reloads every member whose resolved path appears in
// paths. Used by the dataset watcher.
func (s *State) ReloadByPath(paths []string) {
	changed := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		changed[filepath.Clean(p)] = struct{}{}
	}

	s.mu.RLock()
	var indices []int
	for i, e := range s.entries {
		if _, ok := changed[filepath.Clean(e.Path)]; ok {
			indices = append(indices, i)
		}
	}
	s.mu.RUnlock()

	for _, i := range indices {
		s.ReloadEntry(i)
	}
}

// SetTransform records a user-driven transform change and notifies
// listeners. Panels applying the broadcast use their non-notifying
// setter, so application never re-enters here.
func (s *State) SetTransform(t viewgeom.ViewTransform) {
	s.mu.Lock()
	s.Transform = t
	s.mu.Unlock()
	s.Emit(EventTransformChanged, t)
}

// CurrentTransform returns the shared view transform.
func (s *State) CurrentTransform() viewgeom.ViewTransform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Transform
}

// Entries returns the loaded members in grid order. The returned slice
// is a snapshot, safe to iterate while reloads swap entries; the
// entries themselves are immutable.
func (s *State) Entries() []*imageload.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*imageload.Entry(nil), s.entries...)
}

// Entry returns the member at index i, or nil when out of range.
func (s *State) Entry(i int) *imageload.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return s.entries[i]
}

// GridPosition returns the row and column of the member at index i.
func (s *State) GridPosition(i int) (row, col int) {
	s.mu.RLock()
	columns := s.Columns
	s.mu.RUnlock()
	if columns < 1 {
		columns = 1
	}
	return i / columns, i % columns
}

// MemberPaths returns the resolved path of every member, in grid order.
func (s *State) MemberPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		paths = append(paths, e.Path)
	}
	return paths
}

// SaveSuffixes normalizes and persists an edited suffix list, then
// reloads the dataset from it. Lists over the configured maximum are
// rejected so the editor can warn instead of silently dropping lines.
func (s *State) SaveSuffixes(lines []string) error {
	cleaned := suffix.Normalize(lines)

	s.mu.RLock()
	suffixPath := s.SuffixPath
	s.mu.RUnlock()

	if len(cleaned) > s.Config.Limits.MaxImages {
		return errs.NewFileError("too many suffixes", suffixPath, errs.SuffixListTooLong, nil)
	}
	if suffixPath == "" {
		return errs.New("no suffix file open")
	}

	if err := suffix.Save(suffixPath, cleaned); err != nil {
		return err
	}

	s.Emit(EventSuffixesEdited, cleaned)
	return s.ReloadAll()
}
