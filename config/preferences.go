package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/soocke/sawbot-go/domain/session"
)

//go:embed preferences.schema.json
var preferencesSchema []byte

const preferencesSchemaURL = "preferences.schema.json"

// Default window footprint in normal mode.
const (
	DefaultWindowWidth  = 1200
	DefaultWindowHeight = 800
	DefaultThemeID      = "dark"
)

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type WindowPrefs struct {
	AlwaysOnTop   bool      `json:"alwaysOnTop"`
	MiniModeScale float64   `json:"miniModeScale"`
	LastPosition  *Position `json:"lastPosition,omitempty"`
	LastSize      *Size     `json:"lastSize,omitempty"`
}

// Preferences is the persisted user state.
type Preferences struct {
	Version      int            `json:"version"`
	ThemeID      string         `json:"themeId"`
	MethodSpeeds map[string]int `json:"methodSpeeds"`
	WindowPrefs  WindowPrefs    `json:"windowPrefs"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Version:      PreferencesVersion,
		ThemeID:      DefaultThemeID,
		MethodSpeeds: session.DefaultSpeeds(),
		WindowPrefs:  WindowPrefs{MiniModeScale: 1.0},
	}
}

func (p Preferences) clone() Preferences {
	p.MethodSpeeds = maps.Clone(p.MethodSpeeds)
	if p.WindowPrefs.LastPosition != nil {
		pos := *p.WindowPrefs.LastPosition
		p.WindowPrefs.LastPosition = &pos
	}
	if p.WindowPrefs.LastSize != nil {
		sz := *p.WindowPrefs.LastSize
		p.WindowPrefs.LastSize = &sz
	}
	return p
}

// normalize fills missing fields and clamps values after migration.
func (p *Preferences) normalize() {
	if p.ThemeID == "" {
		p.ThemeID = DefaultThemeID
	}
	if p.MethodSpeeds == nil {
		p.MethodSpeeds = map[string]int{}
	}
	for id, v := range session.DefaultSpeeds() {
		if _, ok := p.MethodSpeeds[id]; !ok {
			p.MethodSpeeds[id] = v
		}
	}
	for id, v := range p.MethodSpeeds {
		p.MethodSpeeds[id] = session.ClampSpeed(v)
	}
	if p.WindowPrefs.MiniModeScale <= 0 {
		p.WindowPrefs.MiniModeScale = 1.0
	}
	if s := p.WindowPrefs.LastSize; s != nil && (s.Width <= 0 || s.Height <= 0) {
		p.WindowPrefs.LastSize = nil
	}
}

// PreferenceStore owns the persisted preferences. Every mutation is flushed
// to disk before it returns.
type PreferenceStore struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	prefs    Preferences
	onChange []func(Preferences)
}

// OpenPreferences loads the store at path. A missing file yields defaults.
// A document that fails schema validation is set aside as <path>.invalid
// and replaced by defaults. Older documents are migrated and written back.
func OpenPreferences(path string, logger *slog.Logger) (*PreferenceStore, error) {
	s := &PreferenceStore{path: path, logger: logger, prefs: DefaultPreferences()}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read preferences: %w", err)
	}
	if err := validatePreferences(data); err != nil {
		s.warn("preferences rejected, using defaults", "error", err)
		_ = os.Rename(path, path+".invalid")
		return s, nil
	}
	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return s, fmt.Errorf("decode preferences: %w", err)
	}
	from := p.Version
	changes, err := Migrate(&p)
	if err != nil {
		return s, err
	}
	p.normalize()
	s.prefs = p
	if from != PreferencesVersion {
		if s.logger != nil {
			s.logger.Info("preferences migrated", "from", from, "to", PreferencesVersion, "changes", changes)
		}
		if err := s.flushLocked(); err != nil {
			return s, err
		}
	}
	return s, nil
}

func validatePreferences(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(preferencesSchemaURL, bytes.NewReader(preferencesSchema)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(preferencesSchemaURL)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return schema.Validate(doc)
}

func (s *PreferenceStore) Path() string { return s.path }

// Snapshot returns a deep copy of the current preferences.
func (s *PreferenceStore) Snapshot() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.clone()
}

// OnChange registers a callback invoked after each successful mutation.
func (s *PreferenceStore) OnChange(cb func(Preferences)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, cb)
	s.mu.Unlock()
}

func (s *PreferenceStore) ThemeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.ThemeID
}

// MethodSpeed returns the stored speed for a method.
func (s *PreferenceStore) MethodSpeed(method string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.prefs.MethodSpeeds[method]
	return v, ok
}

func (s *PreferenceStore) AlwaysOnTop() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.WindowPrefs.AlwaysOnTop
}

func (s *PreferenceStore) MiniModeScale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.WindowPrefs.MiniModeScale
}

// LastSize returns the last recorded normal-mode window size.
func (s *PreferenceStore) LastSize() (Size, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs.WindowPrefs.LastSize == nil {
		return Size{}, false
	}
	return *s.prefs.WindowPrefs.LastSize, true
}

func (s *PreferenceStore) LastPosition() (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs.WindowPrefs.LastPosition == nil {
		return Position{}, false
	}
	return *s.prefs.WindowPrefs.LastPosition, true
}

func (s *PreferenceStore) SetThemeID(id string) error {
	return s.update(func(p *Preferences) { p.ThemeID = id })
}

// SetMethodSpeed stores a speed clamped to the supported range.
func (s *PreferenceStore) SetMethodSpeed(method string, speed int) error {
	if method == "" {
		return errors.New("empty method id")
	}
	return s.update(func(p *Preferences) { p.MethodSpeeds[method] = session.ClampSpeed(speed) })
}

func (s *PreferenceStore) SetAlwaysOnTop(on bool) error {
	return s.update(func(p *Preferences) { p.WindowPrefs.AlwaysOnTop = on })
}

func (s *PreferenceStore) SetMiniModeScale(scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("mini mode scale must be positive, got %v", scale)
	}
	return s.update(func(p *Preferences) { p.WindowPrefs.MiniModeScale = scale })
}

// RecordGeometry stores the normal-mode window size and, if given, position.
func (s *PreferenceStore) RecordGeometry(size Size, pos *Position) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", size.Width, size.Height)
	}
	return s.update(func(p *Preferences) {
		sz := size
		p.WindowPrefs.LastSize = &sz
		if pos != nil {
			pp := *pos
			p.WindowPrefs.LastPosition = &pp
		}
	})
}

// Reset restores defaults.
func (s *PreferenceStore) Reset() error {
	return s.update(func(p *Preferences) { *p = DefaultPreferences() })
}

// update applies fn and flushes. On flush failure the in-memory state is
// rolled back.
func (s *PreferenceStore) update(fn func(*Preferences)) error {
	s.mu.Lock()
	prev := s.prefs.clone()
	fn(&s.prefs)
	if err := s.flushLocked(); err != nil {
		s.prefs = prev
		s.mu.Unlock()
		return err
	}
	snap := s.prefs.clone()
	cbs := append([]func(Preferences){}, s.onChange...)
	s.mu.Unlock()
	for _, cb := range cbs {
		cb(snap)
	}
	return nil
}

// flushLocked writes the document through a temp file and rename.
func (s *PreferenceStore) flushLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp preferences: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

func (s *PreferenceStore) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
