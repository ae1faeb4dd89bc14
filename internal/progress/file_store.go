package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/engtrainer/internal/logger"
	"github.com/example/engtrainer/pkg/models"
)

// File names inside the data directory
const (
	ProgressFile = "progress.json"
	SettingsFile = "settings.json"
)

// FileStore persists progress and settings as JSON files in a directory
type FileStore struct {
	dir string
	log *logger.Logger
}

// NewFileStore creates a file store rooted at dir
func NewFileStore(dir string, log *logger.Logger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

// LoadProgress reads the progress snapshot. A missing file means no progress;
// an unreadable one is logged and treated the same way.
func (f *FileStore) LoadProgress(_ context.Context) (map[string]models.CardRecord, error) {
	records := make(map[string]models.CardRecord)
	data, err := os.ReadFile(filepath.Join(f.dir, ProgressFile))
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		f.log.Warn("progress file is corrupt, starting from scratch", "path", f.path(ProgressFile), "error", err)
		return records, nil
	}
	for key, raw := range entries {
		rec, bad := decodeRecord(raw)
		if len(bad) > 0 {
			f.log.Debug("ignoring malformed card fields", "word", key, "fields", bad)
		}
		records[key] = rec
	}
	return records, nil
}

// decodeRecord decodes one progress entry. Fields that do not decode are
// skipped and returned by name; the rest of the entry is kept.
func decodeRecord(raw json.RawMessage) (models.CardRecord, []string) {
	var rec models.CardRecord
	if err := json.Unmarshal(raw, &rec); err == nil {
		return rec, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.CardRecord{}, []string{"entry"}
	}
	rec = models.CardRecord{}
	var bad []string
	for name, value := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{name: value})
		if err != nil {
			bad = append(bad, name)
			continue
		}
		// a failed decode can still allocate the field, so try a scratch record first
		var scratch models.CardRecord
		if err := json.Unmarshal(one, &scratch); err != nil {
			bad = append(bad, name)
			continue
		}
		_ = json.Unmarshal(one, &rec)
	}
	sort.Strings(bad)
	return rec, bad
}

// SaveProgress writes the progress snapshot
func (f *FileStore) SaveProgress(_ context.Context, records map[string]models.CardRecord) error {
	return f.writeJSON(ProgressFile, records)
}

// ResetProgress removes the progress snapshot
func (f *FileStore) ResetProgress(_ context.Context) error {
	err := os.Remove(f.path(ProgressFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove progress: %w", err)
	}
	return nil
}

// LoadSettings reads learner settings, falling back to defaults
func (f *FileStore) LoadSettings(_ context.Context) (models.Settings, error) {
	data, err := os.ReadFile(f.path(SettingsFile))
	if errors.Is(err, os.ErrNotExist) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	var s models.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		f.log.Warn("settings file is corrupt, using defaults", "path", f.path(SettingsFile), "error", err)
		return models.DefaultSettings(), nil
	}
	return s.WithDefaults(), nil
}

// SaveSettings writes learner settings
func (f *FileStore) SaveSettings(_ context.Context, s models.Settings) error {
	return f.writeJSON(SettingsFile, s)
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name)
}

// writeJSON writes through a temporary file so a crash never leaves half a snapshot
func (f *FileStore) writeJSON(name string, v interface{}) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(tmp, v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), f.path(name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// WriteJSON encodes v as indented JSON without escaping non-ASCII text
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
