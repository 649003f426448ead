/*
cache.go - Optional local single-slot cache

PURPOSE:
  The local-only variant of the calendar keeps the MoodMap in a single
  string-keyed slot instead of (or ahead of) the remote document: read once
  at startup as the initial state, rewritten in full on every mutation.
  Here the slot is a JSON file on disk.

This cache carries no merge semantics and no sibling fields - it is a plain
serialized MoodMap, strictly a fallback seed for the controller.
*/
package mood

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileCache is a single-slot JSON cache for one MoodMap.
type FileCache struct {
	path string
}

// NewFileCache creates a cache backed by the file at path. The file need
// not exist yet.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Read returns the cached MoodMap, or (nil, nil) when the slot is empty.
func (fc *FileCache) Read() (MoodMap, error) {
	data, err := os.ReadFile(fc.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mood cache: %w", err)
	}
	var mm MoodMap
	if err := json.Unmarshal(data, &mm); err != nil {
		return nil, fmt.Errorf("decode mood cache: %w", err)
	}
	return mm, nil
}

// Write replaces the slot with moods. The write is atomic: a crash mid-save
// leaves the previous contents intact.
func (fc *FileCache) Write(moods MoodMap) error {
	data, err := json.Marshal(moods)
	if err != nil {
		return fmt.Errorf("encode mood cache: %w", err)
	}
	tmp := fc.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(fc.path), 0o755); err != nil {
		return fmt.Errorf("write mood cache: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write mood cache: %w", err)
	}
	return os.Rename(tmp, fc.path)
}
