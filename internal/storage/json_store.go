package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileKV keeps every key in a single JSON object on disk.
type FileKV struct {
	path    string
	entries map[string]string
}

func NewFileKV(path string) *FileKV {
	return &FileKV{
		path: path,
	}
}

func (s *FileKV) Open() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = make(map[string]string)
			return nil
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	entries := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("failed to parse storage file %s: %w", s.path, err)
		}
	}
	s.entries = entries
	return nil
}

func (s *FileKV) Close() error {
	return nil
}

func (s *FileKV) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write to a temp file first so a crash never leaves a truncated file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *FileKV) Get(key string) (string, error) {
	if s.entries == nil {
		return "", fmt.Errorf("storage not opened")
	}
	v, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *FileKV) Set(key, value string) error {
	if s.entries == nil {
		return fmt.Errorf("storage not opened")
	}
	s.entries[key] = value
	return s.save()
}

func (s *FileKV) Delete(key string) error {
	if s.entries == nil {
		return fmt.Errorf("storage not opened")
	}
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.save()
}

func (s *FileKV) Location() string {
	return s.path
}
