package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a Store kept in a single JSON file mapping keys to their blob.
// Blobs are UTF-8 text kept as JSON strings, so Get returns the very bytes
// given to Put.
// Writes replace the file atomically.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a store in the file at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// read returns the entries of the file. An unreadable file is an error
// wrapping ErrCorrupt.
func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string)
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorrupt, f.path, err)
	}
	for k, v := range raw {
		var blob string
		if err := json.Unmarshal(v, &blob); err != nil {
			// blobs written inline as JSON values are still readable.
			blob = string(v)
		}
		entries[k] = blob
	}
	return entries, nil
}

func (f *File) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *File) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if errors.Is(err, ErrCorrupt) {
		// a corrupt file is replaced rather than blocking every save.
		entries, err = map[string]string{}, nil
	}
	if err != nil {
		return err
	}
	entries[key] = string(value)
	return f.write(entries)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.write(entries)
}

func (f *File) Close() error { return nil }
