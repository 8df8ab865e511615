package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk encoding of a FileStore.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FileStore writes one file per key into a directory. It is safe for
// concurrent use: saves of the same key race only on the final rename.
// Writes go to a temporary file first and are renamed into place.
type FileStore[S any] struct {
	dir    string
	format Format
}

// NewFileStore creates a FileStore, ensuring the directory exists.
func NewFileStore[S any](dir string, format Format) (*FileStore[S], error) {
	switch format {
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrStoreFailure, fmt.Errorf("mkdir %s: %w", dir, err))
	}
	return &FileStore[S]{dir: dir, format: format}, nil
}

// Save writes state to the key's file atomically.
func (s *FileStore[S]) Save(_ context.Context, key string, state S) error {
	if key == "" {
		return ErrEmptyKey
	}

	data, err := s.marshal(newRecord(key, state))
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	// Each save gets its own temp file so concurrent saves of one key never
	// share it; the last rename wins.
	tmp, err := os.CreateTemp(s.dir, fileName(key)+".*.tmp")
	if err != nil {
		return errors.Join(ErrStoreFailure, fmt.Errorf("create temp file: %w", err))
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrStoreFailure, fmt.Errorf("write %s: %w", tmpName, err))
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrStoreFailure, fmt.Errorf("chmod %s: %w", tmpName, err))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrStoreFailure, fmt.Errorf("close %s: %w", tmpName, err))
	}

	fn := s.path(key)
	if err := os.Rename(tmpName, fn); err != nil {
		return errors.Join(ErrStoreFailure, fmt.Errorf("rename %s: %w", tmpName, err))
	}
	renamed = true
	return nil
}

// Load reads the key's file. A missing file wraps ErrNotFound.
func (s *FileStore[S]) Load(_ context.Context, key string) (S, error) {
	var zero S
	if key == "" {
		return zero, ErrEmptyKey
	}

	fn := s.path(key)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return zero, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return zero, errors.Join(ErrStoreFailure, fmt.Errorf("read %s: %w", fn, err))
	}

	var rec Record[S]
	if err := s.unmarshal(data, &rec); err != nil {
		return zero, errors.Join(ErrStoreFailure, err)
	}
	return rec.State, nil
}

// Delete removes the key's file. Deleting a missing key is not an error.
func (s *FileStore[S]) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *FileStore[S]) marshal(rec Record[S]) ([]byte, error) {
	if s.format == FormatYAML {
		data, err := yaml.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("yaml marshal: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return data, nil
}

func (s *FileStore[S]) unmarshal(data []byte, rec *Record[S]) error {
	if s.format == FormatYAML {
		if err := yaml.Unmarshal(data, rec); err != nil {
			return fmt.Errorf("yaml unmarshal: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, rec); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

func (s *FileStore[S]) path(key string) string {
	return filepath.Join(s.dir, fileName(key)+"."+string(s.format))
}

// fileName percent-escapes key into a single path segment. The mapping is
// injective, and the result never contains a separator, so distinct keys get
// distinct files inside the store directory.
func fileName(key string) string {
	return url.PathEscape(key)
}
