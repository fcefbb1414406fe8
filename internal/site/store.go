package site

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Store receives the built site. The filesystem implementation is the only
// one shipped; the interface keeps the builder testable without touching
// disk.
type Store interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}

type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		return nil, errors.New("empty output dir")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	dst := filepath.Join(s.base, filepath.Clean(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.base, filepath.Clean(key)))
}

// DiscardStore swallows everything. Check mode uses it to validate content
// without writing a site.
type DiscardStore struct{}

func (DiscardStore) Put(key string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return key, nil
}

func (DiscardStore) Get(key string) (io.ReadCloser, error) {
	return nil, os.ErrNotExist
}
