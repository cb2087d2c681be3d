package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound = errors.New("storage: file not found")
	ErrBadName  = errors.New("storage: bad file name")
)

// Store is a flat directory of files addressed by their names. There is no locking:
// concurrent writes and reads of the same name race with each other.
type Store interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Remove(name string) error
	Exists(name string) (bool, error)
}

type dirStore struct {
	root string
}

// NewDir returns a store rooted at the directory, creating it if missing.
func NewDir(root string) (Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}

	if err = os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}

	return dirStore{root: abs}, nil
}

func (d dirStore) Read(name string) ([]byte, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
}

// Write replaces the file, deleting the previous one first if any. Nil or empty data
// results in an empty file.
func (d dirStore) Write(name string, data []byte) error {
	if err := d.Remove(name); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	path, err := d.path(name)
	if err != nil {
		return err
	}

	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}

	return nil
}

func (d dirStore) Remove(name string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	default:
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
}

func (d dirStore) Exists(name string) (bool, error) {
	path, err := d.path(name)
	if err != nil {
		return false, err
	}

	stat, err := os.Stat(path)
	switch {
	case err == nil:
		return stat.Mode().IsRegular(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("storage: stat %s: %w", name, err)
	}
}

// path resolves the name inside the root. Only plain names are allowed, so it's
// impossible to escape the root directory.
func (d dirStore) path(name string) (string, error) {
	if len(name) == 0 || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.IndexByte(name, 0) != -1 {
		return "", ErrBadName
	}

	return filepath.Join(d.root, name), nil
}
