package kv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const fileExt = ".json"

// File stores each key as <Dir>/<key>.json. Writes go through a temp file and a rename,
// so a crash never leaves a half-written value behind.
type File struct {
	Dir string
}

func (f File) Ensure() error {
	if strings.TrimSpace(f.Dir) == "" {
		return errors.New("file store: missing dir")
	}
	return os.MkdirAll(f.Dir, 0o755)
}

func (f File) path(key string) string {
	return filepath.Join(f.Dir, key+fileExt)
}

func (f File) Get(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (f File) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := f.Ensure(); err != nil {
		return err
	}
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (f File) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
