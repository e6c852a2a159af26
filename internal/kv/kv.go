// Package kv is the persistence boundary: a flat, string-keyed byte store.
//
// Everything above this package (repository, snapshots) talks to storage
// exclusively through Store, so backends are interchangeable.
package kv

import (
	"errors"
	"fmt"
	"strings"
)

// Store is a synchronous key-value store.
//
// Get returns ok=false for a missing key. A read error is returned separately so callers
// can decide to degrade (treat as missing) instead of failing.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Batcher is implemented by backends that can write several keys atomically.
// A nil value in entries deletes that key.
type Batcher interface {
	SetBatch(entries map[string][]byte) error
}

var ErrInvalidKey = errors.New("invalid key")

// ValidateKey restricts keys to a filename-safe alphabet so every backend can store them verbatim.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// WriteAll writes entries through the backend's Batcher when available. Otherwise it writes
// key by key and, on the first failure, restores every key it already touched.
func WriteAll(s Store, entries map[string][]byte) error {
	if b, ok := s.(Batcher); ok {
		return b.SetBatch(entries)
	}

	type prev struct {
		key   string
		value []byte
		had   bool
	}
	var done []prev
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			p := done[i]
			if p.had {
				_ = s.Set(p.key, p.value)
			} else {
				_ = s.Delete(p.key)
			}
		}
	}

	for _, key := range sortedKeys(entries) {
		old, had, err := s.Get(key)
		if err != nil {
			rollback()
			return err
		}
		v := entries[key]
		if v == nil {
			err = s.Delete(key)
		} else {
			err = s.Set(key, v)
		}
		if err != nil {
			rollback()
			return err
		}
		done = append(done, prev{key: key, value: old, had: had})
	}
	return nil
}
