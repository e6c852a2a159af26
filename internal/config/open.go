package config

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"app-planner/internal/kv"
	"app-planner/internal/store"
)

const sqliteFile = "planner.sqlite"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenKV builds the backend named by cfg.Backend. The closer releases the
// SQLite handle; for the other backends it does nothing.
func OpenKV(ctx context.Context, cfg Config) (kv.Store, io.Closer, error) {
	switch cfg.Backend {
	case BackendMemory:
		return kv.NewMemory(), nopCloser{}, nil
	case BackendFile:
		f := kv.File{Dir: filepath.Join(cfg.DataDir, "kv")}
		if err := f.Ensure(); err != nil {
			return nil, nil, err
		}
		return f, nopCloser{}, nil
	default:
		db, err := kv.OpenSQLite(ctx, filepath.Join(cfg.DataDir, sqliteFile))
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	}
}

// OpenRepository opens the configured backend and wraps it in a Repository
// carrying cfg's import mode and hard-delete policy.
func OpenRepository(ctx context.Context, cfg Config, log zerolog.Logger) (*store.Repository, io.Closer, error) {
	s, closer, err := OpenKV(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("backend", cfg.Backend).Str("dir", cfg.DataDir).Msg("store opened")
	repo := store.New(s, store.Options{
		Logger:     &log,
		ImportMode: store.ImportMode(cfg.ImportMode),
		HardDelete: store.HardDeletePolicy(cfg.HardDelete),
	})
	return repo, closer, nil
}
