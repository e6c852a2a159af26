// Package store is the repository over the planner's persisted collections.
//
// Every collection lives under its own key in a kv.Store and is read and written whole.
// A Repository serializes its calls, so each read-modify-write cycle is atomic with
// respect to other callers of the same Repository.
package store

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"app-planner/internal/kv"
	"app-planner/internal/model"
)

// Persisted keys. KeySettings is reserved for presentation settings; the repository only clears it.
const (
	KeyApps      = "app_planner_apps"
	KeyBlocks    = "app_planner_blocks"
	KeyCollapsed = "app_planner_collapsed"
	KeySettings  = "app_planner_settings"
)

type Options struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger

	ImportMode ImportMode
	HardDelete HardDeletePolicy
}

type Repository struct {
	mu sync.Mutex

	kv         kv.Store
	now        func() time.Time
	log        zerolog.Logger
	importMode ImportMode
	hardDelete HardDeletePolicy
}

func New(s kv.Store, opts Options) *Repository {
	r := &Repository{
		kv:         s,
		now:        opts.Now,
		importMode: opts.ImportMode,
		hardDelete: opts.HardDelete,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if opts.Logger != nil {
		r.log = opts.Logger.With().Str("component", "store").Logger()
	} else {
		r.log = zerolog.Nop()
	}
	if r.importMode == "" {
		r.importMode = ImportPermissive
	}
	if r.hardDelete == "" {
		r.hardDelete = HardDeleteOrphan
	}
	return r
}

func (r *Repository) ImportMode() ImportMode { return r.importMode }

func (r *Repository) HardDeletePolicy() HardDeletePolicy { return r.hardDelete }

// Now is the repository clock, in UTC.
func (r *Repository) Now() time.Time {
	return r.stamp()
}

func (r *Repository) stamp() time.Time {
	return r.now().UTC()
}

// readJSON decodes key into a fresh T. Read failures and corrupt content are logged
// and yield the zero T, so one bad collection never takes the others down with it.
func readJSON[T any](r *Repository, key string) T {
	var zero T
	b, ok, err := r.kv.Get(key)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("read failed; treating as empty")
		return zero
	}
	if !ok || len(bytes.TrimSpace(b)) == 0 {
		return zero
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("corrupt value; treating as empty")
		return zero
	}
	return v
}

func (r *Repository) loadApps() []model.App {
	apps := readJSON[[]model.App](r, KeyApps)
	if apps == nil {
		apps = []model.App{}
	}
	return apps
}

func (r *Repository) loadBlocks() []model.Block {
	blocks := readJSON[[]model.Block](r, KeyBlocks)
	if blocks == nil {
		blocks = []model.Block{}
	}
	return blocks
}

func (r *Repository) loadCollapsed() map[string]bool {
	m := readJSON[map[string]bool](r, KeyCollapsed)
	if m == nil {
		m = map[string]bool{}
	}
	return m
}

// write persists the given collections together. A nil value deletes its key.
func (r *Repository) write(op string, values map[string]any) error {
	entries := make(map[string][]byte, len(values))
	for k, v := range values {
		if v == nil {
			entries[k] = nil
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return PersistenceError{Op: op, Key: k, Err: err}
		}
		entries[k] = b
	}

	var err error
	var key string
	if len(entries) == 1 {
		for k, v := range entries {
			key = k
			if v == nil {
				err = r.kv.Delete(k)
			} else {
				err = r.kv.Set(k, v)
			}
		}
	} else {
		err = kv.WriteAll(r.kv, entries)
	}
	if err != nil {
		r.log.Error().Err(err).Str("op", op).Str("keys", joinKeys(entries)).Msg("write failed; change discarded")
		return PersistenceError{Op: op, Key: key, Err: err}
	}
	r.log.Debug().Str("op", op).Str("keys", joinKeys(entries)).Msg("persisted")
	return nil
}

func joinKeys(m map[string][]byte) string {
	keys := make([]string, 0, len(m))
	for _, k := range []string{KeyApps, KeyBlocks, KeyCollapsed, KeySettings} {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	return strings.Join(keys, ",")
}

// idInUse reports whether id is taken by any app or block.
func idInUse(apps []model.App, blocks []model.Block, id string) bool {
	for _, a := range apps {
		if a.ID == id {
			return true
		}
	}
	for _, b := range blocks {
		if b.ID == id {
			return true
		}
	}
	return false
}

func findApp(apps []model.App, id string) int {
	for i := range apps {
		if apps[i].ID == id {
			return i
		}
	}
	return -1
}

func findBlock(blocks []model.Block, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// ClearAll removes every persisted collection, including reserved settings.
func (r *Repository) ClearAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.write("clear", map[string]any{
		KeyApps:      nil,
		KeyBlocks:    nil,
		KeyCollapsed: nil,
		KeySettings:  nil,
	}); err != nil {
		return err
	}
	r.log.Info().Msg("all data cleared")
	return nil
}
