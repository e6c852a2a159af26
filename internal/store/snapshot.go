package store

import (
	"fmt"
	"strings"
	"time"

	"app-planner/internal/integrity"
	"app-planner/internal/model"
)

// Snapshot is the complete backup document. On import, a nil collection means
// "absent": that collection is left as it is.
type Snapshot struct {
	Apps       []model.App     `json:"apps" yaml:"apps"`
	Blocks     []model.Block   `json:"blocks" yaml:"blocks"`
	Collapsed  map[string]bool `json:"collapsed" yaml:"collapsed"`
	ExportedAt time.Time       `json:"exportedAt" yaml:"exportedAt"`
}

// ImportMode controls referential checks on import.
type ImportMode string

const (
	// ImportPermissive writes the snapshot as given.
	ImportPermissive ImportMode = "permissive"
	// ImportStrict rejects a snapshot whose resulting state fails integrity.Check.
	ImportStrict ImportMode = "strict"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch m := ImportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ImportPermissive, ImportStrict:
		return m, nil
	case "":
		return ImportPermissive, nil
	default:
		return "", fmt.Errorf("invalid import mode: %q (want permissive|strict)", s)
	}
}

// ExportSnapshot returns every collection plus the export time. Collections are never
// nil, so a re-import overwrites all three.
func (r *Repository) ExportSnapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		Apps:       r.loadApps(),
		Blocks:     r.loadBlocks(),
		Collapsed:  r.loadCollapsed(),
		ExportedAt: r.stamp(),
	}
}

type ImportResult struct {
	Mode      ImportMode        `json:"mode" yaml:"mode"`
	Apps      int               `json:"apps" yaml:"apps"`
	Blocks    int               `json:"blocks" yaml:"blocks"`
	Collapsed int               `json:"collapsed" yaml:"collapsed"`
	Replaced  []string          `json:"replaced" yaml:"replaced"`
	Warnings  []integrity.Issue `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ImportSnapshot replaces each collection present in snap, using the repository's mode.
func (r *Repository) ImportSnapshot(snap Snapshot) (ImportResult, error) {
	return r.ImportSnapshotWith(snap, r.importMode)
}

func (r *Repository) ImportSnapshotWith(snap Snapshot, mode ImportMode) (ImportResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mode == "" {
		mode = ImportPermissive
	}
	res := ImportResult{Mode: mode, Replaced: []string{}}
	values := map[string]any{}
	if snap.Apps != nil {
		values[KeyApps] = snap.Apps
		res.Replaced = append(res.Replaced, "apps")
	}
	if snap.Blocks != nil {
		values[KeyBlocks] = snap.Blocks
		res.Replaced = append(res.Replaced, "blocks")
	}
	if snap.Collapsed != nil {
		values[KeyCollapsed] = snap.Collapsed
		res.Replaced = append(res.Replaced, "collapsed")
	}
	if len(values) == 0 {
		return res, nil
	}

	apps, blocks, collapsed := snap.Apps, snap.Blocks, snap.Collapsed
	if apps == nil {
		apps = r.loadApps()
	}
	if blocks == nil {
		blocks = r.loadBlocks()
	}
	if collapsed == nil {
		collapsed = r.loadCollapsed()
	}
	res.Apps, res.Blocks, res.Collapsed = len(apps), len(blocks), len(collapsed)

	if mode == ImportStrict {
		report := integrity.Check(apps, blocks, collapsed)
		if report.HasErrors() {
			r.log.Warn().Str("summary", report.Summary()).Msg("strict import rejected")
			return ImportResult{}, IntegrityError{Report: report}
		}
		res.Warnings = append(res.Warnings, report.Issues...)
	}

	if err := r.write("snapshot.import", values); err != nil {
		return ImportResult{}, err
	}
	r.log.Info().
		Str("mode", string(mode)).
		Strs("replaced", res.Replaced).
		Int("apps", res.Apps).
		Int("blocks", res.Blocks).
		Msg("snapshot imported")
	return res, nil
}
