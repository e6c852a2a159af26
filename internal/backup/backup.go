package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"app-planner/internal/store"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid snapshot format: %q (want json|yaml)", s)
	}
}

// FormatFromPath picks the format from a file extension; anything else is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func Encode(w io.Writer, snap store.Snapshot, f Format, pretty bool) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unsupported snapshot format: %q", f)
	}
}

// Decode reads a snapshot and checks its shape against the embedded schema.
// Collections missing from the document stay nil, which import treats as absent.
func Decode(r io.Reader, f Format) (store.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return store.Snapshot{}, err
	}

	var snap store.Snapshot
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return store.Snapshot{}, fmt.Errorf("parse yaml snapshot: %w", err)
		}
		// YAML has no schema of its own; check the JSON form it maps to.
		b, err := json.Marshal(snap)
		if err != nil {
			return store.Snapshot{}, err
		}
		if err := ValidateJSON(b); err != nil {
			return store.Snapshot{}, err
		}
	case FormatJSON, "":
		if err := ValidateJSON(data); err != nil {
			return store.Snapshot{}, err
		}
		if err := json.Unmarshal(data, &snap); err != nil {
			return store.Snapshot{}, fmt.Errorf("parse json snapshot: %w", err)
		}
	default:
		return store.Snapshot{}, fmt.Errorf("unsupported snapshot format: %q", f)
	}
	return snap, nil
}

// ReadFile decodes path. An empty format is inferred from the extension.
func ReadFile(path string, f Format) (store.Snapshot, error) {
	if f == "" {
		f = FormatFromPath(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return store.Snapshot{}, err
	}
	defer file.Close()
	return Decode(file, f)
}

// WriteFile encodes snap to path through a temp file and rename, so a crash never
// leaves a half-written backup.
func WriteFile(path string, snap store.Snapshot, f Format, pretty bool) error {
	if f == "" {
		f = FormatFromPath(path)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, snap, f, pretty); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	_ = os.Chmod(name, 0o644)
	return os.Rename(name, path)
}
