package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"app-planner/internal/store"
)

const (
	FileName = "planner.toml"

	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"

	DefaultBackend  = BackendSQLite
	DefaultLogLevel = "warn"
	DefaultFormat   = "json"
)

// Config is everything the planner reads from planner.toml and PLANNER_* env vars.
type Config struct {
	DataDir    string `toml:"data_dir"`
	Backend    string `toml:"backend"`
	ImportMode string `toml:"import_mode"`
	HardDelete string `toml:"hard_delete"`
	LogLevel   string `toml:"log_level"`
	LogFile    string `toml:"log_file"`
	Format     string `toml:"format"`
}

// Overrides are explicit values from CLI flags; empty fields are ignored.
type Overrides struct {
	ConfigPath string
	DataDir    string
	Backend    string
	ImportMode string
	HardDelete string
	LogLevel   string
	Format     string
}

func Defaults() Config {
	return Config{
		DataDir:    DefaultDataDir(),
		Backend:    DefaultBackend,
		ImportMode: string(store.ImportPermissive),
		HardDelete: string(store.HardDeleteOrphan),
		LogLevel:   DefaultLogLevel,
		Format:     DefaultFormat,
	}
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".app-planner"
	}
	return filepath.Join(home, ".app-planner")
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. Config file (--config, or planner.toml in the data dir when present)
// 3. Environment variables
// 4. Flags
func Load(o Overrides) (Config, error) {
	cfg := Defaults()

	// The data dir decides where the implicit config file lives, so resolve it first.
	dir := firstNonEmpty(o.DataDir, os.Getenv("PLANNER_DIR"), cfg.DataDir)

	path := o.ConfigPath
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}
	if err := loadFile(&cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(&cfg)
	applyOverrides(&cfg, o)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	setFromEnv(&cfg.DataDir, "PLANNER_DIR")
	setFromEnv(&cfg.Backend, "PLANNER_BACKEND")
	setFromEnv(&cfg.ImportMode, "PLANNER_IMPORT_MODE")
	setFromEnv(&cfg.HardDelete, "PLANNER_HARD_DELETE")
	setFromEnv(&cfg.LogLevel, "PLANNER_LOG_LEVEL")
	setFromEnv(&cfg.LogFile, "PLANNER_LOG_FILE")
	setFromEnv(&cfg.Format, "PLANNER_FORMAT")
}

func applyOverrides(cfg *Config, o Overrides) {
	setIf(&cfg.DataDir, o.DataDir)
	setIf(&cfg.Backend, o.Backend)
	setIf(&cfg.ImportMode, o.ImportMode)
	setIf(&cfg.HardDelete, o.HardDelete)
	setIf(&cfg.LogLevel, o.LogLevel)
	setIf(&cfg.Format, o.Format)
}

func setFromEnv(dst *string, key string) {
	setIf(dst, os.Getenv(key))
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Validate normalizes enum-like fields and rejects unknown values.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("invalid backend: %q (want sqlite|file|memory)", c.Backend)
	}
	if c.Backend != BackendMemory && strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir is required")
	}

	mode, err := store.ParseImportMode(c.ImportMode)
	if err != nil {
		return err
	}
	c.ImportMode = string(mode)

	policy, err := store.ParseHardDeletePolicy(c.HardDelete)
	if err != nil {
		return err
	}
	c.HardDelete = string(policy)

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case "json", "yaml":
	case "yml":
		c.Format = "yaml"
	default:
		return fmt.Errorf("invalid format: %q (want json|yaml)", c.Format)
	}
	return nil
}
