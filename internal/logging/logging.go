package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Build assembles a zerolog logger. Writes go to the file when a path is set,
// otherwise to the writer (stderr by default).
type Build struct {
	writer  io.Writer
	path    string
	level   string
	console bool
}

type Log struct {
	Logger  zerolog.Logger
	LogFile *os.File
}

func New() *Build {
	return &Build{}
}

func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// Level accepts zerolog level names; "" means warn.
func (b *Build) Level(level string) *Build {
	b.level = level
	return b
}

// Console switches the writer output to zerolog's human-readable format.
// File output is always JSON lines.
func (b *Build) Console(on bool) *Build {
	b.console = on
	return b
}

func (b *Build) Make() (*Log, error) {
	level, err := ParseLevel(b.level)
	if err != nil {
		return nil, err
	}

	out := &Log{}
	w := b.writer
	if w == nil {
		w = os.Stderr
	}
	if b.console && b.path == "" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	}
	if b.path != "" {
		out.LogFile, err = os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		w = zerolog.SyncWriter(out.LogFile)
	}
	out.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return out, nil
}

func (l *Log) Close() error {
	if l == nil || l.LogFile == nil {
		return nil
	}
	return l.LogFile.Close()
}

func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.WarnLevel, nil
	}
	if s == "off" || s == "none" {
		return zerolog.Disabled, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %q", s)
	}
	return level, nil
}
