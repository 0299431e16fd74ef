package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileMode string

const (
	// FileModeAppend appends to an existing log file.
	FileModeAppend FileMode = "append"
	// FileModeTruncate truncates an existing log file.  This is the
	// default.
	FileModeTruncate FileMode = "truncate"
	// FileModeRotate rotates the log file as it grows.
	FileModeRotate FileMode = "rotate"
)

func (m *FileMode) Set(s string) error {
	switch FileMode(s) {
	case FileModeAppend:
		*m = FileModeAppend
	case FileModeTruncate, "":
		*m = FileModeTruncate
	case FileModeRotate:
		*m = FileModeRotate
	default:
		return fmt.Errorf("invalid log file mode: %s", s)
	}
	return nil
}

func (m FileMode) String() string {
	return string(m)
}

func (m *FileMode) UnmarshalText(b []byte) error {
	return m.Set(string(b))
}

// Rotation bounds a log file in FileModeRotate.  Zero fields take the
// defaults of DefaultRotation.
type Rotation struct {
	MaxSizeMiB int  `yaml:"max_size_mib"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

var DefaultRotation = Rotation{
	MaxSizeMiB: 5,
	MaxBackups: 3,
	MaxAgeDays: 28,
	Compress:   true,
}

func (r Rotation) withDefaults() Rotation {
	if r.MaxSizeMiB <= 0 {
		r.MaxSizeMiB = DefaultRotation.MaxSizeMiB
	}
	if r.MaxBackups <= 0 {
		r.MaxBackups = DefaultRotation.MaxBackups
	}
	if r.MaxAgeDays <= 0 {
		r.MaxAgeDays = DefaultRotation.MaxAgeDays
	}
	return r
}

// OpenFile returns a WriteSyncer for path, which may also be stdout,
// stderr, or /dev/null.  rotation applies only in FileModeRotate.
func OpenFile(path string, mode FileMode, rotation Rotation) (zapcore.WriteSyncer, error) {
	switch path {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "/dev/null":
		return zapcore.AddSync(io.Discard), nil
	}
	switch mode {
	case FileModeRotate:
		return logrotate(path, rotation.withDefaults())
	case FileModeAppend:
		return os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	default:
		return os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	}
}

// The directory must exist since lumberjack creates it on first write,
// which would hide a mistyped path until then.
func logrotate(path string, r Rotation) (zapcore.WriteSyncer, error) {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    r.MaxSizeMiB,
		MaxBackups: r.MaxBackups,
		MaxAge:     r.MaxAgeDays,
		Compress:   r.Compress,
	}), nil
}
