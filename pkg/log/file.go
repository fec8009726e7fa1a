package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig controls the persistent mission log.
type FileConfig struct {
	// Dir receives one mission_YYYYMMDD_HHMMSS.log per process start.
	Dir string

	// Level is debug, info, warn or error.
	Level string

	// Console mirrors every line to stderr.
	Console bool

	// MaxSizeMB rotates the file once it grows past this size.
	MaxSizeMB int

	// MaxBackups bounds how many rotated files of the current mission log
	// are kept. Logs from earlier starts are left alone.
	MaxBackups int
}

// MissionFileName returns the log file name for a process started at t.
func MissionFileName(t time.Time) string {
	return fmt.Sprintf("mission_%s.log", t.Format("20060102_150405"))
}

// NewMissionLogger opens a fresh mission log under cfg.Dir.
// The returned closer flushes and closes the file.
func NewMissionLogger(cfg FileConfig, now time.Time) (*ZerologAdapter, io.Closer, error) {
	if cfg.Dir == "" {
		return nil, nil, fmt.Errorf("log dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, MissionFileName(now)),
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
	}

	var out io.Writer = file
	if cfg.Console {
		out = zerolog.MultiLevelWriter(file, ConsoleWriter(os.Stderr))
	}

	adapter := NewZerologAdapterWithWriter(out, cfg.Level)
	adapter.Info("mission log opened", String("file", filepath.Base(file.Filename)))
	return adapter, file, nil
}
