// Package logging wires up structured, hourly-rotated logging the same way
// the rest of the retrieval pack does it: slog for structured records,
// lumberjack for rotation and retention.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely logs are written.
type Options struct {
	// Dir is the directory logs are written under, e.g. "<local-data>/logs".
	Dir string
	// Debug selects the verbosity: 0 is info-and-above to stdout+file,
	// anything greater enables debug level and source locations, matching
	// the original CLI's integer debug flag.
	Debug int
}

// hourlyBucketWriter redirects writes to a lumberjack logger whose filename
// carries the current hour, rolling to a new file as the hour changes.
// lumberjack itself still owns compaction/backup-count behavior for each
// hourly file; this just decides which file is "current".
type hourlyBucketWriter struct {
	dir    string
	prefix string

	hour    int
	current *lumberjack.Logger
}

func newHourlyBucketWriter(dir, prefix string) *hourlyBucketWriter {
	return &hourlyBucketWriter{dir: dir, prefix: prefix, hour: -1}
}

func (w *hourlyBucketWriter) Write(p []byte) (int, error) {
	h := time.Now().Hour()
	if h != w.hour {
		if w.current != nil {
			w.current.Close()
		}
		w.current = &lumberjack.Logger{
			Filename:   filepath.Join(w.dir, fmt.Sprintf("%s.%d", w.prefix, h)),
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		w.hour = h
	}
	return w.current.Write(p)
}

// New builds the default logger: writes to stdout and to
// "<dir>/service.log.<hour>", rotated hourly. Debug > 0 switches on debug
// level and source locations.
func New(opts Options) (*slog.Logger, error) {
	if err := os.MkdirAll(opts.Dir, 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	fileWriter := newHourlyBucketWriter(opts.Dir, "service.log")
	writer := io.MultiWriter(os.Stdout, fileWriter)

	level := slog.LevelInfo
	addSource := false
	if opts.Debug > 0 {
		level = slog.LevelDebug
		addSource = true
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
