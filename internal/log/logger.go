package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.Nop()
	loggerLock sync.RWMutex
	closer     io.Closer
)

// Options selects where and how the process logger writes.
type Options struct {
	File    string // empty disables logging
	Console bool   // human-readable output instead of JSON lines
}

// Init points the process logger at a file at info level; SetLevel
// adjusts it. The terminal belongs to the UI, so nothing is ever written
// to stdout.
func Init(opts Options) error {
	if opts.File == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
		return fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	SetOutput(f, "info", opts.Console)

	loggerLock.Lock()
	closer = f
	loggerLock.Unlock()
	return nil
}

// SetOutput replaces the process logger. Tests use it with a buffer.
func SetOutput(w io.Writer, level string, console bool) {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	}
	l := zerolog.New(w).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Logger()

	loggerLock.Lock()
	logger = l
	loggerLock.Unlock()
}

// Close flushes and closes the log file, if any.
func Close() error {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	logger = zerolog.Nop()
	return err
}

// SetLevel changes the level of the current logger. Unknown names mean
// info.
func SetLevel(levelStr string) {
	loggerLock.Lock()
	logger = logger.Level(parseLogLevel(levelStr))
	loggerLock.Unlock()
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	loggerLock.RLock()
	l := logger
	loggerLock.RUnlock()
	return &l
}

func Debug() *zerolog.Event { return current().Debug() }

func Info() *zerolog.Event { return current().Info() }

func Warn() *zerolog.Event { return current().Warn() }

func Error() *zerolog.Event { return current().Error() }
