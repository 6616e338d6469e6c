// Package logger wraps go-logging with a stderr backend and an optional
// file backend.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

const (
	moduleName = "movie-catalog"
	timeFormat = "2006/01/02 15:04:05"
)

var (
	mu      sync.Mutex
	logger  = logging.MustGetLogger(moduleName)
	logFile *os.File
)

// ParseLevel maps a config string to a go-logging level, defaulting to INFO.
func ParseLevel(s string) logging.Level {
	level, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return logging.INFO
	}
	return level
}

// InitLogger installs the stderr backend at the given level. When filePath
// is not empty a second backend appends DEBUG output to that file.
func InitLogger(level logging.Level, filePath string) {
	mu.Lock()
	defer mu.Unlock()

	backends := make([]logging.Backend, 0, 2)

	console := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), newFormatter())
	leveled := logging.AddModuleLevel(console)
	leveled.SetLevel(level, moduleName)
	backends = append(backends, leveled)

	if fileBackend := initFileBackend(filePath); fileBackend != nil {
		leveledFile := logging.AddModuleLevel(fileBackend)
		leveledFile.SetLevel(logging.DEBUG, moduleName)
		backends = append(backends, leveledFile)
	}

	logger.SetBackend(logging.MultiLogger(backends...))
}

func initFileBackend(filePath string) logging.Backend {
	if filePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder for %s: %v\n", filePath, err)
		return nil
	}
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", filePath, err)
		return nil
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	return logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), newFormatter())
}

func newFormatter() logging.Formatter {
	return logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level:.4s} - %{message}`)
}

// CloseLogger closes the log file, if any.
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
