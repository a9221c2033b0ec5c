package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "OFF"
	}
}

// ParseLevel accepts debug, info, warn or error. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger writes component-scoped lines to a session log file. Loggers
// derived with With share the underlying writer.
type Logger struct {
	component string
	min       Level
	out       *output
	now       func() time.Time
}

type output struct {
	mu        sync.Mutex
	logger    *log.Logger
	file      *os.File
	path      string
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// SessionID is the id shared by every logger in this process.
func SessionID() string {
	return getSessionID()
}

// New opens <dir>/<session>-mine-anything.log for appending. When the
// directory or file cannot be used it returns a stderr logger along with
// the error, so callers can warn and carry on.
func New(dir, component string, min Level) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		err = fmt.Errorf("create log directory: %w", err)
		return fallback(component, min, err), err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-mine-anything.log", getSessionID()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		err = fmt.Errorf("open log file: %w", err)
		return fallback(component, min, err), err
	}
	return &Logger{
		component: component,
		min:       min,
		out:       &output{logger: log.New(f, "", 0), file: f, path: path},
		now:       time.Now,
	}, nil
}

// NewWriter logs to w. Used for stderr hosts and tests.
func NewWriter(w io.Writer, component string, min Level) *Logger {
	return &Logger{
		component: component,
		min:       min,
		out:       &output{logger: log.New(w, "", 0)},
		now:       time.Now,
	}
}

func fallback(component string, min Level, cause error) *Logger {
	l := NewWriter(os.Stderr, component, min)
	l.Warnf("file logging unavailable, using stderr: %v", cause)
	return l
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{component: "nop", min: levelOff, out: &output{logger: log.New(io.Discard, "", 0)}, now: time.Now}
}

// With returns a logger for another component writing to the same place.
func (l *Logger) With(component string) *Logger {
	c := *l
	c.component = component
	return &c
}

func (l *Logger) Enabled(level Level) bool {
	return level >= l.min
}

func (l *Logger) write(level Level, format string, v ...any) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, v...)
	ts := l.now().Format("2006-01-02 15:04:05.000")
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.logger.Printf("[%s] [%s] [%s] %s", ts, l.component, level, msg)
}

func (l *Logger) Debugf(format string, v ...any) { l.write(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.write(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.write(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.write(LevelError, format, v...) }

// Path is the log file path, empty for writer-backed loggers.
func (l *Logger) Path() string {
	return l.out.path
}

// Close closes the log file. Safe to call more than once.
func (l *Logger) Close() error {
	var err error
	l.out.closeOnce.Do(func() {
		if l.out.file != nil {
			err = l.out.file.Close()
		}
	})
	return err
}
