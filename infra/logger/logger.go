package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	corelogger "github.com/Raptacon/Robot-2020/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.NopLogger

var (
	mu     sync.RWMutex
	level  = zerolog.InfoLevel
	output io.Writer = os.Stdout
)

// Configure sets the minimum level and the destination used by loggers
// created afterwards. An unknown level keeps the current one and is reported.
func Configure(lvl string, w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		output = w
	}
	if lvl == "" {
		return nil
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(lvl))
	if err != nil {
		return err
	}
	level = parsed
	return nil
}

// New returns a Logger for the given component. The output format is
// detected via the APP_ENV variable.
func New(component string) Logger {
	mu.RLock()
	w, lvl := output, level
	mu.RUnlock()
	return NewZerologLogger(component, w, lvl)
}
