package fetchtest

import (
	"strings"
	"testing"

	"github.com/tarmac-project/fetchmock/logging"
)

type tbLogger struct {
	tb testing.TB
}

// NewLogger returns a logging.Client that forwards every entry to tb.Logf with
// a level prefix. New uses it when the configuration carries no Logger.
func NewLogger(tb testing.TB) logging.Client {
	return &tbLogger{tb: tb}
}

func (l *tbLogger) Info(message string)  { l.log(logging.LevelInfo, message) }
func (l *tbLogger) Warn(message string)  { l.log(logging.LevelWarn, message) }
func (l *tbLogger) Error(message string) { l.log(logging.LevelError, message) }
func (l *tbLogger) Debug(message string) { l.log(logging.LevelDebug, message) }
func (l *tbLogger) Trace(message string) { l.log(logging.LevelTrace, message) }

func (l *tbLogger) log(level, message string) {
	l.tb.Helper()
	l.tb.Logf("[%s] %s", strings.ToUpper(level), message)
}
