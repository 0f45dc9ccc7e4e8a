package logging

import (
	"context"
	"log/slog"
	"os"
)

// LevelTraceSlog is the slog level used for Trace entries.
const LevelTraceSlog = slog.LevelDebug - 4

// Setup creates a slog.Logger writing text to stderr.
// If debug is true the logger emits Debug entries, otherwise Info and above.
func Setup(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler)
}

type slogClient struct {
	logger *slog.Logger
}

// NewSlog wraps a slog.Logger as a Client. A nil logger uses slog.Default().
func NewSlog(logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogClient{logger: logger.With("component", "fetchmock")}
}

func (c *slogClient) Info(message string)  { c.logger.Info(message) }
func (c *slogClient) Warn(message string)  { c.logger.Warn(message) }
func (c *slogClient) Error(message string) { c.logger.Error(message) }
func (c *slogClient) Debug(message string) { c.logger.Debug(message) }
func (c *slogClient) Trace(message string) {
	c.logger.Log(context.Background(), LevelTraceSlog, message)
}
