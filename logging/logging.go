package logging

import (
	"github.com/tarmac-project/fetchmock/host"
)

const capabilityName = "logging"

// Level names used both as waPC function names and as Recorder entry levels.
const (
	LevelInfo  = "Info"
	LevelWarn  = "Warn"
	LevelError = "Error"
	LevelDebug = "Debug"
	LevelTrace = "Trace"
)

// Client exposes convenience helpers for emitting log entries.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// Config controls how a host-backed Client interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig host.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall host.Call
}

// hostClient implements Client using the configured host call entrypoint.
type hostClient struct {
	runtime  host.RuntimeConfig
	hostCall host.Call
}

// New creates a Client that emits logs through the host logging capability.
func New(cfg Config) (Client, error) {
	return &hostClient{
		runtime:  cfg.SDKConfig.WithDefaults(),
		hostCall: host.Resolve(cfg.HostCall),
	}, nil
}

func (c *hostClient) Info(message string)  { c.log(LevelInfo, message) }
func (c *hostClient) Warn(message string)  { c.log(LevelWarn, message) }
func (c *hostClient) Error(message string) { c.log(LevelError, message) }
func (c *hostClient) Debug(message string) { c.log(LevelDebug, message) }
func (c *hostClient) Trace(message string) { c.log(LevelTrace, message) }

// log is best effort; a failed host call drops the entry.
func (c *hostClient) log(fn string, message string) {
	_, _ = c.hostCall(c.runtime.Namespace, capabilityName, fn, []byte(message))
}
