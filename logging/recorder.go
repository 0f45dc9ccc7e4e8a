package logging

import "sync"

// Entry is a single recorded log line.
type Entry struct {
	Level   string
	Message string
}

// Recorder is an in-memory Client. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Info(message string)  { r.record(LevelInfo, message) }
func (r *Recorder) Warn(message string)  { r.record(LevelWarn, message) }
func (r *Recorder) Error(message string) { r.record(LevelError, message) }
func (r *Recorder) Debug(message string) { r.record(LevelDebug, message) }
func (r *Recorder) Trace(message string) { r.record(LevelTrace, message) }

func (r *Recorder) record(level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
}

// Entries returns a copy of every recorded entry in order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Level returns the messages recorded at the given level.
func (r *Recorder) Level(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset discards all recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

var (
	_ Client = (*Recorder)(nil)
	_ Client = (*slogClient)(nil)
	_ Client = (*hostClient)(nil)
)
