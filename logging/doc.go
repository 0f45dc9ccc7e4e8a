/*
Package logging offers the diagnostic sinks used by the fetch mock registry.

Every sink implements Client, a small interface with one method per level
(Info, Warn, Error, Debug, Trace). New keeps the original behaviour of sending
entries to the Tarmac host through the waPC logging capability. NewSlog writes
through a log/slog logger (Setup builds the default stderr text logger). Recorder keeps entries in
memory so tests can assert on the diagnostics a registry emitted.
*/
package logging
