/*
Package host holds the pieces shared by every component that talks to the
Tarmac host over waPC: the default namespace, the host call signature, the
host status codes, and the sentinel errors returned when a host call fails.

Guest-side clients (fetch, logging, metrics) take a Call in their Config so
tests can route host traffic into a hostmock instead of the real runtime.
When no Call is supplied, Resolve falls back to wapc.HostCall.
*/
package host
