// Package transport intercepts net/http clients with a fetchmock.Registry.
//
// Transport is an http.RoundTripper that answers every request from the
// registry instead of the network. Install swaps it into a single client;
// InstallDefault swaps http.DefaultTransport, which covers http.Get,
// http.DefaultClient and every client without its own Transport. Both return a
// function that restores the previous transport.
package transport
