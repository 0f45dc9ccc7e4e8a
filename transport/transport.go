package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/tarmac-project/fetchmock"
)

// Transport implements http.RoundTripper on top of a registry.
type Transport struct {
	registry *fetchmock.Registry
}

var _ http.RoundTripper = (*Transport)(nil)

// New returns a Transport answering from reg.
func New(reg *fetchmock.Registry) *Transport {
	return &Transport{registry: reg}
}

// RoundTrip records the request in the registry and converts its outcome to
// an *http.Response. Unmocked calls and handler failures are returned as
// errors; http.Client wraps them in *url.Error, which unwraps to the cause.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := fetchmock.NewRequest(method, req.URL.String(), body)
	for k, values := range req.Header {
		r.Header[k] = append([]string(nil), values...)
	}

	resp, err := t.registry.Invoke(req.Context(), r).Await(req.Context())
	if err != nil {
		return nil, err
	}

	header := resp.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, resp.StatusText()),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// Install points client at reg and returns a function that restores the
// client's previous transport.
func Install(client *http.Client, reg *fetchmock.Registry) func() {
	prev := client.Transport
	client.Transport = New(reg)
	return func() { client.Transport = prev }
}

var defaultMu sync.Mutex

// InstallDefault replaces http.DefaultTransport with a Transport answering
// from reg and returns a function that restores the previous value. Calling
// the restore function more than once is safe.
func InstallDefault(reg *fetchmock.Registry) func() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	prev := http.DefaultTransport
	http.DefaultTransport = New(reg)

	var once sync.Once
	return func() {
		once.Do(func() {
			defaultMu.Lock()
			defer defaultMu.Unlock()
			http.DefaultTransport = prev
		})
	}
}
