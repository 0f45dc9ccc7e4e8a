package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tarmac-project/fetchmock"
	"github.com/tarmac-project/fetchmock/fetch"
)

// MockClient implements fetch.Client by answering from a registry. It never
// performs network I/O.
//
// revive:disable:exported // Name mirrors package for discoverability; stutter is acceptable here.
type MockClient struct {
	registry *fetchmock.Registry
}

// revive:enable:exported

// Config controls construction of a MockClient.
type Config struct {
	// Registry answers calls. If nil, a registry with default settings is created.
	Registry *fetchmock.Registry
}

var _ fetch.Client = (*MockClient)(nil)

// New creates a new mock HTTP client.
func New(config Config) (*MockClient, error) {
	reg := config.Registry
	if reg == nil {
		var err error
		if reg, err = fetchmock.New(fetchmock.Config{}); err != nil {
			return nil, err
		}
	}
	return &MockClient{registry: reg}, nil
}

// Registry returns the registry backing the client.
func (m *MockClient) Registry() *fetchmock.Registry { return m.registry }

// On starts configuration of a response for a given method and URL pattern.
func (m *MockClient) On(method, url string) *fetchmock.Builder {
	return m.registry.On(method, url)
}

// Calls returns the calls recorded by the backing registry.
func (m *MockClient) Calls() []fetchmock.Call { return m.registry.Calls() }

// Fetch records and answers a request described by init.
func (m *MockClient) Fetch(url string, init *fetch.Init) (*fetch.Response, error) {
	if init == nil {
		init = &fetch.Init{}
	}
	body, err := readAll(init.Body)
	if err != nil {
		return nil, err
	}
	return m.invoke(init.Method, url, init.Header, body)
}

// Get records and answers a GET request.
func (m *MockClient) Get(url string) (*fetch.Response, error) {
	return m.invoke(http.MethodGet, url, nil, nil)
}

// Post records and answers a POST request.
func (m *MockClient) Post(url, contentType string, body io.Reader) (*fetch.Response, error) {
	return m.withBody(http.MethodPost, url, contentType, body)
}

// Put records and answers a PUT request.
func (m *MockClient) Put(url, contentType string, body io.Reader) (*fetch.Response, error) {
	return m.withBody(http.MethodPut, url, contentType, body)
}

// Delete records and answers a DELETE request.
func (m *MockClient) Delete(url string) (*fetch.Response, error) {
	return m.invoke(http.MethodDelete, url, nil, nil)
}

// Do records and answers an arbitrary request.
func (m *MockClient) Do(req *fetch.Request) (*fetch.Response, error) {
	if req == nil || req.URL == nil {
		return nil, fetch.ErrNilRequest
	}
	var body []byte
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
		var err error
		if body, err = readAll(req.Body); err != nil {
			return nil, err
		}
	}
	return m.invoke(req.Method, req.URL.String(), req.Header, body)
}

func (m *MockClient) withBody(method, url, contentType string, body io.Reader) (*fetch.Response, error) {
	b, err := readAll(body)
	if err != nil {
		return nil, err
	}
	var header http.Header
	if contentType != "" {
		header = http.Header{"Content-Type": {contentType}}
	}
	return m.invoke(method, url, header, b)
}

func (m *MockClient) invoke(method, url string, header http.Header, body []byte) (*fetch.Response, error) {
	req := fetchmock.NewRequest(method, url, body)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := m.registry.Fetch(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return toFetchResponse(resp), nil
}

// toFetchResponse converts a registry Response into a fetch.Response with copied headers.
func toFetchResponse(r *fetchmock.Response) *fetch.Response {
	out := &fetch.Response{
		StatusCode: r.StatusCode,
		Status:     r.StatusText(),
		Header:     r.Header.Clone(),
	}
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	if len(r.Body) > 0 {
		out.Body = io.NopCloser(bytes.NewReader(r.Body))
	}
	return out
}

func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fetch.ErrReadBody, err)
	}
	return b, nil
}
