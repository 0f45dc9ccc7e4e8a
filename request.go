package fetchmock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Request is the argument set of one fetch call.
type Request struct {
	// Method is the HTTP method (e.g., GET, POST).
	Method string
	// URL is the full request URL as the caller passed it.
	URL string
	// Header holds request headers. Nil is treated as empty.
	Header http.Header
	// Body is the request payload, if any.
	Body []byte
}

// NewRequest builds a Request with an initialized header.
func NewRequest(method, url string, body []byte) *Request {
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		Method: strings.ToUpper(method),
		URL:    url,
		Header: make(http.Header),
		Body:   body,
	}
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	out := &Request{
		Method: r.Method,
		URL:    r.URL,
		Header: r.Header.Clone(),
	}
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	if r.Body != nil {
		out.Body = append([]byte{}, r.Body...)
	}
	return out
}

func (r *Request) String() string {
	if r == nil {
		return "<nil request>"
	}
	return r.Method + " " + r.URL
}

// Response is a fake response produced by a Handler.
type Response struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int
	// Status is the HTTP status text. Empty means http.StatusText(StatusCode).
	Status string
	// Header holds headers to include in the response.
	Header http.Header
	// Body is the raw payload returned to callers.
	Body []byte
}

// NewResponse builds a Response with the given status code and body.
func NewResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Header:     make(http.Header),
		Body:       body,
	}
}

// JSONResponse encodes v as the body of a Response with a JSON content type.
func JSONResponse(statusCode int, v any) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response body: %w", err)
	}
	resp := NewResponse(statusCode, b)
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// StatusText returns Status, falling back to the standard text for StatusCode.
func (r *Response) StatusText() string {
	if r.Status != "" {
		return r.Status
	}
	return http.StatusText(r.StatusCode)
}

// Clone returns a deep copy of the response.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := &Response{
		StatusCode: r.StatusCode,
		Status:     r.Status,
		Header:     r.Header.Clone(),
	}
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	if r.Body != nil {
		out.Body = append([]byte{}, r.Body...)
	}
	return out
}

// Call is one recorded invocation.
type Call struct {
	// Seq is the 1-based position of the call since the last Reset.
	Seq int
	// ID uniquely identifies the call in diagnostics.
	ID string
	// Request is a copy of the arguments the call was made with.
	Request *Request
	// Registration is the key of the matched registration, empty when unmocked.
	Registration string
	// At is when the registry observed the call.
	At time.Time
}

// Unmocked reports whether no registration matched the call.
func (c Call) Unmocked() bool { return c.Registration == "" }
