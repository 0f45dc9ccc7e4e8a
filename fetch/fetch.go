package fetch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tarmac-project/fetchmock/host"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
)

// Capability and Function route HTTP requests on the waPC host.
const (
	Capability = "httpclient"
	Function   = "call"
)

// Client provides an interface for making HTTP requests.
type Client interface {
	// Fetch issues a request described by init. A nil init is a GET.
	Fetch(url string, init *Init) (*Response, error)

	// Get issues a GET request to the specified URL.
	Get(url string) (*Response, error)

	// Post issues a POST request to the specified URL with the given content type and body.
	Post(url, contentType string, body io.Reader) (*Response, error)

	// Put issues a PUT request to the specified URL with the given content type and body.
	Put(url, contentType string, body io.Reader) (*Response, error)

	// Delete issues a DELETE request to the specified URL.
	Delete(url string) (*Response, error)

	// Do issues a custom HTTP request and returns the response.
	Do(req *Request) (*Response, error)
}

// Init carries the optional parts of a Fetch call.
type Init struct {
	// Method defaults to GET.
	Method string
	// Header is copied onto the request.
	Header http.Header
	// Body is read fully before the host call.
	Body io.Reader
}

// Config configures the HTTP client behavior and host integration.
//
// SDKConfig supplies the namespace used when making waPC host calls. If the
// Namespace is empty, it defaults to host.DefaultNamespace during New.
// HostCall allows tests to inject a custom host function such as
// hostmock.Mock.HostCall; when nil, the client uses wapc.HostCall.
type Config struct {
	// SDKConfig provides the runtime namespace for host calls.
	SDKConfig host.RuntimeConfig
	// InsecureSkipVerify disables TLS verification when supported.
	InsecureSkipVerify bool
	// HostCall overrides the waPC host function used for requests.
	HostCall host.Call
}

// HTTPClient implements Client using waPC host calls.
type HTTPClient struct {
	cfg      Config
	hostCall host.Call
}

var _ Client = (*HTTPClient)(nil)

// New creates a new HTTP client with the provided configuration.
func New(config Config) (*HTTPClient, error) {
	cfg := config
	cfg.SDKConfig = config.SDKConfig.WithDefaults()
	return &HTTPClient{cfg: cfg, hostCall: host.Resolve(config.HostCall)}, nil
}

// Fetch issues the request described by init.
func (c *HTTPClient) Fetch(urlStr string, init *Init) (*Response, error) {
	if init == nil {
		init = &Init{}
	}
	method := init.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := NewRequest(method, urlStr, init.Body)
	if err != nil {
		return &Response{}, err
	}
	for k, values := range init.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return c.Do(req)
}

// Get issues a GET to the specified URL and returns the response.
func (c *HTTPClient) Get(urlStr string) (*Response, error) {
	return c.send(http.MethodGet, urlStr, "", nil)
}

// Post issues a POST to the URL with the provided contentType and body.
func (c *HTTPClient) Post(urlStr, contentType string, body io.Reader) (*Response, error) {
	return c.send(http.MethodPost, urlStr, contentType, body)
}

// Put issues a PUT to the URL with the provided contentType and body.
func (c *HTTPClient) Put(urlStr, contentType string, body io.Reader) (*Response, error) {
	return c.send(http.MethodPut, urlStr, contentType, body)
}

// Delete issues a DELETE to the specified URL.
func (c *HTTPClient) Delete(urlStr string) (*Response, error) {
	return c.send(http.MethodDelete, urlStr, "", nil)
}

func (c *HTTPClient) send(method, urlStr, contentType string, body io.Reader) (*Response, error) {
	if !validURL(urlStr) {
		return &Response{}, ErrInvalidURL
	}

	bodyBytes, err := readAll(body)
	if err != nil {
		return &Response{}, err
	}

	headers := make(map[string]*proto.Header)
	if contentType != "" {
		headers["Content-Type"] = &proto.Header{Values: []string{contentType}}
	}
	return c.doHTTPCall(&proto.HTTPClient{
		Method:   method,
		Url:      urlStr,
		Insecure: c.cfg.InsecureSkipVerify,
		Body:     bodyBytes,
		Headers:  headers,
	})
}

// Do issues a custom request built with NewRequest and returns the response.
func (c *HTTPClient) Do(req *Request) (*Response, error) {
	if req == nil {
		return &Response{}, ErrNilRequest
	}

	// Validate the URL before touching the body stream.
	if req.URL == nil || req.URL.Host == "" {
		return &Response{}, ErrInvalidURL
	}

	var bodyBytes []byte
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
		var err error
		if bodyBytes, err = readAll(req.Body); err != nil {
			return &Response{}, err
		}
	}

	pbReq := &proto.HTTPClient{
		Method:   req.Method,
		Url:      req.URL.String(),
		Insecure: c.cfg.InsecureSkipVerify,
		Body:     bodyBytes,
		Headers:  make(map[string]*proto.Header, len(req.Header)),
	}
	for key, values := range req.Header {
		pbReq.Headers[key] = &proto.Header{Values: values}
	}

	return c.doHTTPCall(pbReq)
}

// doHTTPCall marshals the protobuf request, performs the host call, and
// unmarshals the response using proto getters.
func (c *HTTPClient) doHTTPCall(req *proto.HTTPClient) (*Response, error) {
	b, err := req.MarshalVT()
	if err != nil {
		return &Response{}, errors.Join(ErrMarshalRequest, err)
	}

	resp, err := c.hostCall(c.cfg.SDKConfig.Namespace, Capability, Function, b)
	if err != nil {
		return &Response{}, errors.Join(host.ErrHostCall, err)
	}

	var r proto.HTTPClientResponse
	if unmarshalErr := r.UnmarshalVT(resp); unmarshalErr != nil {
		return &Response{}, errors.Join(ErrUnmarshalResponse, unmarshalErr)
	}

	if err := checkStatus(r.GetStatus()); err != nil {
		return &Response{}, err
	}

	httpCode := int(r.GetCode())
	out := &Response{
		Status:     http.StatusText(httpCode),
		StatusCode: httpCode,
		Header:     make(http.Header),
	}
	for name, header := range r.GetHeaders() {
		out.Header[name] = header.GetValues()
	}
	if body := r.GetBody(); len(body) > 0 {
		out.Body = io.NopCloser(bytes.NewReader(body))
	}

	return out, nil
}

func checkStatus(status *sdkproto.Status) error {
	if status == nil {
		return host.ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case host.StatusOK, host.StatusPartial:
		return nil
	case host.StatusBadInput, host.StatusMissing, host.StatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return errors.Join(host.ErrHostError, errors.New(detail))
	default:
		return errors.Join(host.ErrHostResponseInvalid, fmt.Errorf("unexpected host status code %d", code))
	}
}

// Request represents an HTTP request to be sent by the client.
type Request struct {
	// Method is the HTTP method (e.g., GET, POST).
	Method string
	// URL is the full request URL; Host must be non-empty.
	URL *url.URL
	// Header holds request headers. Nil is treated as empty.
	Header http.Header
	// Body is an optional request body stream.
	Body io.ReadCloser
}

// NewRequest creates a new Request object to use with the Do method.
func NewRequest(method, urlString string, body io.Reader) (*Request, error) {
	if !isValidMethod(method) {
		return nil, ErrInvalidMethod
	}

	parsedURL, err := url.Parse(urlString)
	if err != nil || parsedURL == nil || parsedURL.Host == "" {
		return nil, ErrInvalidURL
	}

	req := &Request{
		Method: method,
		URL:    parsedURL,
		Header: make(http.Header),
	}
	if body != nil {
		req.Body = io.NopCloser(body)
	}
	return req, nil
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u != nil && u.Host != ""
}

func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrReadBody, err)
	}
	return b, nil
}

func isValidMethod(method string) bool {
	switch method {
	case http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodConnect,
		http.MethodOptions,
		http.MethodTrace:
		return true
	default:
		return false
	}
}
