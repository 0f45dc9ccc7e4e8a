package hostmock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tarmac-project/fetchmock"
	"github.com/tarmac-project/fetchmock/host"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")

	// ErrInvalidPayload is returned when a payload cannot be decoded as an HTTPClient request.
	ErrInvalidPayload = errors.New("invalid httpclient payload")
)

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedNamespace defines the namespace expected in the host call. Blank accepts any.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in the host call. Blank accepts any.
	ExpectedCapability string

	// ExpectedFunction defines the function name expected in the host call. Blank accepts any.
	ExpectedFunction string

	// Error is the error to return if the mock is configured to fail.
	Error error

	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func([]byte) error

	// Response scripts the raw bytes returned for the host call. It takes
	// precedence over Registry.
	Response func() []byte

	// Registry answers httpclient payloads. Requests are decoded, passed to
	// Registry.Invoke and the outcome is encoded as an HTTPClientResponse.
	Registry *fetchmock.Registry

	// Timeout bounds how long HostCall waits for a registry handler. Zero waits forever.
	Timeout time.Duration

	// Fail indicates whether the mock should return an error.
	Fail bool
}

// Mock simulates the waPC host with routing validation and configurable responses.
type Mock struct {
	cfg Config
}

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	return &Mock{cfg: config}, nil
}

// ForRegistry returns a Mock that routes httpclient calls in the registry's
// namespace to reg.
func ForRegistry(reg *fetchmock.Registry) *Mock {
	return &Mock{cfg: Config{
		ExpectedNamespace:  reg.Namespace(),
		ExpectedCapability: "httpclient",
		ExpectedFunction:   "call",
		Registry:           reg,
	}}
}

// HostCall simulates a host call, validating inputs and returning a response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	if m.cfg.Fail {
		if m.cfg.Error != nil {
			return nil, m.cfg.Error
		}
		return nil, ErrOperationFailed
	}

	if err := expect(ErrUnexpectedNamespace, "namespace", m.cfg.ExpectedNamespace, namespace); err != nil {
		return nil, err
	}
	if err := expect(ErrUnexpectedCapability, "capability", m.cfg.ExpectedCapability, capability); err != nil {
		return nil, err
	}
	if err := expect(ErrUnexpectedFunction, "function", m.cfg.ExpectedFunction, function); err != nil {
		return nil, err
	}

	if m.cfg.PayloadValidator != nil {
		if err := m.cfg.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	if m.cfg.Response != nil {
		return m.cfg.Response(), nil
	}
	if m.cfg.Registry != nil {
		return m.serve(payload)
	}

	return nil, nil
}

func expect(sentinel error, field, want, got string) error {
	if want == "" || want == got {
		return nil
	}
	return fmt.Errorf("%w: expected %s %s, got %s", sentinel, field, want, got)
}

// serve decodes an HTTPClient payload and answers it from the registry. A
// rejected call is encoded with a host error status and its error is returned
// as well, so errors.Is(err, fetchmock.ErrUnmocked) holds for the caller.
func (m *Mock) serve(payload []byte) ([]byte, error) {
	req, err := DecodeRequest(payload)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	resp, err := m.cfg.Registry.Fetch(ctx, req)
	if err != nil {
		code := host.StatusError
		if errors.Is(err, fetchmock.ErrUnmocked) {
			code = host.StatusMissing
		}
		b, _ := (&proto.HTTPClientResponse{
			Status: &sdkproto.Status{Status: err.Error(), Code: code},
		}).MarshalVT()
		return b, err
	}

	return EncodeResponse(resp)
}

// DecodeRequest converts an HTTPClient payload into a registry request.
func DecodeRequest(payload []byte) (*fetchmock.Request, error) {
	var pb proto.HTTPClient
	if err := pb.UnmarshalVT(payload); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	req := fetchmock.NewRequest(pb.GetMethod(), pb.GetUrl(), pb.GetBody())
	for name, h := range pb.GetHeaders() {
		req.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), h.GetValues()...)
	}
	return req, nil
}

// EncodeResponse converts a registry response into a successful HTTPClientResponse payload.
func EncodeResponse(resp *fetchmock.Response) ([]byte, error) {
	out := &proto.HTTPClientResponse{
		Status:  &sdkproto.Status{Status: "OK", Code: host.StatusOK},
		Code:    int32(resp.StatusCode),
		Headers: make(map[string]*proto.Header, len(resp.Header)),
		Body:    resp.Body,
	}
	for name, values := range resp.Header {
		out.Headers[name] = &proto.Header{Values: values}
	}
	return out.MarshalVT()
}
