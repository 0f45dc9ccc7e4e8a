package fetchmock

import (
	"context"
	"net/http"
	"sync"
)

// Handler produces the fake outcome of a call. Returning a non-nil error
// rejects the call; returning a nil Response and nil error resolves with an
// empty 200 OK.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Respond returns a Handler that resolves with a copy of resp on every call.
func Respond(resp *Response) Handler {
	return func(context.Context, *Request) (*Response, error) {
		return resp.Clone(), nil
	}
}

// RespondStatus returns a Handler that resolves with an empty body and the given status.
func RespondStatus(statusCode int) Handler {
	return func(context.Context, *Request) (*Response, error) {
		return NewResponse(statusCode, nil), nil
	}
}

// RespondJSON returns a Handler that encodes v as the response body on every call.
func RespondJSON(statusCode int, v any) Handler {
	return func(context.Context, *Request) (*Response, error) {
		return JSONResponse(statusCode, v)
	}
}

// Fail returns a Handler that rejects every call with err.
func Fail(err error) Handler {
	return func(context.Context, *Request) (*Response, error) {
		return nil, err
	}
}

// Sequence returns a Handler that delegates to handlers in turn. Once the
// list is exhausted the last handler answers every further call.
func Sequence(handlers ...Handler) Handler {
	var (
		mu   sync.Mutex
		next int
	)
	return func(ctx context.Context, req *Request) (*Response, error) {
		if len(handlers) == 0 {
			return nil, ErrNilHandler
		}
		mu.Lock()
		h := handlers[next]
		if next < len(handlers)-1 {
			next++
		}
		mu.Unlock()
		return h(ctx, req)
	}
}

func emptyOK() *Response {
	return &Response{StatusCode: http.StatusOK, Header: make(http.Header)}
}
