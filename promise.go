package fetchmock

import (
	"context"
	"sync"
)

// Promise is the asynchronous outcome of Invoke. It settles exactly once,
// either resolved with a Response or rejected with an error.
type Promise struct {
	done chan struct{}
	once sync.Once
	resp *Response
	err  error
}

func newPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Resolved returns a Promise already settled with resp.
func Resolved(resp *Response) *Promise {
	p := newPromise()
	p.settle(resp, nil)
	return p
}

// Rejected returns a Promise already settled with err.
func Rejected(err error) *Promise {
	p := newPromise()
	p.settle(nil, err)
	return p
}

func (p *Promise) settle(resp *Response, err error) {
	p.once.Do(func() {
		if err != nil {
			resp = nil
		}
		p.resp, p.err = resp, err
		close(p.done)
	})
}

// Done is closed once the Promise has settled.
func (p *Promise) Done() <-chan struct{} { return p.done }

// Settled reports whether the Promise has settled without blocking.
func (p *Promise) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the Promise settles or ctx is done.
func (p *Promise) Await(ctx context.Context) (*Response, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	default:
	}

	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Then returns a Promise settled by fn once p resolves. A rejection skips fn
// and propagates unchanged.
func (p *Promise) Then(fn func(*Response) (*Response, error)) *Promise {
	next := newPromise()
	go func() {
		<-p.done
		if p.err != nil {
			next.settle(nil, p.err)
			return
		}
		next.settle(fn(p.resp))
	}()
	return next
}

// Catch returns a Promise settled by fn once p rejects. A resolution skips fn
// and propagates unchanged.
func (p *Promise) Catch(fn func(error) (*Response, error)) *Promise {
	next := newPromise()
	go func() {
		<-p.done
		if p.err == nil {
			next.settle(p.resp, nil)
			return
		}
		next.settle(fn(p.err))
	}()
	return next
}
