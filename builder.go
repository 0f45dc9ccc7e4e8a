package fetchmock

// Builder configures a registration fluently. It is created by Registry.On
// and finished by one of the Reply or Return methods.
type Builder struct {
	registry *Registry
	pattern  string
	opts     []Option
}

// On starts configuration of a response for a method and URL pattern.
// An empty method matches any method.
func (r *Registry) On(method, urlPattern string) *Builder {
	if method == "" {
		method = "*"
	}
	return &Builder{registry: r, pattern: method + " " + urlPattern}
}

// Once limits the registration to the next matching call.
func (b *Builder) Once() *Builder { return b.With(Once()) }

// Times limits the registration to the next n matching calls.
func (b *Builder) Times(n int) *Builder { return b.With(Times(n)) }

// Persist makes the registration answer every matching call.
func (b *Builder) Persist() *Builder { return b.With(Persist()) }

// Named sets an explicit registration key.
func (b *Builder) Named(name string) *Builder { return b.With(Named(name)) }

// With appends arbitrary options.
func (b *Builder) With(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Reply registers handler for the configured pattern.
func (b *Builder) Reply(handler Handler) error {
	return b.registry.Register(b.pattern, handler, b.opts...)
}

// Return registers a copy of resp as the response.
func (b *Builder) Return(resp *Response) error {
	if resp == nil {
		return ErrNilHandler
	}
	return b.Reply(Respond(resp))
}

// ReturnJSON registers a JSON-encoded body with the given status code.
func (b *Builder) ReturnJSON(statusCode int, v any) error {
	return b.Reply(RespondJSON(statusCode, v))
}

// ReturnStatus registers an empty body with the given status code.
func (b *Builder) ReturnStatus(statusCode int) error {
	return b.Reply(RespondStatus(statusCode))
}

// ReturnError registers a failure for the configured pattern.
func (b *Builder) ReturnError(err error) error {
	return b.Reply(Fail(err))
}
