package host

import (
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

// Host status codes carried in the Status field of capability responses.
const (
	StatusOK       = int32(200)
	StatusPartial  = int32(206)
	StatusBadInput = int32(400)
	StatusMissing  = int32(404)
	StatusError    = int32(500)
)

// Call is the waPC host function signature used by capability clients.
type Call func(namespace, capability, function string, payload []byte) ([]byte, error)

// RuntimeConfig carries configuration shared by capability clients.
type RuntimeConfig struct {
	// Namespace is the function namespace used to scope host interactions.
	Namespace string
}

// WithDefaults returns a copy of the config with empty fields defaulted.
func (c RuntimeConfig) WithDefaults() RuntimeConfig {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	return c
}

// Resolve returns call, or wapc.HostCall when call is nil.
func Resolve(call Call) Call {
	if call != nil {
		return call
	}
	return wapc.HostCall
}
