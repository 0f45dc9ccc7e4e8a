package fetchmock

import "fmt"

// Mode controls how many calls a registration answers.
type Mode int

const (
	// ModePersistent answers every matching call until Reset.
	ModePersistent Mode = iota
	// ModeOnce answers a fixed number of matching calls (one by default) and
	// then stops matching, so further calls fall through.
	ModeOnce
)

func (m Mode) String() string {
	switch m {
	case ModePersistent:
		return "persistent"
	case ModeOnce:
		return "once"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) valid() bool { return m == ModePersistent || m == ModeOnce }

// Option adjusts a single registration.
type Option func(*registration) error

// Once limits the registration to the next matching call.
func Once() Option { return Times(1) }

// Times limits the registration to the next n matching calls.
func Times(n int) Option {
	return func(r *registration) error {
		if n < 1 {
			return fmt.Errorf("%w: times must be positive, got %d", ErrInvalidMode, n)
		}
		r.mode = ModeOnce
		r.uses = n
		return nil
	}
}

// Persist makes the registration answer every matching call, overriding Config.DefaultMode.
func Persist() Option {
	return func(r *registration) error {
		r.mode = ModePersistent
		return nil
	}
}

// Named sets an explicit registration key. A later registration with the same
// name replaces this one.
func Named(name string) Option {
	return func(r *registration) error {
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidPattern)
		}
		r.key = name
		return nil
	}
}
