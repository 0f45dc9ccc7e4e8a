package host

import (
	"reflect"
	"testing"
)

func TestRuntimeConfigWithDefaults(t *testing.T) {
	tt := []struct {
		name   string
		cfg    RuntimeConfig
		wantNS string
	}{
		{"empty namespace", RuntimeConfig{}, DefaultNamespace},
		{"custom namespace", RuntimeConfig{Namespace: "custom"}, "custom"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.cfg.WithDefaults()
			if got.Namespace != tc.wantNS {
				t.Fatalf("namespace mismatch: want %q, got %q", tc.wantNS, got.Namespace)
			}
		})
	}

	t.Run("does not mutate receiver", func(t *testing.T) {
		cfg := RuntimeConfig{}
		_ = cfg.WithDefaults()
		if cfg.Namespace != "" {
			t.Fatalf("expected receiver to stay empty, got %q", cfg.Namespace)
		}
	})
}

func TestResolve(t *testing.T) {
	custom := func(string, string, string, []byte) ([]byte, error) { return []byte("ok"), nil }

	got := Resolve(custom)
	if reflect.ValueOf(got).Pointer() != reflect.ValueOf(custom).Pointer() {
		t.Fatalf("expected custom host call to be returned")
	}

	if Resolve(nil) == nil {
		t.Fatalf("expected default host call when nil is provided")
	}
}
