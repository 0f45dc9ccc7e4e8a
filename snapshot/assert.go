package snapshot

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tarmac-project/fetchmock"
)

// UpdateEnv names the environment variable that rewrites snapshot files when set to "1".
const UpdateEnv = "FETCHMOCK_UPDATE_SNAPSHOTS"

// Dir is where File keeps snapshots, relative to the package under test.
const Dir = "testdata"

// TestingT is the subset of testing.TB the assertions need.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	Logf(format string, args ...any)
}

// Inline compares got with a reference value embedded in the test source.
// Both are normalized first: surrounding blank lines are dropped, common
// indentation is removed and trailing spaces are trimmed from each line.
func Inline(t TestingT, got, want string) bool {
	t.Helper()
	g, w := Normalize(got), Normalize(want)
	if g == w {
		return true
	}
	t.Errorf("snapshot mismatch:\n%s", textdiff.Unified("want", "got", w, g))
	return false
}

// Equal compares values structurally. Recorded calls are compared without
// their ID and timestamp.
func Equal(t TestingT, got, want any, opts ...cmp.Option) bool {
	t.Helper()
	opts = append([]cmp.Option{CallOptions()}, opts...)
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
		return false
	}
	return true
}

// CallOptions ignores the volatile fields of fetchmock.Call.
func CallOptions() cmp.Option {
	return cmpopts.IgnoreFields(fetchmock.Call{}, "ID", "At")
}

// File compares got with testdata/<name>.snap. The file is written when it
// does not exist yet or when UpdateEnv is "1".
func File(t TestingT, name, got string) bool {
	t.Helper()
	path := filepath.Join(Dir, name+".snap")
	got = Normalize(got) + "\n"

	want, err := os.ReadFile(path)
	switch {
	case os.Getenv(UpdateEnv) == "1", errors.Is(err, fs.ErrNotExist):
		if err := write(path, got); err != nil {
			t.Errorf("snapshot %s: %v", path, err)
			return false
		}
		t.Logf("snapshot %s written", path)
		return true
	case err != nil:
		t.Errorf("snapshot %s: %v", path, err)
		return false
	}

	if string(want) == got {
		return true
	}
	t.Errorf("snapshot %s mismatch (rerun with %s=1 to update):\n%s", path, UpdateEnv,
		textdiff.Unified(path, "got", string(want), got))
	return false
}

func write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

// Normalize prepares text for comparison as described on Inline.
func Normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, l := range lines {
		if l == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, l := range lines {
			if len(l) >= indent {
				lines[i] = l[indent:]
			}
		}
	}
	return strings.Join(lines, "\n")
}
