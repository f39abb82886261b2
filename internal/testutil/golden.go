package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// UpdateEnv regenerates golden files when set.
const UpdateEnv = "GOLDEN_UPDATE"

// Golden compares got with testdata/<name>.golden in the calling package.
// With GOLDEN_UPDATE set, the file is rewritten instead.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating testdata: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("updating %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v\ngot:\n%s", path, err, got)
	}
	if string(got) != string(want) {
		t.Errorf("%s mismatch\n--- want\n%s\n--- got\n%s", name, want, got)
	}
}

// GoldenString is Golden for string output.
func GoldenString(t *testing.T, name, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}
