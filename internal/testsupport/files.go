package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteAsset creates a file with the given content under root, creating
// parent directories as needed, and returns its path.
func WriteAsset(t testing.TB, root, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
