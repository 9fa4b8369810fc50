//go:build !windows

package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsWritable_ReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := t.TempDir()
	if !isWritable(dir) {
		t.Fatal("temp dir should be writable")
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
	if isWritable(dir) {
		t.Fatal("read-only directory reported writable")
	}
	if isWritable(filepath.Join(dir, "missing")) {
		t.Fatal("a missing directory is not writable")
	}
}
