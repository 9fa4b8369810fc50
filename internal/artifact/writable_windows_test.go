//go:build windows

package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/windows"
)

func TestIsWritable_ReadOnlyAttributeOnDirectoryIsIgnored(t *testing.T) {
	dir := t.TempDir()
	p, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := windows.SetFileAttributes(p, windows.FILE_ATTRIBUTE_READONLY); err != nil {
		t.Fatalf("SetFileAttributes failed: %v", err)
	}
	t.Cleanup(func() { _ = windows.SetFileAttributes(p, windows.FILE_ATTRIBUTE_NORMAL) })

	if !isWritable(dir) {
		t.Fatal("directory with the read-only attribute still accepts new files")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("write check must leave nothing behind, found %v", entries)
	}
}

func TestIsWritable_MissingDirectory(t *testing.T) {
	if isWritable(filepath.Join(t.TempDir(), "missing")) {
		t.Fatal("a missing directory is not writable")
	}
}
