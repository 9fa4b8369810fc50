//go:build windows

package artifact

import (
	"path/filepath"
	"strconv"

	"golang.org/x/sys/windows"
)

// Windows ignores FILE_ATTRIBUTE_READONLY on directories, so writability is
// probed by creating a delete-on-close file inside path.
func isWritable(path string) bool {
	probe := filepath.Join(path, ".elevenlabs-mcp-probe-"+strconv.Itoa(windows.Getpid()))
	p, err := windows.UTF16PtrFromString(probe)
	if err != nil {
		return false
	}
	h, err := windows.CreateFile(p,
		windows.GENERIC_WRITE,
		0,
		nil,
		windows.CREATE_NEW,
		windows.FILE_ATTRIBUTE_TEMPORARY|windows.FILE_FLAG_DELETE_ON_CLOSE,
		0)
	if err != nil {
		// A leftover probe from this pid still proves the directory took a write.
		return err == windows.ERROR_FILE_EXISTS
	}
	_ = windows.CloseHandle(h)
	return true
}
