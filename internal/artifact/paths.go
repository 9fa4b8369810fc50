package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"elevenlabs-mcp/internal/model"
)

// tempSubdir is the last-resort output directory under os.TempDir.
const tempSubdir = "elevenlabs_audio"

// Resolver computes the writable directory a tool writes its artifacts to.
// A blank BasePath makes unqualified output fall back to the user's Desktop,
// then Documents/audio, then a temp subfolder.
type Resolver struct {
	BasePath string

	// HomeDir and TempDir default to os.UserHomeDir and os.TempDir.
	HomeDir func() (string, error)
	TempDir func() string
}

// Resolve returns an absolute, existing, writable directory for explicitDir
// ("" means the caller did not ask for one). The directory and any missing
// parents are created; existing content is never touched.
func (r Resolver) Resolve(explicitDir string) (string, error) {
	dir, err := r.target(explicitDir)
	if err != nil {
		return "", err
	}
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func (r Resolver) target(explicitDir string) (string, error) {
	base := strings.TrimSpace(r.BasePath)
	if explicitDir == "" {
		if base != "" {
			return r.absolute(base)
		}
		return r.fallback(), nil
	}

	expanded, err := r.expandHome(explicitDir)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	if base != "" {
		baseDir, err := r.absolute(base)
		if err != nil {
			return "", err
		}
		return filepath.Join(baseDir, expanded), nil
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", &model.Error{Kind: model.KindDirectory, Message: fmt.Sprintf("Invalid output directory (%s): %v", explicitDir, err), Path: explicitDir, Cause: err}
	}
	return abs, nil
}

func (r Resolver) absolute(path string) (string, error) {
	expanded, err := r.expandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", &model.Error{Kind: model.KindDirectory, Message: fmt.Sprintf("Invalid base path (%s): %v", path, err), Path: path, Cause: err}
	}
	return abs, nil
}

func (r Resolver) fallback() string {
	if home, err := r.homeDir(); err == nil && home != "" {
		desktop := filepath.Join(home, "Desktop")
		if isWritableDir(desktop) {
			return desktop
		}
		documents := filepath.Join(home, "Documents")
		if isWritableDir(documents) {
			return filepath.Join(documents, "audio")
		}
	}
	return filepath.Join(r.tempDir(), tempSubdir)
}

// expandHome replaces a leading "~" with the user's home directory.
// "~user" forms are left untouched.
func (r Resolver) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := r.homeDir()
	if err != nil {
		return "", &model.Error{Kind: model.KindDirectory, Message: fmt.Sprintf("Cannot expand %s: %v", path, err), Path: path, Cause: err}
	}
	return filepath.Join(home, path[1:]), nil
}

func (r Resolver) homeDir() (string, error) {
	if r.HomeDir != nil {
		return r.HomeDir()
	}
	return os.UserHomeDir()
}

func (r Resolver) tempDir() string {
	if r.TempDir != nil {
		return r.TempDir()
	}
	return os.TempDir()
}

// ensureDir creates dir if absent. Concurrent callers are safe: MkdirAll is a
// no-op for an existing directory.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &model.Error{Kind: model.KindDirectory, Message: fmt.Sprintf("Failed to create directory (%s): %v", dir, err), Path: dir, Cause: err}
	}
	if !isWritable(dir) {
		return &model.Error{Kind: model.KindDirectory, Message: fmt.Sprintf("Directory (%s) is not writeable", dir), Path: dir}
	}
	return nil
}

func isWritableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return isWritable(path)
}
