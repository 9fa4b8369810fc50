package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"elevenlabs-mcp/internal/model"
)

// Locator serves elevenlabs:// URIs from files under BaseDir.
type Locator struct {
	BaseDir string
}

// Resolve maps uri to a file path inside BaseDir. Relative locators are
// joined to BaseDir; absolute ones must already point inside it. Symlinks are
// resolved before the containment check.
func (l Locator) Resolve(uri string) (string, error) {
	if !strings.HasPrefix(uri, URIScheme) {
		return "", &model.Error{Kind: model.KindInvalidArgument, Message: fmt.Sprintf("Resource URI (%s) must start with %s", uri, URIScheme), Path: uri}
	}
	candidate := strings.TrimPrefix(uri, URIScheme)
	if unescaped, err := url.PathUnescape(candidate); err == nil {
		candidate = unescaped
	}
	candidate = filepath.FromSlash(candidate)
	if candidate == "" {
		return "", &model.Error{Kind: model.KindInvalidArgument, Message: fmt.Sprintf("Resource URI (%s) names no file", uri), Path: uri}
	}

	base := canonicalPath(l.BaseDir)
	target := candidate
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = canonicalPath(target)

	if !within(base, target) {
		return "", &model.Error{
			Kind:    model.KindResourceAccess,
			Message: fmt.Sprintf("Resource path (%s) is outside of allowed directory %s", target, base),
			Path:    target,
		}
	}
	return target, nil
}

// Open reads the file behind uri and encodes it, keeping uri as the locator.
func (l Locator) Open(uri string) (Resource, error) {
	path, err := l.Resolve(uri)
	if err != nil {
		return Resource{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Resource{}, &model.Error{Kind: model.KindNotFound, Message: fmt.Sprintf("Resource file not found: %s", uri), Path: path, Cause: err}
		}
		return Resource{}, &model.Error{Kind: model.KindRead, Message: fmt.Sprintf("Failed to read resource file %s: %v", uri, err), Path: path, Cause: err}
	}
	return encodeAs(data, uri, MIMEType(filepath.Ext(path))), nil
}

// canonicalPath resolves symlinks through the deepest existing ancestor so
// missing files compare correctly against a symlinked base.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	dir, rest := abs, ""
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
