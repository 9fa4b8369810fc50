package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"elevenlabs-mcp/internal/model"
)

var audioExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
	".aac":  {},
	".ogg":  {},
	".flac": {},
	".mp4":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
}

// IsAudioFile reports whether path carries a recognized audio or video
// extension (case-insensitive).
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// InputValidator checks caller-supplied media paths before a tool reads them.
type InputValidator struct {
	BasePath string
}

// Validate returns the absolute path of an existing regular file. Relative
// paths are only accepted when a base path is configured and resolve under
// it. The file itself is not opened.
func (v InputValidator) Validate(path string, requireAudio bool) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &model.Error{Kind: model.KindInvalidArgument, Message: "File path is required"}
	}

	base := strings.TrimSpace(v.BasePath)
	resolved := path
	if !filepath.IsAbs(path) {
		if base == "" {
			return "", &model.Error{
				Kind:    model.KindPathPolicy,
				Message: fmt.Sprintf("File path (%s) must be an absolute path if ELEVENLABS_MCP_BASE_PATH is not set", path),
				Path:    path,
			}
		}
		baseDir, err := Resolver{}.absolute(base)
		if err != nil {
			return "", err
		}
		resolved = filepath.Join(baseDir, path)
	}
	resolved = filepath.Clean(resolved)

	info, err := os.Stat(resolved)
	if err != nil {
		return "", notFound(resolved, err)
	}
	if info.IsDir() {
		return "", &model.Error{Kind: model.KindNotAFile, Message: fmt.Sprintf("File (%s) is not a file", resolved), Path: resolved}
	}
	if requireAudio && !IsAudioFile(resolved) {
		return "", &model.Error{Kind: model.KindUnsupportedType, Message: fmt.Sprintf("File (%s) is not an audio or video file", resolved), Path: resolved}
	}
	return resolved, nil
}

func notFound(path string, cause error) error {
	e := &model.Error{
		Kind:    model.KindNotFound,
		Message: fmt.Sprintf("File (%s) does not exist", path),
		Path:    path,
		Cause:   cause,
	}
	parent := filepath.Dir(path)
	if info, err := os.Stat(parent); err == nil && info.IsDir() {
		if suggestions := suggestAudioFiles(path, parent); len(suggestions) > 0 {
			e.Suggestions = suggestions
			e.Message = fmt.Sprintf("File (%s) does not exist. Did you mean any of these files: %s?", path, strings.Join(suggestions, ","))
		}
	}
	return e
}
