package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"elevenlabs-mcp/internal/model"
)

const (
	filePathPlaceholder = "{file_path}"
	noFilesGenerated    = "No files generated"
)

// Output is what a single artifact turns into: a status line in files mode,
// a resource otherwise. Path is set whenever the artifact was written.
type Output struct {
	Status   string
	Path     string
	Resource *Resource
}

// IsResource reports whether o carries an encoded resource.
func (o Output) IsResource() bool {
	return o.Resource != nil
}

// Batch is the combined answer of a multi-artifact tool: a status line, or
// the resources in input order.
type Batch struct {
	Status    string
	Resources []Resource
}

// Dispatch persists and/or encodes one artifact according to mode.
//
// successTemplate customizes the files-mode status; "{file_path}" in it is
// replaced with the written path. In both mode the write happens first and a
// failed write aborts the call before anything is encoded.
func Dispatch(data []byte, dir, filename string, mode model.OutputMode, successTemplate string) (Output, error) {
	if !mode.Valid() {
		return Output{}, invalidMode(mode)
	}

	fullPath := filepath.Join(dir, filename)
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")

	var out Output
	if mode.WritesFiles() {
		if err := writeArtifact(dir, fullPath, data); err != nil {
			return Output{}, err
		}
		out.Path = fullPath
	}
	if mode.ReturnsResources() {
		res := Encode(data, filename, ext, dir)
		out.Resource = &res
	} else {
		out.Status = successMessage(successTemplate, fullPath)
	}
	return out, nil
}

// DispatchMany folds per-artifact outputs into one answer. In files mode the
// saved paths are listed in a single status line with additionalInfo
// appended; in the resource modes non-resource outputs are dropped and an
// empty result becomes the "No files generated" status.
func DispatchMany(outputs []Output, mode model.OutputMode, additionalInfo string) (Batch, error) {
	if !mode.Valid() {
		return Batch{}, invalidMode(mode)
	}

	if !mode.ReturnsResources() {
		paths := make([]string, 0, len(outputs))
		for _, out := range outputs {
			if out.Path != "" {
				paths = append(paths, out.Path)
			}
		}
		message := "Success. Files saved at: " + strings.Join(paths, ", ")
		if additionalInfo != "" {
			message += ". " + additionalInfo
		}
		return Batch{Status: message}, nil
	}

	resources := make([]Resource, 0, len(outputs))
	for _, out := range outputs {
		if out.IsResource() {
			resources = append(resources, *out.Resource)
		}
	}
	if len(resources) == 0 {
		return Batch{Status: noFilesGenerated}, nil
	}
	return Batch{Resources: resources}, nil
}

func successMessage(template, fullPath string) string {
	switch {
	case strings.Contains(template, filePathPlaceholder):
		return strings.ReplaceAll(template, filePathPlaceholder, fullPath)
	case template != "":
		return template
	default:
		return "Success. File saved as: " + fullPath
	}
}

// writeArtifact is a plain truncate-and-write; it is not atomic.
func writeArtifact(dir, fullPath string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &model.Error{Kind: model.KindDirectory, Message: fmt.Sprintf("Failed to create directory (%s): %v", dir, err), Path: dir, Cause: err}
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return &model.Error{Kind: model.KindDirectory, Message: fmt.Sprintf("Failed to write file (%s): %v", fullPath, err), Path: fullPath, Cause: err}
	}
	return nil
}

func invalidMode(mode model.OutputMode) error {
	return model.Errorf(model.KindConfiguration, "Invalid output mode: %s. Must be 'files', 'resources', or 'both'", string(mode))
}
