package model

import (
	"slices"
	"strings"
)

// OutputMode is the process-wide policy for generated artifacts.
type OutputMode string

const (
	OutputModeFiles     OutputMode = "files"
	OutputModeResources OutputMode = "resources"
	OutputModeBoth      OutputMode = "both"
)

// OutputModes lists the accepted values in documentation order.
var OutputModes = []OutputMode{OutputModeFiles, OutputModeResources, OutputModeBoth}

// ParseOutputMode normalizes s and rejects anything outside OutputModes.
func ParseOutputMode(s string) (OutputMode, error) {
	mode := OutputMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.Valid() {
		return "", Errorf(KindConfiguration, "invalid output mode %q; must be one of: files, resources, both", s)
	}
	return mode, nil
}

func (m OutputMode) Valid() bool {
	return slices.Contains(OutputModes, m)
}

// WritesFiles reports whether artifacts are persisted to disk.
func (m OutputMode) WritesFiles() bool {
	return m == OutputModeFiles || m == OutputModeBoth
}

// ReturnsResources reports whether artifacts are returned inline.
func (m OutputMode) ReturnsResources() bool {
	return m == OutputModeResources || m == OutputModeBoth
}

// Description explains to the agent host what a tool does with its output.
func (m OutputMode) Description() string {
	switch m {
	case OutputModeFiles:
		return "Saves output file to directory (default: $HOME/Desktop)"
	case OutputModeResources:
		return "Returns output as base64-encoded MCP resource"
	case OutputModeBoth:
		return "Saves file to directory (default: $HOME/Desktop) AND returns as base64-encoded MCP resource"
	default:
		return "Output behavior depends on ELEVENLABS_MCP_OUTPUT_MODE setting"
	}
}
