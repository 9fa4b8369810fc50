package mcp

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"elevenlabs-mcp/internal/elevenlabs"
	"elevenlabs-mcp/internal/protocol"
)

const (
	defaultLibraryPageSize = 10
	maxLibraryPageSize     = 100
)

type VoiceCloneInput struct {
	Name        string   `json:"name" jsonschema:"Name of the new voice"`
	Files       []string `json:"files" jsonschema:"Paths to the audio samples of the voice to clone"`
	Description *string  `json:"description,omitempty" jsonschema:"Description of the new voice"`
}

type VoiceFromPreviewInput struct {
	GeneratedVoiceID string `json:"generated_voice_id" jsonschema:"Generated voice ID returned by text_to_voice"`
	VoiceName        string `json:"voice_name" jsonschema:"Name of the new voice"`
	VoiceDescription string `json:"voice_description" jsonschema:"Description of the new voice"`
}

type SearchVoiceLibraryInput struct {
	Page     *int    `json:"page,omitempty" jsonschema:"Page number to return, 0-indexed (default 0)"`
	PageSize *int    `json:"page_size,omitempty" jsonschema:"Number of voices per page, 1 to 100 (default 10)"`
	Search   *string `json:"search,omitempty" jsonschema:"Search term to filter voices by"`
}

func (s *Server) registerVoiceTools() {
	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        protocol.ToolNameVoiceClone,
		Description: "Create an instant voice clone of a voice using provided audio files.\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Clone a Voice"},
	}, s.handleVoiceClone)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        protocol.ToolNameCreateVoiceFromPreview,
		Description: "Add a generated voice to the voice library. Uses the voice ID from the text_to_voice tool.\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Save a Designed Voice"},
	}, s.handleCreateVoiceFromPreview)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        protocol.ToolNameSearchVoiceLibrary,
		Description: "Search for a voice across the entire ElevenLabs voice library.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Search Voice Library", ReadOnlyHint: true, IdempotentHint: true},
	}, s.handleSearchVoiceLibrary)
}

func (s *Server) handleVoiceClone(ctx context.Context, _ *mcpsdk.CallToolRequest, in VoiceCloneInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameVoiceClone, "files", len(in.Files))

	if strings.TrimSpace(in.Name) == "" {
		return s.fail(protocol.ToolNameVoiceClone, invalidArgument("Name is required."))
	}
	if len(in.Files) == 0 {
		return s.fail(protocol.ToolNameVoiceClone, invalidArgument("At least one audio file is required."))
	}
	// Every sample is checked before anything is uploaded.
	samples := make([]elevenlabs.CloneFile, 0, len(in.Files))
	for _, path := range in.Files {
		resolved, data, err := s.readInput(path)
		if err != nil {
			return s.failErr(protocol.ToolNameVoiceClone, err)
		}
		samples = append(samples, elevenlabs.CloneFile{FileName: filepath.Base(resolved), Data: data})
	}

	description := strings.TrimSpace(deref(in.Description))
	voiceID, err := s.client.CloneVoice(ctx, elevenlabs.VoiceCloneRequest{Name: in.Name, Description: description, Files: samples})
	if err != nil {
		return s.failErr(protocol.ToolNameVoiceClone, err)
	}
	s.logger.Info("voice cloned", "voice_id", voiceID, "samples", len(samples))

	if description == "" {
		description = "N/A"
	}
	return textResult("Voice cloned successfully: Name: " + in.Name + "\nID: " + voiceID +
		"\nCategory: cloned\nDescription: " + description), nil, nil
}

func (s *Server) handleCreateVoiceFromPreview(ctx context.Context, _ *mcpsdk.CallToolRequest, in VoiceFromPreviewInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameCreateVoiceFromPreview, "generated_voice_id", in.GeneratedVoiceID)

	if strings.TrimSpace(in.GeneratedVoiceID) == "" || strings.TrimSpace(in.VoiceName) == "" {
		return s.fail(protocol.ToolNameCreateVoiceFromPreview, invalidArgument("generated_voice_id and voice_name are required."))
	}
	voice, err := s.client.CreateVoiceFromPreview(ctx, in.GeneratedVoiceID, in.VoiceName, in.VoiceDescription)
	if err != nil {
		return s.failErr(protocol.ToolNameCreateVoiceFromPreview, err)
	}
	return textResult("Success. Voice created: " + voice.Name + " with ID:" + voice.VoiceID), nil, nil
}

func (s *Server) handleSearchVoiceLibrary(ctx context.Context, _ *mcpsdk.CallToolRequest, in SearchVoiceLibraryInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameSearchVoiceLibrary)

	page := deref(in.Page)
	if page < 0 {
		return s.fail(protocol.ToolNameSearchVoiceLibrary, invalidArgument("page must not be negative"))
	}
	pageSize := defaultLibraryPageSize
	if in.PageSize != nil {
		pageSize = *in.PageSize
	}
	if pageSize < 1 || pageSize > maxLibraryPageSize {
		return s.fail(protocol.ToolNameSearchVoiceLibrary, invalidArgument("page_size must be between 1 and "+strconv.Itoa(maxLibraryPageSize)))
	}

	voices, err := s.client.SearchSharedVoices(ctx, elevenlabs.SharedVoiceSearch{Page: page, PageSize: pageSize, Search: deref(in.Search)})
	if err != nil {
		return s.failErr(protocol.ToolNameSearchVoiceLibrary, err)
	}
	if len(voices) == 0 {
		return textResult("No shared voices found with the specified criteria."), nil, nil
	}
	blocks := make([]string, 0, len(voices))
	for _, v := range voices {
		blocks = append(blocks, formatSharedVoice(v))
	}
	return textResult("Shared Voices:\n\n" + strings.Join(blocks, "\n\n")), nil, nil
}

func formatSharedVoice(v elevenlabs.SharedVoice) string {
	category := v.Category
	if category == "" {
		category = "N/A"
	}
	lines := []string{"Name: " + v.Name, "ID: " + v.VoiceID, "Category: " + category}
	optional := []struct{ label, value string }{
		{"Gender", v.Gender},
		{"Age", v.Age},
		{"Accent", v.Accent},
		{"Description", v.Description},
		{"Use Case", v.UseCase},
	}
	for _, o := range optional {
		if o.value != "" {
			lines = append(lines, o.label+": "+o.value)
		}
	}

	languages := "N/A"
	if len(v.VerifiedLanguages) > 0 {
		names := make([]string, 0, len(v.VerifiedLanguages))
		for _, l := range v.VerifiedLanguages {
			if l.Accent != "" {
				names = append(names, l.Language+" ("+l.Accent+")")
			} else {
				names = append(names, l.Language)
			}
		}
		languages = strings.Join(names, ", ")
	}
	lines = append(lines, "Languages: "+languages)
	if v.PreviewURL != "" {
		lines = append(lines, "Preview URL: "+v.PreviewURL)
	}
	return strings.Join(lines, "\n")
}
