package mcp

import (
	"context"
	"encoding/json"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/pretty"

	"elevenlabs-mcp/internal/elevenlabs"
	"elevenlabs-mcp/internal/protocol"
)

type SearchVoicesInput struct {
	Search        *string `json:"search,omitempty" jsonschema:"Search term matched against name, description, labels and category"`
	Sort          *string `json:"sort,omitempty" jsonschema:"Field to sort by: name (default) or created_at_unix"`
	SortDirection *string `json:"sort_direction,omitempty" jsonschema:"Sort order: asc or desc (default)"`
}

type GetVoiceInput struct {
	VoiceID string `json:"voice_id" jsonschema:"ID of the voice to look up"`
}

type voiceSummary struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	FineTuningStatus json.RawMessage `json:"fine_tuning_status,omitempty"`
}

type modelSummary struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Languages []elevenlabs.Language `json:"languages"`
}

func (s *Server) registerAccountTools() {
	readOnly := func(title string) *mcpsdk.ToolAnnotations {
		return &mcpsdk.ToolAnnotations{Title: title, ReadOnlyHint: true, IdempotentHint: true}
	}

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name: protocol.ToolNameSearchVoices,
		Description: "Search for existing voices, a voice that has already been added to the user's ElevenLabs voice library. " +
			"Searches in name, description, labels and category.",
		Annotations: readOnly("Search Voices"),
	}, s.handleSearchVoices)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        protocol.ToolNameGetVoice,
		Description: "Get details of a specific voice.",
		Annotations: readOnly("Get Voice"),
	}, s.handleGetVoice)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        protocol.ToolNameListModels,
		Description: "List all available models.",
		Annotations: readOnly("List Models"),
	}, s.handleListModels)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        protocol.ToolNameCheckSubscription,
		Description: "Check the current subscription status. Could be used to measure the usage of the API.",
		Annotations: readOnly("Check Subscription"),
	}, s.handleCheckSubscription)
}

func (s *Server) handleSearchVoices(ctx context.Context, _ *mcpsdk.CallToolRequest, in SearchVoicesInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameSearchVoices)

	sort := strings.TrimSpace(deref(in.Sort))
	if sort == "" {
		sort = "name"
	}
	if sort != "name" && sort != "created_at_unix" {
		return s.fail(protocol.ToolNameSearchVoices, invalidArgument("sort must be one of: name, created_at_unix"))
	}
	direction := strings.TrimSpace(deref(in.SortDirection))
	if direction == "" {
		direction = "desc"
	}
	if direction != "asc" && direction != "desc" {
		return s.fail(protocol.ToolNameSearchVoices, invalidArgument("sort_direction must be one of: asc, desc"))
	}

	voices, err := s.client.SearchVoices(ctx, elevenlabs.VoiceSearch{Search: deref(in.Search), Sort: sort, SortDirection: direction})
	if err != nil {
		return s.failErr(protocol.ToolNameSearchVoices, err)
	}
	summaries := make([]voiceSummary, 0, len(voices))
	for _, v := range voices {
		summaries = append(summaries, voiceSummary{ID: v.VoiceID, Name: v.Name, Category: v.Category})
	}
	return jsonResult(map[string]any{"voices": summaries})
}

func (s *Server) handleGetVoice(ctx context.Context, _ *mcpsdk.CallToolRequest, in GetVoiceInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameGetVoice, "voice_id", in.VoiceID)

	if strings.TrimSpace(in.VoiceID) == "" {
		return s.fail(protocol.ToolNameGetVoice, invalidArgument("voice_id is required."))
	}
	v, err := s.client.GetVoice(ctx, in.VoiceID)
	if err != nil {
		return s.failErr(protocol.ToolNameGetVoice, err)
	}
	return jsonResult(voiceSummary{ID: v.VoiceID, Name: v.Name, Category: v.Category, FineTuningStatus: v.FineTuningState()})
}

func (s *Server) handleListModels(ctx context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameListModels)

	models, err := s.client.ListModels(ctx)
	if err != nil {
		return s.failErr(protocol.ToolNameListModels, err)
	}
	summaries := make([]modelSummary, 0, len(models))
	for _, m := range models {
		summaries = append(summaries, modelSummary{ID: m.ModelID, Name: m.Name, Languages: m.Languages})
	}
	return jsonResult(map[string]any{"models": summaries})
}

func (s *Server) handleCheckSubscription(ctx context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameCheckSubscription)

	raw, err := s.client.Subscription(ctx)
	if err != nil {
		return s.failErr(protocol.ToolNameCheckSubscription, err)
	}
	return textResult(strings.TrimSpace(string(pretty.Pretty(raw)))), nil, nil
}

// jsonResult renders v as indented JSON text and returns it as the
// structured output too.
func jsonResult(v any) (*mcpsdk.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return textResult(strings.TrimSpace(string(pretty.Pretty(data)))), v, nil
}
