package elevenlabs

import (
	"context"
	"encoding/json"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"elevenlabs-mcp/internal/model"
)

const (
	DefaultOutputFormat = "mp3_44100_128"
	DefaultSTSModel     = "eleven_multilingual_sts_v2"
)

// VoiceSettings tunes a synthesis call. Nil means the voice's stored settings.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed"`
}

type SpeechRequest struct {
	Text          string
	VoiceID       string
	ModelID       string
	OutputFormat  string
	VoiceSettings *VoiceSettings
}

type speechPayload struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id,omitempty"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

// TextToSpeech returns the encoded audio for req.
func (c *Client) TextToSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	voiceID := strings.TrimSpace(req.VoiceID)
	if voiceID == "" {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "voice_id is required"}
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "text is required"}
	}

	payload := speechPayload{
		Text:          text,
		ModelID:       strings.TrimSpace(req.ModelID),
		VoiceSettings: req.VoiceSettings,
	}
	return c.postJSON(ctx, "tts", "/v1/text-to-speech/"+url.PathEscape(voiceID), formatQuery(req.OutputFormat), payload, "audio/mpeg")
}

type SoundEffectRequest struct {
	Text            string
	DurationSeconds float64
	Loop            bool
	OutputFormat    string
}

type soundEffectPayload struct {
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Loop            bool    `json:"loop,omitempty"`
}

func (c *Client) SoundEffects(ctx context.Context, req SoundEffectRequest) ([]byte, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "text is required"}
	}
	payload := soundEffectPayload{Text: text, DurationSeconds: req.DurationSeconds, Loop: req.Loop}
	return c.postJSON(ctx, "sound effects", "/v1/sound-generation", formatQuery(req.OutputFormat), payload, "audio/mpeg")
}

// IsolateAudio strips background noise from the uploaded audio.
func (c *Client) IsolateAudio(ctx context.Context, fileName string, data []byte) ([]byte, error) {
	return c.postMultipart(ctx, "audio isolation", "/v1/audio-isolation", nil,
		[]formFile{{Field: "audio", FileName: uploadName(fileName), Data: data}}, nil, "audio/mpeg")
}

type SpeechToSpeechRequest struct {
	VoiceID      string
	ModelID      string
	FileName     string
	Data         []byte
	OutputFormat string
}

// SpeechToSpeech re-voices the uploaded audio with VoiceID.
func (c *Client) SpeechToSpeech(ctx context.Context, req SpeechToSpeechRequest) ([]byte, error) {
	voiceID := strings.TrimSpace(req.VoiceID)
	if voiceID == "" {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "voice_id is required"}
	}
	modelID := strings.TrimSpace(req.ModelID)
	if modelID == "" {
		modelID = DefaultSTSModel
	}
	return c.postMultipart(ctx, "speech to speech", "/v1/speech-to-speech/"+url.PathEscape(voiceID), formatQuery(req.OutputFormat),
		[]formFile{{Field: "audio", FileName: uploadName(req.FileName), Data: req.Data}},
		map[string]string{"model_id": modelID}, "audio/mpeg")
}

// MusicRequest composes either from Prompt or from a CompositionPlan, never
// both. MusicLengthMS only applies to prompts.
type MusicRequest struct {
	Prompt          string
	CompositionPlan json.RawMessage
	MusicLengthMS   *int
	OutputFormat    string
}

type musicPayload struct {
	Prompt          string          `json:"prompt,omitempty"`
	CompositionPlan json.RawMessage `json:"composition_plan,omitempty"`
	MusicLengthMS   *int            `json:"music_length_ms,omitempty"`
}

func (c *Client) ComposeMusic(ctx context.Context, req MusicRequest) ([]byte, error) {
	prompt := strings.TrimSpace(req.Prompt)
	hasPlan := len(req.CompositionPlan) > 0
	switch {
	case prompt == "" && !hasPlan:
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "prompt or composition_plan is required"}
	case prompt != "" && hasPlan:
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "prompt and composition_plan are mutually exclusive"}
	}
	payload := musicPayload{Prompt: prompt, CompositionPlan: req.CompositionPlan, MusicLengthMS: req.MusicLengthMS}
	return c.postJSON(ctx, "music", "/v1/music", formatQuery(req.OutputFormat), payload, "audio/mpeg")
}

type CompositionPlanRequest struct {
	Prompt        string
	MusicLengthMS *int
	// SourcePlan seeds the new plan with an existing one.
	SourcePlan json.RawMessage
}

type compositionPlanPayload struct {
	Prompt                string          `json:"prompt"`
	MusicLengthMS         *int            `json:"music_length_ms,omitempty"`
	SourceCompositionPlan json.RawMessage `json:"source_composition_plan,omitempty"`
}

// CreateCompositionPlan drafts a music plan. The call costs no credits and
// its result can be passed back to ComposeMusic.
func (c *Client) CreateCompositionPlan(ctx context.Context, req CompositionPlanRequest) (json.RawMessage, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "prompt is required"}
	}
	payload := compositionPlanPayload{Prompt: prompt, MusicLengthMS: req.MusicLengthMS, SourceCompositionPlan: req.SourcePlan}
	body, err := c.postJSON(ctx, "composition plan", "/v1/music/plan", nil, payload, "application/json")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "composition plan response is not a JSON object"}
	}
	return json.RawMessage(body), nil
}

func formatQuery(outputFormat string) url.Values {
	f := strings.TrimSpace(outputFormat)
	if f == "" {
		f = DefaultOutputFormat
	}
	return url.Values{"output_format": {f}}
}

func uploadName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "audio.mp3"
	}
	return name
}

func boolField(b bool) string {
	return strconv.FormatBool(b)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
