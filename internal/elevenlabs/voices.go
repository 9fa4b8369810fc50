package elevenlabs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"elevenlabs-mcp/internal/model"
)

type Voice struct {
	VoiceID     string          `json:"voice_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	FineTuning  json.RawMessage `json:"fine_tuning,omitempty"`
}

// FineTuningState returns fine_tuning.state when the API reported one.
func (v Voice) FineTuningState() json.RawMessage {
	if len(v.FineTuning) == 0 {
		return nil
	}
	var ft struct {
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(v.FineTuning, &ft); err != nil {
		return nil
	}
	return ft.State
}

func (c *Client) GetVoice(ctx context.Context, voiceID string) (Voice, error) {
	voiceID = strings.TrimSpace(voiceID)
	if voiceID == "" {
		return Voice{}, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "voice_id is required"}
	}
	var v Voice
	err := c.getJSON(ctx, "get voice", "/v1/voices/"+url.PathEscape(voiceID), nil, &v)
	return v, err
}

type VoiceSearch struct {
	Search        string
	Sort          string // name | created_at_unix
	SortDirection string // asc | desc
}

// SearchVoices lists the account's voices matching q.
func (c *Client) SearchVoices(ctx context.Context, q VoiceSearch) ([]Voice, error) {
	query := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		query.Set("search", s)
	}
	if s := strings.TrimSpace(q.Sort); s != "" {
		query.Set("sort", s)
	}
	if s := strings.TrimSpace(q.SortDirection); s != "" {
		query.Set("sort_direction", s)
	}
	var resp struct {
		Voices []Voice `json:"voices"`
	}
	if err := c.getJSON(ctx, "search voices", "/v2/voices", query, &resp); err != nil {
		return nil, err
	}
	return resp.Voices, nil
}

// FindVoiceByName returns the voice whose name equals name exactly.
func (c *Client) FindVoiceByName(ctx context.Context, name string) (Voice, error) {
	voices, err := c.SearchVoices(ctx, VoiceSearch{Search: name})
	if err != nil {
		return Voice{}, err
	}
	if len(voices) == 0 {
		return Voice{}, &model.ProviderError{Code: "VOICE_NOT_FOUND", Message: "No voices found with that name."}
	}
	for _, v := range voices {
		if v.Name == name {
			return v, nil
		}
	}
	return Voice{}, &model.ProviderError{Code: "VOICE_NOT_FOUND", Message: "Voice with name: " + name + " does not exist."}
}

type Language struct {
	LanguageID string `json:"language_id"`
	Name       string `json:"name"`
}

type Model struct {
	ModelID   string     `json:"model_id"`
	Name      string     `json:"name"`
	Languages []Language `json:"languages"`
}

func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model
	err := c.getJSON(ctx, "list models", "/v1/models", nil, &models)
	return models, err
}

// VoicePreview is one generated voice sample with its audio already decoded.
type VoicePreview struct {
	GeneratedVoiceID string
	MediaType        string
	Audio            []byte
}

type voicePreviewsPayload struct {
	VoiceDescription string `json:"voice_description"`
	Text             string `json:"text,omitempty"`
	AutoGenerateText bool   `json:"auto_generate_text"`
}

// CreateVoicePreviews asks for voice variations matching description. When
// text is empty the API writes its own sample text.
func (c *Client) CreateVoicePreviews(ctx context.Context, description, text string) ([]VoicePreview, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "voice_description is required"}
	}
	payload := voicePreviewsPayload{
		VoiceDescription: description,
		Text:             strings.TrimSpace(text),
		AutoGenerateText: strings.TrimSpace(text) == "",
	}
	body, err := c.postJSON(ctx, "voice previews", "/v1/text-to-voice/create-previews", nil, payload, "application/json")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Previews []struct {
			GeneratedVoiceID string `json:"generated_voice_id"`
			AudioBase64      string `json:"audio_base_64"`
			MediaType        string `json:"media_type"`
		} `json:"previews"`
	}
	if err := decodeJSON("voice previews", body, &resp); err != nil {
		return nil, err
	}

	previews := make([]VoicePreview, 0, len(resp.Previews))
	for _, p := range resp.Previews {
		audio, err := base64.StdEncoding.DecodeString(p.AudioBase64)
		if err != nil {
			return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "voice preview " + p.GeneratedVoiceID + " has malformed audio", Cause: err}
		}
		previews = append(previews, VoicePreview{GeneratedVoiceID: p.GeneratedVoiceID, MediaType: p.MediaType, Audio: audio})
	}
	return previews, nil
}

// Subscription returns the raw subscription document.
func (c *Client) Subscription(ctx context.Context) (json.RawMessage, error) {
	body, err := c.do(ctx, request{Method: http.MethodGet, Path: "/v1/user/subscription", Accept: "application/json", Op: "subscription"})
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "subscription response is not JSON"}
	}
	return json.RawMessage(body), nil
}

// CloneFile is one sample recording uploaded for an instant voice clone.
type CloneFile struct {
	FileName string
	Data     []byte
}

type VoiceCloneRequest struct {
	Name        string
	Description string
	Files       []CloneFile
}

// CloneVoice creates an instant voice clone from the sample files and returns
// the new voice id.
func (c *Client) CloneVoice(ctx context.Context, req VoiceCloneRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "name is required"}
	}
	files := make([]formFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, formFile{Field: "files", FileName: uploadName(f.FileName), Data: f.Data})
	}
	fields := map[string]string{"name": name}
	if d := strings.TrimSpace(req.Description); d != "" {
		fields["description"] = d
	}

	body, err := c.postMultipart(ctx, "voice clone", "/v1/voices/add", nil, files, fields, "application/json")
	if err != nil {
		return "", err
	}
	var resp struct {
		VoiceID string `json:"voice_id"`
	}
	if err := decodeJSON("voice clone", body, &resp); err != nil {
		return "", err
	}
	if resp.VoiceID == "" {
		return "", &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "voice clone response has no voice_id"}
	}
	return resp.VoiceID, nil
}

type voiceFromPreviewPayload struct {
	VoiceName        string `json:"voice_name"`
	VoiceDescription string `json:"voice_description"`
	GeneratedVoiceID string `json:"generated_voice_id"`
}

// CreateVoiceFromPreview saves a text_to_voice preview as a library voice.
func (c *Client) CreateVoiceFromPreview(ctx context.Context, generatedVoiceID, name, description string) (Voice, error) {
	payload := voiceFromPreviewPayload{
		VoiceName:        strings.TrimSpace(name),
		VoiceDescription: strings.TrimSpace(description),
		GeneratedVoiceID: strings.TrimSpace(generatedVoiceID),
	}
	if payload.GeneratedVoiceID == "" || payload.VoiceName == "" {
		return Voice{}, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "generated_voice_id and voice_name are required"}
	}
	body, err := c.postJSON(ctx, "voice from preview", "/v1/text-to-voice/create-voice-from-preview", nil, payload, "application/json")
	if err != nil {
		return Voice{}, err
	}
	var v Voice
	if err := decodeJSON("voice from preview", body, &v); err != nil {
		return Voice{}, err
	}
	return v, nil
}

type VerifiedLanguage struct {
	Language string `json:"language"`
	Accent   string `json:"accent,omitempty"`
}

// SharedVoice is a voice from the public voice library.
type SharedVoice struct {
	VoiceID           string             `json:"voice_id"`
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	Gender            string             `json:"gender"`
	Age               string             `json:"age"`
	Accent            string             `json:"accent"`
	Description       string             `json:"description"`
	UseCase           string             `json:"use_case"`
	PreviewURL        string             `json:"preview_url"`
	VerifiedLanguages []VerifiedLanguage `json:"verified_languages"`
}

type SharedVoiceSearch struct {
	Page     int
	PageSize int
	Search   string
}

// SearchSharedVoices pages through the public voice library.
func (c *Client) SearchSharedVoices(ctx context.Context, q SharedVoiceSearch) ([]SharedVoice, error) {
	query := url.Values{
		"page":      {strconv.Itoa(q.Page)},
		"page_size": {strconv.Itoa(q.PageSize)},
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		query.Set("search", s)
	}
	var resp struct {
		Voices []SharedVoice `json:"voices"`
	}
	if err := c.getJSON(ctx, "shared voices", "/v1/shared-voices", query, &resp); err != nil {
		return nil, err
	}
	return resp.Voices, nil
}
