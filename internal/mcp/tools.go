package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"elevenlabs-mcp/internal/artifact"
	"elevenlabs-mcp/internal/elevenlabs"
	"elevenlabs-mcp/internal/model"
	"elevenlabs-mcp/internal/protocol"
)

const costWarning = "COST WARNING: This tool makes an API call to ElevenLabs which may incur costs. Only use when explicitly requested by the user."

const (
	defaultSTSVoiceName   = "Adam"
	defaultSFXDuration    = 2.0
	minSFXDuration        = 0.5
	maxSFXDuration        = 5.0
	flashModelID          = "eleven_flash_v2_5"
	transcriptExtension   = "txt"
	defaultAudioExtension = "mp3"
	minPlanLengthMS       = 10000
	maxPlanLengthMS       = 300000
)

// Languages that only the flash model covers.
var flashOnlyLanguages = map[string]struct{}{"hu": {}, "no": {}, "vi": {}}

type TextToSpeechInput struct {
	Text            string   `json:"text" jsonschema:"The text to convert to speech"`
	VoiceName       *string  `json:"voice_name,omitempty" jsonschema:"The name of the voice to use. Cannot be combined with voice_id"`
	VoiceID         *string  `json:"voice_id,omitempty" jsonschema:"The ID of the voice to use. Cannot be combined with voice_name"`
	ModelID         *string  `json:"model_id,omitempty" jsonschema:"Model to synthesize with, such as eleven_multilingual_v2, eleven_flash_v2_5 or eleven_turbo_v2_5"`
	Stability       *float64 `json:"stability,omitempty" jsonschema:"Voice stability from 0 to 1 (default 0.5)"`
	SimilarityBoost *float64 `json:"similarity_boost,omitempty" jsonschema:"How closely to adhere to the original voice, 0 to 1 (default 0.75)"`
	Style           *float64 `json:"style,omitempty" jsonschema:"Style exaggeration from 0 to 1 (default 0)"`
	UseSpeakerBoost *bool    `json:"use_speaker_boost,omitempty" jsonschema:"Boost similarity to the original speaker (default true)"`
	Speed           *float64 `json:"speed,omitempty" jsonschema:"Speech speed from 0.7 to 1.2 (default 1.0)"`
	Language        *string  `json:"language,omitempty" jsonschema:"ISO 639-1 language code for the voice (default en)"`
	OutputFormat    *string  `json:"output_format,omitempty" jsonschema:"codec_sample_rate_bitrate, for example mp3_44100_128 (default) or pcm_16000"`
	OutputDirectory *string  `json:"output_directory,omitempty" jsonschema:"Directory where files should be saved (only used when saving files). Relative paths resolve under ELEVENLABS_MCP_BASE_PATH."`
}

type SpeechToTextInput struct {
	InputFilePath                    string  `json:"input_file_path" jsonschema:"Path to the audio file to transcribe"`
	LanguageCode                     *string `json:"language_code,omitempty" jsonschema:"ISO 639-3 language code. Detected automatically when omitted"`
	Diarize                          *bool   `json:"diarize,omitempty" jsonschema:"Annotate which speaker is talking"`
	SaveTranscriptToFile             *bool   `json:"save_transcript_to_file,omitempty" jsonschema:"Save the transcript according to the output mode (default true)"`
	ReturnTranscriptToClientDirectly *bool   `json:"return_transcript_to_client_directly,omitempty" jsonschema:"Return the transcript as text regardless of the output mode"`
	OutputDirectory                  *string `json:"output_directory,omitempty" jsonschema:"Directory where files should be saved (only used when saving files). Relative paths resolve under ELEVENLABS_MCP_BASE_PATH."`
}

type SoundEffectsInput struct {
	Text            string   `json:"text" jsonschema:"Text description of the sound effect"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty" jsonschema:"Duration in seconds between 0.5 and 5 (default 2)"`
	Loop            *bool    `json:"loop,omitempty" jsonschema:"Whether the sound effect should loop seamlessly"`
	OutputFormat    *string  `json:"output_format,omitempty" jsonschema:"codec_sample_rate_bitrate, for example mp3_44100_128 (default)"`
	OutputDirectory *string  `json:"output_directory,omitempty" jsonschema:"Directory where files should be saved (only used when saving files). Relative paths resolve under ELEVENLABS_MCP_BASE_PATH."`
}

type IsolateAudioInput struct {
	InputFilePath   string  `json:"input_file_path" jsonschema:"Path to the audio file to clean up"`
	OutputDirectory *string `json:"output_directory,omitempty" jsonschema:"Directory where files should be saved (only used when saving files). Relative paths resolve under ELEVENLABS_MCP_BASE_PATH."`
}

type SpeechToSpeechInput struct {
	InputFilePath   string  `json:"input_file_path" jsonschema:"Path to the audio file to transform"`
	VoiceName       *string `json:"voice_name,omitempty" jsonschema:"Name of the target voice (default Adam)"`
	OutputDirectory *string `json:"output_directory,omitempty" jsonschema:"Directory where files should be saved (only used when saving files). Relative paths resolve under ELEVENLABS_MCP_BASE_PATH."`
}

type TextToVoiceInput struct {
	VoiceDescription string  `json:"voice_description" jsonschema:"Description of the voice to design"`
	Text             *string `json:"text,omitempty" jsonschema:"Sample text to speak. Generated automatically when omitted"`
	OutputDirectory  *string `json:"output_directory,omitempty" jsonschema:"Directory where files should be saved (only used when saving files). Relative paths resolve under ELEVENLABS_MCP_BASE_PATH."`
}

type ComposeMusicInput struct {
	Prompt          *string        `json:"prompt,omitempty" jsonschema:"Prompt describing the music to compose. Provide either prompt or composition_plan"`
	CompositionPlan map[string]any `json:"composition_plan,omitempty" jsonschema:"Composition plan from create_composition_plan. Provide either prompt or composition_plan"`
	MusicLengthMS   *int           `json:"music_length_ms,omitempty" jsonschema:"Length of the music in milliseconds. Cannot be used with composition_plan"`
	OutputDirectory *string        `json:"output_directory,omitempty" jsonschema:"Directory where files should be saved (only used when saving files). Relative paths resolve under ELEVENLABS_MCP_BASE_PATH."`
}

type CompositionPlanInput struct {
	Prompt                string         `json:"prompt" jsonschema:"Prompt to create a composition plan for"`
	MusicLengthMS         *int           `json:"music_length_ms,omitempty" jsonschema:"Length of the plan in milliseconds, between 10000 and 300000. Chosen by the model when omitted"`
	SourceCompositionPlan map[string]any `json:"source_composition_plan,omitempty" jsonschema:"An existing composition plan to start from"`
}

func (s *Server) registerTools() {
	mode := s.cfg.OutputMode.Description()

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name: protocol.ToolNameTextToSpeech,
		Description: "Convert text to speech with a given voice. " + mode + ".\n\n" +
			"Only one of voice_id or voice_name can be provided. If none are provided, the default voice will be used.\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Text to Speech"},
	}, s.handleTextToSpeech)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name: protocol.ToolNameSpeechToText,
		Description: "Transcribe speech from an audio file. When save_transcript_to_file is true: " + mode +
			". When return_transcript_to_client_directly is true, the transcript is returned as text regardless of output mode.\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Speech to Text"},
	}, s.handleSpeechToText)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name: protocol.ToolNameTextToSoundEffect,
		Description: "Convert a text description of a sound effect to audio. " + mode +
			".\n\nDuration must be between 0.5 and 5 seconds.\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Sound Effects"},
	}, s.handleSoundEffects)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        protocol.ToolNameIsolateAudio,
		Description: "Isolate speech from background noise in an audio file. " + mode + ".\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Isolate Audio"},
	}, s.handleIsolateAudio)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        protocol.ToolNameSpeechToSpeech,
		Description: "Transform audio from one voice to another. " + mode + ".\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Speech to Speech"},
	}, s.handleSpeechToSpeech)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name: protocol.ToolNameTextToVoice,
		Description: "Create voice previews from a text prompt. Creates several previews with slight variations. " + mode +
			".\n\nIf no text is provided, the tool will auto-generate text.\n\n" +
			"Voice preview files are saved as: voice_design_(generated_voice_id)_(timestamp).mp3\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Design a Voice"},
	}, s.handleTextToVoice)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name: protocol.ToolNameComposeMusic,
		Description: "Convert a prompt or a composition plan to music. " + mode +
			".\n\nProvide exactly one of prompt or composition_plan. music_length_ms only applies to prompts.\n\n" + costWarning,
		Annotations: &mcpsdk.ToolAnnotations{Title: "Compose Music"},
	}, s.handleComposeMusic)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name: protocol.ToolNameCreateCompositionPlan,
		Description: "Create a composition plan for music generation. This costs no credits but is rate limited by tier. " +
			"Pass the plan to compose_music as composition_plan.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Create Composition Plan"},
	}, s.handleCreateCompositionPlan)

	s.registerVoiceTools()
	s.registerAccountTools()
}

func (s *Server) handleTextToSpeech(ctx context.Context, _ *mcpsdk.CallToolRequest, in TextToSpeechInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameTextToSpeech, "chars", len(in.Text))

	if in.Text == "" {
		return s.fail(protocol.ToolNameTextToSpeech, invalidArgument("Text is required."))
	}
	if in.VoiceID != nil && in.VoiceName != nil {
		return s.fail(protocol.ToolNameTextToSpeech, invalidArgument("voice_id and voice_name cannot both be provided."))
	}
	settings, toolErr := voiceSettings(in)
	if toolErr != nil {
		return s.fail(protocol.ToolNameTextToSpeech, *toolErr)
	}

	voiceID := s.cfg.DefaultVoiceID
	voiceLabel := s.cfg.DefaultVoiceID
	if in.VoiceID != nil || in.VoiceName != nil {
		var (
			voice elevenlabs.Voice
			err   error
		)
		if in.VoiceID != nil {
			voice, err = s.client.GetVoice(ctx, *in.VoiceID)
		} else {
			voice, err = s.client.FindVoiceByName(ctx, *in.VoiceName)
		}
		if err != nil {
			return s.failErr(protocol.ToolNameTextToSpeech, err)
		}
		voiceID, voiceLabel = voice.VoiceID, voice.Name
	}

	dir, err := s.outputDir(in.OutputDirectory)
	if err != nil {
		return s.failErr(protocol.ToolNameTextToSpeech, err)
	}
	format := deref(in.OutputFormat)
	filename := artifact.Filename(protocol.TagTTS, in.Text, formatExtension(format), false, s.now())

	audio, err := s.client.TextToSpeech(ctx, elevenlabs.SpeechRequest{
		Text:          in.Text,
		VoiceID:       voiceID,
		ModelID:       s.speechModel(deref(in.ModelID), deref(in.Language)),
		OutputFormat:  format,
		VoiceSettings: settings,
	})
	if err != nil {
		return s.failErr(protocol.ToolNameTextToSpeech, err)
	}

	template := "Success. File saved as: {file_path}. Voice used: " + voiceLabel
	return s.dispatch(protocol.ToolNameTextToSpeech, audio, dir, filename, template)
}

func (s *Server) handleSpeechToText(ctx context.Context, _ *mcpsdk.CallToolRequest, in SpeechToTextInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameSpeechToText, "input", in.InputFilePath)

	save := in.SaveTranscriptToFile == nil || *in.SaveTranscriptToFile
	direct := in.ReturnTranscriptToClientDirectly != nil && *in.ReturnTranscriptToClientDirectly
	if !save && !direct {
		return s.fail(protocol.ToolNameSpeechToText, invalidArgument("Must save transcript to file or return it to the client directly."))
	}

	inputPath, data, err := s.readInput(in.InputFilePath)
	if err != nil {
		return s.failErr(protocol.ToolNameSpeechToText, err)
	}

	var dir, filename string
	if save {
		if dir, err = s.outputDir(in.OutputDirectory); err != nil {
			return s.failErr(protocol.ToolNameSpeechToText, err)
		}
		filename = artifact.Filename(protocol.TagSTT, filepath.Base(inputPath), transcriptExtension, false, s.now())
	}

	diarize := in.Diarize != nil && *in.Diarize
	transcript, err := s.client.SpeechToText(ctx, elevenlabs.TranscribeRequest{
		FileName:     filepath.Base(inputPath),
		Data:         data,
		LanguageCode: deref(in.LanguageCode),
		Diarize:      diarize,
	})
	if err != nil {
		return s.failErr(protocol.ToolNameSpeechToText, err)
	}

	text := transcript.Text
	if diarize {
		text = elevenlabs.FormatDiarized(transcript)
	}
	if direct {
		return textResult(text), nil, nil
	}
	return s.dispatch(protocol.ToolNameSpeechToText, []byte(text), dir, filename, "Transcription saved to "+inputPath)
}

func (s *Server) handleSoundEffects(ctx context.Context, _ *mcpsdk.CallToolRequest, in SoundEffectsInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameTextToSoundEffect)

	if strings.TrimSpace(in.Text) == "" {
		return s.fail(protocol.ToolNameTextToSoundEffect, invalidArgument("Text is required."))
	}
	duration := defaultSFXDuration
	if in.DurationSeconds != nil {
		duration = *in.DurationSeconds
	}
	if duration < minSFXDuration || duration > maxSFXDuration {
		return s.fail(protocol.ToolNameTextToSoundEffect, invalidArgument("Duration must be between 0.5 and 5 seconds"))
	}

	dir, err := s.outputDir(in.OutputDirectory)
	if err != nil {
		return s.failErr(protocol.ToolNameTextToSoundEffect, err)
	}
	format := deref(in.OutputFormat)
	filename := artifact.Filename(protocol.TagSFX, in.Text, formatExtension(format), false, s.now())

	audio, err := s.client.SoundEffects(ctx, elevenlabs.SoundEffectRequest{
		Text:            in.Text,
		DurationSeconds: duration,
		Loop:            in.Loop != nil && *in.Loop,
		OutputFormat:    format,
	})
	if err != nil {
		return s.failErr(protocol.ToolNameTextToSoundEffect, err)
	}
	return s.dispatch(protocol.ToolNameTextToSoundEffect, audio, dir, filename, "")
}

func (s *Server) handleIsolateAudio(ctx context.Context, _ *mcpsdk.CallToolRequest, in IsolateAudioInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameIsolateAudio, "input", in.InputFilePath)

	inputPath, data, err := s.readInput(in.InputFilePath)
	if err != nil {
		return s.failErr(protocol.ToolNameIsolateAudio, err)
	}
	dir, err := s.outputDir(in.OutputDirectory)
	if err != nil {
		return s.failErr(protocol.ToolNameIsolateAudio, err)
	}
	filename := artifact.Filename(protocol.TagIsolation, filepath.Base(inputPath), defaultAudioExtension, false, s.now())

	audio, err := s.client.IsolateAudio(ctx, filepath.Base(inputPath), data)
	if err != nil {
		return s.failErr(protocol.ToolNameIsolateAudio, err)
	}
	return s.dispatch(protocol.ToolNameIsolateAudio, audio, dir, filename, "")
}

func (s *Server) handleSpeechToSpeech(ctx context.Context, _ *mcpsdk.CallToolRequest, in SpeechToSpeechInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameSpeechToSpeech, "input", in.InputFilePath)

	inputPath, data, err := s.readInput(in.InputFilePath)
	if err != nil {
		return s.failErr(protocol.ToolNameSpeechToSpeech, err)
	}
	voiceName := defaultSTSVoiceName
	if in.VoiceName != nil && strings.TrimSpace(*in.VoiceName) != "" {
		voiceName = *in.VoiceName
	}
	voice, err := s.client.FindVoiceByName(ctx, voiceName)
	if err != nil {
		return s.failErr(protocol.ToolNameSpeechToSpeech, err)
	}
	dir, err := s.outputDir(in.OutputDirectory)
	if err != nil {
		return s.failErr(protocol.ToolNameSpeechToSpeech, err)
	}
	filename := artifact.Filename(protocol.TagSTS, filepath.Base(inputPath), defaultAudioExtension, false, s.now())

	audio, err := s.client.SpeechToSpeech(ctx, elevenlabs.SpeechToSpeechRequest{
		VoiceID:  voice.VoiceID,
		FileName: filepath.Base(inputPath),
		Data:     data,
	})
	if err != nil {
		return s.failErr(protocol.ToolNameSpeechToSpeech, err)
	}
	return s.dispatch(protocol.ToolNameSpeechToSpeech, audio, dir, filename, "")
}

func (s *Server) handleTextToVoice(ctx context.Context, _ *mcpsdk.CallToolRequest, in TextToVoiceInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameTextToVoice)

	if in.VoiceDescription == "" {
		return s.fail(protocol.ToolNameTextToVoice, invalidArgument("Voice description is required."))
	}
	previews, err := s.client.CreateVoicePreviews(ctx, in.VoiceDescription, deref(in.Text))
	if err != nil {
		return s.failErr(protocol.ToolNameTextToVoice, err)
	}
	dir, err := s.outputDir(in.OutputDirectory)
	if err != nil {
		return s.failErr(protocol.ToolNameTextToVoice, err)
	}

	at := s.now()
	outputs := make([]artifact.Output, 0, len(previews))
	ids := make([]string, 0, len(previews))
	for _, p := range previews {
		filename := artifact.Filename(protocol.TagVoiceDesign, p.GeneratedVoiceID, defaultAudioExtension, true, at)
		out, err := artifact.Dispatch(p.Audio, dir, filename, s.cfg.OutputMode, "")
		if err != nil {
			return s.failErr(protocol.ToolNameTextToVoice, err)
		}
		if out.Path != "" {
			s.logger.Info("artifact written", "tool", protocol.ToolNameTextToVoice, "path", out.Path)
		}
		outputs = append(outputs, out)
		ids = append(ids, p.GeneratedVoiceID)
	}

	batch, err := artifact.DispatchMany(outputs, s.cfg.OutputMode, "Generated voice IDs are: "+strings.Join(ids, ", "))
	if err != nil {
		return s.failErr(protocol.ToolNameTextToVoice, err)
	}
	return batchResult(batch), nil, nil
}

func (s *Server) handleComposeMusic(ctx context.Context, _ *mcpsdk.CallToolRequest, in ComposeMusicInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameComposeMusic, "plan", in.CompositionPlan != nil)

	prompt := strings.TrimSpace(deref(in.Prompt))
	hasPlan := len(in.CompositionPlan) > 0
	switch {
	case prompt == "" && !hasPlan:
		return s.fail(protocol.ToolNameComposeMusic, invalidArgument("Either prompt or composition_plan must be provided."))
	case prompt != "" && hasPlan:
		return s.fail(protocol.ToolNameComposeMusic, invalidArgument("Only one of prompt or composition_plan must be provided."))
	case hasPlan && in.MusicLengthMS != nil:
		return s.fail(protocol.ToolNameComposeMusic, invalidArgument("music_length_ms cannot be used if composition_plan is provided."))
	}
	if in.MusicLengthMS != nil && *in.MusicLengthMS <= 0 {
		return s.fail(protocol.ToolNameComposeMusic, invalidArgument("music_length_ms must be positive"))
	}
	var plan json.RawMessage
	if hasPlan {
		data, err := json.Marshal(in.CompositionPlan)
		if err != nil {
			return s.fail(protocol.ToolNameComposeMusic, invalidArgument("composition_plan is not valid JSON: "+err.Error()))
		}
		plan = data
	}

	dir, err := s.outputDir(in.OutputDirectory)
	if err != nil {
		return s.failErr(protocol.ToolNameComposeMusic, err)
	}
	filename := artifact.Filename(protocol.TagMusic, "", defaultAudioExtension, false, s.now())

	audio, err := s.client.ComposeMusic(ctx, elevenlabs.MusicRequest{Prompt: prompt, CompositionPlan: plan, MusicLengthMS: in.MusicLengthMS})
	if err != nil {
		return s.failErr(protocol.ToolNameComposeMusic, err)
	}
	return s.dispatch(protocol.ToolNameComposeMusic, audio, dir, filename, "")
}

func (s *Server) handleCreateCompositionPlan(ctx context.Context, _ *mcpsdk.CallToolRequest, in CompositionPlanInput) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Debug("tool called", "tool", protocol.ToolNameCreateCompositionPlan)

	if strings.TrimSpace(in.Prompt) == "" {
		return s.fail(protocol.ToolNameCreateCompositionPlan, invalidArgument("Prompt is required."))
	}
	if l := in.MusicLengthMS; l != nil && (*l < minPlanLengthMS || *l > maxPlanLengthMS) {
		return s.fail(protocol.ToolNameCreateCompositionPlan, invalidArgument("music_length_ms must be between 10000 and 300000"))
	}
	var source json.RawMessage
	if len(in.SourceCompositionPlan) > 0 {
		data, err := json.Marshal(in.SourceCompositionPlan)
		if err != nil {
			return s.fail(protocol.ToolNameCreateCompositionPlan, invalidArgument("source_composition_plan is not valid JSON: "+err.Error()))
		}
		source = data
	}

	raw, err := s.client.CreateCompositionPlan(ctx, elevenlabs.CompositionPlanRequest{Prompt: in.Prompt, MusicLengthMS: in.MusicLengthMS, SourcePlan: source})
	if err != nil {
		return s.failErr(protocol.ToolNameCreateCompositionPlan, err)
	}
	var plan map[string]any
	if err := json.Unmarshal(raw, &plan); err != nil {
		return s.failErr(protocol.ToolNameCreateCompositionPlan, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "failed to decode composition plan", Cause: err})
	}
	return jsonResult(plan)
}

// dispatch hands one artifact to the output-mode policy and renders it.
func (s *Server) dispatch(tool string, data []byte, dir, filename, template string) (*mcpsdk.CallToolResult, any, error) {
	out, err := artifact.Dispatch(data, dir, filename, s.cfg.OutputMode, template)
	if err != nil {
		return s.failErr(tool, err)
	}
	if out.Path != "" {
		s.logger.Info("artifact written", "tool", tool, "path", out.Path, "bytes", len(data))
	}
	return outputResult(out), nil, nil
}

func (s *Server) outputDir(explicit *string) (string, error) {
	return s.resolver.Resolve(deref(explicit))
}

// readInput validates an audio input path and loads it.
func (s *Server) readInput(path string) (string, []byte, error) {
	resolved, err := s.inputs.Validate(path, true)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", nil, &model.Error{
			Kind:    model.KindRead,
			Message: "Failed to read file (" + resolved + "): " + err.Error(),
			Path:    resolved,
			Cause:   err,
		}
	}
	return resolved, data, nil
}

// speechModel picks the explicit model, then the flash model for languages
// only it covers, then the configured default.
func (s *Server) speechModel(explicit, language string) string {
	if m := strings.TrimSpace(explicit); m != "" {
		return m
	}
	if _, ok := flashOnlyLanguages[strings.ToLower(strings.TrimSpace(language))]; ok {
		return flashModelID
	}
	return s.cfg.ModelID
}

func (s *Server) fail(tool string, toolErr toolExecutionError) (*mcpsdk.CallToolResult, any, error) {
	s.logger.Warn("tool failed", "tool", tool, "code", toolErr.Code, "err", toolErr.Message)
	res, structured := newToolErrorResult(toolErr)
	return res, structured, nil
}

func (s *Server) failErr(tool string, err error) (*mcpsdk.CallToolResult, any, error) {
	return s.fail(tool, toToolError(err))
}

func voiceSettings(in TextToSpeechInput) (*elevenlabs.VoiceSettings, *toolExecutionError) {
	settings := &elevenlabs.VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0,
		UseSpeakerBoost: true,
		Speed:           1.0,
	}
	bounded := []struct {
		name  string
		value *float64
		dst   *float64
	}{
		{"stability", in.Stability, &settings.Stability},
		{"similarity_boost", in.SimilarityBoost, &settings.SimilarityBoost},
		{"style", in.Style, &settings.Style},
	}
	for _, f := range bounded {
		if f.value == nil {
			continue
		}
		if *f.value < 0 || *f.value > 1 {
			e := invalidArgument(f.name + " must be between 0 and 1")
			return nil, &e
		}
		*f.dst = *f.value
	}
	if in.Speed != nil {
		if *in.Speed < 0.7 || *in.Speed > 1.2 {
			e := invalidArgument("speed must be between 0.7 and 1.2")
			return nil, &e
		}
		settings.Speed = *in.Speed
	}
	if in.UseSpeakerBoost != nil {
		settings.UseSpeakerBoost = *in.UseSpeakerBoost
	}
	return settings, nil
}

// formatExtension maps an output_format such as "pcm_16000" to a file
// extension. Unknown or empty formats keep the mp3 default.
func formatExtension(format string) string {
	codec, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(format)), "_")
	switch codec {
	case "mp3", "pcm", "opus", "wav", "ulaw", "alaw":
		return codec
	default:
		return defaultAudioExtension
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
