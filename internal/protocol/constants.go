package protocol

const (
	ServerName = "ElevenLabs"
	Version    = "0.5.0"
	UserAgent  = "elevenlabs-mcp/" + Version
)

const (
	ToolNameTextToSpeech           = "text_to_speech"
	ToolNameSpeechToText           = "speech_to_text"
	ToolNameTextToSoundEffect      = "text_to_sound_effects"
	ToolNameIsolateAudio           = "isolate_audio"
	ToolNameSpeechToSpeech         = "speech_to_speech"
	ToolNameTextToVoice            = "text_to_voice"
	ToolNameComposeMusic           = "compose_music"
	ToolNameCreateCompositionPlan  = "create_composition_plan"
	ToolNameVoiceClone             = "voice_clone"
	ToolNameCreateVoiceFromPreview = "create_voice_from_preview"
	ToolNameSearchVoices           = "search_voices"
	ToolNameSearchVoiceLibrary     = "search_voice_library"
	ToolNameGetVoice               = "get_voice"
	ToolNameListModels             = "list_models"
	ToolNameCheckSubscription      = "check_subscription"
)

const (
	ResourceTemplateName = "elevenlabs_artifact"
	ResourceURITemplate  = "elevenlabs://{+path}"
)

// Artifact filename tags, one per generating tool.
const (
	TagTTS         = "tts"
	TagSTT         = "stt"
	TagSFX         = "sfx"
	TagIsolation   = "iso"
	TagSTS         = "sts"
	TagVoiceDesign = "voice_design"
	TagMusic       = "music"
)
