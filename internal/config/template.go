package config

// DefaultYAML is the template written by "elevenlabs-mcp config init".
// ${ELEVENLABS_API_KEY} is resolved from env at load time.
const DefaultYAML = `api_key: ${ELEVENLABS_API_KEY}

# us | eu-residency | in-residency | global
api_residency: us

# Relative output directories and input paths resolve under base_path.
# Leave empty to fall back to ~/Desktop, ~/Documents/audio or the temp dir.
base_path: ""

# files | resources | both
output_mode: files

default_voice_id: cgSgspJ2msm6clMCkdW9
model_id: eleven_multilingual_v2
log_level: info
`
