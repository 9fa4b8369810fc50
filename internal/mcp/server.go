package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"elevenlabs-mcp/internal/artifact"
	"elevenlabs-mcp/internal/config"
	"elevenlabs-mcp/internal/elevenlabs"
	"elevenlabs-mcp/internal/logging"
	"elevenlabs-mcp/internal/protocol"
)

// API is the subset of the ElevenLabs client the tools call.
type API interface {
	TextToSpeech(ctx context.Context, req elevenlabs.SpeechRequest) ([]byte, error)
	GetVoice(ctx context.Context, voiceID string) (elevenlabs.Voice, error)
	SearchVoices(ctx context.Context, q elevenlabs.VoiceSearch) ([]elevenlabs.Voice, error)
	FindVoiceByName(ctx context.Context, name string) (elevenlabs.Voice, error)
	ListModels(ctx context.Context) ([]elevenlabs.Model, error)
	SpeechToText(ctx context.Context, req elevenlabs.TranscribeRequest) (elevenlabs.Transcript, error)
	SoundEffects(ctx context.Context, req elevenlabs.SoundEffectRequest) ([]byte, error)
	IsolateAudio(ctx context.Context, fileName string, data []byte) ([]byte, error)
	SpeechToSpeech(ctx context.Context, req elevenlabs.SpeechToSpeechRequest) ([]byte, error)
	CreateVoicePreviews(ctx context.Context, description, text string) ([]elevenlabs.VoicePreview, error)
	ComposeMusic(ctx context.Context, req elevenlabs.MusicRequest) ([]byte, error)
	CreateCompositionPlan(ctx context.Context, req elevenlabs.CompositionPlanRequest) (json.RawMessage, error)
	CloneVoice(ctx context.Context, req elevenlabs.VoiceCloneRequest) (string, error)
	CreateVoiceFromPreview(ctx context.Context, generatedVoiceID, name, description string) (elevenlabs.Voice, error)
	SearchSharedVoices(ctx context.Context, q elevenlabs.SharedVoiceSearch) ([]elevenlabs.SharedVoice, error)
	Subscription(ctx context.Context) (json.RawMessage, error)
}

// ServerOptions for building the MCP server.
type ServerOptions struct {
	Config *config.Config
	// Client defaults to an ElevenLabs client built from Config.
	Client API
	Logger *log.Logger
	// Now stamps artifact filenames; defaults to time.Now.
	Now func() time.Time
	// HomeDir and TempDir override the platform fallbacks for output directories.
	HomeDir func() (string, error)
	TempDir func() string
}

// Server exposes the ElevenLabs tools and the generated-artifact resources
// over MCP. It keeps no state between calls besides the filesystem.
type Server struct {
	cfg      *config.Config
	client   API
	logger   *log.Logger
	now      func() time.Time
	resolver artifact.Resolver
	inputs   artifact.InputValidator
	mcp      *mcpsdk.Server
}

func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("mcp: config is required")
	}
	s := &Server{
		cfg:    opts.Config,
		client: opts.Client,
		logger: opts.Logger,
		now:    opts.Now,
		resolver: artifact.Resolver{
			BasePath: opts.Config.BasePath,
			HomeDir:  opts.HomeDir,
			TempDir:  opts.TempDir,
		},
		inputs: artifact.InputValidator{BasePath: opts.Config.BasePath},
	}
	if s.client == nil {
		s.client = elevenlabs.NewClient(opts.Config.APIKey, opts.Config.BaseURL)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.mcp = mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    protocol.ServerName,
		Version: protocol.Version,
	}, nil)
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio", "output_mode", s.cfg.OutputMode, "base_path", s.cfg.BasePath)
	return s.mcp.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}
