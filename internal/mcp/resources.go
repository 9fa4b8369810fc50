package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"elevenlabs-mcp/internal/artifact"
	"elevenlabs-mcp/internal/model"
	"elevenlabs-mcp/internal/protocol"
)

func (s *Server) registerResources() {
	s.mcp.AddResourceTemplate(&mcpsdk.ResourceTemplate{
		Name:        protocol.ResourceTemplateName,
		Description: "Files generated by the ElevenLabs tools, addressed relative to the output directory.",
		URITemplate: protocol.ResourceURITemplate,
	}, s.handleReadResource)
}

// handleReadResource serves a generated artifact. The base directory is
// recomputed per read so it always matches where the tools write by default.
func (s *Server) handleReadResource(_ context.Context, req *mcpsdk.ReadResourceRequest) (*mcpsdk.ReadResourceResult, error) {
	uri := req.Params.URI
	s.logger.Debug("resource read", "uri", uri)

	baseDir, err := s.resolver.Resolve("")
	if err != nil {
		s.logger.Warn("resource base directory unavailable", "err", err)
		return nil, err
	}
	res, err := artifact.Locator{BaseDir: baseDir}.Open(uri)
	if err != nil {
		if model.IsKind(err, model.KindNotFound) {
			return nil, mcpsdk.ResourceNotFoundError(uri)
		}
		s.logger.Warn("resource read failed", "uri", uri, "err", err)
		return nil, err
	}
	return &mcpsdk.ReadResourceResult{Contents: []*mcpsdk.ResourceContents{embedded(res).Resource}}, nil
}
