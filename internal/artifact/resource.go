package artifact

import (
	"path/filepath"
	"unicode/utf8"

	"elevenlabs-mcp/internal/model"
)

// URIScheme prefixes every artifact locator.
const URIScheme = "elevenlabs://"

// Resource is an artifact wrapped for the agent host: either decoded text or
// raw bytes, tagged with a MIME type and a URI. Data is base64-encoded on the
// wire by the MCP layer.
type Resource struct {
	URI      string
	MIMEType string
	IsText   bool
	Text     string
	Data     []byte
}

// ResourceURI locates filename, under dir when one is given.
func ResourceURI(filename, dir string) string {
	if dir == "" {
		return URIScheme + filename
	}
	return URIScheme + filepath.ToSlash(filepath.Join(dir, filename))
}

// Encode wraps data as a resource. Textual MIME types become text resources
// when data is valid UTF-8; everything else, including text that fails to
// decode, becomes a blob.
func Encode(data []byte, filename, ext, dir string) Resource {
	return encodeAs(data, ResourceURI(filename, dir), MIMEType(ext))
}

func encodeAs(data []byte, uri, mimeType string) Resource {
	if isTextual(mimeType) {
		if text, err := decodeUTF8(data); err == nil {
			return Resource{URI: uri, MIMEType: mimeType, IsText: true, Text: text}
		}
	}
	return Resource{URI: uri, MIMEType: mimeType, Data: data}
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &model.Error{Kind: model.KindDecode, Message: "content is not valid UTF-8"}
	}
	return string(data), nil
}
