package artifact

import "strings"

const defaultMIMEType = "application/octet-stream"

var mimeTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"opus": "audio/opus",
	"txt":  "text/plain",
	"json": "application/json",
	"xml":  "application/xml",
	"html": "text/html",
	"csv":  "text/csv",
	"mp4":  "video/mp4",
	"avi":  "video/x-msvideo",
	"mov":  "video/quicktime",
	"wmv":  "video/x-ms-wmv",
}

// MIMEType maps an extension, with or without the leading dot, to a content
// type. Unknown extensions are application/octet-stream.
func MIMEType(ext string) string {
	if mt, ok := mimeTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return mt
	}
	return defaultMIMEType
}

func isTextual(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/") ||
		mimeType == "application/json" ||
		mimeType == "application/xml"
}
