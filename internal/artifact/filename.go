package artifact

import (
	"strings"
	"time"
)

const (
	fragmentLen     = 5
	timestampLayout = "20060102_150405"
)

var fragmentReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// Filename builds "{tag}_{fragment}_{YYYYMMDD_HHMMSS}.{ext}". The fragment is
// the first five characters of content, or all of it when fullID is set.
// Names only differ per second, so two calls in the same second with the
// same tag and fragment produce the same name and the later write wins.
func Filename(tag, content, ext string, fullID bool, at time.Time) string {
	fragment := content
	if !fullID {
		if runes := []rune(content); len(runes) > fragmentLen {
			fragment = string(runes[:fragmentLen])
		}
	}
	fragment = fragmentReplacer.Replace(fragment)
	return tag + "_" + fragment + "_" + at.Format(timestampLayout) + "." + strings.TrimPrefix(ext, ".")
}
