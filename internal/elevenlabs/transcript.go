package elevenlabs

import (
	"context"
	"net/url"
	"strings"
)

const DefaultSTTModel = "scribe_v1"

type TranscribeRequest struct {
	FileName     string
	Data         []byte
	ModelID      string
	LanguageCode string
	Diarize      bool
}

// Word is one timed token of a transcript. Type is "word", "spacing" or
// "audio_event".
type Word struct {
	Text      string  `json:"text"`
	Type      string  `json:"type"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	SpeakerID string  `json:"speaker_id,omitempty"`
}

type Transcript struct {
	LanguageCode string `json:"language_code"`
	Text         string `json:"text"`
	Words        []Word `json:"words"`
}

func (c *Client) SpeechToText(ctx context.Context, req TranscribeRequest) (Transcript, error) {
	modelID := strings.TrimSpace(req.ModelID)
	if modelID == "" {
		modelID = DefaultSTTModel
	}
	fields := map[string]string{
		"model_id":         modelID,
		"diarize":          boolField(req.Diarize),
		"tag_audio_events": boolField(true),
	}
	if lc := strings.TrimSpace(req.LanguageCode); lc != "" {
		fields["language_code"] = lc
	}

	body, err := c.postMultipart(ctx, "stt", "/v1/speech-to-text", url.Values{"enable_logging": {"true"}},
		[]formFile{{Field: "file", FileName: uploadName(req.FileName), Data: req.Data}}, fields, "application/json")
	if err != nil {
		return Transcript{}, err
	}
	var t Transcript
	if err := decodeJSON("stt", body, &t); err != nil {
		return Transcript{}, err
	}
	return t, nil
}

// FormatDiarized groups consecutive words by speaker into blocks such as
// "SPEAKER 0: hello there", separated by blank lines. Transcripts without
// speaker information fall back to the plain text.
func FormatDiarized(t Transcript) string {
	var (
		lines   []string
		speaker string
		words   []string
	)
	flush := func() {
		if speaker != "" && len(words) > 0 {
			label := strings.ReplaceAll(strings.ToUpper(speaker), "_", " ")
			lines = append(lines, label+": "+strings.Join(words, " "))
		}
	}

	for _, w := range t.Words {
		if w.SpeakerID == "" || w.Text == "" || w.Type == "spacing" {
			continue
		}
		if w.SpeakerID != speaker {
			flush()
			speaker = w.SpeakerID
			words = words[:0]
		}
		words = append(words, strings.TrimSpace(w.Text))
	}
	flush()

	if len(lines) == 0 {
		return t.Text
	}
	return strings.Join(lines, "\n\n")
}
