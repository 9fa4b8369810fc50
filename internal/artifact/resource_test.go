package artifact

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestMIMEType(t *testing.T) {
	cases := map[string]string{
		"mp3":   "audio/mpeg",
		".wav":  "audio/wav",
		"OPUS":  "audio/opus",
		"m4a":   "audio/mp4",
		"txt":   "text/plain",
		"json":  "application/json",
		"mov":   "video/quicktime",
		"wmv":   "video/x-ms-wmv",
		"pcm":   "application/octet-stream",
		"":      "application/octet-stream",
		".tar":  "application/octet-stream",
		".HTML": "text/html",
	}
	for ext, want := range cases {
		if got := MIMEType(ext); got != want {
			t.Fatalf("MIMEType(%q): expected %q, got %q", ext, want, got)
		}
	}
}

func TestResourceURI(t *testing.T) {
	if got := ResourceURI("tts_hello.mp3", ""); got != "elevenlabs://tts_hello.mp3" {
		t.Fatalf("unexpected uri without dir: %q", got)
	}
	dir := filepath.Join("out", "audio")
	if got := ResourceURI("tts_hello.mp3", dir); got != "elevenlabs://out/audio/tts_hello.mp3" {
		t.Fatalf("unexpected uri with dir: %q", got)
	}
}

func TestEncode_TextRoundTrip(t *testing.T) {
	original := "Speaker 1: héllo wörld\n"
	res := Encode([]byte(original), "stt_clip_20250101_000000.txt", "txt", "")
	if !res.IsText {
		t.Fatalf("expected text resource, got %+v", res)
	}
	if res.Text != original {
		t.Fatalf("round trip mismatch: %q", res.Text)
	}
	if res.MIMEType != "text/plain" || res.URI != "elevenlabs://stt_clip_20250101_000000.txt" {
		t.Fatalf("unexpected metadata: %+v", res)
	}
}

func TestEncode_BinaryRoundTrip(t *testing.T) {
	original := []byte{0x00, 0xff, 0xfb, 0x90, 0x64, 0x00, 0x10, 0x80}
	res := Encode(original, "tts_hello.mp3", "mp3", "/tmp/out")
	if res.IsText {
		t.Fatal("audio must not be encoded as text")
	}
	if !bytes.Equal(res.Data, original) {
		t.Fatalf("binary payload altered: %v", res.Data)
	}
	if res.MIMEType != "audio/mpeg" {
		t.Fatalf("unexpected mime: %s", res.MIMEType)
	}
}

func TestEncode_InvalidUTF8TextFallsBackToBlob(t *testing.T) {
	original := []byte{0x66, 0x6f, 0xff, 0xfe}
	res := Encode(original, "broken.txt", "txt", "")
	if res.IsText {
		t.Fatal("invalid UTF-8 must fall back to a blob")
	}
	if res.MIMEType != "text/plain" {
		t.Fatalf("mime should be preserved, got %s", res.MIMEType)
	}
	if !bytes.Equal(res.Data, original) || res.Text != "" {
		t.Fatalf("blob mismatch: %+v", res)
	}
}
