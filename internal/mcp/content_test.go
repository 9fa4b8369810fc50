package mcp

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"elevenlabs-mcp/internal/artifact"
)

func TestEmbedded_BinaryTravelsAsBase64(t *testing.T) {
	data := []byte{0x00, 0xff, 0xfb, 0x90}
	res := artifact.Encode(data, "tts_hello.mp3", "mp3", "/out")

	wire, err := json.Marshal(embedded(res).Resource)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(wire, &got); err != nil {
		t.Fatal(err)
	}
	if got["blob"] != base64.StdEncoding.EncodeToString(data) {
		t.Fatalf("blob should be standard base64 of the payload: %s", wire)
	}
	if got["mimeType"] != "audio/mpeg" || got["uri"] != "elevenlabs:///out/tts_hello.mp3" {
		t.Fatalf("unexpected resource metadata: %s", wire)
	}
	if _, ok := got["text"]; ok {
		t.Fatalf("binary resources carry no text: %s", wire)
	}
}

func TestEmbedded_TextStaysText(t *testing.T) {
	res := artifact.Encode([]byte("hello"), "stt.txt", "txt", "")

	wire, err := json.Marshal(embedded(res).Resource)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(wire, &got); err != nil {
		t.Fatal(err)
	}
	if got["text"] != "hello" {
		t.Fatalf("expected text content: %s", wire)
	}
	if _, ok := got["blob"]; ok {
		t.Fatalf("text resources carry no blob: %s", wire)
	}
}
