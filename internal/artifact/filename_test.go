package artifact

import (
	"regexp"
	"testing"
	"time"
)

var filenamePattern = regexp.MustCompile(`^[a-z_]+_[^/\\ ]*_\d{8}_\d{6}\.[a-z0-9]+$`)

func TestFilename_TruncatesAndStamps(t *testing.T) {
	at := time.Date(2025, 4, 3, 16, 49, 49, 0, time.UTC)

	got := Filename("tts", "hello world", "mp3", false, at)
	if want := "tts_hello_20250403_164949.mp3"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	got = Filename("tts", "hi there", "mp3", false, at)
	if want := "tts_hi_th_20250403_164949.mp3"; got != want {
		t.Fatalf("expected spaces replaced, got %q", got)
	}
}

func TestFilename_FullIdentifier(t *testing.T) {
	at := time.Date(2025, 4, 3, 16, 49, 49, 0, time.UTC)
	got := Filename("voice_design", "Ya2J5uIa5Pq14DNPsbC1", "mp3", true, at)
	if want := "voice_design_Ya2J5uIa5Pq14DNPsbC1_20250403_164949.mp3"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFilename_ShapeIsStableUnderFrozenClock(t *testing.T) {
	at := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	cases := []struct {
		tag, content, ext string
		full              bool
	}{
		{"tts", "hello world", "mp3", false},
		{"stt", "meeting.wav", ".txt", false},
		{"music", "", "mp3", false},
		{"sfx", "a/b\\c d", "mp3", true},
		{"iso", "ünïcödé text", "mp3", false},
	}
	for _, tc := range cases {
		first := Filename(tc.tag, tc.content, tc.ext, tc.full, at)
		second := Filename(tc.tag, tc.content, tc.ext, tc.full, at)
		if first != second {
			t.Fatalf("expected identical names, got %q and %q", first, second)
		}
		if !filenamePattern.MatchString(first) {
			t.Fatalf("name %q does not match expected shape", first)
		}
	}
}

func TestFilename_TruncatesByCharacter(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := Filename("tts", "ééééééé", "mp3", false, at)
	if want := "tts_ééééé_20250102_030405.mp3"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
