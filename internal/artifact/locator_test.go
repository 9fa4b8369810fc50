package artifact

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"elevenlabs-mcp/internal/model"
)

func TestLocatorOpen_RelativeURI(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "takes", "tts_hello.mp3"))
	if err := os.WriteFile(filepath.Join(base, "takes", "tts_hello.mp3"), []byte{0x00, 0xff}, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Locator{BaseDir: base}.Open("elevenlabs://takes/tts_hello.mp3")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if res.URI != "elevenlabs://takes/tts_hello.mp3" || res.MIMEType != "audio/mpeg" || res.IsText {
		t.Fatalf("unexpected resource: %+v", res)
	}
	if !bytes.Equal(res.Data, []byte{0x00, 0xff}) {
		t.Fatalf("unexpected data: %v", res.Data)
	}
}

func TestLocatorOpen_TextResource(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "stt.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Locator{BaseDir: base}.Open("elevenlabs://stt.txt")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !res.IsText || res.Text != "hello" {
		t.Fatalf("expected text resource, got %+v", res)
	}
}

func TestLocatorOpen_AbsoluteURIInsideBase(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "a.wav")
	touch(t, path)

	uri := ResourceURI("a.wav", base)
	if _, err := (Locator{BaseDir: base}).Open(uri); err != nil {
		t.Fatalf("Open(%q) failed: %v", uri, err)
	}
}

func TestLocatorResolve_RejectsEscapes(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base")
	outside := filepath.Join(root, "secret.txt")
	touch(t, filepath.Join(base, "ok.mp3"))
	touch(t, outside)

	l := Locator{BaseDir: base}
	for _, uri := range []string{
		"elevenlabs://../secret.txt",
		"elevenlabs://sub/../../secret.txt",
		"elevenlabs://%2E%2E/secret.txt",
		ResourceURI("secret.txt", root),
	} {
		_, err := l.Resolve(uri)
		if !model.IsKind(err, model.KindResourceAccess) {
			t.Fatalf("Resolve(%q): expected resource access error, got %v", uri, err)
		}
	}
}

func TestLocatorResolve_RejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base")
	touch(t, filepath.Join(root, "outside", "secret.mp3"))
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "outside"), filepath.Join(base, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := Locator{BaseDir: base}.Resolve("elevenlabs://link/secret.mp3")
	if !model.IsKind(err, model.KindResourceAccess) {
		t.Fatalf("expected resource access error, got %v", err)
	}
}

func TestLocatorOpen_MissingFile(t *testing.T) {
	_, err := Locator{BaseDir: t.TempDir()}.Open("elevenlabs://missing.mp3")
	if !model.IsKind(err, model.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLocatorResolve_RejectsForeignScheme(t *testing.T) {
	_, err := Locator{BaseDir: t.TempDir()}.Resolve("file:///etc/passwd")
	if !model.IsKind(err, model.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
