package elevenlabs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"elevenlabs-mcp/internal/elevenlabs"
	"elevenlabs-mcp/internal/model"
)

type elevenLabsRoundTripFunc func(*http.Request) (*http.Response, error)

func (f elevenLabsRoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func respond(r *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
		Request:    r,
	}
}

func newTestClient(rt elevenLabsRoundTripFunc) *elevenlabs.Client {
	client := elevenlabs.NewClient("test-api-key", "https://api.example.test/")
	client.HTTPClient = &http.Client{Transport: rt}
	return client
}

func TestTextToSpeech_ReturnsAudioBytes(t *testing.T) {
	var (
		gotPath   string
		gotMethod string
		gotAuth   string
		gotAgent  string
		gotFormat string
		gotBody   map[string]any
	)
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotAuth = r.Header.Get("xi-api-key")
		gotAgent = r.Header.Get("User-Agent")
		gotFormat = r.URL.Query().Get("output_format")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		return respond(r, http.StatusOK, "fake-mp3"), nil
	})

	audio, err := client.TextToSpeech(context.Background(), elevenlabs.SpeechRequest{
		Text:          "hello world",
		VoiceID:       "voice-default",
		ModelID:       "eleven_multilingual_v2",
		VoiceSettings: &elevenlabs.VoiceSettings{Stability: 0.5, SimilarityBoost: 0.75, Speed: 1},
	})
	if err != nil {
		t.Fatalf("TextToSpeech failed: %v", err)
	}
	if string(audio) != "fake-mp3" {
		t.Fatalf("unexpected synthesized bytes: %q", string(audio))
	}
	if gotMethod != http.MethodPost || gotPath != "/v1/text-to-speech/voice-default" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if gotAuth != "test-api-key" {
		t.Fatalf("unexpected xi-api-key header: %q", gotAuth)
	}
	if !strings.HasPrefix(gotAgent, "elevenlabs-mcp/") {
		t.Fatalf("unexpected user agent: %q", gotAgent)
	}
	if gotFormat != elevenlabs.DefaultOutputFormat {
		t.Fatalf("unexpected output format: %q", gotFormat)
	}
	if gotBody["text"] != "hello world" || gotBody["model_id"] != "eleven_multilingual_v2" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
	settings, ok := gotBody["voice_settings"].(map[string]any)
	if !ok || settings["similarity_boost"] != 0.75 {
		t.Fatalf("voice settings missing: %v", gotBody)
	}
}

func TestTextToSpeech_Maps401ToAuthError(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(r, http.StatusUnauthorized, `{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`), nil
	})

	_, err := client.TextToSpeech(context.Background(), elevenlabs.SpeechRequest{Text: "hello", VoiceID: "v"})
	var providerErr *model.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %T (%v)", err, err)
	}
	if providerErr.Code != "ELEVENLABS_AUTH" || providerErr.Retryable {
		t.Fatalf("unexpected provider error: %+v", providerErr)
	}
	if providerErr.Message != "Invalid API key" {
		t.Fatalf("detail.message should be extracted, got %q", providerErr.Message)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		status    int
		body      string
		code      string
		retryable bool
		message   string
	}{
		{http.StatusTooManyRequests, `{"detail":"too many concurrent requests"}`, "ELEVENLABS_RATE_LIMIT", true, "too many concurrent requests"},
		{http.StatusBadGateway, "", "ELEVENLABS_FAILED", true, "elevenlabs sound effects returned status 502"},
		{http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","text"],"msg":"field required"}]}`, "ELEVENLABS_FAILED", false, "field required"},
		{http.StatusBadRequest, "plain failure", "ELEVENLABS_FAILED", false, "plain failure"},
	}
	for _, tc := range cases {
		client := newTestClient(func(r *http.Request) (*http.Response, error) {
			return respond(r, tc.status, tc.body), nil
		})
		_, err := client.SoundEffects(context.Background(), elevenlabs.SoundEffectRequest{Text: "boom"})
		var providerErr *model.ProviderError
		if !errors.As(err, &providerErr) {
			t.Fatalf("status %d: expected ProviderError, got %v", tc.status, err)
		}
		if providerErr.Code != tc.code || providerErr.Retryable != tc.retryable || providerErr.StatusCode != tc.status {
			t.Fatalf("status %d: unexpected error %+v", tc.status, providerErr)
		}
		if providerErr.Message != tc.message {
			t.Fatalf("status %d: expected message %q, got %q", tc.status, tc.message, providerErr.Message)
		}
	}
}

func TestClient_MissingKeyFailsWithoutRequest(t *testing.T) {
	called := false
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		called = true
		return respond(r, http.StatusOK, ""), nil
	})
	client.APIKey = "  "

	_, err := client.Subscription(context.Background())
	var providerErr *model.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Code != "ELEVENLABS_AUTH" {
		t.Fatalf("expected auth error, got %v", err)
	}
	if called {
		t.Fatal("no request may be sent without a key")
	}
}

func TestSpeechToText_SendsMultipartAndDecodesWords(t *testing.T) {
	var fields map[string]string
	var fileName string
	var enableLogging string
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/speech-to-text" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		enableLogging = r.URL.Query().Get("enable_logging")
		fields, fileName = readMultipart(t, r, "file")
		return respond(r, http.StatusOK, `{
			"language_code": "en",
			"text": "hi there",
			"words": [
				{"text": "hi", "type": "word", "start": 0, "end": 0.2, "speaker_id": "speaker_0"},
				{"text": " ", "type": "spacing", "start": 0.2, "end": 0.3, "speaker_id": "speaker_0"},
				{"text": "there", "type": "word", "start": 0.3, "end": 0.6, "speaker_id": "speaker_1"}
			]
		}`), nil
	})

	transcript, err := client.SpeechToText(context.Background(), elevenlabs.TranscribeRequest{
		FileName:     "clip.wav",
		Data:         []byte("RIFF"),
		LanguageCode: "eng",
		Diarize:      true,
	})
	if err != nil {
		t.Fatalf("SpeechToText failed: %v", err)
	}
	if fileName != "clip.wav" {
		t.Fatalf("unexpected upload name: %q", fileName)
	}
	if fields["model_id"] != elevenlabs.DefaultSTTModel || fields["diarize"] != "true" || fields["language_code"] != "eng" || fields["tag_audio_events"] != "true" {
		t.Fatalf("unexpected form fields: %v", fields)
	}
	if enableLogging != "true" {
		t.Fatalf("expected enable_logging query, got %q", enableLogging)
	}
	if transcript.Text != "hi there" || len(transcript.Words) != 3 || transcript.Words[2].SpeakerID != "speaker_1" {
		t.Fatalf("unexpected transcript: %+v", transcript)
	}
}

func TestSpeechToText_RejectsEmptyInput(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	if _, err := client.SpeechToText(context.Background(), elevenlabs.TranscribeRequest{FileName: "a.wav"}); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestSpeechToSpeech_UsesVoiceAndDefaultModel(t *testing.T) {
	var fields map[string]string
	var path string
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		path = r.URL.Path
		fields, _ = readMultipart(t, r, "audio")
		return respond(r, http.StatusOK, "converted"), nil
	})

	out, err := client.SpeechToSpeech(context.Background(), elevenlabs.SpeechToSpeechRequest{VoiceID: "adam-id", FileName: "in.mp3", Data: []byte("x")})
	if err != nil {
		t.Fatalf("SpeechToSpeech failed: %v", err)
	}
	if string(out) != "converted" || path != "/v1/speech-to-speech/adam-id" {
		t.Fatalf("unexpected result %q at %s", out, path)
	}
	if fields["model_id"] != elevenlabs.DefaultSTSModel {
		t.Fatalf("unexpected model: %v", fields)
	}
}

func TestCreateVoicePreviews_DecodesAudio(t *testing.T) {
	var body map[string]any
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		return respond(r, http.StatusOK, `{"previews":[
			{"generated_voice_id":"gen1","audio_base_64":"aGVsbG8=","media_type":"audio/mpeg"},
			{"generated_voice_id":"gen2","audio_base_64":"d29ybGQ=","media_type":"audio/mpeg"}
		]}`), nil
	})

	previews, err := client.CreateVoicePreviews(context.Background(), "a calm narrator", "")
	if err != nil {
		t.Fatalf("CreateVoicePreviews failed: %v", err)
	}
	if body["auto_generate_text"] != true {
		t.Fatalf("empty text should request generated text: %v", body)
	}
	if len(previews) != 2 || string(previews[0].Audio) != "hello" || previews[1].GeneratedVoiceID != "gen2" {
		t.Fatalf("unexpected previews: %+v", previews)
	}
}

func TestSearchVoicesAndFindByName(t *testing.T) {
	var query string
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		query = r.URL.RawQuery
		return respond(r, http.StatusOK, `{"voices":[
			{"voice_id":"1","name":"Adam Jr","category":"premade"},
			{"voice_id":"2","name":"Adam","category":"premade","fine_tuning":{"state":{"eleven_multilingual_v2":"fine_tuned"}}}
		]}`), nil
	})

	voice, err := client.FindVoiceByName(context.Background(), "Adam")
	if err != nil {
		t.Fatalf("FindVoiceByName failed: %v", err)
	}
	if voice.VoiceID != "2" {
		t.Fatalf("expected exact name match, got %+v", voice)
	}
	if !strings.Contains(string(voice.FineTuningState()), "fine_tuned") {
		t.Fatalf("fine tuning state missing: %s", voice.FineTuning)
	}
	if query != "search=Adam" {
		t.Fatalf("unexpected query: %q", query)
	}

	_, err = client.FindVoiceByName(context.Background(), "Bella")
	var providerErr *model.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Code != "VOICE_NOT_FOUND" {
		t.Fatalf("expected voice not found, got %v", err)
	}
}

func TestCloneVoice_UploadsEverySample(t *testing.T) {
	var (
		path   string
		fields = map[string]string{}
		files  []string
	)
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		path = r.URL.Path
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			t.Fatalf("bad content type: %v", err)
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("NextPart failed: %v", err)
			}
			data, _ := io.ReadAll(part)
			if part.FormName() == "files" {
				files = append(files, part.FileName()+"="+string(data))
				continue
			}
			fields[part.FormName()] = string(data)
		}
		return respond(r, http.StatusOK, `{"voice_id":"clone-1","requires_verification":false}`), nil
	})

	id, err := client.CloneVoice(context.Background(), elevenlabs.VoiceCloneRequest{
		Name:        "Narrator",
		Description: "warm",
		Files:       []elevenlabs.CloneFile{{FileName: "a.mp3", Data: []byte("one")}, {FileName: "b.wav", Data: []byte("two")}},
	})
	if err != nil {
		t.Fatalf("CloneVoice failed: %v", err)
	}
	if id != "clone-1" || path != "/v1/voices/add" {
		t.Fatalf("unexpected result %q at %s", id, path)
	}
	if len(files) != 2 || files[0] != "a.mp3=one" || files[1] != "b.wav=two" {
		t.Fatalf("unexpected file parts: %v", files)
	}
	if fields["name"] != "Narrator" || fields["description"] != "warm" {
		t.Fatalf("unexpected form fields: %v", fields)
	}
}

func TestCloneVoice_RejectsMissingSamples(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	if _, err := client.CloneVoice(context.Background(), elevenlabs.VoiceCloneRequest{Name: "x"}); err == nil {
		t.Fatal("expected error without samples")
	}
}

func TestCreateVoiceFromPreview_SendsIDs(t *testing.T) {
	var body map[string]any
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/text-to-voice/create-voice-from-preview" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		return respond(r, http.StatusOK, `{"voice_id":"v9","name":"Calm"}`), nil
	})

	voice, err := client.CreateVoiceFromPreview(context.Background(), "gen1", "Calm", "a calm narrator")
	if err != nil {
		t.Fatalf("CreateVoiceFromPreview failed: %v", err)
	}
	if voice.VoiceID != "v9" || voice.Name != "Calm" {
		t.Fatalf("unexpected voice: %+v", voice)
	}
	if body["generated_voice_id"] != "gen1" || body["voice_name"] != "Calm" || body["voice_description"] != "a calm narrator" {
		t.Fatalf("unexpected payload: %v", body)
	}
}

func TestSearchSharedVoices_Paginates(t *testing.T) {
	var query url.Values
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/shared-voices" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		query = r.URL.Query()
		return respond(r, http.StatusOK, `{"voices":[{"voice_id":"s1","name":"Pirate","category":"professional",
			"verified_languages":[{"language":"en","accent":"british"}]}],"has_more":false}`), nil
	})

	voices, err := client.SearchSharedVoices(context.Background(), elevenlabs.SharedVoiceSearch{Page: 2, PageSize: 5, Search: "pirate"})
	if err != nil {
		t.Fatalf("SearchSharedVoices failed: %v", err)
	}
	if query.Get("page") != "2" || query.Get("page_size") != "5" || query.Get("search") != "pirate" {
		t.Fatalf("unexpected query: %v", query)
	}
	if len(voices) != 1 || voices[0].VerifiedLanguages[0].Accent != "british" {
		t.Fatalf("unexpected voices: %+v", voices)
	}
}

func TestComposeMusic_PlanOrPrompt(t *testing.T) {
	var body map[string]any
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(r.Body)
		body = nil
		_ = json.Unmarshal(raw, &body)
		return respond(r, http.StatusOK, "song"), nil
	})
	ctx := context.Background()

	plan := json.RawMessage(`{"sections":[{"section_name":"intro"}]}`)
	if _, err := client.ComposeMusic(ctx, elevenlabs.MusicRequest{CompositionPlan: plan}); err != nil {
		t.Fatalf("ComposeMusic with plan failed: %v", err)
	}
	if _, ok := body["composition_plan"].(map[string]any); !ok || body["prompt"] != nil {
		t.Fatalf("plan should be sent as an object without a prompt: %v", body)
	}

	if _, err := client.ComposeMusic(ctx, elevenlabs.MusicRequest{Prompt: "lofi", CompositionPlan: plan}); err == nil {
		t.Fatal("prompt and plan together should fail")
	}
	if _, err := client.ComposeMusic(ctx, elevenlabs.MusicRequest{}); err == nil {
		t.Fatal("neither prompt nor plan should fail")
	}
}

func TestCreateCompositionPlan(t *testing.T) {
	var body map[string]any
	reply := `{"positive_global_styles":["lofi"],"sections":[]}`
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/music/plan" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		return respond(r, http.StatusOK, reply), nil
	})

	length := 30000
	plan, err := client.CreateCompositionPlan(context.Background(), elevenlabs.CompositionPlanRequest{Prompt: "lofi", MusicLengthMS: &length})
	if err != nil {
		t.Fatalf("CreateCompositionPlan failed: %v", err)
	}
	if string(plan) != reply {
		t.Fatalf("unexpected plan: %s", plan)
	}
	if body["prompt"] != "lofi" || body["music_length_ms"] != float64(30000) {
		t.Fatalf("unexpected payload: %v", body)
	}

	reply = `["not","a","plan"]`
	if _, err := client.CreateCompositionPlan(context.Background(), elevenlabs.CompositionPlanRequest{Prompt: "lofi"}); err == nil {
		t.Fatal("non-object plan should fail")
	}
}

func TestFormatDiarized(t *testing.T) {
	transcript := elevenlabs.Transcript{
		Text: "hello there general kenobi",
		Words: []elevenlabs.Word{
			{Text: "hello", Type: "word", SpeakerID: "speaker_0"},
			{Text: " ", Type: "spacing", SpeakerID: "speaker_0"},
			{Text: "there ", Type: "word", SpeakerID: "speaker_0"},
			{Text: "general", Type: "word", SpeakerID: "speaker_1"},
			{Text: "kenobi", Type: "word", SpeakerID: "speaker_1"},
			{Text: "(laughs)", Type: "audio_event"},
		},
	}
	want := "SPEAKER 0: hello there\n\nSPEAKER 1: general kenobi"
	if got := elevenlabs.FormatDiarized(transcript); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	plain := elevenlabs.Transcript{Text: "no speakers", Words: []elevenlabs.Word{{Text: "no", Type: "word"}}}
	if got := elevenlabs.FormatDiarized(plain); got != "no speakers" {
		t.Fatalf("expected fallback to text, got %q", got)
	}
}

func readMultipart(t *testing.T, r *http.Request, fileField string) (map[string]string, string) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("expected multipart body, got %q", r.Header.Get("Content-Type"))
	}
	reader := multipart.NewReader(r.Body, params["boundary"])
	fields := map[string]string{}
	fileName := ""
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart failed: %v", err)
		}
		data, _ := io.ReadAll(part)
		if part.FormName() == fileField {
			fileName = part.FileName()
			continue
		}
		fields[part.FormName()] = string(data)
	}
	return fields, fileName
}
