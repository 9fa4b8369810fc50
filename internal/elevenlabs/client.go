package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"elevenlabs-mcp/internal/model"
	"elevenlabs-mcp/internal/protocol"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultTimeout = 120 * time.Second
)

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

func NewClient(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		APIKey:     strings.TrimSpace(apiKey),
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		UserAgent:  protocol.UserAgent,
	}
}

// request describes one API call. Body and ContentType are optional.
type request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        []byte
	ContentType string
	Accept      string
	// Op names the operation in error messages, e.g. "tts".
	Op string
}

func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	apiKey := strings.TrimSpace(c.APIKey)
	if apiKey == "" {
		return nil, &model.ProviderError{
			Code:      "ELEVENLABS_AUTH",
			Message:   "missing ElevenLabs API key",
			Retryable: false,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	reqURL := baseURL + r.Path
	if len(r.Query) > 0 {
		reqURL += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, reqURL, body)
	if err != nil {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "failed to build " + r.Op + " request", Cause: err}
	}
	req.Header.Set("xi-api-key", apiKey)
	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	if r.Accept != "" {
		req.Header.Set("Accept", r.Accept)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: r.Op + " request failed", Retryable: true, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.ProviderError{
			Code:       "ELEVENLABS_FAILED",
			Message:    "failed to read " + r.Op + " response",
			Retryable:  true,
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return respBody, nil
	}

	message := errorMessage(respBody)
	if message == "" {
		message = fmt.Sprintf("elevenlabs %s returned status %d", r.Op, resp.StatusCode)
	}
	return nil, mapProviderError(resp.StatusCode, message)
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	body, err := c.do(ctx, request{Method: http.MethodGet, Path: path, Query: query, Accept: "application/json", Op: op})
	if err != nil {
		return err
	}
	return decodeJSON(op, body, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, query url.Values, payload any, accept string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "failed to marshal " + op + " request", Cause: err}
	}
	return c.do(ctx, request{
		Method:      http.MethodPost,
		Path:        path,
		Query:       query,
		Body:        data,
		ContentType: "application/json",
		Accept:      accept,
		Op:          op,
	})
}

// formFile is one file part of a multipart upload.
type formFile struct {
	Field    string
	FileName string
	Data     []byte
}

func (c *Client) postMultipart(ctx context.Context, op, path string, query url.Values, files []formFile, fields map[string]string, accept string) ([]byte, error) {
	if len(files) == 0 {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: op + " input is empty"}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, file := range files {
		if len(file.Data) == 0 {
			return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: op + " input " + file.FileName + " is empty"}
		}
		part, err := writer.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "failed to build " + op + " request body", Cause: err}
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "failed to write " + op + " input", Cause: err}
		}
	}
	for _, key := range sortedKeys(fields) {
		if err := writer.WriteField(key, fields[key]); err != nil {
			return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "failed to set " + op + " field " + key, Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "failed to finalize " + op + " request body", Cause: err}
	}

	return c.do(ctx, request{
		Method:      http.MethodPost,
		Path:        path,
		Query:       query,
		Body:        body.Bytes(),
		ContentType: writer.FormDataContentType(),
		Accept:      accept,
		Op:          op,
	})
}

func decodeJSON(op string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &model.ProviderError{Code: "ELEVENLABS_FAILED", Message: "failed to decode " + op + " response", Cause: err}
	}
	return nil
}

// errorMessage extracts the human readable part of an API error body. The
// API answers with {"detail":{"message":..}}, {"detail":".."} or a list of
// validation errors under detail[].msg.
func errorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || !gjson.Valid(trimmed) {
		return trimmed
	}
	for _, path := range []string{"detail.message", "detail.0.msg", "message", "error.message"} {
		if v := gjson.Get(trimmed, path); v.Exists() && strings.TrimSpace(v.String()) != "" {
			return strings.TrimSpace(v.String())
		}
	}
	if v := gjson.Get(trimmed, "detail"); v.Type == gjson.String {
		return strings.TrimSpace(v.String())
	}
	return trimmed
}

func mapProviderError(statusCode int, message string) error {
	pe := &model.ProviderError{
		Code:       "ELEVENLABS_FAILED",
		Message:    message,
		Retryable:  false,
		StatusCode: statusCode,
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		pe.Code = "ELEVENLABS_AUTH"
		pe.Retryable = false
	case statusCode == http.StatusTooManyRequests:
		pe.Code = "ELEVENLABS_RATE_LIMIT"
		pe.Retryable = true
	case statusCode >= http.StatusInternalServerError:
		pe.Code = "ELEVENLABS_FAILED"
		pe.Retryable = true
	case statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError:
		pe.Code = "ELEVENLABS_FAILED"
		pe.Retryable = false
	default:
		pe.Code = "ELEVENLABS_FAILED"
		pe.Retryable = true
	}

	return pe
}
