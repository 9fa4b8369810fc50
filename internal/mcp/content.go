package mcp

import (
	"errors"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"elevenlabs-mcp/internal/artifact"
	"elevenlabs-mcp/internal/model"
)

type toolExecutionError struct {
	Code      string
	Message   string
	Retryable bool
}

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}}}
}

func embedded(res artifact.Resource) *mcpsdk.EmbeddedResource {
	contents := &mcpsdk.ResourceContents{URI: res.URI, MIMEType: res.MIMEType}
	if res.IsText {
		contents.Text = res.Text
	} else {
		contents.Blob = res.Data
	}
	return &mcpsdk.EmbeddedResource{Resource: contents}
}

// outputResult renders a single dispatched artifact.
func outputResult(out artifact.Output) *mcpsdk.CallToolResult {
	if out.IsResource() {
		return &mcpsdk.CallToolResult{Content: []mcpsdk.Content{embedded(*out.Resource)}}
	}
	return textResult(out.Status)
}

// batchResult renders a multi-artifact answer, keeping resource order.
func batchResult(b artifact.Batch) *mcpsdk.CallToolResult {
	if len(b.Resources) == 0 {
		return textResult(b.Status)
	}
	content := make([]mcpsdk.Content, 0, len(b.Resources))
	for _, res := range b.Resources {
		content = append(content, embedded(res))
	}
	return &mcpsdk.CallToolResult{Content: content}
}

// newToolErrorResult renders a failure as "ERROR: CODE: message" plus a
// structured error object returned as the tool's output value.
func newToolErrorResult(toolErr toolExecutionError) (*mcpsdk.CallToolResult, any) {
	return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "ERROR: " + toolErr.Code + ": " + toolErr.Message}},
		}, map[string]any{
			"error": map[string]any{
				"code":      toolErr.Code,
				"message":   toolErr.Message,
				"retryable": toolErr.Retryable,
			},
		}
}

func toToolError(err error) toolExecutionError {
	var modelErr *model.Error
	if errors.As(err, &modelErr) {
		return toolExecutionError{Code: string(modelErr.Kind), Message: modelErr.Message}
	}
	var providerErr *model.ProviderError
	if errors.As(err, &providerErr) {
		msg := strings.TrimSpace(providerErr.Message)
		if msg == "" {
			msg = providerErr.Error()
		}
		return toolExecutionError{Code: providerErr.Code, Message: msg, Retryable: providerErr.Retryable}
	}
	return toolExecutionError{Code: "TOOL_FAILED", Message: err.Error()}
}

func invalidArgument(message string) toolExecutionError {
	return toolExecutionError{Code: string(model.KindInvalidArgument), Message: message}
}
