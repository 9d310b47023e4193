//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package dashscope

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdoc-parser/smartdoc-go/ocr"
)

// newChatServer returns a server that records the last chat completion
// request body and replies with the given message content.
func newChatServer(t *testing.T, content string, lastBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if lastBody != nil {
			*lastBody = body
		}
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "qwen-vl-ocr",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Setenv(apiKeyEnv, "")
	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNew_APIKeyFromEnv(t *testing.T) {
	t.Setenv(apiKeyEnv, "env-key")
	e, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, e.config.model)
	assert.Equal(t, DefaultBaseURL, e.config.baseURL)
}

func TestExtractTextFromURL(t *testing.T) {
	var lastBody map[string]any
	srv := newChatServer(t, `{"invoice_no":"INV-42"}`, &lastBody)
	defer srv.Close()

	e, err := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	require.NoError(t, err)
	defer e.Close()

	got, err := e.ExtractTextFromURL(context.Background(), "https://example.com/scan.jpg",
		ocr.WithPrompt("Extract the invoice number."))
	require.NoError(t, err)
	assert.Equal(t, `{"invoice_no":"INV-42"}`, got)

	assert.Equal(t, "qwen-vl-ocr", lastBody["model"])
	assert.EqualValues(t, 4096, lastBody["max_tokens"])

	format, ok := lastBody["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])

	messages, ok := lastBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	parts := msg["content"].([]any)
	require.Len(t, parts, 2)
	text := parts[0].(map[string]any)
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "Extract the invoice number.", text["text"])
	image := parts[1].(map[string]any)
	assert.Equal(t, "image_url", image["type"])
	imageURL := image["image_url"].(map[string]any)
	assert.Equal(t, "https://example.com/scan.jpg", imageURL["url"])
}

func TestExtractText_DataURL(t *testing.T) {
	var lastBody map[string]any
	srv := newChatServer(t, `{"raw":"hello"}`, &lastBody)
	defer srv.Close()

	e, err := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	require.NoError(t, err)
	defer e.Close()

	pngData := append([]byte(pngMagic), []byte("fake-image")...)
	got, err := e.ExtractText(context.Background(), pngData)
	require.NoError(t, err)
	assert.Equal(t, `{"raw":"hello"}`, got)

	messages := lastBody["messages"].([]any)
	parts := messages[0].(map[string]any)["content"].([]any)
	imageURL := parts[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "data:image/png;base64,"))
}

func TestExtractText_JPEGFallback(t *testing.T) {
	var lastBody map[string]any
	srv := newChatServer(t, "{}", &lastBody)
	defer srv.Close()

	e, err := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	require.NoError(t, err)
	defer e.Close()

	_, err = e.ExtractText(context.Background(), []byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)

	messages := lastBody["messages"].([]any)
	parts := messages[0].(map[string]any)["content"].([]any)
	imageURL := parts[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "data:image/jpeg;base64,"))
}

func TestExtractText_Empty(t *testing.T) {
	e, err := New(WithAPIKey("test-key"))
	require.NoError(t, err)
	_, err = e.ExtractText(context.Background(), nil)
	require.Error(t, err)
}

func TestExtractTextFromURL_EmptyContent(t *testing.T) {
	srv := newChatServer(t, "", nil)
	defer srv.Close()

	e, err := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	got, err := e.ExtractTextFromURL(context.Background(), "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "{}", got)
}

func TestExtractTextFromURL_ModelOverride(t *testing.T) {
	var lastBody map[string]any
	srv := newChatServer(t, "{}", &lastBody)
	defer srv.Close()

	e, err := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = e.ExtractTextFromURL(context.Background(), "https://example.com/a.png",
		ocr.WithModel("qwen-vl-max"))
	require.NoError(t, err)
	assert.Equal(t, "qwen-vl-max", lastBody["model"])
}

func TestExtractTextFromReader(t *testing.T) {
	srv := newChatServer(t, `{"raw":"from reader"}`, nil)
	defer srv.Close()

	e, err := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	got, err := e.ExtractTextFromReader(context.Background(), strings.NewReader("\xFF\xD8\xFFdata"))
	require.NoError(t, err)
	assert.Equal(t, `{"raw":"from reader"}`, got)
}
