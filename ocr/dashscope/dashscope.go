//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//

// Package dashscope provides an OCR extractor backed by the Aliyun
// DashScope vision models through the OpenAI-compatible endpoint.
package dashscope

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/smartdoc-parser/smartdoc-go/ocr"
)

const (
	// DefaultBaseURL is the Aliyun OpenAI-compatible endpoint.
	DefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

	// DefaultModel is the DashScope OCR model.
	DefaultModel = "qwen-vl-ocr"

	// defaultPrompt is used when the caller does not provide one.
	defaultPrompt = "Extract all text content from this image and return it as JSON."

	// defaultMaxTokens bounds each page response.
	defaultMaxTokens = 4096

	// apiKeyEnv is consulted when no API key option is given.
	apiKeyEnv = "ALIYUN_API_KEY"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// options holds configuration for the DashScope OCR Extractor.
type options struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	openaiOpts []openaiopt.RequestOption
}

// Option configures the DashScope OCR Extractor.
type Option func(*options)

// WithAPIKey sets the DashScope API key. Defaults to the ALIYUN_API_KEY
// environment variable.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithBaseURL overrides the OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithModel sets the OCR model, e.g. "qwen-vl-ocr".
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithMaxTokens bounds the response size for each extraction call.
func WithMaxTokens(maxTokens int) Option {
	return func(o *options) {
		if maxTokens > 0 {
			o.maxTokens = maxTokens
		}
	}
}

// WithOpenAIOptions appends extra request options for the underlying
// OpenAI client, e.g. a custom HTTP client.
func WithOpenAIOptions(opts ...openaiopt.RequestOption) Option {
	return func(o *options) {
		o.openaiOpts = append(o.openaiOpts, opts...)
	}
}

// Extractor implements ocr.Extractor against the DashScope API.
type Extractor struct {
	client openai.Client
	config *options
}

var _ ocr.Extractor = (*Extractor)(nil)

// New creates a new DashScope OCR Extractor.
func New(opts ...Option) (*Extractor, error) {
	cfg := &options{
		baseURL:   DefaultBaseURL,
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.apiKey == "" {
		cfg.apiKey = os.Getenv(apiKeyEnv)
	}
	if cfg.apiKey == "" {
		return nil, fmt.Errorf("dashscope: API key is required (set %s or use WithAPIKey)", apiKeyEnv)
	}

	clientOpts := []openaiopt.RequestOption{
		openaiopt.WithAPIKey(cfg.apiKey),
		openaiopt.WithBaseURL(cfg.baseURL),
	}
	clientOpts = append(clientOpts, cfg.openaiOpts...)

	return &Extractor{
		client: openai.NewClient(clientOpts...),
		config: cfg,
	}, nil
}

// ExtractText extracts text from raw image bytes by embedding them as a
// data URL, so the OCR service never needs to reach the origin host.
func (e *Extractor) ExtractText(ctx context.Context, imageData []byte, opts ...ocr.Option) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("dashscope: empty image data")
	}
	contentType := "image/jpeg"
	if bytes.HasPrefix(imageData, pngMagic) {
		contentType = "image/png"
	}
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(imageData)
	return e.ExtractTextFromURL(ctx, dataURL, opts...)
}

// ExtractTextFromURL extracts text from an image addressed by URL or data URL.
func (e *Extractor) ExtractTextFromURL(ctx context.Context, imageURL string, opts ...ocr.Option) (string, error) {
	o := ocr.ApplyOptions(opts...)

	prompt := o.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	model := e.config.model
	if o.Model != "" {
		model = o.Model
	}

	contentParts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{
				Text: prompt,
			},
		},
		{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
					URL: imageURL,
				},
			},
		},
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: contentParts,
					},
				},
			},
		},
		// The OCR result must bind as a JSON document downstream.
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(int64(e.config.maxTokens)),
	}

	var reqOpts []openaiopt.RequestOption
	if o.APIKey != "" {
		reqOpts = append(reqOpts, openaiopt.WithAPIKey(o.APIKey))
	}

	completion, err := e.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return "", fmt.Errorf("dashscope: chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "{}", nil
	}
	content := completion.Choices[0].Message.Content
	if content == "" {
		return "{}", nil
	}
	return content, nil
}

// ExtractTextFromReader extracts text from an image reader.
func (e *Extractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, opts ...ocr.Option) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("dashscope: read image data: %w", err)
	}
	return e.ExtractText(ctx, data, opts...)
}

// Close releases resources held by the Extractor. The underlying HTTP
// client is shared and needs no teardown.
func (e *Extractor) Close() error {
	return nil
}
