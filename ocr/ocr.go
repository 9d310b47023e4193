//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//

// Package ocr provides OCR (Optical Character Recognition) interfaces
// and implementations.
package ocr

import (
	"context"
	"io"
)

// Extractor defines the core interface for text extraction from images.
type Extractor interface {
	// ExtractText extracts text from image data.
	// Returns the recognized text and any error encountered.
	ExtractText(ctx context.Context, imageData []byte, opts ...Option) (string, error)

	// ExtractTextFromURL extracts text from an image addressed by URL or
	// data URL, without the caller downloading it first.
	ExtractTextFromURL(ctx context.Context, imageURL string, opts ...Option) (string, error)

	// ExtractTextFromReader extracts text from an image reader.
	ExtractTextFromReader(ctx context.Context, reader io.Reader, opts ...Option) (string, error)

	// Close releases any resources held by the OCR engine.
	Close() error
}

// Option defines a function type for configuring OCR operations.
type Option func(*Options)

// Options holds runtime options for OCR operations.
type Options struct {
	// Prompt instructs the OCR model what to extract. Empty means the
	// extractor's default prompt.
	Prompt string

	// APIKey overrides the extractor's credential for this call.
	APIKey string

	// Model overrides the extractor's model for this call.
	Model string
}

// WithPrompt sets the extraction prompt for a single call.
func WithPrompt(prompt string) Option {
	return func(o *Options) {
		o.Prompt = prompt
	}
}

// WithAPIKey overrides the API key for a single call.
func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.APIKey = key
	}
}

// WithModel overrides the model for a single call.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions materializes a list of options.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
