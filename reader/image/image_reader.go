//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package image provides the image document reader implementation.
// Images carry no text layer, so everything goes through the OCR
// extractor as a single page.
package image

import (
	"context"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/internal/jsonutil"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

var supportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads image documents through OCR.
type Reader struct {
	config *reader.Config
}

// New creates a new image reader with the given options.
func New(opts ...reader.Option) reader.Reader {
	return &Reader{config: reader.NewConfig(opts...)}
}

// Read OCRs the image and returns it as page 1.
func (r *Reader) Read(ctx context.Context, data []byte) (*document.Extraction, error) {
	if r.config.OCRExtractor == nil {
		return nil, document.NewError(document.CodeImageOCRFailed,
			"no OCR extractor is configured")
	}

	var opts []ocr.Option
	if r.config.OCRPrompt != "" {
		opts = append(opts, ocr.WithPrompt(r.config.OCRPrompt))
	}
	opts = append(opts, r.config.OCROptions...)
	text, err := r.config.OCRExtractor.ExtractText(ctx, data, opts...)
	if err != nil {
		return nil, document.NewError(document.CodeImageOCRFailed, err.Error())
	}

	return &document.Extraction{
		Method: document.MethodOCRAPI,
		Pages: []document.ExtractedPage{
			{Number: 1, Data: jsonutil.SafeLoads(text)},
		},
	}, nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "ImageReader"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
