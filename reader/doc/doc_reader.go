//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package doc handles legacy Microsoft Word documents. The OLE binary
// format cannot be parsed here, so the reader reports a conversion
// requirement instead of silently returning nothing.
package doc

import (
	"context"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

var supportedExtensions = []string{".doc"}

func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader rejects legacy DOC documents with a typed, actionable error.
type Reader struct {
	config *reader.Config
}

// New creates a new legacy DOC reader with the given options.
func New(opts ...reader.Option) reader.Reader {
	return &Reader{config: reader.NewConfig(opts...)}
}

// Read always fails: legacy DOC files have to be converted first.
func (r *Reader) Read(ctx context.Context, data []byte) (*document.Extraction, error) {
	return nil, &document.Error{
		Code: document.CodeDocRequiresConvert,
		Detail: "Cannot process .doc files directly. " +
			"Please convert .doc to .pdf or .docx format, or use OCR processing.",
		Suggestion: "Convert DOC to DOCX/PDF format or use OCR via image conversion",
	}
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "DOCReader"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
