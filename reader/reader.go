//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package reader defines the interface for document readers.
// A reader turns the raw bytes of one document format into a per-page
// extraction, either directly or through an OCR extractor.
package reader

import (
	"context"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
)

// Default scanned-document heuristics.
const (
	// DefaultScanDetectPages is how many leading pages are inspected
	// when deciding whether a PDF is scanned.
	DefaultScanDetectPages = 3

	// DefaultScanTextThreshold is the minimum number of characters those
	// pages must yield for the PDF to count as text-based.
	DefaultScanTextThreshold = 50
)

// Config holds configuration for readers.
type Config struct {
	// OCRExtractor recognizes text in images and scanned pages.
	// Readers that need it fail with a typed error when it is nil.
	OCRExtractor ocr.Extractor

	// OCRPrompt instructs the OCR model what to extract.
	OCRPrompt string

	// OCROptions are passed to every OCR call, e.g. per-request
	// credential or model overrides.
	OCROptions []ocr.Option

	// ScanDetectPages and ScanTextThreshold tune scanned-PDF detection.
	// Zero means the default.
	ScanDetectPages   int
	ScanTextThreshold int
}

// Option is a functional option for configuring readers.
type Option func(*Config)

// WithOCRExtractor sets the OCR extractor used for images and scanned PDFs.
func WithOCRExtractor(extractor ocr.Extractor) Option {
	return func(c *Config) {
		c.OCRExtractor = extractor
	}
}

// WithOCRPrompt sets the extraction prompt passed to the OCR extractor.
func WithOCRPrompt(prompt string) Option {
	return func(c *Config) {
		c.OCRPrompt = prompt
	}
}

// WithOCROptions appends options passed to every OCR call.
func WithOCROptions(opts ...ocr.Option) Option {
	return func(c *Config) {
		c.OCROptions = append(c.OCROptions, opts...)
	}
}

// WithScanDetectPages sets how many leading pages decide whether a PDF
// is scanned.
func WithScanDetectPages(pages int) Option {
	return func(c *Config) {
		if pages > 0 {
			c.ScanDetectPages = pages
		}
	}
}

// WithScanTextThreshold sets the character count below which the
// inspected pages count as image-only.
func WithScanTextThreshold(threshold int) Option {
	return func(c *Config) {
		if threshold > 0 {
			c.ScanTextThreshold = threshold
		}
	}
}

// NewConfig builds a Config with defaults applied.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		ScanDetectPages:   DefaultScanDetectPages,
		ScanTextThreshold: DefaultScanTextThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reader interface for different document readers.
type Reader interface {
	// Read extracts per-page content from the raw document bytes.
	Read(ctx context.Context, data []byte) (*document.Extraction, error)

	// Name returns the name of this reader.
	Name() string

	// SupportedExtensions returns the file extensions this reader supports.
	// Extensions include the dot prefix (e.g., ".pdf", ".docx").
	SupportedExtensions() []string
}
