//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package parser wires the document pipeline together: resolve the
// file reference, download, detect the type, route to a reader and
// assemble the unified per-page result.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/smartdoc-parser/smartdoc-go/detect"
	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/extract"
	"github.com/smartdoc-parser/smartdoc-go/fileurl"
	"github.com/smartdoc-parser/smartdoc-go/internal/httpclient"
	"github.com/smartdoc-parser/smartdoc-go/log"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

// typeExtensions maps a detected document class to the canonical
// extension its reader is registered under.
var typeExtensions = map[detect.Type]string{
	detect.TypePDF:   ".pdf",
	detect.TypeDocx:  ".docx",
	detect.TypeDoc:   ".doc",
	detect.TypeImage: ".png",
	detect.TypeText:  ".txt",
}

// Parser runs the full document parsing pipeline.
type Parser struct {
	httpClient   *httpclient.Client
	ocrExtractor ocr.Extractor
	baseURL      string
	readerOpts   []reader.Option
	concurrency  int
}

// Option configures the Parser.
type Option func(*Parser)

// WithHTTPClient sets the download client.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(p *Parser) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithOCRExtractor sets the OCR extractor for images and scanned PDFs.
func WithOCRExtractor(extractor ocr.Extractor) Option {
	return func(p *Parser) {
		p.ocrExtractor = extractor
	}
}

// WithBaseURL sets the file host base for relative file references.
// When unset, the base is discovered from the environment per request.
func WithBaseURL(baseURL string) Option {
	return func(p *Parser) {
		p.baseURL = baseURL
	}
}

// WithReaderOptions appends extra options passed to every reader.
func WithReaderOptions(opts ...reader.Option) Option {
	return func(p *Parser) {
		p.readerOpts = append(p.readerOpts, opts...)
	}
}

// WithConcurrency sets the worker count for batch parsing.
func WithConcurrency(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// New creates a Parser with the given options.
func New(opts ...Option) *Parser {
	p := &Parser{
		httpClient:  httpclient.New(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse resolves fileValue to a URL, downloads the document and
// extracts its content. Extra reader options carry per-call overrides
// such as an OCR credential. The returned error, when non-nil, is
// always a *document.Error carrying the failure code for the host.
func (p *Parser) Parse(ctx context.Context, fileValue any, prompt string, extraOpts ...reader.Option) (*document.Result, error) {
	fileURL, err := p.resolveURL(fileValue)
	if err != nil {
		return nil, err
	}

	data, _, err := p.httpClient.Get(ctx, fileURL)
	if err != nil || len(data) == 0 {
		log.Debugf("download failed for %s: %v", fileURL, err)
		return nil, document.NewError(document.CodeDownloadFailed,
			"Could not download or read the file")
	}

	docType := detect.Sniff(fileURL, data)
	log.Debugf("detected type %s for %s (%d bytes)", docType, fileURL, len(data))

	r, ok := p.readerFor(fileURL, docType, prompt, extraOpts)
	if !ok {
		return nil, document.NewError(document.CodeUnsupportedFileType,
			fmt.Sprintf("File type '%s' is not supported. Supported types: images, PDF, DOCX, DOC", docType))
	}

	extraction, err := r.Read(ctx, data)
	if err != nil {
		return nil, document.AsError(err, document.CodeProcessingFailed)
	}
	return assemble(extraction, prompt), nil
}

// resolveURL extracts, absolutizes and validates the file reference.
func (p *Parser) resolveURL(fileValue any) (string, error) {
	fileURL := fileurl.Extract(fileValue)
	if fileURL == "" {
		return "", document.NewError(document.CodeInvalidFileURL,
			"missing or unrecognized file reference")
	}

	base := p.baseURL
	if base == "" {
		base = fileurl.AutoBaseURL()
	}
	fileURL = fileurl.Absolutize(fileURL, base)

	if !fileurl.IsAbsolute(fileURL) {
		return "", document.NewError(document.CodeInvalidFileURL,
			"`file_url` must start with http:// or https://")
	}
	return fileURL, nil
}

// readerFor picks the reader by URL extension first, then by the
// detected document class.
func (p *Parser) readerFor(fileURL string, docType detect.Type, prompt string, extraOpts []reader.Option) (reader.Reader, bool) {
	opts := []reader.Option{
		reader.WithOCRExtractor(p.ocrExtractor),
		reader.WithOCRPrompt(prompt),
	}
	opts = append(opts, p.readerOpts...)
	opts = append(opts, extraOpts...)

	if parsed, err := url.Parse(fileURL); err == nil {
		if ext := strings.ToLower(path.Ext(parsed.Path)); ext != "" {
			if r, ok := reader.GetReader(ext, opts...); ok {
				return r, true
			}
		}
	}

	ext, ok := typeExtensions[docType]
	if !ok {
		return nil, false
	}
	return reader.GetReader(ext, opts...)
}

// assemble converts a reader extraction into the unified result.
// Direct text goes through field extraction; OCR output is already
// structured by the model.
func assemble(extraction *document.Extraction, prompt string) *document.Result {
	pages := make([]document.Page, 0, len(extraction.Pages))
	for _, page := range extraction.Pages {
		out := document.Page{Number: page.Number}
		switch {
		case page.Err != "":
			out.Error = page.Err
		case extraction.Method.Direct():
			out.Content = extract.Process(page.Text, prompt)
		default:
			out.Content = page.Data
		}
		pages = append(pages, out)
	}
	return &document.Result{
		Pages:  pages,
		Method: extraction.Method,
	}
}

// FormatText renders a result as a JSON string for plain text bindings.
// Unicode is kept as-is so Chinese content stays readable.
func FormatText(result *document.Result) string {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}
