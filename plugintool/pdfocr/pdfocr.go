//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package pdfocr exposes a direct OCR tool against the Aliyun vision
// API. Unlike the full parser it never attempts text extraction: PDFs
// are always OCRed page by page, and image URLs go straight to the
// model. Files hosted on local or private hosts are embedded as data
// URLs because the OCR service cannot reach them.
package pdfocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/smartdoc-parser/smartdoc-go/detect"
	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/fileurl"
	"github.com/smartdoc-parser/smartdoc-go/internal/httpclient"
	"github.com/smartdoc-parser/smartdoc-go/internal/jsonutil"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
	"github.com/smartdoc-parser/smartdoc-go/reader"
	pdfreader "github.com/smartdoc-parser/smartdoc-go/reader/pdf"
	"github.com/smartdoc-parser/smartdoc-go/tool"
	"github.com/smartdoc-parser/smartdoc-go/tool/function"
)

// ToolName identifies the tool towards the host.
const ToolName = "pdf_ocr_aliyun"

const toolDescription = "Run OCR on an image or PDF by URL using the " +
	"Aliyun vision API. PDFs are rendered page by page; the result is " +
	"per-page structured JSON."

// CodeInvalidImageURL and CodeRequestFailed are this tool's own codes.
const (
	CodeInvalidImageURL = "invalid_image_url"
	CodeRequestFailed   = "request_failed"
)

// forceOCRThreshold makes every PDF count as scanned so the text layer
// is never used.
const forceOCRThreshold = 1 << 30

var pdfMagic = []byte("%PDF-")

// Input is the tool invocation payload.
type Input struct {
	// Prompt describes what to extract.
	Prompt string `json:"prompt"`
	// ImageURL is the image or PDF reference: a URL string, a file
	// object or a list of either.
	ImageURL any `json:"image_url"`
	// APIKey overrides the configured credential for this call.
	APIKey string `json:"api_key,omitempty"`
	// Model overrides the configured OCR model for this call.
	Model string `json:"model,omitempty"`
}

var inputSchema = &tool.Schema{
	Type: "object",
	Properties: map[string]*tool.Schema{
		"prompt": {
			Type:        "string",
			Description: "What to extract from the image or PDF.",
		},
		"image_url": {
			Type:        "string",
			Description: "Image or PDF URL, or a file object carrying one under url/image_url/image/src/href/value.",
		},
		"api_key": {
			Type:        "string",
			Description: "Per-call API key override.",
		},
		"model": {
			Type:        "string",
			Description: "Per-call model override, e.g. qwen-vl-max.",
		},
	},
	Required: []string{"prompt", "image_url"},
}

// Processor runs OCR requests for the tool.
type Processor struct {
	httpClient *httpclient.Client
	extractor  ocr.Extractor
	baseURL    string
}

// Option configures the Processor.
type Option func(*Processor)

// WithHTTPClient sets the download client.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(p *Processor) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithOCRExtractor sets the OCR extractor.
func WithOCRExtractor(extractor ocr.Extractor) Option {
	return func(p *Processor) {
		p.extractor = extractor
	}
}

// WithBaseURL sets the file host base for relative references.
func WithBaseURL(baseURL string) Option {
	return func(p *Processor) {
		p.baseURL = baseURL
	}
}

// NewProcessor creates a Processor.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{httpClient: httpclient.New()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New builds the pdf_ocr_aliyun tool.
func New(opts ...Option) tool.CallableTool {
	processor := NewProcessor(opts...)
	return function.NewFunctionTool(
		processor.Process,
		function.WithName(ToolName),
		function.WithDescription(toolDescription),
		function.WithInputSchema(inputSchema),
	)
}

// Process OCRs the referenced resource and returns the per-page result.
func (p *Processor) Process(ctx context.Context, in Input) (*document.Result, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, document.NewError(document.CodeInvalidParams,
			"Missing required parameter: prompt")
	}
	if p.extractor == nil {
		return nil, document.NewError(CodeRequestFailed,
			"no OCR extractor is configured")
	}

	imageURL := fileurl.Extract(in.ImageURL)
	base := p.baseURL
	if base == "" {
		base = fileurl.AutoBaseURL()
	}
	imageURL = fileurl.Absolutize(imageURL, base)
	if imageURL == "" {
		return nil, document.NewError(CodeInvalidImageURL,
			"Missing required parameter: image_url")
	}
	if !fileurl.IsAbsolute(imageURL) {
		return nil, document.NewError(CodeInvalidImageURL,
			"`image_url` must start with http:// or https://")
	}

	callOpts := perCallOptions(in)

	if pdfData := p.fetchPDF(ctx, imageURL); pdfData != nil {
		return p.processPDF(ctx, pdfData, in.Prompt, callOpts)
	}
	return p.processImage(ctx, imageURL, in.Prompt, callOpts)
}

// processPDF OCRs every page of the PDF.
func (p *Processor) processPDF(ctx context.Context, data []byte, prompt string, callOpts []ocr.Option) (*document.Result, error) {
	r := pdfreader.New(
		reader.WithOCRExtractor(p.extractor),
		reader.WithOCRPrompt(prompt),
		reader.WithOCROptions(callOpts...),
		reader.WithScanTextThreshold(forceOCRThreshold),
	)
	extraction, err := r.Read(ctx, data)
	if err != nil {
		return nil, document.AsError(err, document.CodePDFConvertFailed)
	}

	pages := make([]document.Page, 0, len(extraction.Pages))
	for _, page := range extraction.Pages {
		out := document.Page{Number: page.Number}
		if page.Err != "" {
			out.Error = page.Err
		} else {
			out.Content = page.Data
		}
		pages = append(pages, out)
	}
	return &document.Result{Pages: pages}, nil
}

// processImage sends the image URL to the OCR model, embedding the
// bytes as a data URL when the host is unreachable from outside.
func (p *Processor) processImage(ctx context.Context, imageURL, prompt string, callOpts []ocr.Option) (*document.Result, error) {
	value := imageURL
	if embedded := p.embedIfLocal(ctx, imageURL); embedded != "" {
		value = embedded
	}

	opts := append([]ocr.Option{ocr.WithPrompt(prompt)}, callOpts...)
	text, err := p.extractor.ExtractTextFromURL(ctx, value, opts...)
	if err != nil {
		return nil, document.NewError(CodeRequestFailed, err.Error())
	}

	return &document.Result{
		Pages: []document.Page{
			{Number: 1, Content: jsonutil.SafeLoads(text)},
		},
	}, nil
}

// fetchPDF returns the resource bytes when it is a PDF, nil otherwise.
// The URL extension is checked first, then the HEAD content type, and
// for local hosts the magic bytes of the downloaded body.
func (p *Processor) fetchPDF(ctx context.Context, imageURL string) []byte {
	if detect.IsPDFURL(imageURL) {
		if data, _, err := p.httpClient.Get(ctx, imageURL); err == nil {
			return data
		}
		return nil
	}

	if contentType, err := p.httpClient.ContentType(ctx, imageURL); err == nil {
		if strings.Contains(strings.ToLower(contentType), "application/pdf") {
			if data, _, err := p.httpClient.Get(ctx, imageURL); err == nil {
				return data
			}
			return nil
		}
	}

	if isLocalHost(imageURL) {
		if data, _, err := p.httpClient.Get(ctx, imageURL); err == nil && bytes.HasPrefix(data, pdfMagic) {
			return data
		}
	}
	return nil
}

// embedIfLocal downloads a locally hosted image and converts it to a
// data URL. Returns "" when the host is public or the download fails.
func (p *Processor) embedIfLocal(ctx context.Context, imageURL string) string {
	if !isLocalHost(imageURL) {
		return ""
	}
	data, contentType, err := p.httpClient.Get(ctx, imageURL)
	if err != nil {
		return ""
	}
	if contentType == "" {
		if parsed, err := url.Parse(imageURL); err == nil {
			contentType = mime.TypeByExtension(path.Ext(parsed.Path))
		}
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// isLocalHost reports whether the URL points at a host the OCR service
// cannot reach.
func isLocalHost(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return strings.HasSuffix(host, ".local")
}

func perCallOptions(in Input) []ocr.Option {
	var opts []ocr.Option
	if key := strings.TrimSpace(in.APIKey); key != "" {
		opts = append(opts, ocr.WithAPIKey(key))
	}
	if model := strings.TrimSpace(in.Model); model != "" {
		opts = append(opts, ocr.WithModel(model))
	}
	return opts
}
