//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package smartdoc exposes the document parsing pipeline as a callable
// plugin tool.
package smartdoc

import (
	"context"
	"strings"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
	"github.com/smartdoc-parser/smartdoc-go/parser"
	"github.com/smartdoc-parser/smartdoc-go/reader"
	"github.com/smartdoc-parser/smartdoc-go/tool"
	"github.com/smartdoc-parser/smartdoc-go/tool/function"
)

// ToolName identifies the tool towards the host.
const ToolName = "smart_doc_parser"

const toolDescription = "Parse a document by URL. Detects the file type " +
	"(image, PDF, DOCX, DOC), extracts text directly where possible and " +
	"falls back to OCR for images and scanned PDFs, then returns per-page " +
	"structured content."

// Input is the tool invocation payload.
type Input struct {
	// Prompt describes what to extract from the document.
	Prompt string `json:"prompt"`
	// FileURL is the document reference: a URL string, a file object or
	// a list of either.
	FileURL any `json:"file_url"`
	// APIKey overrides the configured OCR credential for this call.
	APIKey string `json:"api_key,omitempty"`
	// Model overrides the configured OCR model for this call.
	Model string `json:"model,omitempty"`
}

// inputSchema is declared by hand because file_url accepts more shapes
// than a reflected struct schema can express.
var inputSchema = &tool.Schema{
	Type: "object",
	Properties: map[string]*tool.Schema{
		"prompt": {
			Type:        "string",
			Description: "What to extract from the document, e.g. \"extract the invoice number and total amount\".",
		},
		"file_url": {
			Type:        "string",
			Description: "Document URL, or a file object carrying one under url/file_url/image_url/image/src/href/value.",
		},
		"api_key": {
			Type:        "string",
			Description: "Per-call OCR API key override.",
		},
		"model": {
			Type:        "string",
			Description: "Per-call OCR model override, e.g. qwen-vl-max.",
		},
	},
	Required: []string{"prompt", "file_url"},
}

// New builds the smart_doc_parser tool on top of a parser.
func New(p *parser.Parser) tool.CallableTool {
	return function.NewFunctionTool(
		func(ctx context.Context, in Input) (*document.Result, error) {
			if strings.TrimSpace(in.Prompt) == "" {
				return nil, document.NewError(document.CodeInvalidParams,
					"Missing required parameter: prompt")
			}
			return p.Parse(ctx, in.FileURL, in.Prompt, perCallOptions(in)...)
		},
		function.WithName(ToolName),
		function.WithDescription(toolDescription),
		function.WithInputSchema(inputSchema),
	)
}

// perCallOptions turns request-level overrides into reader options.
func perCallOptions(in Input) []reader.Option {
	var ocrOpts []ocr.Option
	if key := strings.TrimSpace(in.APIKey); key != "" {
		ocrOpts = append(ocrOpts, ocr.WithAPIKey(key))
	}
	if model := strings.TrimSpace(in.Model); model != "" {
		ocrOpts = append(ocrOpts, ocr.WithModel(model))
	}
	if len(ocrOpts) == 0 {
		return nil
	}
	return []reader.Option{reader.WithOCROptions(ocrOpts...)}
}
