//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package document defines the value types shared by readers and the
// parsing pipeline.
package document

// Method identifies how content was pulled out of a document.
type Method string

// Extraction methods reported in the unified result.
const (
	MethodDirectPDF      Method = "direct_pdf_text"
	MethodDirectDocx     Method = "direct_docx_text"
	MethodDirectDoc      Method = "direct_doc_text"
	MethodDirectText     Method = "direct_text"
	MethodDirectMarkdown Method = "direct_markdown_text"
	MethodOCRAPI         Method = "ocr_api"
)

// Direct reports whether the method extracts text locally, without
// calling the OCR API.
func (m Method) Direct() bool {
	return m != MethodOCRAPI
}

// ExtractedPage is the raw per-page output of a reader.
// Direct readers fill Text; OCR-backed readers fill Data with the
// structured payload returned by the OCR model. Err records a page-level
// failure without aborting the remaining pages.
type ExtractedPage struct {
	Number int
	Text   string
	Data   any
	Err    string
}

// Extraction is the output of a reader for a whole document.
type Extraction struct {
	Method Method
	Pages  []ExtractedPage
}

// Page is one entry of the unified result, as serialized to the host.
type Page struct {
	Number  int    `json:"page"`
	Content any    `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Result is the unified parse result for a document.
type Result struct {
	Pages  []Page `json:"pages"`
	Method Method `json:"extraction_method,omitempty"`
}

// Content is the structured content of a directly extracted page.
type Content struct {
	RawText         string         `json:"raw_text"`
	ExtractedFields map[string]any `json:"extracted_fields"`
	WordCount       int            `json:"word_count,omitempty"`
	CharacterCount  int            `json:"character_count,omitempty"`
}
