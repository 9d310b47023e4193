//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package document

import "errors"

// Error codes reported to the host. They identify which stage of the
// pipeline rejected the document.
const (
	CodeInvalidParams        = "invalid_params"
	CodeInvalidFileURL       = "invalid_file_url"
	CodeDownloadFailed       = "download_failed"
	CodeUnsupportedFileType  = "unsupported_file_type"
	CodeProcessingFailed     = "processing_failed"
	CodeImageOCRFailed       = "image_ocr_failed"
	CodePDFProcessingFailed  = "pdf_processing_failed"
	CodePDFExtractionFailed  = "pdf_text_extraction_failed"
	CodePDFConvertFailed     = "pdf_convert_failed"
	CodeScannedPDFOCRFailed  = "scanned_pdf_ocr_failed"
	CodeDocxProcessingFailed = "docx_processing_failed"
	CodeDocxExtractionFailed = "docx_text_extraction_failed"
	CodeDocRequiresConvert   = "doc_processing_requires_conversion"
	CodeDocProcessingFailed  = "doc_processing_failed"
	CodeTextExtractionFailed = "text_extraction_failed"
)

// Error is a typed pipeline failure. It serializes to the error payload
// the host receives.
type Error struct {
	Code       string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewError creates a typed pipeline error.
func NewError(code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return e.Code + ": " + e.Detail
}

// AsError converts any error into a typed pipeline error. Untyped
// errors are wrapped under the given fallback code.
func AsError(err error, fallbackCode string) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return NewError(fallbackCode, err.Error())
}
