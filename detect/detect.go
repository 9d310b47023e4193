//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package detect classifies downloaded documents. The URL extension is
// authoritative when present; otherwise the leading bytes decide.
package detect

import (
	"bytes"
	"net/url"
	"strings"
)

// Type is a coarse document class the pipeline knows how to route.
type Type string

// Document classes.
const (
	TypePDF     Type = "pdf"
	TypeDocx    Type = "docx"
	TypeDoc     Type = "doc"
	TypeImage   Type = "image"
	TypeText    Type = "text"
	TypeUnknown Type = "unknown"
)

var (
	imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}
	textExtensions  = []string{".txt", ".md", ".markdown", ".csv", ".log"}

	pdfMagic  = []byte("%PDF-")
	zipMagic  = []byte("PK\x03\x04")
	oleMagic  = []byte("\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1")
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte("\xff\xd8\xff")
	gifMagic  = []byte("GIF8")
	riffMagic = []byte("RIFF")
	bmpMagic  = []byte("BM")
)

// zipSniffWindow is how far into a ZIP container the docx markers are
// searched for.
const zipSniffWindow = 4096

// Sniff classifies a document by its source URL and content.
func Sniff(fileURL string, data []byte) Type {
	if t := byExtension(fileURL); t != TypeUnknown {
		return t
	}
	return byContent(data)
}

// byExtension classifies by the lower-cased URL path extension.
func byExtension(fileURL string) Type {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return TypeUnknown
	}
	path := strings.ToLower(parsed.Path)

	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return TypeImage
		}
	}
	switch {
	case strings.HasSuffix(path, ".pdf"):
		return TypePDF
	case strings.HasSuffix(path, ".docx"):
		return TypeDocx
	case strings.HasSuffix(path, ".doc"):
		return TypeDoc
	}
	for _, ext := range textExtensions {
		if strings.HasSuffix(path, ext) {
			return TypeText
		}
	}
	return TypeUnknown
}

// byContent classifies by magic bytes.
func byContent(data []byte) Type {
	if len(data) == 0 {
		return TypeUnknown
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return TypePDF
	}
	if bytes.HasPrefix(data, zipMagic) {
		window := data
		if len(window) > zipSniffWindow {
			window = window[:zipSniffWindow]
		}
		if bytes.Contains(window, []byte("word/")) || bytes.Contains(window, []byte("[Content_Types].xml")) {
			return TypeDocx
		}
	}
	if bytes.HasPrefix(data, oleMagic) {
		return TypeDoc
	}
	for _, sig := range [][]byte{pngMagic, jpegMagic, gifMagic, riffMagic, bmpMagic} {
		if bytes.HasPrefix(data, sig) {
			return TypeImage
		}
	}
	return TypeUnknown
}

// IsPDFURL reports whether the URL path ends in .pdf, ignoring query
// parameters and case.
func IsPDFURL(fileURL string) bool {
	return byExtension(fileURL) == TypePDF
}
