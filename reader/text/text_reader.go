//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package text provides the plain text document reader implementation.
// Non-UTF-8 input is decoded through a chain of common Chinese
// encodings before falling back to lossy UTF-8.
package text

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

var supportedExtensions = []string{".txt", ".csv", ".log"}

// fallbackEncodings are tried, in order, when the input is not UTF-8.
var fallbackEncodings = []encoding.Encoding{
	simplifiedchinese.GBK,
	simplifiedchinese.HZGB2312,
	traditionalchinese.Big5,
}

func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads plain text documents.
type Reader struct {
	config *reader.Config
}

// New creates a new text reader with the given options.
func New(opts ...reader.Option) reader.Reader {
	return &Reader{config: reader.NewConfig(opts...)}
}

// Read decodes the text and returns it as page 1.
func (r *Reader) Read(ctx context.Context, data []byte) (*document.Extraction, error) {
	return &document.Extraction{
		Method: document.MethodDirectText,
		Pages: []document.ExtractedPage{
			{Number: 1, Text: strings.TrimSpace(Decode(data))},
		},
	}, nil
}

// Decode converts raw bytes to a UTF-8 string. UTF-8 input passes
// through; otherwise GBK, HZ-GB2312 and Big5 are tried before replacing
// the undecodable bytes.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	for _, enc := range fallbackEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if !bytes.ContainsRune(decoded, utf8.RuneError) {
			return string(decoded)
		}
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "TextReader"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
