//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package docx provides the DOCX document reader implementation.
// Paragraph text comes from the WordprocessingML parser; table cells
// are walked separately since the parser only models body paragraphs.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/gonfva/docxlib"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

// supportedExtensions defines the file extensions supported by this reader.
var supportedExtensions = []string{".docx"}

// init registers the DOCX reader with the global registry.
func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads DOCX documents.
type Reader struct {
	config *reader.Config
}

// New creates a new DOCX reader with the given options.
func New(opts ...reader.Option) reader.Reader {
	return &Reader{config: reader.NewConfig(opts...)}
}

// Read extracts text from DOCX bytes. A DOCX has no page structure of
// its own, so everything lands on page 1.
func (r *Reader) Read(ctx context.Context, data []byte) (*document.Extraction, error) {
	doc, err := docxlib.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, document.NewError(document.CodeDocxExtractionFailed, err.Error())
	}

	var parts []string
	for _, paragraph := range doc.Paragraphs() {
		if text := paragraphText(paragraph); text != "" {
			parts = append(parts, text)
		}
	}

	// Table cells live under w:tbl, which the paragraph list skips.
	cells, err := tableCellTexts(data)
	if err == nil {
		parts = append(parts, cells...)
	}

	return &document.Extraction{
		Method: document.MethodDirectDocx,
		Pages: []document.ExtractedPage{
			{Number: 1, Text: strings.Join(parts, "\n")},
		},
	}, nil
}

// paragraphText joins the run texts of one paragraph.
func paragraphText(paragraph *docxlib.Paragraph) string {
	var sb strings.Builder
	for _, child := range paragraph.Children() {
		if child.Run != nil && child.Run.Text != nil {
			sb.WriteString(child.Run.Text.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// tableCellTexts walks word/document.xml and collects the text of every
// table cell, in document order.
func tableCellTexts(data []byte) ([]string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var docFile *zip.File
	for _, f := range zipReader.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errors.New("word/document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var (
		cells      []string
		cell       strings.Builder
		tableDepth int
		cellDepth  int
		inText     bool
	)
	decoder := xml.NewDecoder(rc)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				if tableDepth > 0 {
					cellDepth++
				}
			case "t":
				if cellDepth > 0 {
					inText = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "tc":
				if tableDepth > 0 && cellDepth > 0 {
					cellDepth--
					if text := strings.TrimSpace(cell.String()); text != "" {
						cells = append(cells, text)
					}
					cell.Reset()
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				cell.Write(t)
			}
		}
	}
	return cells, nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "DOCXReader"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
