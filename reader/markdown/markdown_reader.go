//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package markdown provides the markdown document reader implementation.
// The document is parsed to an AST and flattened to plain text, so
// field extraction downstream sees content instead of markup.
package markdown

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

var supportedExtensions = []string{".md", ".markdown"}

func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads markdown documents.
type Reader struct {
	config *reader.Config
}

// New creates a new markdown reader with the given options.
func New(opts ...reader.Option) reader.Reader {
	return &Reader{config: reader.NewConfig(opts...)}
}

// Read flattens the markdown to plain text and returns it as page 1.
func (r *Reader) Read(ctx context.Context, data []byte) (*document.Extraction, error) {
	text, err := flatten(data)
	if err != nil {
		return nil, document.NewError(document.CodeTextExtractionFailed, err.Error())
	}
	return &document.Extraction{
		Method: document.MethodDirectMarkdown,
		Pages: []document.ExtractedPage{
			{Number: 1, Text: text},
		},
	}, nil
}

// flatten walks the markdown AST and collects the text content,
// keeping block boundaries as newlines.
func flatten(source []byte) (string, error) {
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(source))

	var sb strings.Builder
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.AutoLink:
			sb.Write(t.URL(source))
		case *ast.FencedCodeBlock:
			lines := t.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
		case *ast.CodeBlock:
			lines := t.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	// Collapse the blank lines block boundaries leave behind.
	cleaned := strings.TrimSpace(sb.String())
	for strings.Contains(cleaned, "\n\n\n") {
		cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
	}
	return cleaned, nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "MarkdownReader"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
