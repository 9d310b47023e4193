//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package pdfocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
)

type mockExtractor struct {
	response string
	lastURL  string
	lastOpts *ocr.Options
	calls    int
}

func (m *mockExtractor) ExtractText(ctx context.Context, imageData []byte, opts ...ocr.Option) (string, error) {
	m.calls++
	m.lastOpts = ocr.ApplyOptions(opts...)
	return m.response, nil
}

func (m *mockExtractor) ExtractTextFromURL(ctx context.Context, imageURL string, opts ...ocr.Option) (string, error) {
	m.calls++
	m.lastURL = imageURL
	m.lastOpts = ocr.ApplyOptions(opts...)
	return m.response, nil
}

func (m *mockExtractor) ExtractTextFromReader(ctx context.Context, r io.Reader, opts ...ocr.Option) (string, error) {
	m.calls++
	return m.response, nil
}

func (m *mockExtractor) Close() error { return nil }

// scannedPDF builds a PDF carrying a single embedded image.
func scannedPDF(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 64, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.RegisterImageOptionsReader("page.png", fpdf.ImageOptions{ImageType: "PNG"}, &pngBuf)
	doc.ImageOptions("page.png", 10, 10, 100, 100, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestProcess_ImageEmbeddedForLocalHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	}))
	defer srv.Close()

	extractor := &mockExtractor{response: `{"total":"12.50"}`}
	p := NewProcessor(WithOCRExtractor(extractor))

	result, err := p.Process(context.Background(), Input{
		Prompt:   "extract the total",
		ImageURL: srv.URL + "/scan.jpg",
	})
	require.NoError(t, err)

	require.Len(t, result.Pages, 1)
	assert.Equal(t, map[string]any{"total": "12.50"}, result.Pages[0].Content)
	// httptest binds to 127.0.0.1, so the image must arrive embedded.
	assert.True(t, strings.HasPrefix(extractor.lastURL, "data:image/jpeg;base64,"))
	assert.Equal(t, "extract the total", extractor.lastOpts.Prompt)
}

func TestProcess_PerCallOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\nx"))
	}))
	defer srv.Close()

	extractor := &mockExtractor{response: "{}"}
	p := NewProcessor(WithOCRExtractor(extractor))

	_, err := p.Process(context.Background(), Input{
		Prompt:   "read it",
		ImageURL: srv.URL + "/scan.png",
		APIKey:   "override-key",
		Model:    "qwen-vl-max",
	})
	require.NoError(t, err)
	assert.Equal(t, "override-key", extractor.lastOpts.APIKey)
	assert.Equal(t, "qwen-vl-max", extractor.lastOpts.Model)
}

func TestProcess_PDFByExtension(t *testing.T) {
	pdfData := scannedPDF(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdfData)
	}))
	defer srv.Close()

	extractor := &mockExtractor{response: `{"page_text":"hello"}`}
	p := NewProcessor(WithOCRExtractor(extractor))

	result, err := p.Process(context.Background(), Input{
		Prompt:   "extract everything",
		ImageURL: srv.URL + "/doc.pdf",
	})
	require.NoError(t, err)

	require.Len(t, result.Pages, 1)
	assert.Equal(t, 1, result.Pages[0].Number)
	assert.Equal(t, map[string]any{"page_text": "hello"}, result.Pages[0].Content)
	assert.Empty(t, result.Method)
	assert.Equal(t, 1, extractor.calls)
}

func TestProcess_PDFByMagicOnLocalHost(t *testing.T) {
	// No extension and a generic content type; only the magic bytes of
	// the local download reveal the PDF.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("%PDF-1.4 truncated"))
	}))
	defer srv.Close()

	extractor := &mockExtractor{response: "{}"}
	p := NewProcessor(WithOCRExtractor(extractor))

	_, err := p.Process(context.Background(), Input{
		Prompt:   "extract everything",
		ImageURL: srv.URL + "/blob",
	})
	// The bogus PDF cannot be rendered; the typed conversion error
	// proves the magic-byte route was taken.
	require.Error(t, err)
	typed := document.AsError(err, document.CodeProcessingFailed)
	assert.Equal(t, document.CodePDFConvertFailed, typed.Code)
}

func TestProcess_Validation(t *testing.T) {
	p := NewProcessor(WithOCRExtractor(&mockExtractor{response: "{}"}))

	_, err := p.Process(context.Background(), Input{Prompt: "", ImageURL: "https://example.com/a.png"})
	typed := document.AsError(err, document.CodeProcessingFailed)
	assert.Equal(t, document.CodeInvalidParams, typed.Code)

	_, err = p.Process(context.Background(), Input{Prompt: "x", ImageURL: ""})
	typed = document.AsError(err, document.CodeProcessingFailed)
	assert.Equal(t, CodeInvalidImageURL, typed.Code)

	_, err = p.Process(context.Background(), Input{Prompt: "x", ImageURL: "ftp://example.com/a.png"})
	typed = document.AsError(err, document.CodeProcessingFailed)
	assert.Equal(t, CodeInvalidImageURL, typed.Code)
}

func TestTool_Declaration(t *testing.T) {
	tl := New(WithOCRExtractor(&mockExtractor{}))
	decl := tl.Declaration()
	assert.Equal(t, "pdf_ocr_aliyun", decl.Name)
	assert.Contains(t, decl.InputSchema.Properties, "image_url")
	assert.Contains(t, decl.InputSchema.Properties, "api_key")
}
