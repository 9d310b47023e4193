//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

// mockExtractor returns a canned OCR response and records calls.
type mockExtractor struct {
	response string
	calls    int
}

func (m *mockExtractor) ExtractText(ctx context.Context, imageData []byte, opts ...ocr.Option) (string, error) {
	m.calls++
	return m.response, nil
}

func (m *mockExtractor) ExtractTextFromURL(ctx context.Context, imageURL string, opts ...ocr.Option) (string, error) {
	m.calls++
	return m.response, nil
}

func (m *mockExtractor) ExtractTextFromReader(ctx context.Context, r io.Reader, opts ...ocr.Option) (string, error) {
	m.calls++
	return m.response, nil
}

func (m *mockExtractor) Close() error { return nil }

func newTestReader(data []byte) (*pdf.Reader, error) {
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// textPDF builds a PDF whose pages carry a real text layer.
func textPDF(t *testing.T, pageTexts ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for _, text := range pageTexts {
		doc.AddPage()
		doc.Cell(40, 10, text)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

// imagePDF builds a PDF with a single embedded image and no text layer.
func imagePDF(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.RegisterImageOptionsReader("scan.png", fpdf.ImageOptions{ImageType: "PNG"}, &pngBuf)
	doc.ImageOptions("scan.png", 10, 10, 100, 100, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestRead_TextPDF(t *testing.T) {
	data := textPDF(t,
		"This is the first page of a text based document with plenty of content.",
		"And here is the second page, also fully extractable.")

	r := New()
	extraction, err := r.Read(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, document.MethodDirectPDF, extraction.Method)
	require.Len(t, extraction.Pages, 2)
	assert.Equal(t, 1, extraction.Pages[0].Number)
	assert.Contains(t, extraction.Pages[0].Text, "first page")
	assert.Equal(t, 2, extraction.Pages[1].Number)
	assert.Contains(t, extraction.Pages[1].Text, "second page")
}

func TestRead_ScannedWithoutExtractor(t *testing.T) {
	r := New()
	_, err := r.Read(context.Background(), imagePDF(t))
	require.Error(t, err)

	typed := document.AsError(err, document.CodeProcessingFailed)
	assert.Equal(t, document.CodeScannedPDFOCRFailed, typed.Code)
}

func TestRead_ScannedWithOCR(t *testing.T) {
	extractor := &mockExtractor{response: `{"invoice_no":"INV-42"}`}
	r := New(reader.WithOCRExtractor(extractor), reader.WithOCRPrompt("extract the invoice number"))

	extraction, err := r.Read(context.Background(), imagePDF(t))
	require.NoError(t, err)

	assert.Equal(t, document.MethodOCRAPI, extraction.Method)
	require.Len(t, extraction.Pages, 1)
	assert.Equal(t, 1, extraction.Pages[0].Number)
	assert.Empty(t, extraction.Pages[0].Err)
	assert.Equal(t, map[string]any{"invoice_no": "INV-42"}, extraction.Pages[0].Data)
	assert.Equal(t, 1, extractor.calls)
}

func TestRead_InvalidData(t *testing.T) {
	r := New(reader.WithOCRExtractor(&mockExtractor{response: "{}"}))
	_, err := r.Read(context.Background(), []byte("not a pdf at all"))
	require.Error(t, err)

	typed := document.AsError(err, document.CodeProcessingFailed)
	assert.Equal(t, document.CodePDFConvertFailed, typed.Code)
}

func TestIsScanned_Threshold(t *testing.T) {
	// A short text layer below the threshold counts as scanned.
	shortData := textPDF(t, "tiny")
	r := New().(*Reader)

	pdfReader, err := newTestReader(shortData)
	require.NoError(t, err)
	assert.True(t, r.isScanned(pdfReader))

	longData := textPDF(t, "This page carries well over fifty characters of real extractable text content.")
	pdfReader, err = newTestReader(longData)
	require.NoError(t, err)
	assert.False(t, r.isScanned(pdfReader))
}

func TestReader_Metadata(t *testing.T) {
	r := New()
	assert.Equal(t, "PDFReader", r.Name())
	assert.Equal(t, []string{".pdf"}, r.SupportedExtensions())

	_, ok := reader.GetReader(".pdf")
	assert.True(t, ok)
}
