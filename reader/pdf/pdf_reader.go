//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package pdf provides the PDF document reader implementation.
// Text-based PDFs are read directly; scanned PDFs are detected by the
// near-absence of a text layer and routed through the OCR extractor,
// page by page.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	pdfcpuAPI "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/internal/jsonutil"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

// supportedExtensions defines the file extensions supported by this reader.
var supportedExtensions = []string{".pdf"}

// init registers the PDF reader with the global registry.
func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads PDF documents.
type Reader struct {
	config *reader.Config
}

// New creates a new PDF reader with the given options.
func New(opts ...reader.Option) reader.Reader {
	return &Reader{config: reader.NewConfig(opts...)}
}

// Read extracts per-page content from PDF bytes.
func (r *Reader) Read(ctx context.Context, data []byte) (*document.Extraction, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// An unreadable text layer does not mean the file is broken; a
		// fully rasterized PDF can still be OCRed.
		return r.readScanned(ctx, data, 0)
	}

	if r.isScanned(pdfReader) {
		return r.readScanned(ctx, data, pdfReader.NumPage())
	}
	return r.readTextLayer(pdfReader)
}

// isScanned inspects the leading pages and reports whether the PDF is
// image-only. A handful of stray characters still counts as scanned.
func (r *Reader) isScanned(pdfReader *pdf.Reader) bool {
	pagesToCheck := r.config.ScanDetectPages
	if n := pdfReader.NumPage(); n < pagesToCheck {
		pagesToCheck = n
	}

	totalTextLength := 0
	for pageIndex := 1; pageIndex <= pagesToCheck; pageIndex++ {
		text := extractPageText(pdfReader, pageIndex)
		totalTextLength += utf8.RuneCountInString(text)
	}
	return totalTextLength < r.config.ScanTextThreshold
}

// readTextLayer extracts the text layer of every page.
func (r *Reader) readTextLayer(pdfReader *pdf.Reader) (*document.Extraction, error) {
	totalPages := pdfReader.NumPage()
	pages := make([]document.ExtractedPage, 0, totalPages)
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		pages = append(pages, document.ExtractedPage{
			Number: pageIndex,
			Text:   extractPageText(pdfReader, pageIndex),
		})
	}
	return &document.Extraction{
		Method: document.MethodDirectPDF,
		Pages:  pages,
	}, nil
}

// readScanned OCRs the embedded page images of a scanned PDF.
// knownPages carries the page count when the text-layer reader managed
// to open the file, zero otherwise.
func (r *Reader) readScanned(ctx context.Context, data []byte, knownPages int) (*document.Extraction, error) {
	if r.config.OCRExtractor == nil {
		return nil, document.NewError(document.CodeScannedPDFOCRFailed,
			"PDF appears to be scanned but no OCR extractor is configured")
	}

	conf := model.NewDefaultConfiguration()
	conf.Cmd = model.EXTRACTIMAGES
	pdfcpuCtx, err := pdfcpuAPI.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, document.NewError(document.CodePDFConvertFailed,
			fmt.Sprintf("no images could be rendered from PDF: %v", err))
	}

	totalPages := pdfcpuCtx.PageCount
	if totalPages == 0 {
		totalPages = knownPages
	}
	if totalPages == 0 {
		return nil, document.NewError(document.CodePDFConvertFailed,
			"no images could be rendered from PDF")
	}

	pages := make([]document.ExtractedPage, 0, totalPages)
	rendered := 0
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		imageData, err := pageImageData(pdfcpuCtx, pageIndex)
		if err != nil {
			pages = append(pages, document.ExtractedPage{
				Number: pageIndex,
				Err:    err.Error(),
			})
			continue
		}
		rendered++

		pages = append(pages, r.ocrPage(ctx, pageIndex, imageData))
	}

	if rendered == 0 {
		return nil, document.NewError(document.CodePDFConvertFailed,
			"no images could be rendered from PDF")
	}

	return &document.Extraction{
		Method: document.MethodOCRAPI,
		Pages:  pages,
	}, nil
}

// ocrPage runs one page image through the OCR extractor. A page-level
// failure is recorded on the page so the remaining pages still go out.
func (r *Reader) ocrPage(ctx context.Context, pageIndex int, imageData []byte) document.ExtractedPage {
	var opts []ocr.Option
	if r.config.OCRPrompt != "" {
		opts = append(opts, ocr.WithPrompt(r.config.OCRPrompt))
	}
	opts = append(opts, r.config.OCROptions...)
	text, err := r.config.OCRExtractor.ExtractText(ctx, imageData, opts...)
	if err != nil {
		return document.ExtractedPage{Number: pageIndex, Err: err.Error()}
	}
	return document.ExtractedPage{
		Number: pageIndex,
		Data:   jsonutil.SafeLoads(text),
	}
}

// pageImageData returns the raw bytes of the largest image embedded on
// a page. Scanned PDFs carry one full-page image per page.
func pageImageData(pdfcpuCtx *model.Context, pageIndex int) ([]byte, error) {
	pageImages, err := pdfcpu.ExtractPageImages(pdfcpuCtx, pageIndex, false)
	if err != nil {
		return nil, fmt.Errorf("extract images from page %d: %w", pageIndex, err)
	}
	if len(pageImages) == 0 {
		return nil, fmt.Errorf("no image content on page %d", pageIndex)
	}

	var best []byte
	for _, img := range pageImages {
		if img.Reader == nil {
			continue
		}
		data, err := io.ReadAll(img.Reader)
		if err != nil || len(data) == 0 {
			continue
		}
		if len(data) > len(best) {
			best = data
		}
	}
	if len(best) == 0 {
		return nil, fmt.Errorf("no image data available on page %d", pageIndex)
	}
	return best, nil
}

// extractPageText extracts the trimmed text of a single PDF page.
func extractPageText(pdfReader *pdf.Reader, pageIndex int) string {
	page := pdfReader.Page(pageIndex)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "PDFReader"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
