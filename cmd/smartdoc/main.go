//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package main runs the document parser, either as an HTTP tool server
// or as a one-shot command-line parse.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/smartdoc-parser/smartdoc-go/log"
	"github.com/smartdoc-parser/smartdoc-go/ocr"
	"github.com/smartdoc-parser/smartdoc-go/parser"
	"github.com/smartdoc-parser/smartdoc-go/plugintool/jsoncsv"
	"github.com/smartdoc-parser/smartdoc-go/plugintool/pdfocr"
	"github.com/smartdoc-parser/smartdoc-go/plugintool/smartdoc"
	"github.com/smartdoc-parser/smartdoc-go/plugintool/zipinspect"
	"github.com/smartdoc-parser/smartdoc-go/provider"
	"github.com/smartdoc-parser/smartdoc-go/server"

	// Register the document readers.
	_ "github.com/smartdoc-parser/smartdoc-go/reader/doc"
	_ "github.com/smartdoc-parser/smartdoc-go/reader/docx"
	_ "github.com/smartdoc-parser/smartdoc-go/reader/image"
	_ "github.com/smartdoc-parser/smartdoc-go/reader/markdown"
	_ "github.com/smartdoc-parser/smartdoc-go/reader/pdf"
	_ "github.com/smartdoc-parser/smartdoc-go/reader/text"
)

var (
	addr     = flag.String("addr", defaultAddr(), "Listen address of the tool server")
	parseURL = flag.String("parse", "", "Parse one document URL and print the result instead of serving")
	prompt   = flag.String("prompt", "Extract all text content", "Extraction prompt for one-shot parsing")
	logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
)

func defaultAddr() string {
	if addr := os.Getenv("SMARTDOC_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

func main() {
	flag.Parse()
	log.SetLevel(*logLevel)

	extractor := newExtractor()

	p := parser.New(parser.WithOCRExtractor(extractor))

	if *parseURL != "" {
		runOnce(p, *parseURL, *prompt)
		return
	}

	srv := server.New(
		server.WithTool(smartdoc.New(p)),
		server.WithTool(pdfocr.New(pdfocr.WithOCRExtractor(extractor))),
		server.WithTool(zipinspect.New()),
		server.WithTool(jsoncsv.New()),
	)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// newExtractor builds the DashScope extractor from the environment.
// Without a key the parser still handles text-based documents; OCR
// paths return their typed errors.
func newExtractor() ocr.Extractor {
	creds := provider.Credentials{
		APIKey:  os.Getenv("ALIYUN_API_KEY"),
		BaseURL: os.Getenv("ALIYUN_BASE_URL"),
		Model:   os.Getenv("ALIYUN_OCR_MODEL"),
	}
	extractor, err := creds.Extractor()
	if err != nil {
		log.Warnf("OCR disabled: %v", err)
		return nil
	}
	return extractor
}

func runOnce(p *parser.Parser, fileURL, prompt string) {
	result, err := p.Parse(context.Background(), fileURL, prompt)
	if err != nil {
		out, _ := json.MarshalIndent(err, "", "  ")
		fmt.Fprintln(os.Stderr, string(out))
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
