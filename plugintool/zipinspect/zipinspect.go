//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package zipinspect exposes a ZIP archive inspector as a callable
// plugin tool. It lists the archive members with size, hash and type
// metadata without extracting anything to disk.
package zipinspect

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/internal/httpclient"
	"github.com/smartdoc-parser/smartdoc-go/tool"
	"github.com/smartdoc-parser/smartdoc-go/tool/function"
)

// ToolName identifies the tool towards the host.
const ToolName = "zip_file_inspector"

const toolDescription = "Download a ZIP archive by URL and list its " +
	"files with size, SHA-256, MIME type and extension, optionally " +
	"including the file contents as base64."

// Error codes specific to archive inspection.
const (
	CodeNotZip      = "not_zip"
	CodeUnzipFailed = "unzip_failed"
)

var zipMagic = []byte("PK\x03\x04")

// Input is the tool invocation payload.
type Input struct {
	FileURL           string `json:"file_url" jsonschema:"description=URL of the ZIP archive to inspect,required"`
	IncludeContentB64 bool   `json:"include_content_b64,omitempty" jsonschema:"description=Include each file's content as base64"`
	MaxFiles          int    `json:"max_files,omitempty" jsonschema:"description=Limit the number of files listed"`
}

// FileInfo describes one archive member.
type FileInfo struct {
	Filename      string `json:"filename"`
	Size          int    `json:"size"`
	MimeType      string `json:"mime_type"`
	Extension     string `json:"extension"`
	SHA256        string `json:"sha256"`
	URL           any    `json:"url"`
	ContentBase64 string `json:"content_base64,omitempty"`
}

// Summary describes the archive as a whole.
type Summary struct {
	SourceURL string `json:"source_url"`
	NumFiles  int    `json:"num_files"`
}

// Output is the tool result.
type Output struct {
	Zip   Summary    `json:"zip"`
	Files []FileInfo `json:"files"`
}

// Inspector downloads and inspects ZIP archives.
type Inspector struct {
	httpClient *httpclient.Client
}

// Option configures the Inspector.
type Option func(*Inspector)

// WithHTTPClient sets the download client.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(i *Inspector) {
		if c != nil {
			i.httpClient = c
		}
	}
}

// NewInspector creates a ZIP archive Inspector.
func NewInspector(opts ...Option) *Inspector {
	i := &Inspector{httpClient: httpclient.New()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// New builds the zip_file_inspector tool.
func New(opts ...Option) tool.CallableTool {
	inspector := NewInspector(opts...)
	return function.NewFunctionTool(
		inspector.Inspect,
		function.WithName(ToolName),
		function.WithDescription(toolDescription),
	)
}

// Inspect downloads the archive and lists its members.
func (i *Inspector) Inspect(ctx context.Context, in Input) (*Output, error) {
	fileURL := strings.TrimSpace(in.FileURL)
	if fileURL == "" {
		return nil, document.NewError(document.CodeInvalidFileURL,
			"Missing required parameter: file_url")
	}

	data, _, err := i.httpClient.Get(ctx, fileURL)
	if err != nil {
		return nil, document.NewError(document.CodeDownloadFailed, err.Error())
	}
	if !bytes.HasPrefix(data, zipMagic) {
		return nil, document.NewError(CodeNotZip, "Provided file is not a ZIP archive")
	}

	files, err := listMembers(data, in.IncludeContentB64, in.MaxFiles)
	if err != nil {
		return nil, document.NewError(CodeUnzipFailed, err.Error())
	}

	return &Output{
		Zip:   Summary{SourceURL: fileURL, NumFiles: len(files)},
		Files: files,
	}, nil
}

// listMembers reads the archive members, skipping directories.
// maxFiles <= 0 means no limit.
func listMembers(data []byte, includeB64 bool, maxFiles int) ([]FileInfo, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(zipReader.File))
	for _, member := range zipReader.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if maxFiles > 0 && len(files) >= maxFiles {
			break
		}

		rc, err := member.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		sum := sha256.Sum256(content)
		info := FileInfo{
			Filename:  member.Name,
			Size:      len(content),
			MimeType:  mimeType(member.Name),
			Extension: extension(member.Name),
			SHA256:    hex.EncodeToString(sum[:]),
			URL:       nil,
		}
		if includeB64 {
			info.ContentBase64 = base64.StdEncoding.EncodeToString(content)
		}
		files = append(files, info)
	}
	return files, nil
}

// mimeType guesses the media type from the file name.
func mimeType(name string) string {
	t := mime.TypeByExtension(path.Ext(name))
	if t == "" {
		return "application/octet-stream"
	}
	if idx := strings.IndexByte(t, ';'); idx >= 0 {
		t = strings.TrimSpace(t[:idx])
	}
	return t
}

// extension returns the lower-cased extension without the dot.
func extension(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	return strings.ToLower(ext)
}
