//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package fileurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{
			name:  "plain string",
			value: "  https://example.com/a.pdf  ",
			want:  "https://example.com/a.pdf",
		},
		{
			name:  "empty string",
			value: "   ",
			want:  "",
		},
		{
			name:  "json encoded object",
			value: `{"url": "https://example.com/a.pdf"}`,
			want:  "https://example.com/a.pdf",
		},
		{
			name:  "json encoded list",
			value: `["https://example.com/a.pdf"]`,
			want:  "https://example.com/a.pdf",
		},
		{
			name:  "malformed json passes through as text",
			value: `{not json}`,
			want:  `{not json}`,
		},
		{
			name:  "map with url key",
			value: map[string]any{"url": "https://example.com/a.pdf"},
			want:  "https://example.com/a.pdf",
		},
		{
			name:  "map prefers url over file_url",
			value: map[string]any{"file_url": "/files/b.pdf", "url": "/files/a.pdf"},
			want:  "/files/a.pdf",
		},
		{
			name:  "map with image key",
			value: map[string]any{"image": "/files/scan.png"},
			want:  "/files/scan.png",
		},
		{
			name:  "map with nested value",
			value: map[string]any{"value": map[string]any{"href": "/files/a.pdf"}},
			want:  "/files/a.pdf",
		},
		{
			name:  "map without url fields",
			value: map[string]any{"name": "a.pdf"},
			want:  "",
		},
		{
			name:  "list takes first resolvable",
			value: []any{"", map[string]any{"src": "/files/a.png"}},
			want:  "/files/a.png",
		},
		{
			name:  "unsupported type",
			value: 42,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.value))
		})
	}
}

func TestAbsolutize(t *testing.T) {
	tests := []struct {
		name string
		url  string
		base string
		want string
	}{
		{
			name: "absolute url untouched",
			url:  "https://example.com/a.pdf",
			base: "http://files.local",
			want: "https://example.com/a.pdf",
		},
		{
			name: "relative path joined",
			url:  "/files/a.pdf",
			base: "http://files.local",
			want: "http://files.local/files/a.pdf",
		},
		{
			name: "missing leading slash added",
			url:  "files/a.pdf",
			base: "http://files.local",
			want: "http://files.local/files/a.pdf",
		},
		{
			name: "trailing slash on base trimmed",
			url:  "/files/a.pdf",
			base: "http://files.local///",
			want: "http://files.local/files/a.pdf",
		},
		{
			name: "quoted path unquoted",
			url:  `"/files/a.pdf"`,
			base: "http://files.local",
			want: "http://files.local/files/a.pdf",
		},
		{
			name: "no base keeps relative path",
			url:  "files/a.pdf",
			base: "",
			want: "/files/a.pdf",
		},
		{
			name: "empty url",
			url:  "",
			base: "http://files.local",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Absolutize(tt.url, tt.base))
		})
	}
}

func TestAutoBaseURL(t *testing.T) {
	t.Run("files url wins", func(t *testing.T) {
		t.Setenv("FILES_URL", "https://files.example.com/")
		t.Setenv("INTERNAL_FILES_URL", "http://internal:5001")
		assert.Equal(t, "https://files.example.com", AutoBaseURL())
	})

	t.Run("internal files url fallback", func(t *testing.T) {
		t.Setenv("FILES_URL", "")
		t.Setenv("INTERNAL_FILES_URL", "http://internal:5001")
		t.Setenv("REMOTE_INSTALL_URL", "")
		assert.Equal(t, "http://internal:5001", AutoBaseURL())
	})

	t.Run("non-http env ignored", func(t *testing.T) {
		t.Setenv("FILES_URL", "files.example.com")
		t.Setenv("INTERNAL_FILES_URL", "")
		t.Setenv("REMOTE_INSTALL_URL", "")
		assert.Equal(t, "", AutoBaseURL())
	})

	t.Run("local daemon heuristic", func(t *testing.T) {
		t.Setenv("FILES_URL", "")
		t.Setenv("INTERNAL_FILES_URL", "")
		t.Setenv("REMOTE_INSTALL_URL", "localhost:5003")
		assert.Equal(t, "http://localhost", AutoBaseURL())
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv("FILES_URL", "")
		t.Setenv("INTERNAL_FILES_URL", "")
		t.Setenv("REMOTE_INSTALL_URL", "")
		assert.Equal(t, "", AutoBaseURL())
	})
}

func TestIsAbsolute(t *testing.T) {
	assert.True(t, IsAbsolute("http://a"))
	assert.True(t, IsAbsolute("https://a"))
	assert.False(t, IsAbsolute("ftp://a"))
	assert.False(t, IsAbsolute("/files/a.pdf"))
}
