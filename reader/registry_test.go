//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package reader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdoc-parser/smartdoc-go/document"
)

type stubReader struct {
	config *Config
}

func (r *stubReader) Read(ctx context.Context, data []byte) (*document.Extraction, error) {
	return &document.Extraction{Method: document.MethodDirectText}, nil
}

func (r *stubReader) Name() string { return "Stub" }

func (r *stubReader) SupportedExtensions() []string { return []string{".stub"} }

func TestRegistry(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	RegisterReader([]string{".stub", ".STUB2"}, func(opts ...Option) Reader {
		return &stubReader{config: NewConfig(opts...)}
	})

	r, ok := GetReader(".stub")
	require.True(t, ok)
	assert.Equal(t, "Stub", r.Name())

	// Extension lookup is case-insensitive both ways.
	_, ok = GetReader(".Stub2")
	assert.True(t, ok)

	_, ok = GetReader(".unknown")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{".stub", ".stub2"}, GetRegisteredExtensions())
}

func TestRegistry_OptionsReachBuilder(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	RegisterReader([]string{".stub"}, func(opts ...Option) Reader {
		return &stubReader{config: NewConfig(opts...)}
	})

	r, ok := GetReader(".stub", WithOCRPrompt("read the receipt"), WithScanDetectPages(5))
	require.True(t, ok)
	cfg := r.(*stubReader).config
	assert.Equal(t, "read the receipt", cfg.OCRPrompt)
	assert.Equal(t, 5, cfg.ScanDetectPages)
	assert.Equal(t, DefaultScanTextThreshold, cfg.ScanTextThreshold)
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, DefaultScanDetectPages, cfg.ScanDetectPages)
	assert.Equal(t, DefaultScanTextThreshold, cfg.ScanTextThreshold)
	assert.Nil(t, cfg.OCRExtractor)
}
