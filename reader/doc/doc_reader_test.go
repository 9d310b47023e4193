//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package doc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/reader"
)

func TestRead_RequiresConversion(t *testing.T) {
	r := New()
	oleHeader := []byte("\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1 legacy word data")

	_, err := r.Read(context.Background(), oleHeader)
	require.Error(t, err)

	typed := document.AsError(err, document.CodeProcessingFailed)
	assert.Equal(t, document.CodeDocRequiresConvert, typed.Code)
	assert.Contains(t, typed.Detail, "convert")
	assert.NotEmpty(t, typed.Suggestion)
}

func TestReader_Metadata(t *testing.T) {
	r := New()
	assert.Equal(t, "DOCReader", r.Name())
	assert.Equal(t, []string{".doc"}, r.SupportedExtensions())

	_, ok := reader.GetReader(".doc")
	assert.True(t, ok)
}
