//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `Invoice from ACME Corp
Contact: billing@acme example... billing@acme.com or sales@acme.com
Phone: 555-123-4567
Date: 2024-03-15
Total: $1,234.56`

func TestFields_PromptGating(t *testing.T) {
	// The prompt asks only for emails; other fields stay out even
	// though the text contains them.
	fields := Fields(sampleText, "Extract all email addresses")
	assert.Equal(t, []string{"billing@acme.com", "sales@acme.com"}, fields["email"])
	assert.NotContains(t, fields, "phone")
	assert.NotContains(t, fields, "date")
	assert.NotContains(t, fields, "amount")
}

func TestFields_SingleMatchIsScalar(t *testing.T) {
	fields := Fields(sampleText, "find the phone number and the total amount")
	assert.Equal(t, "555-123-4567", fields["phone"])
	assert.Equal(t, "$1,234.56", fields["amount"])
}

func TestFields_Date(t *testing.T) {
	fields := Fields(sampleText, "what is the invoice date?")
	assert.Equal(t, "2024-03-15", fields["date"])
}

func TestFields_ChineseKeywords(t *testing.T) {
	text := "发票金额：￥2,500.00，联系电话 555-987-6543"
	fields := Fields(text, "提取金额和电话")
	assert.Equal(t, "￥2,500.00", fields["amount"])
	assert.Equal(t, "555-987-6543", fields["phone"])
}

func TestFields_NoMatches(t *testing.T) {
	fields := Fields("nothing structured here", "extract emails and dates")
	assert.Empty(t, fields)
}

func TestProcess(t *testing.T) {
	content := Process("  Total: $42.00  ", "extract the amount")
	require.NotNil(t, content)
	assert.Equal(t, "Total: $42.00", content.RawText)
	assert.Equal(t, "$42.00", content.ExtractedFields["amount"])
	assert.Equal(t, 2, content.WordCount)
	assert.Equal(t, 13, content.CharacterCount)
}

func TestProcess_Empty(t *testing.T) {
	content := Process("   \n  ", "extract everything")
	require.NotNil(t, content)
	assert.Equal(t, "", content.RawText)
	assert.Empty(t, content.ExtractedFields)
	assert.Zero(t, content.WordCount)
	assert.Zero(t, content.CharacterCount)
}
