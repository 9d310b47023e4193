//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package extract turns directly extracted text into structured page
// content. Field extraction is pattern based and gated on the prompt:
// only fields the prompt actually asks for are matched.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/smartdoc-parser/smartdoc-go/document"
)

// fieldPattern binds a field name to its prompt keywords and value pattern.
type fieldPattern struct {
	name     string
	keywords []string
	re       *regexp.Regexp
}

// fieldPatterns covers the common structured fields of invoices,
// receipts and forms, with both English and Chinese prompt keywords.
var fieldPatterns = []fieldPattern{
	{
		name:     "email",
		keywords: []string{"email", "邮箱", "电子邮件"},
		re:       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	},
	{
		name:     "phone",
		keywords: []string{"phone", "电话", "手机"},
		re:       regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
	},
	{
		name:     "date",
		keywords: []string{"date", "日期"},
		re:       regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),
	},
	{
		name:     "amount",
		keywords: []string{"amount", "total", "金额", "总额"},
		re:       regexp.MustCompile(`(?i)[$¥￥]\s*\d+(?:,\d{3})*(?:\.\d{1,2})?|\b\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:USD|EUR|GBP|CNY|RMB|元)`),
	},
}

// Process builds the structured content for one page of directly
// extracted text.
func Process(text, prompt string) *document.Content {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &document.Content{
			RawText:         "",
			ExtractedFields: map[string]any{},
		}
	}
	return &document.Content{
		RawText:         trimmed,
		ExtractedFields: Fields(trimmed, prompt),
		WordCount:       len(strings.Fields(trimmed)),
		CharacterCount:  utf8.RuneCountInString(trimmed),
	}
}

// Fields extracts the fields the prompt asks for. A field with a single
// match is reported as a scalar, multiple matches as a list.
func Fields(text, prompt string) map[string]any {
	fields := map[string]any{}
	promptLower := strings.ToLower(prompt)

	for _, fp := range fieldPatterns {
		if !wantsField(promptLower, fp.keywords) {
			continue
		}
		matches := fp.re.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		if len(matches) == 1 {
			fields[fp.name] = matches[0]
		} else {
			fields[fp.name] = matches
		}
	}
	return fields
}

// wantsField reports whether the prompt mentions any of the keywords.
func wantsField(promptLower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(promptLower, kw) {
			return true
		}
	}
	return false
}
