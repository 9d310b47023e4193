//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package jsonutil provides tolerant JSON decoding helpers for model
// output, which is not always well-formed.
package jsonutil

import (
	"encoding/json"
	"strings"
)

// SafeLoads decodes s as JSON. When s is not valid JSON the raw string
// is preserved under a "raw" key instead of being dropped.
func SafeLoads(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return map[string]any{"raw": s}
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v
	}
	// Models frequently wrap JSON in a markdown code fence.
	if fenced, ok := stripCodeFence(trimmed); ok {
		if err := json.Unmarshal([]byte(fenced), &v); err == nil {
			return v
		}
	}
	return map[string]any{"raw": s}
}

// stripCodeFence removes a surrounding ```...``` block, with or without
// a language tag on the opening fence.
func stripCodeFence(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return "", false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", false
	}
	return body, true
}
