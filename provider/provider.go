//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package provider validates the Aliyun credentials the OCR tools run
// with. Validation checks the shape of the values only; no network
// round trip is made, so a typo'd key is caught at request time, not
// here.
package provider

import (
	"fmt"
	"strings"

	"github.com/smartdoc-parser/smartdoc-go/ocr/dashscope"
)

// Credentials carries the Aliyun DashScope settings.
type Credentials struct {
	// APIKey is the DashScope API key. Required.
	APIKey string `json:"api_key"`

	// BaseURL overrides the compatible-mode endpoint. Optional.
	BaseURL string `json:"base_url,omitempty"`

	// Model is the vision model to OCR with. Empty means the default.
	Model string `json:"model,omitempty"`
}

// ValidationError reports a credential field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid credential `%s`: %s", e.Field, e.Reason)
}

// Normalize trims whitespace and fills in defaults.
func (c Credentials) Normalize() Credentials {
	out := Credentials{
		APIKey:  strings.TrimSpace(c.APIKey),
		BaseURL: strings.TrimSpace(c.BaseURL),
		Model:   strings.TrimSpace(c.Model),
	}
	if out.Model == "" {
		out.Model = dashscope.DefaultModel
	}
	return out
}

// Validate checks the credential shape.
func (c Credentials) Validate() error {
	normalized := c.Normalize()
	if normalized.APIKey == "" {
		return &ValidationError{Field: "api_key", Reason: "is required"}
	}
	if normalized.BaseURL != "" &&
		!strings.HasPrefix(normalized.BaseURL, "http://") &&
		!strings.HasPrefix(normalized.BaseURL, "https://") {
		return &ValidationError{Field: "base_url", Reason: "must start with http:// or https://"}
	}
	return nil
}

// Extractor builds a DashScope extractor from validated credentials.
func (c Credentials) Extractor() (*dashscope.Extractor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	normalized := c.Normalize()

	opts := []dashscope.Option{
		dashscope.WithAPIKey(normalized.APIKey),
		dashscope.WithModel(normalized.Model),
	}
	if normalized.BaseURL != "" {
		opts = append(opts, dashscope.WithBaseURL(normalized.BaseURL))
	}
	return dashscope.New(opts...)
}
