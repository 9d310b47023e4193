//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package httpclient provides a common HTTP client for downloading
// document resources.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	headTimeout    = 10 * time.Second

	// defaultMaxBodySize caps downloads at 64 MiB. Documents beyond that
	// are not something the OCR API accepts anyway.
	defaultMaxBodySize = 64 << 20

	userAgent = "smartdoc-go/doc-fetch"
)

// Client is a shared HTTP client for document downloads.
type Client struct {
	client      *http.Client
	maxBodySize int64
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
// 0 means the default limit.
func WithMaxBodySize(limit int64) Option {
	return func(cl *Client) {
		if limit > 0 {
			cl.maxBodySize = limit
		}
	}
}

// New creates a new Client.
func New(opts ...Option) *Client {
	cl := &Client{
		client:      &http.Client{Timeout: defaultTimeout},
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Get downloads the resource at url and returns its raw bytes together
// with the response content type.
func (c *Client) Get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, "", fmt.Errorf("response body exceeds %d bytes", c.maxBodySize)
	}

	return body, mediaType(resp.Header.Get("Content-Type")), nil
}

// ContentType issues a HEAD request and returns the media type of the
// resource, without downloading the body. Redirects are followed.
func (c *Client) ContentType(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, headTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	return mediaType(resp.Header.Get("Content-Type")), nil
}

// mediaType strips parameters such as charset from a Content-Type value.
func mediaType(contentType string) string {
	return strings.TrimSpace(strings.Split(contentType, ";")[0])
}
