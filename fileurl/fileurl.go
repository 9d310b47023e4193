//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package fileurl normalizes file references handed over by plugin
// hosts. Hosts pass files in several shapes: a bare URL string, a JSON
// object with one of a few well-known keys, or a list of such values.
// Relative paths are resolved against a base URL discovered from the
// deployment environment.
package fileurl

import (
	"encoding/json"
	"os"
	"strings"
)

// urlKeys are the object fields checked, in order, when a file is
// passed as a structured value.
var urlKeys = []string{"url", "file_url", "image_url", "image", "src", "href", "value"}

// baseURLEnvs are consulted, in order, for the file host base.
var baseURLEnvs = []string{"FILES_URL", "INTERNAL_FILES_URL"}

// Extract pulls a file URL out of a host-supplied value. It accepts a
// plain string, a JSON-encoded string, a map with one of the common URL
// keys, or a list whose first resolvable element wins. An empty string
// means no URL could be extracted.
func Extract(value any) string {
	switch v := value.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return ""
		}
		if looksLikeJSON(text) {
			var decoded any
			if err := json.Unmarshal([]byte(text), &decoded); err == nil {
				return Extract(decoded)
			}
			return text
		}
		return text
	case map[string]any:
		for _, key := range urlKeys {
			candidate, ok := v[key]
			if !ok {
				continue
			}
			switch c := candidate.(type) {
			case string:
				if s := strings.TrimSpace(c); s != "" {
					return s
				}
			case map[string]any, []any:
				if extracted := Extract(c); extracted != "" {
					return extracted
				}
			}
		}
		return ""
	case []any:
		for _, item := range v {
			if extracted := Extract(item); extracted != "" {
				return extracted
			}
		}
		return ""
	default:
		return ""
	}
}

// Absolutize resolves a relative file path against base. Absolute URLs
// pass through untouched. Stray quotes around the path are stripped and
// a single leading slash is guaranteed before joining.
func Absolutize(url, base string) string {
	if url == "" {
		return url
	}
	if IsAbsolute(url) {
		return url
	}
	if len(url) >= 2 {
		if (url[0] == '"' && url[len(url)-1] == '"') || (url[0] == '\'' && url[len(url)-1] == '\'') {
			url = url[1 : len(url)-1]
		}
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	if base == "" {
		return url
	}
	return strings.TrimRight(base, "/") + url
}

// AutoBaseURL discovers the file host base from the environment. It
// checks FILES_URL and INTERNAL_FILES_URL first; when neither is set
// and REMOTE_INSTALL_URL points at a local daemon, local development is
// assumed and http://localhost is returned.
func AutoBaseURL() string {
	for _, key := range baseURLEnvs {
		v := os.Getenv(key)
		if IsAbsolute(v) {
			return strings.TrimRight(v, "/")
		}
	}
	remote := os.Getenv("REMOTE_INSTALL_URL")
	if remote != "" && (strings.Contains(remote, "localhost") || strings.Contains(remote, "127.0.0.1")) {
		return "http://localhost"
	}
	return ""
}

// IsAbsolute reports whether url carries an http or https scheme.
func IsAbsolute(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func looksLikeJSON(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}
