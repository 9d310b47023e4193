//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package jsoncsv exposes a JSON-to-CSV converter as a callable plugin
// tool. Extraction results from the document parser are JSON objects;
// this flattens them into a spreadsheet-friendly CSV.
package jsoncsv

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/tool"
	"github.com/smartdoc-parser/smartdoc-go/tool/function"
)

// ToolName identifies the tool towards the host.
const ToolName = "json_to_csv"

const toolDescription = "Convert a JSON array (or an array of JSON " +
	"strings) into CSV. Nested objects are flattened to dot-notation " +
	"columns and lists are kept as JSON strings."

// CodeInvalidJSON reports unparseable or non-array input.
const CodeInvalidJSON = "invalid_json"

// Input is the tool invocation payload. json_data stays raw so member
// order in the source document can drive column order.
type Input struct {
	JSONData json.RawMessage `json:"json_data"`
	Filename string          `json:"filename,omitempty"`
}

// Output is the tool result. The CSV text carries a UTF-8 BOM so
// spreadsheet applications pick up the encoding.
type Output struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	CSV      string `json:"csv"`
	Rows     int    `json:"rows"`
}

var inputSchema = &tool.Schema{
	Type: "object",
	Properties: map[string]*tool.Schema{
		"json_data": {
			Type:        "string",
			Description: "A JSON array, or an array of JSON strings, to convert.",
		},
		"filename": {
			Type:        "string",
			Description: "Output file name. \".csv\" is appended when missing.",
		},
	},
	Required: []string{"json_data"},
}

// New builds the json_to_csv tool.
func New() tool.CallableTool {
	return function.NewFunctionTool(
		Convert,
		function.WithName(ToolName),
		function.WithDescription(toolDescription),
		function.WithInputSchema(inputSchema),
	)
}

// Convert parses the input rows and renders the CSV.
func Convert(ctx context.Context, in Input) (*Output, error) {
	rows, err := collectRows(in.JSONData)
	if err != nil {
		return nil, err
	}

	csvContent, err := toCSV(rows)
	if err != nil {
		return nil, document.NewError(document.CodeProcessingFailed,
			fmt.Sprintf("Failed to convert JSON to CSV: %v", err))
	}

	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		filename = "export_" + time.Now().Format("20060102_150405")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		filename += ".csv"
	}

	rowCount := strings.Count(csvContent, "\r\n")
	return &Output{
		Filename: filename,
		MimeType: "text/csv",
		CSV:      "\uFEFF" + csvContent,
		Rows:     rowCount,
	}, nil
}

// collectRows normalizes the input into a flat list of row values.
// Items that are JSON strings get parsed; nested arrays are spliced in;
// primitives become {"value": ..., "source_index": ...} rows.
func collectRows(raw json.RawMessage) ([]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, document.NewError(document.CodeInvalidParams,
			"Missing required parameter: json_data")
	}

	// The host may pass the array as a JSON-encoded string.
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, document.NewError(CodeInvalidJSON,
				fmt.Sprintf("Invalid JSON array format: %v", err))
		}
		trimmed = bytes.TrimSpace([]byte(s))
	}

	parsed, err := parseOrdered(trimmed)
	if err != nil {
		return nil, document.NewError(CodeInvalidJSON,
			fmt.Sprintf("Invalid JSON array format: %v", err))
	}
	list, ok := parsed.([]any)
	if !ok {
		return nil, document.NewError(CodeInvalidJSON,
			"json_data must be a JSON array of JSON strings")
	}
	if len(list) == 0 {
		return nil, document.NewError(CodeInvalidJSON,
			"json_data array cannot be empty")
	}

	var rows []any
	for i, item := range list {
		if s, isString := item.(string); isString {
			parsedItem, err := parseOrdered([]byte(strings.TrimSpace(s)))
			if err != nil {
				return nil, document.NewError(CodeInvalidJSON,
					fmt.Sprintf("Invalid JSON in item %d: %v", i, err))
			}
			item = parsedItem
		}
		switch v := item.(type) {
		case *object:
			rows = append(rows, v)
		case []any:
			rows = append(rows, v...)
		default:
			wrapped := newObject()
			wrapped.set("value", v)
			wrapped.set("source_index", json.Number(strconv.Itoa(i)))
			rows = append(rows, wrapped)
		}
	}
	return rows, nil
}

// toCSV renders the rows with CRLF line endings and no trailing newline.
func toCSV(rows []any) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if allObjects(rows) {
		if err := writeObjectRows(w, rows); err != nil {
			return "", err
		}
	} else {
		if err := writeValueRows(w, rows); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\r\n"), nil
}

func allObjects(rows []any) bool {
	for _, row := range rows {
		if _, ok := row.(*object); !ok {
			return false
		}
	}
	return len(rows) > 0
}

// writeObjectRows flattens every row and writes a header-driven table.
// Column order follows the first row; keys new to later rows are
// appended in sorted order.
func writeObjectRows(w *csv.Writer, rows []any) error {
	flattened := make([]*object, 0, len(rows))
	for _, row := range rows {
		flat := newObject()
		flatten(row.(*object), "", flat)
		flattened = append(flattened, flat)
	}

	fieldnames := append([]string{}, flattened[0].keys...)
	seen := map[string]bool{}
	for _, key := range fieldnames {
		seen[key] = true
	}
	for _, flat := range flattened[1:] {
		var newKeys []string
		for _, key := range flat.keys {
			if !seen[key] {
				seen[key] = true
				newKeys = append(newKeys, key)
			}
		}
		sort.Strings(newKeys)
		fieldnames = append(fieldnames, newKeys...)
	}

	if err := w.Write(fieldnames); err != nil {
		return err
	}
	for _, flat := range flattened {
		record := make([]string, len(fieldnames))
		for i, key := range fieldnames {
			if value, ok := flat.values[key]; ok {
				record[i] = toCell(value)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// writeValueRows renders a single "value" column for primitive or
// mixed input.
func writeValueRows(w *csv.Writer, rows []any) error {
	if err := w.Write([]string{"value"}); err != nil {
		return err
	}
	for _, row := range rows {
		switch v := row.(type) {
		case *object, []any:
			encoded, err := marshalValue(v)
			if err != nil {
				return err
			}
			if err := w.Write([]string{string(encoded)}); err != nil {
				return err
			}
		default:
			if err := w.Write([]string{stringify(v)}); err != nil {
				return err
			}
		}
	}
	return nil
}

func toCell(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return stringify(value)
}
