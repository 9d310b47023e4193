//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package tool provides internal utilities for tool schema generation.
package tool

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/smartdoc-parser/smartdoc-go/log"
	"github.com/smartdoc-parser/smartdoc-go/tool"
)

// GenerateJSONSchema generates a basic JSON schema from a reflect.Type.
// Tool inputs and outputs in this plugin are flat or shallowly nested
// structs, so recursive type definitions are not handled.
func GenerateJSONSchema(t reflect.Type) *tool.Schema {
	return generateSchema(t)
}

func generateSchema(t reflect.Type) *tool.Schema {
	switch t.Kind() {
	case reflect.Ptr:
		return generateSchema(t.Elem())
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &tool.Schema{
			Type:  "array",
			Items: generateSchema(t.Elem()),
		}
	case reflect.Map:
		return &tool.Schema{
			Type:                 "object",
			AdditionalProperties: generateSchema(t.Elem()),
		}
	case reflect.Struct:
		return generateStructSchema(t)
	default:
		// Default to any type.
		return &tool.Schema{Type: "object"}
	}
}

func generateStructSchema(t reflect.Type) *tool.Schema {
	schema := &tool.Schema{
		Type:       "object",
		Properties: map[string]*tool.Schema{},
	}
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		// Get JSON tag or use field name.
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		isOmitEmpty := false
		if jsonTag != "" {
			if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
				fieldName = jsonTag[:commaIdx]
				isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
			} else {
				fieldName = jsonTag
			}
		}

		fieldSchema := generateSchema(field.Type)

		isRequiredByTag, err := parseJSONSchemaTag(field.Type, field.Tag, fieldSchema)
		if err != nil {
			log.Errorf("parseJSONSchemaTag error for field %s: %v", fieldName, err)
		}

		// A field is required when it is a non-pointer without omitempty,
		// or when the jsonschema tag marks it as required.
		if (field.Type.Kind() != reflect.Ptr && !isOmitEmpty) || isRequiredByTag {
			required = append(required, fieldName)
		}

		schema.Properties[fieldName] = fieldSchema
	}

	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

// parseJSONSchemaTag parses the jsonschema struct tag and applies the
// settings to the schema.
// Supported struct tags:
//  1. jsonschema: "description=xxx"
//  2. jsonschema: "enum=xxx,enum=yyy"
//  3. jsonschema: "required"
func parseJSONSchemaTag(fieldType reflect.Type, tag reflect.StructTag, schema *tool.Schema) (bool, error) {
	jsonSchemaTag := tag.Get("jsonschema")
	if len(jsonSchemaTag) == 0 {
		return false, nil
	}

	isRequiredByTag := false
	for _, tagItem := range strings.Split(jsonSchemaTag, ",") {
		kv := strings.SplitN(tagItem, "=", 2)
		if len(kv) == 2 {
			key, value := kv[0], kv[1]
			switch key {
			case "description":
				schema.Description = value
			case "enum":
				if err := appendEnum(fieldType, value, schema); err != nil {
					return false, err
				}
			}
		} else if kv[0] == "required" {
			isRequiredByTag = true
		}
	}

	return isRequiredByTag, nil
}

func appendEnum(fieldType reflect.Type, value string, schema *tool.Schema) error {
	switch fieldType.Kind() {
	case reflect.String:
		schema.Enum = append(schema.Enum, value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("parse enum value %v to int64 failed: %w", value, err)
		}
		schema.Enum = append(schema.Enum, v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("parse enum value %v to float64 failed: %w", value, err)
		}
		schema.Enum = append(schema.Enum, v)
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parse enum value %v to bool failed: %w", value, err)
		}
		schema.Enum = append(schema.Enum, v)
	default:
		return fmt.Errorf("enum tag unsupported for field type: %v", fieldType)
	}
	return nil
}
