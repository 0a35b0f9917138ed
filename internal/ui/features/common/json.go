// Package common provides helpers shared by the console features.
package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValidJSON reports whether content parses as a JSON value.
func ValidJSON(content string) bool {
	return json.Valid([]byte(content))
}

// Indent pretty-prints a JSON document for display. Input that is not valid
// JSON is returned unchanged.
func Indent(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ClassNames lists the class names of a schema document in schema order.
func ClassNames(schema []byte) ([]string, error) {
	var doc struct {
		Classes []struct {
			Class string `json:"class"`
		} `json:"classes"`
	}
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	names := make([]string, 0, len(doc.Classes))
	for _, c := range doc.Classes {
		if strings.TrimSpace(c.Class) != "" {
			names = append(names, c.Class)
		}
	}
	return names, nil
}

// Contains reports whether name is one of names.
func Contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
