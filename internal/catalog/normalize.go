// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// listDelimiters are tried in order when a list arrives as a plain string.
// Splitting on commas can mis-split legitimate text; it is deliberately the
// last resort.
var listDelimiters = []string{"\n", "•", "؛", ";", ","}

// NormalizeStringList normalizes an array-or-JSON-string field into a
// []string. The upstream API delivers fields like "requirement" as a real
// JSON array, a JSON-encoded array string, or a delimited plain string.
// Returns nil for absent, null or empty input.
func NormalizeStringList(raw json.RawMessage) []string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	// Real JSON array
	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		return cleanList(stringifyAll(arr))
	}

	// JSON string: may itself contain an encoded array, or plain text
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return normalizePlainString(s)
	}

	// Anything else (number, object): render it as a single item
	return cleanList([]string{trimmed})
}

func normalizePlainString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// A JSON-encoded array hiding inside a string value
	if strings.HasPrefix(s, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return cleanList(stringifyAll(arr))
		}
	}

	for _, delim := range listDelimiters {
		if strings.Contains(s, delim) {
			return cleanList(strings.Split(s, delim))
		}
	}

	return cleanList([]string{s})
}

func stringifyAll(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch val := v.(type) {
		case string:
			out = append(out, val)
		case nil:
			// skip
		default:
			out = append(out, fmt.Sprint(val))
		}
	}
	return out
}

// cleanList trims entries, strips leading bullet markers and drops empties.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		item = strings.TrimLeft(item, "•-– \t")
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
