// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the gateway's HTTP endpoints.
package handler

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes a JSON error response. retryable tells the
// frontend whether offering a retry action makes sense.
func writeJSONError(w http.ResponseWriter, statusCode int, message string, retryable bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   false,
		"error":     message,
		"retryable": retryable,
	})
}

// writeJSONErrorData writes a JSON error response with extra payload
// fields alongside the error message.
func writeJSONErrorData(w http.ResponseWriter, statusCode int, message string, retryable bool, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	payload := map[string]any{
		"success":   false,
		"error":     message,
		"retryable": retryable,
	}
	for k, v := range data {
		payload[k] = v
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONSuccess writes a JSON success response.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	_ = json.NewEncoder(w).Encode(data)
}
