// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/locale"
	"github.com/raay-sa/raay-web/internal/middleware"
)

// LanguageHandler switches the site language.
type LanguageHandler struct {
	store *locale.Store
}

// NewLanguageHandler creates a language handler.
func NewLanguageHandler(store *locale.Store) *LanguageHandler {
	return &LanguageHandler{store: store}
}

// Switch handles POST /api/language. The store notifies its subscribers,
// which purges the cached content of the selected locale, so no page
// reload is needed.
func (h *LanguageHandler) Switch(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	var body struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, i18n.T(lang, "error.generic"), false)
		return
	}

	if !locale.IsValid(body.Language) {
		writeJSONError(w, http.StatusUnprocessableEntity, i18n.T(lang, "error.invalid_language"), false)
		return
	}

	// Persist failures are swallowed inside the store; the switch still
	// takes effect for the running process.
	_ = h.store.SetLanguage(body.Language)
	middleware.SetLanguageCookie(w, body.Language)

	writeJSONSuccess(w, map[string]any{
		"language": body.Language,
		"message":  i18n.T(body.Language, "language.changed"),
	})
}
