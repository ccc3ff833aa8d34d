// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/raay-sa/raay-web/internal/auth"
	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/middleware"
)

// PasswordHandler gives live feedback on password strength during
// registration. The actual credential change happens upstream.
type PasswordHandler struct{}

// NewPasswordHandler creates a password handler.
func NewPasswordHandler() *PasswordHandler {
	return &PasswordHandler{}
}

// Check handles POST /api/password/check.
func (h *PasswordHandler) Check(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, i18n.T(lang, "error.generic"), false)
		return
	}

	if msg, err := auth.Validate(body.Password, lang); err != nil {
		writeJSONErrorData(w, http.StatusUnprocessableEntity, msg, false, map[string]any{
			"strength": auth.StrengthWeak,
			"score":    auth.Score(body.Password),
		})
		return
	}

	strength := auth.Strength(body.Password)
	data := map[string]any{
		"strength": strength,
		"score":    auth.Score(body.Password),
	}
	if strength == auth.StrengthWeak {
		data["message"] = i18n.T(lang, "password.weak")
	}
	writeJSONSuccess(w, data)
}
