// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/middleware"
	"github.com/raay-sa/raay-web/internal/session"
)

// SessionHandler stores and clears the authenticated session state. The
// frontend posts the tokens it received from the upstream login flow and
// every later consumer (header, SSO, interest) reads them from here.
type SessionHandler struct {
	sm *scs.SessionManager
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sm *scs.SessionManager) *SessionHandler {
	return &SessionHandler{sm: sm}
}

// Put handles POST /api/session.
func (h *SessionHandler) Put(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	var auth session.Auth
	if err := json.NewDecoder(r.Body).Decode(&auth); err != nil || auth.Token == "" {
		writeJSONError(w, http.StatusBadRequest, i18n.T(lang, "error.generic"), false)
		return
	}

	if err := session.PutAuth(r.Context(), h.sm, &auth); err != nil {
		writeJSONError(w, http.StatusInternalServerError, i18n.T(lang, "error.generic"), true)
		return
	}

	// Rotate the session token on privilege change.
	if err := h.sm.RenewToken(r.Context()); err != nil {
		writeJSONError(w, http.StatusInternalServerError, i18n.T(lang, "error.generic"), true)
		return
	}

	writeJSONSuccess(w, nil)
}

// Status handles GET /api/session, reporting whether a signed-in state
// exists without exposing the tokens.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	auth, ok := session.GetAuth(r.Context(), h.sm)
	data := map[string]any{"authenticated": ok}
	if ok && len(auth.User) > 0 {
		data["user"] = json.RawMessage(auth.User)
	}
	writeJSONSuccess(w, data)
}

// Delete handles DELETE /api/session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session.ClearAuth(r.Context(), h.sm)
	_ = h.sm.RenewToken(r.Context())
	writeJSONSuccess(w, nil)
}
