// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/raay-sa/raay-web/internal/session"
	"github.com/raay-sa/raay-web/internal/sso"
)

// LoginRoute is where users without credentials are sent instead of SSO.
const LoginRoute = "/login"

// SSOHandler hands the user off to the external dashboard.
type SSOHandler struct {
	sso *sso.Service
	sm  *scs.SessionManager
}

// NewSSOHandler creates an SSO handler.
func NewSSOHandler(svc *sso.Service, sm *scs.SessionManager) *SSOHandler {
	return &SSOHandler{sso: svc, sm: sm}
}

// Redirect handles GET /sso. Without any stored credentials the user goes
// to the login page; otherwise the freshest available token is carried to
// the dashboard.
func (h *SSOHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	redirectPath := sanitizeRedirect(r.URL.Query().Get("redirect"))

	auth, _ := session.GetAuth(r.Context(), h.sm)
	token, updated := h.sso.ValidToken(r.Context(), auth)
	if updated != nil {
		_ = session.PutAuth(r.Context(), h.sm, updated)
	}

	if token == "" {
		http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.sso.LoginURL(token, redirectPath), http.StatusSeeOther)
}

// sanitizeRedirect keeps the redirect inside the dashboard. Absolute URLs
// and scheme-relative values are rejected to prevent open redirects.
func sanitizeRedirect(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}
