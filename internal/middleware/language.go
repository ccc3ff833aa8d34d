// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the raay-web gateway.
package middleware

import (
	"context"
	"net/http"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/locale"
)

// ContextKey is the type for request context keys set by this package.
type ContextKey string

// ContextKeyLanguage holds the resolved language code for a request.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for the language preference.
const LanguageCookieName = "raay_lang"

// Language detects the request language. Priority order:
//  1. Query parameter ?lang=XX (explicit switch, updates the cookie)
//  2. Cookie preference
//  3. Accept-Language header
//  4. Configured default
func Language(store *locale.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := resolveLanguage(w, r, store)
			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveLanguage(w http.ResponseWriter, r *http.Request, store *locale.Store) string {
	if queryLang := r.URL.Query().Get("lang"); queryLang != "" {
		if locale.IsValid(queryLang) {
			SetLanguageCookie(w, queryLang)
			return queryLang
		}
	}

	if cookie, err := r.Cookie(LanguageCookieName); err == nil {
		if locale.IsValid(cookie.Value) {
			return cookie.Value
		}
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return i18n.MatchLanguage(accept)
	}

	return store.Language()
}

// GetLanguage returns the language resolved for the request, falling back
// to the site default when the middleware did not run.
func GetLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage()
}

// SetLanguageCookie persists the language preference for a year.
func SetLanguageCookie(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: false, // read by the frontend for layout direction
		SameSite: http.SameSiteLaxMode,
	})
}
