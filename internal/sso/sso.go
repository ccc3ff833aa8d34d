// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sso hands an authenticated student off to the external
// dashboard origin.
package sso

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/raay-sa/raay-web/internal/session"
)

// loginPath is the dashboard endpoint that accepts the handoff.
const loginPath = "/auth/sso-login"

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// Service prepares SSO handoffs to the dashboard.
type Service struct {
	refresher    TokenRefresher
	dashboardURL string
	logger       *slog.Logger
}

// New creates a Service. dashboardURL is the dashboard origin without a
// trailing slash.
func New(refresher TokenRefresher, dashboardURL string, logger *slog.Logger) *Service {
	return &Service{refresher: refresher, dashboardURL: dashboardURL, logger: logger}
}

// ValidToken returns the access token to carry on the handoff. When a
// refresh token is present one refresh attempt is made; on success the
// returned auth state carries the new access token with the refresh token
// and user unchanged, and the caller should persist it. A failed refresh
// falls back to the stored access token. The empty string means no
// credentials exist at all and the caller must send the user to login.
func (s *Service) ValidToken(ctx context.Context, auth *session.Auth) (token string, updated *session.Auth) {
	if auth == nil || (auth.Token == "" && auth.RefreshToken == "") {
		return "", nil
	}

	if auth.RefreshToken != "" {
		fresh, err := s.refresher.RefreshToken(ctx, auth.RefreshToken)
		if err == nil && fresh != "" {
			next := *auth
			next.Token = fresh
			return fresh, &next
		}
		// Refresh failures are deliberately swallowed; the stored token
		// is still worth trying against the dashboard.
		s.logger.Warn("token refresh failed, falling back to stored token", "error", err)
	}

	if auth.Token == "" {
		return "", nil
	}
	s.logExpiry(auth.Token)
	return auth.Token, nil
}

// LoginURL builds the dashboard handoff URL. The token and redirect
// values are carried verbatim as query parameters; url.Values handles the
// escaping so both decode back to their exact inputs.
func (s *Service) LoginURL(token, redirectPath string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("redirect", redirectPath)
	return s.dashboardURL + loginPath + "?" + q.Encode()
}

// logExpiry notes when a handoff is about to carry an already expired
// token. The claims are read without signature verification since only
// the exp timestamp matters here.
func (s *Service) logExpiry(token string) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if time.Now().After(exp.Time) {
		s.logger.Warn("handing off an expired access token", "expired_at", exp.Time)
	}
}
