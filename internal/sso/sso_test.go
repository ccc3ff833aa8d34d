// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package sso

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/raay-sa/raay-web/internal/session"
)

type fakeRefresher struct {
	token string
	err   error
	calls int
}

func (f *fakeRefresher) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	f.calls++
	return f.token, f.err
}

func newTestService(r TokenRefresher) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(r, "https://dashboard.raay.sa", logger)
}

func TestValidToken_RefreshSucceeds(t *testing.T) {
	refresher := &fakeRefresher{token: "new-access"}
	svc := newTestService(refresher)

	auth := &session.Auth{Token: "old-access", RefreshToken: "refresh", User: []byte(`{"id":1}`)}
	token, updated := svc.ValidToken(context.Background(), auth)

	if token != "new-access" {
		t.Errorf("expected refreshed token, got %q", token)
	}
	if updated == nil {
		t.Fatal("expected updated auth state to persist")
	}
	if updated.Token != "new-access" {
		t.Errorf("updated state carries %q", updated.Token)
	}
	// Refresh token and user stay as they were.
	if updated.RefreshToken != "refresh" || string(updated.User) != `{"id":1}` {
		t.Errorf("refresh token or user changed: %+v", updated)
	}
}

func TestValidToken_RefreshFailsFallsBack(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("upstream down")}
	svc := newTestService(refresher)

	auth := &session.Auth{Token: "stored-access", RefreshToken: "refresh"}
	token, updated := svc.ValidToken(context.Background(), auth)

	if token != "stored-access" {
		t.Errorf("expected fallback to stored token, got %q", token)
	}
	if updated != nil {
		t.Error("a failed refresh must not rewrite the session")
	}
}

func TestValidToken_NoRefreshToken(t *testing.T) {
	refresher := &fakeRefresher{}
	svc := newTestService(refresher)

	token, _ := svc.ValidToken(context.Background(), &session.Auth{Token: "only-access"})
	if token != "only-access" {
		t.Errorf("expected stored token, got %q", token)
	}
	if refresher.calls != 0 {
		t.Error("refresh must not be attempted without a refresh token")
	}
}

func TestValidToken_EmptyOnlyWhenNoCredentials(t *testing.T) {
	svc := newTestService(&fakeRefresher{token: "fresh"})
	ctx := context.Background()

	// No credentials at all is the only empty-token case.
	if token, _ := svc.ValidToken(ctx, nil); token != "" {
		t.Errorf("nil auth should yield empty token, got %q", token)
	}
	if token, _ := svc.ValidToken(ctx, &session.Auth{}); token != "" {
		t.Errorf("empty auth should yield empty token, got %q", token)
	}

	if token, _ := svc.ValidToken(ctx, &session.Auth{Token: "t"}); token == "" {
		t.Error("access token alone must not yield empty")
	}
	if token, _ := svc.ValidToken(ctx, &session.Auth{RefreshToken: "r"}); token == "" {
		t.Error("refresh token alone must not yield empty")
	}
}

func TestLoginURL_ParamFidelity(t *testing.T) {
	svc := newTestService(&fakeRefresher{})

	raw := svc.LoginURL("tok123", "/student")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid URL %q: %v", raw, err)
	}
	if u.Host != "dashboard.raay.sa" {
		t.Errorf("unexpected host %q", u.Host)
	}
	if u.Path != "/auth/sso-login" {
		t.Errorf("unexpected path %q", u.Path)
	}
	if got := u.Query().Get("token"); got != "tok123" {
		t.Errorf("token param decodes to %q", got)
	}
	if got := u.Query().Get("redirect"); got != "/student" {
		t.Errorf("redirect param decodes to %q", got)
	}
}

func TestLoginURL_EscapesSpecialCharacters(t *testing.T) {
	svc := newTestService(&fakeRefresher{})

	token := "a+b/c=&d?"
	redirect := "/student?tab=برامج"
	u, err := url.Parse(svc.LoginURL(token, redirect))
	if err != nil {
		t.Fatalf("invalid URL: %v", err)
	}
	if got := u.Query().Get("token"); got != token {
		t.Errorf("token round trip failed: %q", got)
	}
	if got := u.Query().Get("redirect"); got != redirect {
		t.Errorf("redirect round trip failed: %q", got)
	}
}
