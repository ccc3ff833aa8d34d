// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session manages the gateway's server-side sessions, including
// the persisted authentication state of a signed-in student.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys. Auth state and the pending OTP challenge live side by
// side in the same session.
const (
	authKey = "raay-auth"
	otpKey  = "raay-otp"
)

// New creates a session manager backed by the SQLite sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	if !isDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return sm
}

// Auth is the authentication state persisted for a signed-in student.
// User is kept as raw JSON so the upstream's user shape survives a
// persist/rehydrate round trip byte for byte.
type Auth struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	User         json.RawMessage `json:"user,omitempty"`
}

// PutAuth stores the authentication state in the current session.
func PutAuth(ctx context.Context, sm *scs.SessionManager, auth *Auth) error {
	data, err := json.Marshal(auth)
	if err != nil {
		return err
	}
	sm.Put(ctx, authKey, data)
	return nil
}

// GetAuth rehydrates the authentication state from the current session.
// Returns nil and false when no valid state is stored.
func GetAuth(ctx context.Context, sm *scs.SessionManager) (*Auth, bool) {
	data := sm.GetBytes(ctx, authKey)
	if len(data) == 0 {
		return nil, false
	}

	var auth Auth
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, false
	}
	return &auth, true
}

// ClearAuth removes the authentication state from the current session.
func ClearAuth(ctx context.Context, sm *scs.SessionManager) {
	sm.Remove(ctx, authKey)
}

// PutOTP stores a pending OTP challenge reference.
func PutOTP(ctx context.Context, sm *scs.SessionManager, challenge string) {
	sm.Put(ctx, otpKey, challenge)
}

// PopOTP retrieves and clears the pending OTP challenge reference.
func PopOTP(ctx context.Context, sm *scs.SessionManager) string {
	return sm.PopString(ctx, otpKey)
}
