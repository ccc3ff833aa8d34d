// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Manager owns the cache backend shared by the typed query layers. It
// handles locale-scoped invalidation and exposes backend statistics.
type Manager struct {
	backend Cacher
	info    Info
	fresh   time.Duration
	logger  *slog.Logger
}

// NewManager creates the shared cache backend described by cfg.
func NewManager(cfg Config, logger *slog.Logger) (*Manager, error) {
	backend, info, err := NewBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	fresh := cfg.DefaultTTL
	if fresh <= 0 {
		fresh = DefaultFreshFor
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{backend: backend, info: info, fresh: fresh, logger: logger}, nil
}

// Backend returns the underlying cache for the typed query layers.
func (m *Manager) Backend() Cacher { return m.backend }

// FreshFor returns the configured freshness window.
func (m *Manager) FreshFor() time.Duration { return m.fresh }

// Info describes the active backend.
func (m *Manager) Info() Info { return m.info }

// InvalidateLocale removes every cached entry belonging to lang. Keys are
// locale-first, so one prefix deletion covers all resources.
func (m *Manager) InvalidateLocale(ctx context.Context, lang string) error {
	pd, ok := m.backend.(PrefixDeleter)
	if !ok {
		return m.backend.Clear(ctx)
	}
	return pd.DeleteByPrefix(ctx, LocalePrefix(lang))
}

// OnLanguageChange is meant to be subscribed to the locale store. It
// purges the newly selected locale so the next reads refetch current
// content in that language; entries for the previous locale stay usable.
func (m *Manager) OnLanguageChange(_, newLang string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.InvalidateLocale(ctx, newLang); err != nil {
		m.logger.Warn("locale cache purge failed", "language", newLang, "error", err)
	}
}

// Stats returns backend statistics when the backend tracks them.
func (m *Manager) Stats() (Stats, bool) {
	sp, ok := m.backend.(StatsProvider)
	if !ok {
		return Stats{}, false
	}
	return sp.Stats(), true
}

// Close releases the backend.
func (m *Manager) Close() error { return m.backend.Close() }
