// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale holds the process-wide active language and notifies
// subscribers when it changes. Locale-sensitive caches subscribe to purge
// entries keyed under the previous language instead of restarting the
// process.
package locale

import (
	"fmt"
	"log/slog"
	"sync"
)

// Supported language codes.
const (
	Arabic  = "ar"
	English = "en"
)

// Persister stores the active language across restarts.
type Persister interface {
	SaveLanguage(lang string) error
	LoadLanguage() (string, error)
}

// Listener is notified after the active language changes.
type Listener func(old, new string)

// Store is the process-wide language store. Exactly one language is active
// at any instant.
type Store struct {
	mu        sync.RWMutex
	current   string
	persister Persister
	logger    *slog.Logger

	subMu  sync.Mutex
	nextID int
	subs   map[int]Listener
}

// New creates a Store seeded from the persister, falling back to fallback
// when nothing is persisted or the read fails.
func New(persister Persister, fallback string, logger *slog.Logger) *Store {
	s := &Store{
		current:   fallback,
		persister: persister,
		logger:    logger,
		subs:      make(map[int]Listener),
	}

	if persister != nil {
		if lang, err := persister.LoadLanguage(); err == nil && IsValid(lang) {
			s.current = lang
		}
	}

	return s
}

// IsValid reports whether lang is a supported language code.
func IsValid(lang string) bool {
	return lang == Arabic || lang == English
}

// Language returns the active language. Never fails.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetLanguage persists and activates lang, then notifies subscribers
// synchronously. Persistence failures are logged and swallowed: the
// in-memory value still changes for the remainder of the session.
func (s *Store) SetLanguage(lang string) error {
	if !IsValid(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}

	s.mu.Lock()
	old := s.current
	if old == lang {
		s.mu.Unlock()
		return nil
	}
	s.current = lang
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.SaveLanguage(lang); err != nil && s.logger != nil {
			s.logger.Warn("failed to persist language preference", "lang", lang, "error", err)
		}
	}

	s.notify(old, lang)
	return nil
}

// Subscribe registers fn to run on every language change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(old, new string) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(old, new)
	}
}
