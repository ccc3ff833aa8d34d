// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	"errors"
	"path/filepath"
	"testing"
)

type memPersister struct {
	lang    string
	saveErr error
	loadErr error
}

func (p *memPersister) SaveLanguage(lang string) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.lang = lang
	return nil
}

func (p *memPersister) LoadLanguage() (string, error) {
	if p.loadErr != nil {
		return "", p.loadErr
	}
	return p.lang, nil
}

func TestNew_SeedsFromPersister(t *testing.T) {
	s := New(&memPersister{lang: English}, Arabic, nil)
	if s.Language() != English {
		t.Errorf("Language = %q, want %q", s.Language(), English)
	}
}

func TestNew_FallbackWhenLoadFails(t *testing.T) {
	s := New(&memPersister{loadErr: errors.New("no file")}, Arabic, nil)
	if s.Language() != Arabic {
		t.Errorf("Language = %q, want fallback %q", s.Language(), Arabic)
	}
}

func TestNew_FallbackWhenPersistedValueInvalid(t *testing.T) {
	s := New(&memPersister{lang: "fr"}, Arabic, nil)
	if s.Language() != Arabic {
		t.Errorf("Language = %q, want fallback %q", s.Language(), Arabic)
	}
}

func TestSetLanguage(t *testing.T) {
	p := &memPersister{}
	s := New(p, Arabic, nil)

	if err := s.SetLanguage(English); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if s.Language() != English {
		t.Errorf("Language = %q, want %q", s.Language(), English)
	}
	if p.lang != English {
		t.Errorf("persisted = %q, want %q", p.lang, English)
	}
}

func TestSetLanguage_Invalid(t *testing.T) {
	s := New(nil, Arabic, nil)
	if err := s.SetLanguage("fr"); err == nil {
		t.Fatal("expected error for unsupported language")
	}
	if s.Language() != Arabic {
		t.Error("language must not change on invalid input")
	}
}

func TestSetLanguage_PersistFailureSwallowed(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	s := New(p, Arabic, nil)

	if err := s.SetLanguage(English); err != nil {
		t.Fatalf("SetLanguage must swallow persist failures, got: %v", err)
	}
	if s.Language() != English {
		t.Error("in-memory value must change even when persistence fails")
	}
}

func TestSubscribe_NotifiesOnChange(t *testing.T) {
	s := New(nil, Arabic, nil)

	var gotOld, gotNew string
	calls := 0
	unsub := s.Subscribe(func(old, new string) {
		gotOld, gotNew = old, new
		calls++
	})
	defer unsub()

	if err := s.SetLanguage(English); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("listener called %d times, want 1", calls)
	}
	if gotOld != Arabic || gotNew != English {
		t.Errorf("listener got (%q, %q), want (%q, %q)", gotOld, gotNew, Arabic, English)
	}

	// Setting the same language again is a no-op
	if err := s.SetLanguage(English); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("listener called %d times after no-op change, want 1", calls)
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := New(nil, Arabic, nil)

	calls := 0
	unsub := s.Subscribe(func(old, new string) { calls++ })
	unsub()

	if err := s.SetLanguage(English); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("unsubscribed listener called %d times, want 0", calls)
	}
}

func TestFilePersister_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lang")
	p := NewFilePersister(path)

	if err := p.SaveLanguage(English); err != nil {
		t.Fatalf("SaveLanguage failed: %v", err)
	}
	got, err := p.LoadLanguage()
	if err != nil {
		t.Fatalf("LoadLanguage failed: %v", err)
	}
	if got != English {
		t.Errorf("LoadLanguage = %q, want %q", got, English)
	}
}
