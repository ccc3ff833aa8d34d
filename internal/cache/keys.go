// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "strings"

// Context holds context information for cache key generation. It captures
// the language so that locale-sensitive entries never collide across
// languages: two requests with identical resource and filters but different
// locales must resolve to distinct entries.
type Context struct {
	LanguageCode string // "ar", "en"
}

// NewContext creates a new Context with the given language.
func NewContext(langCode string) Context {
	if langCode == "" {
		langCode = "ar"
	}
	return Context{LanguageCode: langCode}
}

// Key generates a locale-qualified cache key for a resource and its filter
// values. Format: {lang}:{resource}:{filter}:{filter}...
// The language leads the key so a whole locale can be purged by prefix.
func (c Context) Key(resource string, filters ...string) string {
	parts := make([]string, 0, len(filters)+2)
	parts = append(parts, c.LanguageCode, resource)
	parts = append(parts, filters...)
	return strings.Join(parts, ":")
}

// LocalePrefix returns the key prefix shared by every entry under lang.
func LocalePrefix(lang string) string {
	return lang + ":"
}
