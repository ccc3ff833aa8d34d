// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/raay-sa/raay-web/internal/upstream"
	"github.com/raay-sa/raay-web/internal/util"
)

// sanitizer strips unsafe markup from upstream rich-text descriptions.
var sanitizer = bluemonday.UGCPolicy()

// dateLayouts are the date encodings the upstream API has been observed to
// use.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MapProgram builds a normalized Program from a raw payload. It is a total
// function: absent or malformed optional fields map to zero values, never
// to a panic or an error.
func MapProgram(p upstream.ProgramPayload, lang string) Program {
	title, description := localizedText(p.Title, p.Description, p.Translations, lang)

	prog := Program{
		ID:            p.ID,
		Title:         title,
		Description:   sanitizer.Sanitize(description),
		Price:         parsePrice(p.Price),
		DurationHours: p.DurationHours,
		DateFrom:      parseDate(p.DateFrom),
		DateTo:        parseDate(p.DateTo),
		Requirements:  NormalizeStringList(p.Requirement),
		Learnings:     NormalizeStringList(p.Learning),
		IsInterested:  p.IsInterested,
		Type:          p.Type,
	}

	prog.Slug = slugOrID(title, p.ID)
	prog.DurationLabel = DurationLabel(p, lang)

	if p.Category != nil {
		cat := MapCategory(*p.Category, lang)
		prog.Category = &cat
	}

	return prog
}

// MapPrograms maps a slice of raw payloads.
func MapPrograms(payloads []upstream.ProgramPayload, lang string) []Program {
	programs := make([]Program, 0, len(payloads))
	for _, p := range payloads {
		programs = append(programs, MapProgram(p, lang))
	}
	return programs
}

// MapCategory builds a normalized Category from a raw payload.
func MapCategory(c upstream.CategoryPayload, lang string) Category {
	title, _ := localizedText(c.Title, "", c.Translations, lang)
	return Category{
		ID:    c.ID,
		Title: title,
		Slug:  slugOrID(title, c.ID),
	}
}

// MapCategories maps a slice of raw category payloads.
func MapCategories(payloads []upstream.CategoryPayload, lang string) []Category {
	categories := make([]Category, 0, len(payloads))
	for _, c := range payloads {
		categories = append(categories, MapCategory(c, lang))
	}
	return categories
}

// localizedText selects title and description for lang from a translations
// array. Exact locale match wins; otherwise the first available translation
// is used; otherwise the payload's top-level fields pass through.
func localizedText(title, description string, translations []upstream.TranslationPayload, lang string) (string, string) {
	if len(translations) == 0 {
		return title, description
	}

	chosen := translations[0]
	for _, tr := range translations {
		if strings.EqualFold(tr.Locale, lang) {
			chosen = tr
			break
		}
	}

	outTitle, outDescription := chosen.Title, chosen.Description
	if outTitle == "" {
		outTitle = title
	}
	if outDescription == "" {
		outDescription = description
	}
	return outTitle, outDescription
}

// slugOrID slugifies title, falling back to an ID-based slug when the title
// has no sluggable content (Arabic-only titles).
func slugOrID(title string, id int64) string {
	if slug := util.Slugify(title); slug != "" {
		return slug
	}
	return fmt.Sprintf("p-%d", id)
}

func parsePrice(n json.Number) float64 {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
