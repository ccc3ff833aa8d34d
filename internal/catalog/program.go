// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog defines the normalized view entities for programs and
// categories and the pure mappers that build them from raw API payloads.
package catalog

import "time"

// Program delivery types.
const (
	TypeLive       = "live"
	TypeOnsite     = "onsite"
	TypeRegistered = "registered"
)

// Category is a normalized program category.
type Category struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Program is the normalized view entity for a training program. Values are
// immutable once constructed; an interest toggle produces a new value.
type Program struct {
	ID            int64      `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	DurationHours *float64   `json:"duration_hours,omitempty"`
	DurationLabel string     `json:"duration_label,omitempty"`
	Category      *Category  `json:"category,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
	Requirements  []string   `json:"requirements,omitempty"`
	Learnings     []string   `json:"learnings,omitempty"`
	IsInterested  bool       `json:"is_interested"`
	Type          string     `json:"type"`
}

// WithInterest returns a copy of p with the interest flag set to interested.
func (p Program) WithInterest(interested bool) Program {
	p.IsInterested = interested
	return p
}
