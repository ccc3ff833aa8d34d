// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password policy checks for registration forms.
// Credentials themselves are verified upstream; the gateway only gives
// early feedback before the form is submitted.
package auth

import (
	"errors"
	"unicode"

	"github.com/raay-sa/raay-web/internal/i18n"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Strength buckets reported to the registration form.
const (
	StrengthWeak   = "weak"
	StrengthFair   = "fair"
	StrengthStrong = "strong"
)

var ErrPasswordTooShort = errors.New("password too short")

// Score rates a candidate password. One point each for length, an upper
// and lower case mix, a digit, and a symbol.
func Score(password string) int {
	score := 0
	if len(password) >= MinPasswordLength {
		score++
	}
	if len(password) >= 2*MinPasswordLength {
		score++
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	if hasUpper && hasLower {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}
	return score
}

// Strength maps a score to its bucket.
func Strength(password string) string {
	switch score := Score(password); {
	case score <= 2:
		return StrengthWeak
	case score <= 3:
		return StrengthFair
	default:
		return StrengthStrong
	}
}

// Validate rejects passwords that fail the minimum policy. The returned
// message is localized for lang.
func Validate(password, lang string) (string, error) {
	if len(password) < MinPasswordLength {
		return i18n.T(lang, "password.too_short"), ErrPasswordTooShort
	}
	return "", nil
}
