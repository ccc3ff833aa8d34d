// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"math"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/upstream"
)

// DurationLabel collapses the upstream's heterogeneous duration encodings
// (hours, days, or a date range) into one localized label. Returns an empty
// string when no duration information is present.
func DurationLabel(p upstream.ProgramPayload, lang string) string {
	if p.DurationHours != nil && *p.DurationHours > 0 {
		return hoursLabel(int(math.Round(*p.DurationHours)), lang)
	}

	if p.DurationDays != nil && *p.DurationDays > 0 {
		return daysLabel(int(math.Round(*p.DurationDays)), lang)
	}

	from := parseDate(p.DateFrom)
	to := parseDate(p.DateTo)
	if from != nil && to != nil && !to.Before(*from) {
		days := int(to.Sub(*from).Hours()/24) + 1
		return daysLabel(days, lang)
	}

	return ""
}

func hoursLabel(n int, lang string) string {
	if n == 1 {
		return i18n.T(lang, "duration.hour")
	}
	return i18n.T(lang, "duration.hours", n)
}

func daysLabel(n int, lang string) string {
	if n == 1 {
		return i18n.T(lang, "duration.day")
	}
	return i18n.T(lang, "duration.days", n)
}
