// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/raay-sa/raay-web/internal/cache"
	"github.com/raay-sa/raay-web/internal/version"
)

// HealthHandler reports readiness and basic runtime statistics.
type HealthHandler struct {
	db        *sql.DB
	cache     *cache.Manager
	startTime time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(db *sql.DB, cacheManager *cache.Manager) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheManager, startTime: time.Now()}
}

// Liveness handles GET /health with a minimal response.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, map[string]any{"status": "ok"})
}

// Status handles GET /api/health with database and cache checks.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := map[string]string{}

	if err := h.db.PingContext(r.Context()); err != nil {
		status = "degraded"
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}

	data := map[string]any{
		"status":  status,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"version": version.Version,
		"checks":  checks,
		"cache":   map[string]any{"backend": h.cache.Info().Backend},
	}
	if stats, ok := h.cache.Stats(); ok {
		data["cache"] = map[string]any{
			"backend":  h.cache.Info().Backend,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"items":    stats.Items,
			"hit_rate": stats.HitRate,
		}
	}

	if status != "ok" {
		writeJSONErrorData(w, http.StatusServiceUnavailable, "degraded", true, data)
		return
	}
	writeJSONSuccess(w, data)
}
