// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the gateway's periodic jobs: cache warming per
// locale and event log pruning.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/service"
	"github.com/raay-sa/raay-web/internal/store"
)

// eventRetention is how long event log rows are kept.
const eventRetention = 30 * 24 * time.Hour

// Scheduler handles the periodic background jobs.
type Scheduler struct {
	db      *sql.DB
	catalog *service.CatalogService
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, catalog *service.CatalogService, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:      db,
		catalog: catalog,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers and starts the jobs. The warmer runs every five
// minutes to keep the landing listings near their freshness window;
// pruning runs daily.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("*/5 * * * *", s.warmCaches); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("15 3 * * *", s.pruneEvents); err != nil {
		return err
	}

	// Warm immediately so the first requests after boot don't pay the
	// upstream latency.
	go s.warmCaches()

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// warmCaches preloads the common listings for every supported locale.
func (s *Scheduler) warmCaches() {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	for _, lang := range i18n.SupportedLanguages {
		if err := s.catalog.WarmLocale(ctx, lang); err != nil {
			s.logger.Warn("cache warmup failed", "language", lang, "error", err)
		}
	}
}

// pruneEvents removes event log rows past the retention window.
func (s *Scheduler) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := store.New(s.db).PruneEvents(ctx, time.Now().Add(-eventRetention))
	if err != nil {
		s.logger.Error("event log pruning failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("pruned event log", "removed", n)
	}
}
