// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raay-sa/raay-web/internal/cache"
	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/middleware"
	"github.com/raay-sa/raay-web/internal/service"
	"github.com/raay-sa/raay-web/internal/upstream"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(nil, "ar"); err != nil {
		panic(err)
	}
	m.Run()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCacheManager(t *testing.T) *cache.Manager {
	t.Helper()
	m, err := cache.NewManager(cache.Config{Type: "memory", DefaultTTL: time.Minute}, nil)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// withLang injects a request language the way the middleware does.
func withLang(r *http.Request, lang string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyLanguage, lang)
	return r.WithContext(ctx)
}

// withURLParam injects a chi route parameter for direct handler calls.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return body
}

// stubCatalogAPI serves fixed pages for handler tests.
type stubCatalogAPI struct {
	page *upstream.ProgramPage
	err  error
}

func (s *stubCatalogAPI) ListPrograms(ctx context.Context, page int, categoryID int64, lang string) (*upstream.ProgramPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubCatalogAPI) ProgramsByCategory(ctx context.Context, categoryID int64) ([]upstream.ProgramPayload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page.Data, nil
}

func (s *stubCatalogAPI) ListRegisteredPrograms(ctx context.Context, page int, categoryID int64) (*upstream.ProgramPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubCatalogAPI) ListCategories(ctx context.Context) ([]upstream.CategoryPayload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []upstream.CategoryPayload{{ID: 1, Title: "Tech"}}, nil
}

func newCatalogService(t *testing.T, api service.CatalogAPI) *service.CatalogService {
	t.Helper()
	return service.NewCatalogService(api, newCacheManager(t), discardLogger())
}

func newProgramsHandler(t *testing.T, api service.CatalogAPI) *ProgramsHandler {
	t.Helper()
	return NewProgramsHandler(newCatalogService(t, api))
}
