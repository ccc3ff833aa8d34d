// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/upstream"
)

func TestProgramsList_Success(t *testing.T) {
	h := newProgramsHandler(t, &stubCatalogAPI{
		page: &upstream.ProgramPage{
			Data: []upstream.ProgramPayload{{ID: 1, Title: "Go Basics"}},
		},
	})

	req := withLang(httptest.NewRequest(http.MethodGet, "/api/programs", nil), "en")
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("expected success, got %v", body)
	}
	programs, ok := body["programs"].([]any)
	if !ok || len(programs) != 1 {
		t.Errorf("expected 1 program, got %v", body["programs"])
	}
	if body["has_more"] != false {
		t.Errorf("expected terminal listing, got %v", body["has_more"])
	}
}

func TestProgramsList_EmptyIsSuccessNotError(t *testing.T) {
	h := newProgramsHandler(t, &stubCatalogAPI{page: &upstream.ProgramPage{}})

	req := withLang(httptest.NewRequest(http.MethodGet, "/api/programs?category_id=401", nil), "ar")
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("empty listing must be 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("empty listing must be a success state")
	}
	if body["message"] != i18n.T("ar", "programs.empty_filtered") {
		t.Errorf("expected filtered empty-state message, got %v", body["message"])
	}
}

func TestProgramsList_UpstreamFailure(t *testing.T) {
	h := newProgramsHandler(t, &stubCatalogAPI{err: errors.New("connection refused")})

	req := withLang(httptest.NewRequest(http.MethodGet, "/api/programs", nil), "en")
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["retryable"] != true {
		t.Error("upstream failures must offer a retry")
	}
	if body["error"] != i18n.T("en", "error.network") {
		t.Errorf("expected localized network message, got %v", body["error"])
	}
}

func TestProgramsList_InvalidParams(t *testing.T) {
	h := newProgramsHandler(t, &stubCatalogAPI{page: &upstream.ProgramPage{}})

	for _, target := range []string{
		"/api/programs?listing=bogus",
		"/api/programs?category_id=abc",
	} {
		req := withLang(httptest.NewRequest(http.MethodGet, target, nil), "en")
		rec := httptest.NewRecorder()
		h.List(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestProgramsNext_ExtendsListing(t *testing.T) {
	next := 2
	h := newProgramsHandler(t, &stubCatalogAPI{
		page: &upstream.ProgramPage{
			Data:     []upstream.ProgramPayload{{ID: 1, Title: "A"}},
			NextPage: &next,
		},
	})

	req := withLang(httptest.NewRequest(http.MethodGet, "/api/programs", nil), "en")
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed failed: %d", rec.Code)
	}

	req = withLang(httptest.NewRequest(http.MethodPost, "/api/programs/next", nil), "en")
	rec = httptest.NewRecorder()
	h.Next(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	programs := body["programs"].([]any)
	if len(programs) != 2 {
		t.Errorf("expected 2 programs after next page, got %d", len(programs))
	}
}

func TestRegisteredProgramsList(t *testing.T) {
	h := newProgramsHandler(t, &stubCatalogAPI{
		page: &upstream.ProgramPage{
			Data: []upstream.ProgramPayload{{ID: 7, Title: "Enrolled"}},
		},
	})

	req := withLang(httptest.NewRequest(http.MethodGet, "/api/registered_programs", nil), "en")
	rec := httptest.NewRecorder()
	h.ListRegistered(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	programs, ok := body["programs"].([]any)
	if !ok || len(programs) != 1 {
		t.Errorf("expected 1 registered program, got %v", body["programs"])
	}
}

func TestProgramsByCategory(t *testing.T) {
	h := newProgramsHandler(t, &stubCatalogAPI{
		page: &upstream.ProgramPage{
			Data: []upstream.ProgramPayload{{ID: 3, Title: "Data"}},
		},
	})

	req := withLang(httptest.NewRequest(http.MethodGet, "/api/programs/category/5", nil), "en")
	req = withURLParam(req, "id", "5")
	rec := httptest.NewRecorder()
	h.ByCategory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	programs, ok := body["programs"].([]any)
	if !ok || len(programs) != 1 {
		t.Errorf("expected 1 program, got %v", body["programs"])
	}
}

func TestCategoriesList(t *testing.T) {
	api := &stubCatalogAPI{page: &upstream.ProgramPage{}}
	h := NewCategoriesHandler(newCatalogService(t, api))

	req := withLang(httptest.NewRequest(http.MethodGet, "/api/categories", nil), "en")
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	categories := body["categories"].([]any)
	if len(categories) != 1 {
		t.Errorf("expected 1 category, got %v", body)
	}
}
