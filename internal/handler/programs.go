// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/middleware"
	"github.com/raay-sa/raay-web/internal/service"
)

// ProgramsHandler serves the program catalog endpoints.
type ProgramsHandler struct {
	catalog *service.CatalogService
}

// NewProgramsHandler creates a programs handler.
func NewProgramsHandler(catalog *service.CatalogService) *ProgramsHandler {
	return &ProgramsHandler{catalog: catalog}
}

// List handles GET /api/programs. An empty listing is a success response
// carrying a localized empty-state message, never an error.
func (h *ProgramsHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	listing, categoryID, ok := listingParams(w, r, lang)
	if !ok {
		return
	}

	list, err := h.catalog.Programs(r.Context(), lang, listing, categoryID)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, i18n.T(lang, "error.network"), true)
		return
	}
	h.writeList(w, list, lang, categoryID)
}

// Next handles POST /api/programs/next, extending the listing by one page.
func (h *ProgramsHandler) Next(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	listing, categoryID, ok := listingParams(w, r, lang)
	if !ok {
		return
	}

	list, err := h.catalog.MorePrograms(r.Context(), lang, listing, categoryID)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, i18n.T(lang, "error.network"), true)
		return
	}
	h.writeList(w, list, lang, categoryID)
}

// ListRegistered handles GET /api/registered_programs, the nested-payload
// variant of the listing. Requires a signed-in session upstream; the
// service surfaces auth failures as upstream errors.
func (h *ProgramsHandler) ListRegistered(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	categoryID, ok := categoryFilter(w, r, lang)
	if !ok {
		return
	}

	list, err := h.catalog.Programs(r.Context(), lang, service.ListingRegistered, categoryID)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, i18n.T(lang, "error.network"), true)
		return
	}
	h.writeList(w, list, lang, categoryID)
}

// ByCategory handles GET /api/programs/category/{id}.
func (h *ProgramsHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || categoryID <= 0 {
		writeJSONError(w, http.StatusBadRequest, i18n.T(lang, "error.generic"), false)
		return
	}

	programs, err := h.catalog.CategoryPrograms(r.Context(), lang, categoryID)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, i18n.T(lang, "error.network"), true)
		return
	}

	data := map[string]any{"programs": programs}
	if len(programs) == 0 {
		data["message"] = i18n.T(lang, "programs.empty_filtered")
	}
	writeJSONSuccess(w, data)
}

func (h *ProgramsHandler) writeList(w http.ResponseWriter, list *service.ProgramList, lang string, categoryID int64) {
	data := map[string]any{
		"programs": list.Programs,
		"has_more": list.HasMore,
	}
	if len(list.Programs) == 0 {
		if categoryID != 0 {
			data["message"] = i18n.T(lang, "programs.empty_filtered")
		} else {
			data["message"] = i18n.T(lang, "programs.empty")
		}
	}
	writeJSONSuccess(w, data)
}

// listingParams reads the listing selector and category filter.
func listingParams(w http.ResponseWriter, r *http.Request, lang string) (listing string, categoryID int64, ok bool) {
	listing = r.URL.Query().Get("listing")
	if listing == "" {
		listing = service.ListingLive
	}
	if listing != service.ListingLive && listing != service.ListingRegistered {
		writeJSONError(w, http.StatusBadRequest, i18n.T(lang, "error.generic"), false)
		return "", 0, false
	}

	categoryID, ok = categoryFilter(w, r, lang)
	if !ok {
		return "", 0, false
	}
	return listing, categoryID, true
}

// categoryFilter reads the optional category_id query parameter.
func categoryFilter(w http.ResponseWriter, r *http.Request, lang string) (int64, bool) {
	raw := r.URL.Query().Get("category_id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		writeJSONError(w, http.StatusBadRequest, i18n.T(lang, "error.generic"), false)
		return 0, false
	}
	return id, true
}
