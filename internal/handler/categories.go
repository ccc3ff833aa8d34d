// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/middleware"
	"github.com/raay-sa/raay-web/internal/service"
)

// CategoriesHandler serves the category listing.
type CategoriesHandler struct {
	catalog *service.CatalogService
}

// NewCategoriesHandler creates a categories handler.
func NewCategoriesHandler(catalog *service.CatalogService) *CategoriesHandler {
	return &CategoriesHandler{catalog: catalog}
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	categories, err := h.catalog.Categories(r.Context(), lang)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, i18n.T(lang, "error.network"), true)
		return
	}

	data := map[string]any{"categories": categories}
	if len(categories) == 0 {
		data["message"] = i18n.T(lang, "categories.empty")
	}
	writeJSONSuccess(w, data)
}
