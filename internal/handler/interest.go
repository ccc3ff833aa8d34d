// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/middleware"
	"github.com/raay-sa/raay-web/internal/service"
	"github.com/raay-sa/raay-web/internal/session"
)

// InterestHandler toggles program interest for the signed-in student.
type InterestHandler struct {
	interest *service.InterestService
	sm       *scs.SessionManager
}

// NewInterestHandler creates an interest handler.
func NewInterestHandler(interest *service.InterestService, sm *scs.SessionManager) *InterestHandler {
	return &InterestHandler{interest: interest, sm: sm}
}

// Register handles POST /api/programs/{id}/interest.
func (h *InterestHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

// Remove handles DELETE /api/programs/{id}/interest.
func (h *InterestHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

// toggle runs the mutation and always answers with observable feedback.
// On failure the response carries the reverted interest state so the
// frontend rolls its optimistic value back.
func (h *InterestHandler) toggle(w http.ResponseWriter, r *http.Request, interested bool) {
	lang := middleware.GetLanguage(r)

	programID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || programID <= 0 {
		writeJSONError(w, http.StatusBadRequest, i18n.T(lang, "error.invalid_program"), false)
		return
	}

	var token string
	if auth, ok := session.GetAuth(r.Context(), h.sm); ok {
		token = auth.Token
	}

	result, err := h.interest.Toggle(r.Context(), token, programID, interested)
	if err != nil {
		status, key := interestErrorResponse(err)
		writeJSONErrorData(w, status, i18n.T(lang, key), true, map[string]any{"result": result})
		return
	}

	key := "interest.removed"
	if interested {
		key = "interest.registered"
	}
	writeJSONSuccess(w, map[string]any{
		"result":  result,
		"message": i18n.T(lang, key),
	})
}

// interestErrorResponse keeps the students-only case distinct from
// generic failures.
func interestErrorResponse(err error) (status int, messageKey string) {
	switch {
	case errors.Is(err, service.ErrStudentsOnly):
		return http.StatusForbidden, "error.students_only"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "error.unauthorized"
	default:
		return http.StatusBadGateway, "error.network"
	}
}
