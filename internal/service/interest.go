// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/raay-sa/raay-web/internal/upstream"
)

// Interest mutation failures, classified so handlers can pick the right
// localized message. The students-only case must stay distinguishable
// from other failures.
var (
	ErrStudentsOnly = errors.New("interest: students only")
	ErrUnauthorized = errors.New("interest: unauthorized")
	ErrUnavailable  = errors.New("interest: upstream unavailable")
)

// InterestAPI is the slice of the upstream client the interest service uses.
type InterestAPI interface {
	RegisterInterest(ctx context.Context, programID int64, token string) error
	RemoveInterest(ctx context.Context, programID int64, token string) error
}

// InterestResult reports the interest state after a toggle attempt. On
// failure Interested carries the reverted (pre-toggle) state so callers
// can roll their display back.
type InterestResult struct {
	ProgramID  int64 `json:"program_id"`
	Interested bool  `json:"interested"`
	Reverted   bool  `json:"reverted"`
}

// InterestService toggles a student's interest in a program.
type InterestService struct {
	api    InterestAPI
	logger *slog.Logger
}

// NewInterestService creates an InterestService.
func NewInterestService(api InterestAPI, logger *slog.Logger) *InterestService {
	return &InterestService{api: api, logger: logger}
}

// Toggle moves the interest state for programID to interested. The error,
// when non-nil, is one of ErrStudentsOnly, ErrUnauthorized or
// ErrUnavailable, and the result carries the reverted state.
func (s *InterestService) Toggle(ctx context.Context, token string, programID int64, interested bool) (*InterestResult, error) {
	if token == "" {
		return &InterestResult{ProgramID: programID, Interested: !interested, Reverted: true}, ErrUnauthorized
	}

	var err error
	if interested {
		err = s.api.RegisterInterest(ctx, programID, token)
	} else {
		err = s.api.RemoveInterest(ctx, programID, token)
	}
	if err != nil {
		s.logger.Warn("interest toggle failed",
			"program_id", programID,
			"interested", interested,
			"error", err)
		return &InterestResult{ProgramID: programID, Interested: !interested, Reverted: true}, classifyInterestErr(err)
	}

	return &InterestResult{ProgramID: programID, Interested: interested}, nil
}

func classifyInterestErr(err error) error {
	switch {
	case upstream.IsStatus(err, http.StatusForbidden):
		return ErrStudentsOnly
	case upstream.IsStatus(err, http.StatusUnauthorized):
		return ErrUnauthorized
	default:
		return ErrUnavailable
	}
}
