// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// TranslationPayload is one entry of a translations array on a program or
// category.
type TranslationPayload struct {
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CategoryPayload is the raw category shape.
type CategoryPayload struct {
	ID           int64                `json:"id"`
	Title        string               `json:"title"`
	Translations []TranslationPayload `json:"translations"`
}

// ProgramPayload is the raw program shape as the API delivers it. Fields
// with heterogeneous encodings (requirement, learning) stay raw; the
// catalog mapper normalizes them.
type ProgramPayload struct {
	ID            int64                `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Price         json.Number          `json:"price"`
	DurationHours *float64             `json:"duration_hours"`
	DurationDays  *float64             `json:"duration_days"`
	DateFrom      string               `json:"date_from"`
	DateTo        string               `json:"date_to"`
	Requirement   json.RawMessage      `json:"requirement"`
	Learning      json.RawMessage      `json:"learning"`
	Category      *CategoryPayload     `json:"category"`
	Translations  []TranslationPayload `json:"translations"`
	IsInterested  bool                 `json:"is_interested"`
	Type          string               `json:"type"`
}

// ProgramPage is one page of a paginated program listing.
type ProgramPage struct {
	Data     []ProgramPayload
	NextPage *int
}

// ListPrograms fetches one page of the public program listing.
// categoryID zero means no category filter.
func (c *Client) ListPrograms(ctx context.Context, page int, categoryID int64, lang string) (*ProgramPage, error) {
	query := map[string]string{
		"page": strconv.Itoa(page),
		"lang": lang,
	}
	if categoryID != 0 {
		query["category_id"] = strconv.FormatInt(categoryID, 10)
	}

	var body struct {
		Data     []ProgramPayload `json:"data"`
		NextPage *int             `json:"next_page"`
	}
	if err := c.get(ctx, "/public/programs", "", query, &body); err != nil {
		return nil, err
	}

	return &ProgramPage{Data: body.Data, NextPage: body.NextPage}, nil
}

// ProgramsByCategory fetches the full (unpaginated) listing for a category.
func (c *Client) ProgramsByCategory(ctx context.Context, categoryID int64) ([]ProgramPayload, error) {
	var body struct {
		Data []ProgramPayload `json:"data"`
	}
	path := fmt.Sprintf("/public/programs/category/%d", categoryID)
	if err := c.get(ctx, path, "", nil, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// ListRegisteredPrograms fetches one page of the registered (self-paced)
// program listing. The payload nests the listing one level deeper than
// the live listing does.
func (c *Client) ListRegisteredPrograms(ctx context.Context, page int, categoryID int64) (*ProgramPage, error) {
	query := map[string]string{
		"page": strconv.Itoa(page),
	}
	if categoryID != 0 {
		query["category_id"] = strconv.FormatInt(categoryID, 10)
	}

	var body struct {
		Data struct {
			Data     []ProgramPayload `json:"data"`
			NextPage *int             `json:"next_page"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/public/registered_programs", "", query, &body); err != nil {
		return nil, err
	}

	return &ProgramPage{Data: body.Data.Data, NextPage: body.Data.NextPage}, nil
}

// ListCategories fetches all program categories.
func (c *Client) ListCategories(ctx context.Context) ([]CategoryPayload, error) {
	var body struct {
		Data []CategoryPayload `json:"data"`
	}
	if err := c.get(ctx, "/public/categories", "", nil, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// RegisterInterest marks a program as interesting for the authenticated
// student. Responds 403 when the token does not belong to a student.
func (c *Client) RegisterInterest(ctx context.Context, programID int64, token string) error {
	path := fmt.Sprintf("/student/programs/%d/interest", programID)
	return c.send(ctx, http.MethodPost, path, token, nil, nil)
}

// RemoveInterest clears the interest flag for the authenticated student.
func (c *Client) RemoveInterest(ctx context.Context, programID int64, token string) error {
	path := fmt.Sprintf("/student/programs/%d/interest", programID)
	return c.send(ctx, http.MethodDelete, path, token, nil, nil)
}
