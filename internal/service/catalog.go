// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic between handlers and the
// upstream dashboard API.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/raay-sa/raay-web/internal/cache"
	"github.com/raay-sa/raay-web/internal/catalog"
	"github.com/raay-sa/raay-web/internal/upstream"
)

// Listing selects which program collection an operation targets.
const (
	ListingLive       = "live"
	ListingRegistered = "registered"
)

// CatalogAPI is the slice of the upstream client the catalog service uses.
type CatalogAPI interface {
	ListPrograms(ctx context.Context, page int, categoryID int64, lang string) (*upstream.ProgramPage, error)
	ProgramsByCategory(ctx context.Context, categoryID int64) ([]upstream.ProgramPayload, error)
	ListRegisteredPrograms(ctx context.Context, page int, categoryID int64) (*upstream.ProgramPage, error)
	ListCategories(ctx context.Context) ([]upstream.CategoryPayload, error)
}

// ProgramList is one rendered state of an infinite program listing.
type ProgramList struct {
	Programs []catalog.Program `json:"programs"`
	HasMore  bool              `json:"has_more"`
}

// CatalogService serves localized programs and categories through the
// cache layer. All entries are keyed by locale, so the same filters in
// different languages never share an entry.
type CatalogService struct {
	api        CatalogAPI
	programs   *cache.InfiniteQuery[catalog.Program]
	byCategory *cache.Query[[]catalog.Program]
	categories *cache.Query[[]catalog.Category]
	logger     *slog.Logger
}

// NewCatalogService creates a CatalogService on the shared cache backend.
func NewCatalogService(api CatalogAPI, m *cache.Manager, logger *slog.Logger) *CatalogService {
	backend := m.Backend()
	fresh := m.FreshFor()
	return &CatalogService{
		api:        api,
		programs:   cache.NewInfiniteQuery[catalog.Program](backend, fresh, logger),
		byCategory: cache.NewQuery[[]catalog.Program](backend, fresh, logger),
		categories: cache.NewQuery[[]catalog.Category](backend, fresh, logger),
		logger:     logger,
	}
}

// Programs returns the first cached state of a program listing, loading
// its first page when needed. An empty listing is a valid result, not an
// error.
func (s *CatalogService) Programs(ctx context.Context, lang, listing string, categoryID int64) (*ProgramList, error) {
	key, fetch, err := s.listingQuery(lang, listing, categoryID)
	if err != nil {
		return nil, err
	}
	chain, err := s.programs.Get(ctx, key, fetch)
	if err != nil {
		return nil, err
	}
	return &ProgramList{Programs: chain.Items(), HasMore: chain.HasMore()}, nil
}

// MorePrograms extends a program listing by one page. On a terminal
// listing it returns the current state without an upstream call.
func (s *CatalogService) MorePrograms(ctx context.Context, lang, listing string, categoryID int64) (*ProgramList, error) {
	key, fetch, err := s.listingQuery(lang, listing, categoryID)
	if err != nil {
		return nil, err
	}
	chain, err := s.programs.FetchNextPage(ctx, key, fetch)
	if err != nil {
		return nil, err
	}
	return &ProgramList{Programs: chain.Items(), HasMore: chain.HasMore()}, nil
}

// CategoryPrograms returns the full program listing of one category.
func (s *CatalogService) CategoryPrograms(ctx context.Context, lang string, categoryID int64) ([]catalog.Program, error) {
	key := cache.NewContext(lang).Key("category_programs", strconv.FormatInt(categoryID, 10))
	result, err := s.byCategory.Get(ctx, key, func(ctx context.Context) (*[]catalog.Program, error) {
		payloads, err := s.api.ProgramsByCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		mapped := catalog.MapPrograms(payloads, lang)
		return &mapped, nil
	})
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// Categories returns all program categories localized for lang.
func (s *CatalogService) Categories(ctx context.Context, lang string) ([]catalog.Category, error) {
	key := cache.NewContext(lang).Key("categories")
	result, err := s.categories.Get(ctx, key, func(ctx context.Context) (*[]catalog.Category, error) {
		payloads, err := s.api.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		mapped := catalog.MapCategories(payloads, lang)
		return &mapped, nil
	})
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// WarmLocale preloads the categories and the first unfiltered live page
// for lang. Used by the scheduler so that the common landing requests hit
// a warm cache.
func (s *CatalogService) WarmLocale(ctx context.Context, lang string) error {
	if _, err := s.Categories(ctx, lang); err != nil {
		return fmt.Errorf("warm categories: %w", err)
	}
	if _, err := s.Programs(ctx, lang, ListingLive, 0); err != nil {
		return fmt.Errorf("warm programs: %w", err)
	}
	return nil
}

// listingQuery resolves the cache key and page fetcher for a listing.
func (s *CatalogService) listingQuery(lang, listing string, categoryID int64) (string, cache.PageFetchFunc[catalog.Program], error) {
	categoryFilter := "all"
	if categoryID != 0 {
		categoryFilter = strconv.FormatInt(categoryID, 10)
	}
	key := cache.NewContext(lang).Key("programs", listing, categoryFilter)

	var fetch cache.PageFetchFunc[catalog.Program]
	switch listing {
	case ListingLive:
		fetch = func(ctx context.Context, page int) (*cache.Page[catalog.Program], error) {
			p, err := s.api.ListPrograms(ctx, page, categoryID, lang)
			if err != nil {
				return nil, err
			}
			return &cache.Page[catalog.Program]{Items: catalog.MapPrograms(p.Data, lang), NextPage: p.NextPage}, nil
		}
	case ListingRegistered:
		fetch = func(ctx context.Context, page int) (*cache.Page[catalog.Program], error) {
			p, err := s.api.ListRegisteredPrograms(ctx, page, categoryID)
			if err != nil {
				return nil, err
			}
			return &cache.Page[catalog.Program]{Items: catalog.MapPrograms(p.Data, lang), NextPage: p.NextPage}, nil
		}
	default:
		return "", nil, fmt.Errorf("unknown listing %q", listing)
	}
	return key, fetch, nil
}
