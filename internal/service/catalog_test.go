package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raay-sa/raay-web/internal/cache"
	"github.com/raay-sa/raay-web/internal/upstream"
)

// fakeCatalogAPI serves canned pages and counts upstream calls.
type fakeCatalogAPI struct {
	livePages  map[int]*upstream.ProgramPage
	categories []upstream.CategoryPayload

	liveCalls     atomic.Int32
	categoryCalls atomic.Int32
	lastLang      string
}

func (f *fakeCatalogAPI) ListPrograms(ctx context.Context, page int, categoryID int64, lang string) (*upstream.ProgramPage, error) {
	f.liveCalls.Add(1)
	f.lastLang = lang
	p, ok := f.livePages[page]
	if !ok {
		return &upstream.ProgramPage{}, nil
	}
	return p, nil
}

func (f *fakeCatalogAPI) ProgramsByCategory(ctx context.Context, categoryID int64) ([]upstream.ProgramPayload, error) {
	return f.livePages[1].Data, nil
}

func (f *fakeCatalogAPI) ListRegisteredPrograms(ctx context.Context, page int, categoryID int64) (*upstream.ProgramPage, error) {
	return &upstream.ProgramPage{}, nil
}

func (f *fakeCatalogAPI) ListCategories(ctx context.Context) ([]upstream.CategoryPayload, error) {
	f.categoryCalls.Add(1)
	return f.categories, nil
}

func intPtr(n int) *int { return &n }

func newTestCatalog(t *testing.T, api CatalogAPI) *CatalogService {
	t.Helper()
	m, err := cache.NewManager(cache.Config{Type: "memory", DefaultTTL: time.Minute}, nil)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return NewCatalogService(api, m, discardLogger())
}

func TestCatalogService_ProgramsFirstPage(t *testing.T) {
	api := &fakeCatalogAPI{
		livePages: map[int]*upstream.ProgramPage{
			1: {
				Data: []upstream.ProgramPayload{
					{ID: 1, Title: "Go Basics"},
					{ID: 2, Title: "Advanced Go"},
				},
				NextPage: intPtr(2),
			},
		},
	}
	svc := newTestCatalog(t, api)
	ctx := context.Background()

	list, err := svc.Programs(ctx, "en", ListingLive, 0)
	if err != nil {
		t.Fatalf("Programs failed: %v", err)
	}
	if len(list.Programs) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(list.Programs))
	}
	if !list.HasMore {
		t.Error("expected more pages")
	}
	if api.lastLang != "en" {
		t.Errorf("expected lang forwarded to upstream, got %q", api.lastLang)
	}

	// Second read is served from cache.
	if _, err := svc.Programs(ctx, "en", ListingLive, 0); err != nil {
		t.Fatalf("Programs failed: %v", err)
	}
	if api.liveCalls.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", api.liveCalls.Load())
	}
}

func TestCatalogService_MoreProgramsAndTerminal(t *testing.T) {
	api := &fakeCatalogAPI{
		livePages: map[int]*upstream.ProgramPage{
			1: {Data: []upstream.ProgramPayload{{ID: 1, Title: "A"}}, NextPage: intPtr(2)},
			2: {Data: []upstream.ProgramPayload{{ID: 2, Title: "B"}}, NextPage: nil},
		},
	}
	svc := newTestCatalog(t, api)
	ctx := context.Background()

	if _, err := svc.Programs(ctx, "ar", ListingLive, 0); err != nil {
		t.Fatalf("Programs failed: %v", err)
	}

	list, err := svc.MorePrograms(ctx, "ar", ListingLive, 0)
	if err != nil {
		t.Fatalf("MorePrograms failed: %v", err)
	}
	if len(list.Programs) != 2 {
		t.Fatalf("expected 2 programs after second page, got %d", len(list.Programs))
	}
	if list.HasMore {
		t.Error("expected terminal listing")
	}

	calls := api.liveCalls.Load()
	// The listing is exhausted: another request must not hit upstream.
	list, err = svc.MorePrograms(ctx, "ar", ListingLive, 0)
	if err != nil {
		t.Fatalf("MorePrograms on terminal listing failed: %v", err)
	}
	if len(list.Programs) != 2 {
		t.Errorf("terminal listing changed, got %d programs", len(list.Programs))
	}
	if api.liveCalls.Load() != calls {
		t.Error("terminal listing triggered an upstream call")
	}
}

func TestCatalogService_EmptyListingIsSuccess(t *testing.T) {
	api := &fakeCatalogAPI{livePages: map[int]*upstream.ProgramPage{}}
	svc := newTestCatalog(t, api)

	list, err := svc.Programs(context.Background(), "ar", ListingLive, 0)
	if err != nil {
		t.Fatalf("empty listing must not be an error: %v", err)
	}
	if len(list.Programs) != 0 || list.HasMore {
		t.Errorf("expected empty terminal listing, got %+v", list)
	}
}

func TestCatalogService_LocalesDoNotShareEntries(t *testing.T) {
	api := &fakeCatalogAPI{
		livePages: map[int]*upstream.ProgramPage{
			1: {Data: []upstream.ProgramPayload{{ID: 1, Title: "X"}}},
		},
	}
	svc := newTestCatalog(t, api)
	ctx := context.Background()

	if _, err := svc.Programs(ctx, "ar", ListingLive, 0); err != nil {
		t.Fatalf("Programs ar failed: %v", err)
	}
	if _, err := svc.Programs(ctx, "en", ListingLive, 0); err != nil {
		t.Fatalf("Programs en failed: %v", err)
	}
	if api.liveCalls.Load() != 2 {
		t.Errorf("expected one upstream call per locale, got %d", api.liveCalls.Load())
	}
}

func TestCatalogService_Categories(t *testing.T) {
	api := &fakeCatalogAPI{
		categories: []upstream.CategoryPayload{
			{ID: 1, Title: "Default", Translations: []upstream.TranslationPayload{
				{Locale: "ar", Title: "التقنية"},
				{Locale: "en", Title: "Technology"},
			}},
		},
	}
	svc := newTestCatalog(t, api)
	ctx := context.Background()

	cats, err := svc.Categories(ctx, "en")
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(cats) != 1 || cats[0].Title != "Technology" {
		t.Errorf("unexpected categories: %+v", cats)
	}

	if _, err := svc.Categories(ctx, "en"); err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if api.categoryCalls.Load() != 1 {
		t.Errorf("expected cached categories, got %d calls", api.categoryCalls.Load())
	}
}

func TestCatalogService_UnknownListing(t *testing.T) {
	svc := newTestCatalog(t, &fakeCatalogAPI{})
	if _, err := svc.Programs(context.Background(), "ar", "bogus", 0); err == nil {
		t.Fatal("expected error for unknown listing")
	}
}
