package service

import (
	"context"
	"errors"
	"testing"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/internal/util"
)

type memoryCache struct {
	items  map[string]*model.Worksheet
	gets   int
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]*model.Worksheet)}
}

func (c *memoryCache) Get(ctx context.Context, id string) (*model.Worksheet, error) {
	c.gets++
	return c.items[id], nil
}

func (c *memoryCache) Set(ctx context.Context, w *model.Worksheet) error {
	if c.setErr != nil {
		return c.setErr
	}
	copied := *w
	c.items[w.ID] = &copied
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, id string) error {
	delete(c.items, id)
	return nil
}

func TestWorksheetService_Warm(t *testing.T) {
	db := newTestDB(t)
	c := newMemoryCache()
	s := NewWorksheetService(repository.NewWorksheetRepository(db), c)

	n, err := s.Warm(context.Background())
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	if want := len(model.DefaultWorksheets()); n != want || len(c.items) != want {
		t.Fatalf("warmed %d (cached %d), want %d", n, len(c.items), want)
	}

	// served from the cache once warm
	c.items[model.WorkbookID].Title = "cached"
	w, err := s.Get(context.Background(), model.WorkbookID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.Title != "cached" {
		t.Fatalf("expected cached worksheet, got title %q", w.Title)
	}
}

func TestWorksheetService_WarmWithoutCache(t *testing.T) {
	s := NewWorksheetService(repository.NewWorksheetRepository(newTestDB(t)), nil)
	n, err := s.Warm(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("got n=%d err=%v, want 0 and nil", n, err)
	}
}

func TestWorksheetService_WarmStopsOnCacheError(t *testing.T) {
	c := newMemoryCache()
	c.setErr = errors.New("redis down")
	s := NewWorksheetService(repository.NewWorksheetRepository(newTestDB(t)), c)

	if _, err := s.Warm(context.Background()); err == nil {
		t.Fatal("expected the cache error to surface")
	}
}

func TestWorksheetService_GetFallsBackToDatabase(t *testing.T) {
	c := newMemoryCache()
	s := NewWorksheetService(repository.NewWorksheetRepository(newTestDB(t)), c)

	w, err := s.Get(context.Background(), "pillar7_delegation_empowerment")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.Category != model.WorksheetPillar {
		t.Fatalf("category = %q, want %q", w.Category, model.WorksheetPillar)
	}
	if _, ok := c.items[w.ID]; !ok {
		t.Fatal("expected a database hit to populate the cache")
	}

	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, util.ErrWorksheetNotFound) {
		t.Fatalf("expected ErrWorksheetNotFound, got %v", err)
	}
}
