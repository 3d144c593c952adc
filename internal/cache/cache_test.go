package cache

import (
	"context"
	"testing"
	"time"
	"workbook_coach_backend/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestWorksheetCache_MissSetGet(t *testing.T) {
	client, mr := newTestClient(t)
	c := NewWorksheetCache(client, time.Minute)
	ctx := context.Background()

	got, err := c.Get(ctx, model.WorkbookID)
	if err != nil || got != nil {
		t.Fatalf("expected miss, got=%v err=%v", got, err)
	}

	w := &model.Worksheet{ID: model.WorkbookID, Title: "Leadership Workbook", Category: model.WorksheetWorkbook}
	if err := c.Set(ctx, w); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err = c.Get(ctx, model.WorkbookID)
	if err != nil || got == nil || got.Title != w.Title {
		t.Fatalf("expected hit, got=%+v err=%v", got, err)
	}

	mr.FastForward(2 * time.Minute)
	if got, _ := c.Get(ctx, model.WorkbookID); got != nil {
		t.Fatalf("expected entry to expire")
	}

	_ = c.Set(ctx, w)
	if err := c.Invalidate(ctx, w.ID); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if got, _ := c.Get(ctx, w.ID); got != nil {
		t.Fatalf("expected entry to be gone")
	}
}

func TestGenerationLock_Exclusive(t *testing.T) {
	client, _ := newTestClient(t)
	lock := NewGenerationLock(client, time.Minute)
	ctx := context.Background()

	release, ok, err := lock.Acquire(ctx, "followup-1")
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := lock.Acquire(ctx, "followup-1"); ok {
		t.Fatalf("second acquire should fail while held")
	}
	if _, ok, _ := lock.Acquire(ctx, "followup-2"); !ok {
		t.Fatalf("other keys should not be blocked")
	}

	release()
	if _, ok, _ := lock.Acquire(ctx, "followup-1"); !ok {
		t.Fatalf("acquire after release should succeed")
	}
}
