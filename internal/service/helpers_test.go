package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeModel struct {
	mu       sync.Mutex
	text     string
	err      error
	calls    int
	system   string
	user     string
	lastOpts CompletionOptions
}

func (m *fakeModel) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.system, m.user, m.lastOpts = system, user, opts
	return m.text, m.err
}

type fakeUsers map[uint]*model.User

func (f fakeUsers) FindByID(id uint) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func staticWorksheets(list ...model.Worksheet) WorksheetLookup {
	byID := make(map[string]model.Worksheet, len(list))
	for _, w := range list {
		byID[w.ID] = w
	}
	return func(ctx context.Context, id string) (*model.Worksheet, error) {
		w, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("worksheet %s not found", id)
		}
		return &w, nil
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedWorksheets(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func answersOf(pairs ...interface{}) model.Answers {
	a := model.NewAnswers()
	for i := 0; i+1 < len(pairs); i += 2 {
		key := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case string:
			a.Set(key, model.StringAnswer(v))
		case int:
			a.Set(key, model.NumberAnswer(float64(v)))
		case float64:
			a.Set(key, model.NumberAnswer(v))
		case bool:
			a.Set(key, model.BoolAnswer(v))
		case []string:
			a.Set(key, model.ListAnswer(v...))
		case nil:
			a.Set(key, model.AnswerValue{})
		}
	}
	return a
}
