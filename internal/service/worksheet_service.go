package service

import (
	"context"
	"errors"
	"workbook_coach_backend/internal/cache"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/internal/util"
	"workbook_coach_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorksheetService reads the worksheet catalog through an optional Redis cache.
type WorksheetService struct {
	Repo  *repository.WorksheetRepository
	Cache cache.WorksheetCache
}

func NewWorksheetService(repo *repository.WorksheetRepository, c cache.WorksheetCache) *WorksheetService {
	return &WorksheetService{Repo: repo, Cache: c}
}

func (s *WorksheetService) Get(ctx context.Context, id string) (*model.Worksheet, error) {
	if s.Cache != nil {
		w, err := s.Cache.Get(ctx, id)
		if err != nil {
			logger.Log.Warn("Worksheet cache read failed", zap.String("worksheet_id", id), zap.Error(err))
		} else if w != nil {
			return w, nil
		}
	}

	w, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrWorksheetNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, w); err != nil {
			logger.Log.Warn("Worksheet cache write failed", zap.String("worksheet_id", id), zap.Error(err))
		}
	}
	return w, nil
}

// Lookup adapts Get to the WorksheetLookup signature.
func (s *WorksheetService) Lookup(ctx context.Context, id string) (*model.Worksheet, error) {
	return s.Get(ctx, id)
}

func (s *WorksheetService) List(categories ...model.WorksheetCategory) ([]model.Worksheet, error) {
	return s.Repo.ListByCategory(categories...)
}

// Warm loads the whole catalog into the cache and returns how many
// worksheets were written.
func (s *WorksheetService) Warm(ctx context.Context) (int, error) {
	if s.Cache == nil {
		return 0, nil
	}
	list, err := s.Repo.ListByCategory()
	if err != nil {
		return 0, err
	}
	for i := range list {
		if err := s.Cache.Set(ctx, &list[i]); err != nil {
			return i, err
		}
	}
	return len(list), nil
}
