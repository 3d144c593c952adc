package repository

import (
	"workbook_coach_backend/internal/model"

	"gorm.io/gorm"
)

type WorksheetRepository struct {
	DB *gorm.DB
}

func NewWorksheetRepository(db *gorm.DB) *WorksheetRepository {
	return &WorksheetRepository{DB: db}
}

func (r *WorksheetRepository) FindByID(id string) (*model.Worksheet, error) {
	var w model.Worksheet
	err := r.DB.Where("id = ?", id).First(&w).Error
	return &w, err
}

func (r *WorksheetRepository) ListByCategory(categories ...model.WorksheetCategory) ([]model.Worksheet, error) {
	var list []model.Worksheet
	query := r.DB.Model(&model.Worksheet{})
	if len(categories) > 0 {
		query = query.Where("category IN ?", categories)
	}
	err := query.Order("id asc").Find(&list).Error
	return list, err
}
