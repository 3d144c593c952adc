package repository

import (
	"time"
	"workbook_coach_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(s *model.Submission) error {
	return r.DB.Create(s).Error
}

func (r *SubmissionRepository) Save(s *model.Submission) error {
	return r.DB.Save(s).Error
}

func (r *SubmissionRepository) FindByID(id string) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("id = ?", id).First(&s).Error
	return &s, err
}

// FindDraft returns the user's most recent draft for a worksheet.
func (r *SubmissionRepository) FindDraft(userID uint, worksheetID string) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("user_id = ? AND worksheet_id = ? AND status = ?", userID, worksheetID, model.SubmissionDraft).
		Order("updated_at desc").
		First(&s).Error
	return &s, err
}

// ListByUser returns every submission of a user, most recent first.
func (r *SubmissionRepository) ListByUser(userID uint) ([]model.Submission, error) {
	var list []model.Submission
	err := r.DB.Where("user_id = ?", userID).
		Order("submitted_at desc").
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

func (r *SubmissionRepository) ListSubmittedByUser(userID uint) ([]model.Submission, error) {
	var list []model.Submission
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.SubmissionSubmitted).
		Order("submitted_at desc").
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

// MarkSubmitted moves a draft to submitted. It reports false when the row was
// no longer a draft.
func (r *SubmissionRepository) MarkSubmitted(id string, at time.Time) (bool, error) {
	res := r.DB.Model(&model.Submission{}).
		Where("id = ? AND status = ?", id, model.SubmissionDraft).
		Updates(map[string]interface{}{
			"status":       model.SubmissionSubmitted,
			"submitted_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

// UpdateDiagnosis writes only the diagnosis columns; answers stay frozen.
func (r *SubmissionRepository) UpdateDiagnosis(id string, diagnosis datatypes.JSON, generatedAt time.Time) error {
	return r.DB.Model(&model.Submission{}).Where("id = ?", id).Updates(map[string]interface{}{
		"diagnosis":              diagnosis,
		"diagnosis_generated_at": generatedAt,
	}).Error
}

func (r *SubmissionRepository) MarkDiagnosisViewed(id string, at time.Time) error {
	return r.DB.Model(&model.Submission{}).
		Where("id = ? AND diagnosis_viewed_at IS NULL", id).
		Update("diagnosis_viewed_at", at).Error
}

// ListMissingDiagnosis returns submitted submissions that have no diagnosis yet,
// oldest first.
func (r *SubmissionRepository) ListMissingDiagnosis(limit int) ([]model.Submission, error) {
	var list []model.Submission
	err := r.DB.Where("status = ? AND diagnosis_generated_at IS NULL", model.SubmissionSubmitted).
		Order("submitted_at asc").
		Limit(limit).
		Find(&list).Error
	return list, err
}
