package repository

import (
	"errors"
	"workbook_coach_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FollowupRepository struct {
	DB *gorm.DB
}

func NewFollowupRepository(db *gorm.DB) *FollowupRepository {
	return &FollowupRepository{DB: db}
}

// FirstOrCreate returns the assessment for (original submission, follow-up
// worksheet), inserting f when none exists. created reports an insert.
func (r *FollowupRepository) FirstOrCreate(f *model.FollowupAssessment) (created bool, err error) {
	existing, err := r.findPair(f.OriginalSubmissionID, f.FollowupWorksheetID)
	if err == nil {
		*f = *existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.DB.Create(f).Error; err != nil {
		// lost a race on the unique index
		existing, findErr := r.findPair(f.OriginalSubmissionID, f.FollowupWorksheetID)
		if findErr != nil {
			return false, err
		}
		*f = *existing
		return false, nil
	}
	return true, nil
}

func (r *FollowupRepository) findPair(originalID, worksheetID string) (*model.FollowupAssessment, error) {
	var f model.FollowupAssessment
	err := r.DB.Where("original_submission_id = ? AND followup_worksheet_id = ?", originalID, worksheetID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FollowupRepository) FindByID(id string) (*model.FollowupAssessment, error) {
	var f model.FollowupAssessment
	err := r.DB.Where("id = ?", id).First(&f).Error
	return &f, err
}

func (r *FollowupRepository) Save(f *model.FollowupAssessment) error {
	return r.DB.Save(f).Error
}

// UpdatePendingAnswers writes answers only while the row is still pending.
func (r *FollowupRepository) UpdatePendingAnswers(id string, answers datatypes.JSON) (bool, error) {
	res := r.DB.Model(&model.FollowupAssessment{}).
		Where("id = ? AND status = ?", id, model.FollowupPending).
		Update("answers", answers)
	return res.RowsAffected > 0, res.Error
}

// CompletePending stores a completed assessment only while the row is still
// pending. It reports false when another request completed it first.
func (r *FollowupRepository) CompletePending(f *model.FollowupAssessment) (bool, error) {
	res := r.DB.Model(&model.FollowupAssessment{}).
		Where("id = ? AND status = ?", f.ID, model.FollowupPending).
		Updates(map[string]interface{}{
			"status":                 f.Status,
			"answers":                f.Answers,
			"diagnosis":              f.Diagnosis,
			"metadata":               f.Metadata,
			"completed_at":           f.CompletedAt,
			"diagnosis_generated_at": f.DiagnosisGeneratedAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *FollowupRepository) ListByUser(userID uint) ([]model.FollowupAssessment, error) {
	var list []model.FollowupAssessment
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *FollowupRepository) ListCompletedByUser(userID uint) ([]model.FollowupAssessment, error) {
	var list []model.FollowupAssessment
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.FollowupCompleted).
		Order("completed_at desc").
		Find(&list).Error
	return list, err
}
