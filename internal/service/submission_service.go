package service

import (
	"context"
	"errors"
	"time"
	"workbook_coach_backend/internal/cache"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/prompt"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/internal/util"
	"workbook_coach_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DraftRequest is a partial answer save for one worksheet.
type DraftRequest struct {
	WorksheetID       string        `json:"worksheetId" binding:"required"`
	Answers           model.Answers `json:"answers" swaggertype:"object"`
	ClientName        string        `json:"clientName"`
	FollowupRequested *bool         `json:"followupRequested"`
}

type SubmissionService struct {
	Repo       *repository.SubmissionRepository
	Users      UserLookup
	Worksheets *WorksheetService
	Generator  *DiagnosisGenerator
	Archive    *DiagnosisArchive
	Lock       cache.GenerationLock
}

func NewSubmissionService(
	repo *repository.SubmissionRepository,
	users UserLookup,
	worksheets *WorksheetService,
	generator *DiagnosisGenerator,
	archive *DiagnosisArchive,
	lock cache.GenerationLock,
) *SubmissionService {
	return &SubmissionService{
		Repo:       repo,
		Users:      users,
		Worksheets: worksheets,
		Generator:  generator,
		Archive:    archive,
		Lock:       lock,
	}
}

// SaveDraft creates the user's draft for a worksheet on first save and
// shallow-merges answers into it afterwards.
func (s *SubmissionService) SaveDraft(ctx context.Context, userID uint, req DraftRequest) (*model.Submission, error) {
	ws, err := s.Worksheets.Get(ctx, req.WorksheetID)
	if err != nil {
		return nil, err
	}
	if ws.Category == model.WorksheetFollowup {
		return nil, util.ErrWorksheetNotFound
	}

	sub, err := s.Repo.FindDraft(userID, ws.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = &model.Submission{
			UserID:      userID,
			WorksheetID: ws.ID,
			Kind:        model.KindWorksheet,
			Status:      model.SubmissionDraft,
		}
		if ws.Category == model.WorksheetWorkbook {
			sub.Kind = model.KindWorkbook
		}
	case err != nil:
		return nil, err
	}

	existing, err := sub.AnswerSet()
	if err != nil {
		logger.Log.Warn("Discarding unreadable draft answers", zap.String("submission_id", sub.ID), zap.Error(err))
		existing = model.NewAnswers()
	}
	if err := sub.SetAnswers(existing.Merge(req.Answers)); err != nil {
		return nil, err
	}
	if req.ClientName != "" {
		sub.ClientName = req.ClientName
	}
	if req.FollowupRequested != nil {
		sub.FollowupRequested = *req.FollowupRequested
	}

	if !sub.Persisted() {
		err = s.Repo.Create(sub)
	} else {
		err = s.Repo.Save(sub)
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Get returns a submission owned by userID.
func (s *SubmissionService) Get(userID uint, id string) (*model.Submission, error) {
	sub, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return sub, nil
}

func (s *SubmissionService) ListForUser(userID uint) ([]model.Submission, error) {
	return s.Repo.ListByUser(userID)
}

// Submit freezes the answers and generates the first diagnosis. When
// generation fails the submission stays submitted, is returned, and the
// error is util.ErrDiagnosisGenerationFailed.
func (s *SubmissionService) Submit(ctx context.Context, userID uint, id string) (*model.Submission, error) {
	sub, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if sub.IsSubmitted() {
		return nil, util.ErrSubmissionAlreadySubmitted
	}

	now := time.Now()
	ok, err := s.Repo.MarkSubmitted(sub.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrSubmissionAlreadySubmitted
	}
	sub.Status = model.SubmissionSubmitted
	sub.SubmittedAt = &now

	if err := s.generate(ctx, sub); err != nil {
		return sub, err
	}
	return sub, nil
}

// RegenerateDiagnosis retries the first diagnosis for a submitted submission.
func (s *SubmissionService) RegenerateDiagnosis(ctx context.Context, userID uint, id string) (*model.Submission, error) {
	sub, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsSubmitted() {
		return nil, util.ErrSubmissionNotSubmitted
	}
	if err := s.generate(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubmissionService) MarkDiagnosisViewed(userID uint, id string) (*model.Submission, error) {
	sub, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if sub.DiagnosisViewedAt != nil {
		return sub, nil
	}
	now := time.Now()
	if err := s.Repo.MarkDiagnosisViewed(id, now); err != nil {
		return nil, err
	}
	sub.DiagnosisViewedAt = &now
	return sub, nil
}

func (s *SubmissionService) generate(ctx context.Context, sub *model.Submission) error {
	if s.Lock != nil {
		release, ok, err := s.Lock.Acquire(ctx, "submission:"+sub.ID)
		if err != nil {
			logger.Log.Warn("Generation lock unavailable", zap.String("submission_id", sub.ID), zap.Error(err))
		} else if !ok {
			return util.ErrGenerationInProgress
		} else {
			defer release()
		}
	}

	answers, err := sub.AnswerSet()
	if err != nil {
		logger.Log.Warn("Unreadable answers on submission", zap.String("submission_id", sub.ID), zap.Error(err))
	}
	data := prompt.InitialData{
		Answers:    answers,
		ClientName: ClientName(s.Users, sub),
	}
	if ws, err := s.Worksheets.Get(ctx, sub.WorksheetID); err == nil {
		data.WorksheetTitle = ws.Title
		data.WorksheetDescription = ws.Description
	}

	diagnosis, err := s.Generator.GenerateInitial(ctx, sub.WorksheetID, data)
	if err != nil {
		return err
	}

	if err := sub.SetDiagnosis(diagnosis); err != nil {
		return err
	}
	now := time.Now()
	if err := s.Repo.UpdateDiagnosis(sub.ID, sub.Diagnosis, now); err != nil {
		return err
	}
	sub.DiagnosisGeneratedAt = &now

	s.Archive.Store(ctx, ArchiveSubmission, sub.ID, diagnosis)
	return nil
}

// RegenerateMissing retries the first diagnosis for up to limit submissions
// whose generation failed. It returns how many succeeded.
func (s *SubmissionService) RegenerateMissing(ctx context.Context, limit int) (int, error) {
	pending, err := s.Repo.ListMissingDiagnosis(limit)
	if err != nil {
		return 0, err
	}

	done := 0
	for i := range pending {
		if ctx.Err() != nil {
			break
		}
		if err := s.generate(ctx, &pending[i]); err != nil {
			logger.Log.Warn("Diagnosis retry failed", zap.String("submission_id", pending[i].ID), zap.Error(err))
			continue
		}
		done++
	}
	if len(pending) > 0 {
		logger.Log.Info("Diagnosis retry finished", zap.Int("pending", len(pending)), zap.Int("generated", done))
	}
	return done, nil
}
