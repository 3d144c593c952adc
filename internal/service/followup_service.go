package service

import (
	"context"
	"errors"
	"time"
	"workbook_coach_backend/internal/cache"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/internal/util"
	"workbook_coach_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FollowupService struct {
	Repo        *repository.FollowupRepository
	Submissions *SubmissionService
	Worksheets  *WorksheetService
	Context     *ContextBuilder
	Generator   *DiagnosisGenerator
	Archive     *DiagnosisArchive
	Lock        cache.GenerationLock
	now         func() time.Time
}

func NewFollowupService(
	repo *repository.FollowupRepository,
	submissions *SubmissionService,
	worksheets *WorksheetService,
	contextBuilder *ContextBuilder,
	generator *DiagnosisGenerator,
	archive *DiagnosisArchive,
	lock cache.GenerationLock,
) *FollowupService {
	return &FollowupService{
		Repo:        repo,
		Submissions: submissions,
		Worksheets:  worksheets,
		Context:     contextBuilder,
		Generator:   generator,
		Archive:     archive,
		Lock:        lock,
		now:         time.Now,
	}
}

// Start returns the follow-up for (original submission, worksheet), creating
// it pending on first use. An empty worksheet id means the one the original
// diagnosis offers.
func (s *FollowupService) Start(ctx context.Context, userID uint, originalID, followupWorksheetID string) (*model.FollowupAssessment, error) {
	original, err := s.Submissions.Get(userID, originalID)
	if err != nil {
		return nil, err
	}
	if !original.IsSubmitted() {
		return nil, util.ErrSubmissionNotSubmitted
	}
	if followupWorksheetID == "" {
		followupWorksheetID = OfferedFollowupWorksheet(original)
	}

	ws, err := s.Worksheets.Get(ctx, followupWorksheetID)
	if err != nil {
		return nil, err
	}
	if ws.Category != model.WorksheetFollowup {
		return nil, util.ErrNotAFollowup
	}

	category := ws.FollowupCategory
	if !category.Valid() {
		category = model.CategoryWorkbook
	}
	meta := model.FollowupMetadata{PillarID: ws.PillarID, FollowupTitle: ws.Title}
	if orig, err := s.Worksheets.Get(ctx, original.WorksheetID); err == nil {
		meta.OriginalTitle = orig.Title
	}
	if meta.PillarID == "" && category == model.CategoryPillar {
		if p, ok := model.PillarByID(original.WorksheetID); ok {
			meta.PillarID = p.ID
		}
	}

	now := s.now()
	f := &model.FollowupAssessment{
		UserID:               userID,
		OriginalSubmissionID: original.ID,
		FollowupWorksheetID:  ws.ID,
		Category:             category,
		Status:               model.FollowupPending,
		Metadata:             datatypes.NewJSONType(meta),
		ScheduledFor:         &now,
	}
	if err := f.SetAnswers(model.NewAnswers()); err != nil {
		return nil, err
	}
	if _, err := s.Repo.FirstOrCreate(f); err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return f, nil
}

func (s *FollowupService) Get(userID uint, id string) (*model.FollowupAssessment, error) {
	f, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrFollowupNotFound
	}
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return f, nil
}

func (s *FollowupService) ListForUser(userID uint) ([]model.FollowupAssessment, error) {
	return s.Repo.ListByUser(userID)
}

// SaveAnswers shallow-merges answers into a pending follow-up.
func (s *FollowupService) SaveAnswers(userID uint, id string, answers model.Answers) (*model.FollowupAssessment, error) {
	f, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if f.IsCompleted() {
		return nil, util.ErrFollowupAlreadyCompleted
	}
	if err := s.mergeAnswers(f, answers); err != nil {
		return nil, err
	}
	if err := s.storePendingAnswers(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Complete merges the final answers, generates the comparison diagnosis and
// marks the follow-up completed. On generation failure nothing but the
// answers is persisted.
func (s *FollowupService) Complete(ctx context.Context, userID uint, id string, answers model.Answers) (*model.FollowupAssessment, error) {
	f, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if f.IsCompleted() {
		return nil, util.ErrFollowupAlreadyCompleted
	}

	if s.Lock != nil {
		release, ok, err := s.Lock.Acquire(ctx, "followup:"+f.ID)
		if err != nil {
			logger.Log.Warn("Generation lock unavailable", zap.String("followup_id", f.ID), zap.Error(err))
		} else if !ok {
			return nil, util.ErrGenerationInProgress
		} else {
			defer release()
		}

		// the copy read above may predate a completion that held the lock
		if f, err = s.Get(userID, id); err != nil {
			return nil, err
		}
		if f.IsCompleted() {
			return nil, util.ErrFollowupAlreadyCompleted
		}
	}

	if err := s.mergeAnswers(f, answers); err != nil {
		return nil, err
	}
	if err := s.storePendingAnswers(f); err != nil {
		return nil, err
	}

	original, err := s.Submissions.Get(userID, f.OriginalSubmissionID)
	if err != nil {
		return nil, err
	}
	followupAnswers, err := f.AnswerSet()
	if err != nil {
		return nil, err
	}

	meta := f.Metadata.Data()
	data := s.Context.Build(ctx, ContextRequest{
		Category:            f.Category,
		Original:            original,
		FollowupAnswers:     followupAnswers,
		FollowupWorksheetID: f.FollowupWorksheetID,
		PillarID:            meta.PillarID,
		TimeElapsed:         meta.TimeElapsed,
	})

	resp, err := s.Generator.Generate(ctx, f.Category, data)
	if err != nil {
		return nil, err
	}
	diagnosis := ConvertFollowupDiagnosis(resp, f.Category)

	originalAnswers, _ := original.AnswerSet()
	meta.TimeElapsed = data.TimeElapsed
	meta.ImprovementScore = ImprovementScore(originalAnswers, followupAnswers)
	if meta.FollowupTitle == "" {
		meta.FollowupTitle = data.WorksheetTitle
	}

	now := s.now()
	if err := f.SetDiagnosis(&diagnosis); err != nil {
		return nil, err
	}
	f.Metadata = datatypes.NewJSONType(meta)
	f.Status = model.FollowupCompleted
	f.CompletedAt = &now
	f.DiagnosisGeneratedAt = &now
	stored, err := s.Repo.CompletePending(f)
	if err != nil {
		return nil, err
	}
	if !stored {
		return nil, util.ErrFollowupAlreadyCompleted
	}

	s.Archive.Store(ctx, ArchiveFollowup, f.ID, &diagnosis)
	return f, nil
}

func (s *FollowupService) storePendingAnswers(f *model.FollowupAssessment) error {
	ok, err := s.Repo.UpdatePendingAnswers(f.ID, f.Answers)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	// zero rows also means the answers were unchanged; check the status
	current, err := s.Repo.FindByID(f.ID)
	if err != nil {
		return err
	}
	if current.IsCompleted() {
		return util.ErrFollowupAlreadyCompleted
	}
	return nil
}

func (s *FollowupService) mergeAnswers(f *model.FollowupAssessment, answers model.Answers) error {
	existing, err := f.AnswerSet()
	if err != nil {
		logger.Log.Warn("Discarding unreadable follow-up answers", zap.String("followup_id", f.ID), zap.Error(err))
		existing = model.NewAnswers()
	}
	return f.SetAnswers(existing.Merge(answers))
}

// ImprovementScore is the mean change of numeric answers present in both sets,
// or nil when none overlap.
func ImprovementScore(original, followup model.Answers) *float64 {
	var sum float64
	n := 0
	for _, key := range followup.Keys() {
		fv, _ := followup.Get(key)
		after, ok := fv.Number()
		if !ok {
			continue
		}
		ov, found := original.Get(key)
		if !found {
			continue
		}
		before, ok := ov.Number()
		if !ok {
			continue
		}
		sum += after - before
		n++
	}
	if n == 0 {
		return nil
	}
	return util.Float64Ptr(sum / float64(n))
}
