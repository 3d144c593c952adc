package service

import (
	"context"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/pkg/monitoring"
)

// RecommendationService surfaces due follow-ups and general worksheet suggestions.
type RecommendationService struct {
	Submissions *repository.SubmissionRepository
	Followups   *repository.FollowupRepository
	Worksheets  *WorksheetService
	Triggers    *TriggerEngine
}

func NewRecommendationService(
	submissions *repository.SubmissionRepository,
	followups *repository.FollowupRepository,
	worksheets *WorksheetService,
	triggers *TriggerEngine,
) *RecommendationService {
	return &RecommendationService{
		Submissions: submissions,
		Followups:   followups,
		Worksheets:  worksheets,
		Triggers:    triggers,
	}
}

// FollowupRecommendations lists the follow-ups a user is due for. Submissions
// whose offered follow-up is already completed are skipped.
func (s *RecommendationService) FollowupRecommendations(ctx context.Context, userID uint) ([]model.FollowupRecommendation, error) {
	submissions, err := s.Submissions.ListSubmittedByUser(userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.Followups.ListCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(completed))
	for _, f := range completed {
		done[f.OriginalSubmissionID+"|"+f.FollowupWorksheetID] = true
	}

	eligible := make([]model.Submission, 0, len(submissions))
	for i := range submissions {
		if done[submissions[i].ID+"|"+OfferedFollowupWorksheet(&submissions[i])] {
			continue
		}
		eligible = append(eligible, submissions[i])
	}

	recs := RankFollowups(ctx, s.Triggers.Evaluate(eligible), eligible, s.Worksheets.Lookup)
	for _, r := range recs {
		monitoring.RecommendationsServed.WithLabelValues(string(r.Priority)).Inc()
	}
	return recs, nil
}

const (
	scoreBase              = 1.0
	scoreDiagnosisSuggests = 3.0
	scoreNotStarted        = 1.0
	scoreAlreadySubmitted  = -2.0
)

// WorksheetRecommendations scores the workbook and pillar worksheets for a
// user and ranks them, excluding currentWorksheetID.
func (s *RecommendationService) WorksheetRecommendations(ctx context.Context, userID uint, currentWorksheetID string) ([]model.WorksheetRecommendation, error) {
	worksheets, err := s.Worksheets.List(model.WorksheetWorkbook, model.WorksheetPillar)
	if err != nil {
		return nil, err
	}
	submissions, err := s.Submissions.ListSubmittedByUser(userID)
	if err != nil {
		return nil, err
	}

	submitted := make(map[string]bool)
	suggested := make(map[string]bool)
	for i := range submissions {
		submitted[submissions[i].WorksheetID] = true
	}
	// submissions are most recent first; only the latest diagnosis counts
	for i := range submissions {
		d, err := submissions[i].DiagnosisResult()
		if err != nil || d == nil {
			continue
		}
		for _, id := range d.FollowupWorksheets.Pillars {
			suggested[id] = true
		}
		break
	}

	candidates := make([]model.WorksheetRecommendation, 0, len(worksheets))
	for _, w := range worksheets {
		rec := model.WorksheetRecommendation{
			WorksheetID: w.ID,
			Title:       w.Title,
			Description: w.Description,
			Category:    w.Category,
			PillarID:    w.PillarID,
			Score:       scoreBase,
		}
		if suggested[w.ID] {
			rec.Score += scoreDiagnosisSuggests
			rec.Reason = "Suggested by your latest diagnosis"
		}
		if submitted[w.ID] {
			rec.Score += scoreAlreadySubmitted
		} else {
			rec.Score += scoreNotStarted
			if rec.Reason == "" {
				rec.Reason = "Not started yet"
			}
		}
		candidates = append(candidates, rec)
	}
	return RankWorksheets(candidates, currentWorksheetID), nil
}
