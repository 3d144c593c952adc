package service

import (
	"context"
	"sort"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/pkg/logger"
	"workbook_coach_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// RankFollowups turns trigger results into at most one recommendation per
// originating submission. The first trigger seen for a submission wins and
// input order is kept. A trigger whose worksheet cannot be resolved is
// logged and dropped without affecting the rest.
func RankFollowups(ctx context.Context, triggers []model.TriggerResult, submissions []model.Submission, lookup WorksheetLookup) []model.FollowupRecommendation {
	byID := make(map[string]*model.Submission, len(submissions))
	for i := range submissions {
		byID[submissions[i].ID] = &submissions[i]
	}

	consumed := make(map[string]bool)
	out := make([]model.FollowupRecommendation, 0, len(triggers))
	for _, t := range triggers {
		if consumed[t.OriginalSubmissionID] {
			continue
		}

		ws, err := lookup(ctx, t.WorksheetID)
		if err != nil || ws == nil {
			monitoring.RecommendationsDropped.Inc()
			logger.Log.Warn("Dropping follow-up recommendation, worksheet unresolved",
				zap.String("worksheet_id", t.WorksheetID),
				zap.String("submission_id", t.OriginalSubmissionID),
				zap.Error(err))
			continue
		}

		kind := t.ReasonKind
		if kind == "" {
			kind = model.ClassifyReason(t.Reason)
		}
		rec := model.FollowupRecommendation{
			WorksheetID:          t.WorksheetID,
			Title:                ws.Title,
			Description:          ws.Description,
			Category:             ws.Category,
			OriginalSubmissionID: t.OriginalSubmissionID,
			Reason:               t.Reason,
			ReasonKind:           kind,
			Priority:             model.PriorityForReason(t.Reason),
			PillarIDs:            t.PillarIDs,
		}
		if s, ok := byID[t.OriginalSubmissionID]; ok {
			rec.SubmissionDate = s.SubmittedAt
		}

		consumed[t.OriginalSubmissionID] = true
		out = append(out, rec)
	}
	return out
}

// RankWorksheets orders general worksheet recommendations by score,
// highest first, then drops currentWorksheetID.
func RankWorksheets(candidates []model.WorksheetRecommendation, currentWorksheetID string) []model.WorksheetRecommendation {
	sorted := make([]model.WorksheetRecommendation, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	out := make([]model.WorksheetRecommendation, 0, len(sorted))
	for _, c := range sorted {
		if currentWorksheetID != "" && c.WorksheetID == currentWorksheetID {
			continue
		}
		out = append(out, c)
	}
	return out
}
