package service

import (
	"strings"
	"time"
	"workbook_coach_backend/internal/model"
)

// ConvertFollowupDiagnosis maps a parsed follow-up response onto the stored
// diagnosis shape. Every nested record is built even from empty text, and the
// next step is always the generic follow-up assessment.
func ConvertFollowupDiagnosis(resp *FollowupDiagnosisResponse, category model.FollowupCategory) model.DiagnosisResult {
	if resp == nil {
		resp = &FollowupDiagnosisResponse{}
	}

	d := model.DiagnosisResult{
		Summary:           resp.Summary,
		Strengths:         nonEmpty(resp.StrengthsAnalysis),
		Challenges:        nonEmpty(resp.GrowthAreasAnalysis),
		Recommendations:   nonEmpty(resp.ActionableRecommendations),
		SituationAnalysis: resp.SituationAnalysis,
		CreatedAt:         time.Now(),

		StrengthsAnalysis: []model.StrengthDetail{
			{Strength: resp.StrengthsAnalysis},
		},
		GrowthAreasAnalysis: []model.GrowthAreaDetail{
			{Area: resp.GrowthAreasAnalysis},
		},
		ActionableRecommendations: []model.ActionableRecommendation{
			{Action: resp.ActionableRecommendations},
		},
	}

	pillarID := resp.PillarID
	if pillarID == "" {
		if mentioned := model.PillarIDsMentioned(resp.PillarRecommendations); len(mentioned) > 0 {
			pillarID = mentioned[0]
		}
	}
	pillarTitle := resp.PillarTitle
	if pillarID != "" && (pillarTitle == "" || pillarTitle == model.UnknownPillarTitle) {
		pillarTitle = model.PillarTitle(pillarID)
	}
	d.PillarRecommendations = []model.PillarRecommendation{
		{ID: pillarID, Title: pillarTitle, Reason: resp.PillarRecommendations},
	}

	d.FollowupRecommendation = followupRecommendation(resp)
	d.FollowupWorksheets = model.FollowupWorksheets{
		Pillars:  followupPillars(resp, category),
		Followup: d.FollowupRecommendation.ID,
	}

	d.Normalize()
	return d
}

// followupRecommendation always names the generic follow-up assessment. The
// worksheet just completed is unique per original submission, so it can never
// be the next step; only the reason comes from the model text.
func followupRecommendation(resp *FollowupDiagnosisResponse) *model.FollowupRecommendationDetail {
	return &model.FollowupRecommendationDetail{
		ID:     model.GenericFollowupID,
		Title:  model.GenericFollowupTitle,
		Reason: resp.FollowupRecommendation,
	}
}

func followupPillars(resp *FollowupDiagnosisResponse, category model.FollowupCategory) []string {
	if category == model.CategoryPillar && resp.PillarID != "" {
		if p, ok := model.ResolvePillar(resp.PillarID); ok {
			return []string{p.ID}
		}
		return []string{resp.PillarID}
	}
	return model.PillarIDsMentioned(resp.PillarRecommendations)
}

func nonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return []string{s}
}
