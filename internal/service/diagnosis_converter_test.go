package service

import (
	"testing"
	"workbook_coach_backend/internal/model"
)

func TestConvertFollowupDiagnosis_EmptyInputIsTotal(t *testing.T) {
	for _, resp := range []*FollowupDiagnosisResponse{nil, {}} {
		for _, c := range []model.FollowupCategory{model.CategoryWorkbook, model.CategoryPillar} {
			d := ConvertFollowupDiagnosis(resp, c)
			if d.Strengths == nil || d.Challenges == nil || d.Recommendations == nil || d.FollowupWorksheets.Pillars == nil {
				t.Fatalf("nil simple list in %+v", d)
			}
			if len(d.StrengthsAnalysis) != 1 || len(d.GrowthAreasAnalysis) != 1 ||
				len(d.ActionableRecommendations) != 1 || len(d.PillarRecommendations) != 1 {
				t.Fatalf("expected one nested entry per list, got %+v", d)
			}
			if d.FollowupRecommendation == nil {
				t.Fatalf("follow-up recommendation must always be present")
			}
			if d.FollowupRecommendation.ID != "followup-assessment" || d.FollowupRecommendation.Reason != "" {
				t.Fatalf("unexpected default follow-up: %+v", d.FollowupRecommendation)
			}
			if d.FollowupWorksheets.Followup != "followup-assessment" {
				t.Fatalf("pointer should name the default follow-up, got %q", d.FollowupWorksheets.Followup)
			}
		}
	}
}

func TestConvertFollowupDiagnosis_PillarResponse(t *testing.T) {
	resp := &FollowupDiagnosisResponse{
		Category:                  model.CategoryPillar,
		Summary:                   "Clearer updates.",
		SituationAnalysis:         "Team trusts the cadence.",
		StrengthsAnalysis:         "Weekly written updates.",
		GrowthAreasAnalysis:       "Listening in conflict.",
		ActionableRecommendations: "Run a listening drill.",
		PillarRecommendations:     "Revisit Conflict Resolution.",
		FollowupRecommendation:    "Repeat this follow-up in 60 days.",
		PillarID:                  "pillar3_communication_mastery",
		PillarTitle:               "Communication Mastery",
		FollowupWorksheetID:       "pillar3_communication_mastery-followup",
		FollowupWorksheetTitle:    "Communication Mastery Follow-up",
	}
	d := ConvertFollowupDiagnosis(resp, model.CategoryPillar)

	if d.Summary != resp.Summary || d.SituationAnalysis != resp.SituationAnalysis {
		t.Fatalf("text fields not carried: %+v", d)
	}
	if len(d.Strengths) != 1 || d.Strengths[0] != resp.StrengthsAnalysis {
		t.Fatalf("strengths: %v", d.Strengths)
	}
	if d.StrengthsAnalysis[0].Strength != resp.StrengthsAnalysis || d.StrengthsAnalysis[0].Evidence != "" {
		t.Fatalf("strength detail: %+v", d.StrengthsAnalysis[0])
	}
	if d.GrowthAreasAnalysis[0].Area != resp.GrowthAreasAnalysis || d.ActionableRecommendations[0].Action != resp.ActionableRecommendations {
		t.Fatalf("nested records: %+v %+v", d.GrowthAreasAnalysis, d.ActionableRecommendations)
	}
	pr := d.PillarRecommendations[0]
	if pr.ID != resp.PillarID || pr.Title != "Communication Mastery" || pr.Reason != resp.PillarRecommendations {
		t.Fatalf("pillar recommendation: %+v", pr)
	}
	fr := d.FollowupRecommendation
	if fr.ID != model.GenericFollowupID || fr.Title != model.GenericFollowupTitle || fr.Reason != resp.FollowupRecommendation {
		t.Fatalf("follow-up recommendation: %+v", fr)
	}
	if d.FollowupWorksheets.Followup != model.GenericFollowupID {
		t.Fatalf("next step must not point at the completed worksheet, got %q", d.FollowupWorksheets.Followup)
	}
	if len(d.FollowupWorksheets.Pillars) != 1 || d.FollowupWorksheets.Pillars[0] != resp.PillarID {
		t.Fatalf("pillar pointer: %+v", d.FollowupWorksheets)
	}
}

func TestConvertFollowupDiagnosis_WorkbookPillarsFromText(t *testing.T) {
	d := ConvertFollowupDiagnosis(&FollowupDiagnosisResponse{
		PillarRecommendations: "Prioritise Delegation & Empowerment, then Team Building.",
	}, model.CategoryWorkbook)

	if d.PillarRecommendations[0].ID != "pillar7_delegation_empowerment" {
		t.Fatalf("expected first mentioned pillar, got %+v", d.PillarRecommendations[0])
	}
	want := []string{"pillar7_delegation_empowerment", "pillar6_team_building"}
	got := d.FollowupWorksheets.Pillars
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("pillars: got=%v want=%v", got, want)
	}
}

func TestConvertFollowupDiagnosis_NextStepIgnoresCompletedWorksheet(t *testing.T) {
	base := FollowupDiagnosisResponse{
		FollowupWorksheetID:    "pillar7_delegation_empowerment-followup",
		FollowupWorksheetTitle: "Delegation & Empowerment Follow-up",
	}
	withText := base
	withText.FollowupRecommendation = "Check in again after the next quarterly review."

	empty := ConvertFollowupDiagnosis(&base, model.CategoryPillar)
	filled := ConvertFollowupDiagnosis(&withText, model.CategoryPillar)

	if empty.FollowupRecommendation.ID != filled.FollowupRecommendation.ID {
		t.Fatalf("next step id depends on the text: empty=%q filled=%q",
			empty.FollowupRecommendation.ID, filled.FollowupRecommendation.ID)
	}
	if filled.FollowupRecommendation.ID == base.FollowupWorksheetID {
		t.Fatalf("next step points at the completed worksheet %q", base.FollowupWorksheetID)
	}
	if filled.FollowupRecommendation.Reason != withText.FollowupRecommendation {
		t.Fatalf("reason: got=%q want=%q", filled.FollowupRecommendation.Reason, withText.FollowupRecommendation)
	}
}
