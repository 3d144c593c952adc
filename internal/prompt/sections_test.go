package prompt

import (
	"strings"
	"testing"
	"workbook_coach_backend/internal/model"
)

func TestOutlines_CoverEveryFollowupField(t *testing.T) {
	for _, c := range []model.FollowupCategory{model.CategoryWorkbook, model.CategoryPillar} {
		o := OutlineFor(c)
		for _, f := range FollowupFields {
			if _, _, ok := o.Bounds(f); !ok {
				t.Fatalf("%s outline has no section for %s", c, f)
			}
		}
	}
}

func TestOutlines_GiveSummaryItsOwnSection(t *testing.T) {
	for _, c := range []model.FollowupCategory{model.CategoryWorkbook, model.CategoryPillar} {
		o := OutlineFor(c)
		summary, _, _ := o.Bounds(FieldSummary)
		strengths, _, _ := o.Bounds(FieldStrengthsAnalysis)
		if summary == strengths {
			t.Fatalf("%s outline reads summary and strengths from the same section %q", c, summary)
		}
	}
	h, next, _ := OutlineFor(model.CategoryWorkbook).Bounds(FieldSummary)
	if h != "OVERALL PROGRESS SUMMARY" || next != "IMPLEMENTATION PROGRESS ANALYSIS" {
		t.Fatalf("unexpected summary bounds: %q %q", h, next)
	}
}

func TestOutline_BoundsFollowOrder(t *testing.T) {
	h, next, ok := OutlineFor(model.CategoryWorkbook).Bounds(FieldSituationAnalysis)
	if !ok || h != "CROSS-PILLAR INTEGRATION" || next != "IMPLEMENTATION BARRIERS" {
		t.Fatalf("unexpected bounds: %q %q %v", h, next, ok)
	}
	h, next, _ = OutlineFor(model.CategoryWorkbook).Bounds(FieldFollowupRecommendation)
	if h != "COACHING SUPPORT ASSESSMENT" || next != "" {
		t.Fatalf("last section should have no next heading: %q %q", h, next)
	}
}

func TestTemplates_CarryOutlineHeadings(t *testing.T) {
	for _, c := range []model.FollowupCategory{model.CategoryWorkbook, model.CategoryPillar} {
		pair, err := Assemble(c, FollowupContextData{})
		if err != nil {
			t.Fatalf("assemble %s: %v", c, err)
		}
		for _, h := range OutlineFor(c).Headings() {
			if !strings.Contains(pair.User, "\n## "+h) {
				t.Fatalf("%s prompt is missing heading %q", c, h)
			}
		}
	}
}
