package prompt

import (
	"strings"
	"workbook_coach_backend/internal/model"
)

// Field names a logical slot of a follow-up diagnosis response.
type Field string

const (
	FieldSummary                   Field = "summary"
	FieldSituationAnalysis         Field = "situationAnalysis"
	FieldStrengthsAnalysis         Field = "strengthsAnalysis"
	FieldGrowthAreasAnalysis       Field = "growthAreasAnalysis"
	FieldActionableRecommendations Field = "actionableRecommendations"
	FieldPillarRecommendations     Field = "pillarRecommendations"
	FieldFollowupRecommendation    Field = "followupRecommendation"

	// initial diagnosis
	FieldStrengths          Field = "strengths"
	FieldChallenges         Field = "challenges"
	FieldRecommendations    Field = "recommendations"
	FieldFollowupWorksheets Field = "followupWorksheets"
)

// FollowupFields lists the fields every follow-up outline must cover.
var FollowupFields = []Field{
	FieldSummary,
	FieldSituationAnalysis,
	FieldStrengthsAnalysis,
	FieldGrowthAreasAnalysis,
	FieldActionableRecommendations,
	FieldPillarRecommendations,
	FieldFollowupRecommendation,
}

// Section is one "## HEADING" block the model is asked to produce.
// Fields lists the response fields filled from its body.
type Section struct {
	Heading  string
	Guidance string
	Fields   []Field
}

// Outline is the ordered list of sections for one prompt. The template's
// response format and the extractor's heading map are both derived from it.
type Outline []Section

// Bounds returns the heading holding field and the heading that follows it.
// next is empty for the last section.
func (o Outline) Bounds(field Field) (heading, next string, ok bool) {
	for i, s := range o {
		for _, f := range s.Fields {
			if f != field {
				continue
			}
			if i+1 < len(o) {
				next = o[i+1].Heading
			}
			return s.Heading, next, true
		}
	}
	return "", "", false
}

func (o Outline) Headings() []string {
	out := make([]string, len(o))
	for i, s := range o {
		out[i] = s.Heading
	}
	return out
}

// ResponseFormat renders the outline as the instructions embedded in the user prompt.
func (o Outline) ResponseFormat() string {
	var b strings.Builder
	for i, s := range o {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("## ")
		b.WriteString(s.Heading)
		if s.Guidance != "" {
			b.WriteString("\n")
			b.WriteString(s.Guidance)
		}
	}
	return b.String()
}

var workbookOutline = Outline{
	{
		Heading:  "OVERALL PROGRESS SUMMARY",
		Guidance: "In two or three sentences, summarize where the client stands compared with the original workbook.",
		Fields:   []Field{FieldSummary},
	},
	{
		Heading:  "IMPLEMENTATION PROGRESS ANALYSIS",
		Guidance: "Describe how the client has implemented the original workbook recommendations, naming concrete changes and the strengths they have built.",
		Fields:   []Field{FieldStrengthsAnalysis},
	},
	{
		Heading:  "CROSS-PILLAR INTEGRATION",
		Guidance: "Describe how progress in one pillar is reinforcing or holding back the others.",
		Fields:   []Field{FieldSituationAnalysis},
	},
	{
		Heading:  "IMPLEMENTATION BARRIERS",
		Guidance: "Identify what has blocked progress and the root cause behind each barrier.",
		Fields:   []Field{FieldGrowthAreasAnalysis},
	},
	{
		Heading:  "COMPREHENSIVE ADJUSTMENT PLAN",
		Guidance: "Give specific adjustments with how to implement them, the expected outcome and how to measure it.",
		Fields:   []Field{FieldActionableRecommendations},
	},
	{
		Heading:  "NEXT FOCUS AREAS",
		Guidance: "Name the pillars that deserve focus next and why.",
		Fields:   []Field{FieldPillarRecommendations},
	},
	{
		Heading:  "COACHING SUPPORT ASSESSMENT",
		Guidance: "Recommend the next follow-up step and the support the client needs.",
		Fields:   []Field{FieldFollowupRecommendation},
	},
}

var pillarOutline = Outline{
	{
		Heading:  "PROGRESS SUMMARY",
		Guidance: "Summarize the progress made in this pillar since the original worksheet.",
		Fields:   []Field{FieldSummary},
	},
	{
		Heading:  "SITUATION ANALYSIS",
		Guidance: "Compare the original and follow-up answers and describe the client's current situation.",
		Fields:   []Field{FieldSituationAnalysis},
	},
	{
		Heading:  "STRENGTHS DEVELOPED",
		Guidance: "Identify the strengths the client has developed, with evidence from their answers.",
		Fields:   []Field{FieldStrengthsAnalysis},
	},
	{
		Heading:  "GROWTH AREAS",
		Guidance: "Identify the areas that still need work and their likely root cause.",
		Fields:   []Field{FieldGrowthAreasAnalysis},
	},
	{
		Heading:  "ADJUSTED ACTION PLAN",
		Guidance: "Give specific, measurable actions adjusted to the progress observed.",
		Fields:   []Field{FieldActionableRecommendations},
	},
	{
		Heading:  "NEXT STEPS",
		Guidance: "Recommend what to work on next, including related pillars and when to follow up again.",
		Fields:   []Field{FieldPillarRecommendations, FieldFollowupRecommendation},
	},
}

var initialOutline = Outline{
	{
		Heading:  "SUMMARY",
		Guidance: "Two or three sentences summarizing the client's leadership profile.",
		Fields:   []Field{FieldSummary},
	},
	{
		Heading:  "STRENGTHS",
		Guidance: "A bulleted list of the client's key strengths.",
		Fields:   []Field{FieldStrengths},
	},
	{
		Heading:  "CHALLENGES",
		Guidance: "A bulleted list of the main challenges the client faces.",
		Fields:   []Field{FieldChallenges},
	},
	{
		Heading:  "RECOMMENDATIONS",
		Guidance: "A bulleted list of specific recommendations.",
		Fields:   []Field{FieldRecommendations},
	},
	{
		Heading:  "FOLLOW-UP WORKSHEETS",
		Guidance: "A bulleted list of up to three pillar worksheet ids (for example pillar3_communication_mastery) the client should complete next.",
		Fields:   []Field{FieldFollowupWorksheets},
	},
}

// OutlineFor returns the follow-up outline for a category.
func OutlineFor(category model.FollowupCategory) Outline {
	if category == model.CategoryPillar {
		return pillarOutline
	}
	return workbookOutline
}

// InitialOutline is the outline of a first diagnosis on a submission.
func InitialOutline() Outline {
	return initialOutline
}
