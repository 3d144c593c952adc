package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"workbook_coach_backend/internal/model"
)

const (
	NoPreviousDiagnosis = "No previous diagnosis available."

	defaultTimeElapsed = "Unknown"
	defaultClientName  = "Client"
	defaultPillarName  = "Leadership"
)

// Pair is a system message and user prompt ready for the model.
type Pair struct {
	System string
	User   string
}

// FollowupContextData carries what a follow-up prompt is built from.
// Zero values resolve to documented defaults.
type FollowupContextData struct {
	OriginalAnswers      model.Answers
	FollowupAnswers      model.Answers
	OriginalDiagnosis    *model.DiagnosisResult
	WorksheetID          string
	WorksheetTitle       string
	WorksheetDescription string
	TimeElapsed          string
	ClientName           string
	PillarName           string
	PillarID             string
}

// Assemble builds the follow-up prompt pair for a category.
func Assemble(category model.FollowupCategory, data FollowupContextData) (Pair, error) {
	var system, tmpl string
	switch category {
	case model.CategoryWorkbook:
		system, tmpl = workbookSystemMessage, workbookTemplate
	case model.CategoryPillar:
		system, tmpl = pillarSystemMessage, pillarTemplate
	default:
		return Pair{}, fmt.Errorf("unknown follow-up category %q", category)
	}

	ctx := BuildContext(category, data)
	return Pair{System: system, User: Render(tmpl, ctx)}, nil
}

// BuildContext resolves every placeholder of the follow-up templates.
func BuildContext(category model.FollowupCategory, data FollowupContextData) Context {
	ctx := Context{
		"originalAnswers":      FormatAnswers(data.OriginalAnswers),
		"followupAnswers":      FormatAnswers(data.FollowupAnswers),
		"originalDiagnosis":    FormatDiagnosis(data.OriginalDiagnosis),
		"worksheetTitle":       data.WorksheetTitle,
		"worksheetDescription": data.WorksheetDescription,
		"timeElapsed":          orDefault(data.TimeElapsed, defaultTimeElapsed),
		"clientName":           orDefault(data.ClientName, defaultClientName),
		"pillarName":           orDefault(data.PillarName, defaultPillarName),
		"pillarId":             data.PillarID,
		"additionalContext":    "",
		"responseFormat":       OutlineFor(category).ResponseFormat(),
	}
	if category == model.CategoryPillar && data.PillarID != "" {
		ctx["additionalContext"] = Render(pillarContextSentence, ctx)
	}
	return ctx
}

// InitialData carries what a first diagnosis prompt is built from.
type InitialData struct {
	Answers              model.Answers
	WorksheetTitle       string
	WorksheetDescription string
	ClientName           string
}

// InitialPair builds the prompt for a submission's first diagnosis.
func InitialPair(data InitialData) Pair {
	ctx := Context{
		"answers":              FormatAnswers(data.Answers),
		"worksheetTitle":       data.WorksheetTitle,
		"worksheetDescription": data.WorksheetDescription,
		"clientName":           orDefault(data.ClientName, defaultClientName),
		"responseFormat":       InitialOutline().ResponseFormat(),
	}
	return Pair{System: initialSystemMessage, User: Render(initialTemplate, ctx)}
}

// FormatDiagnosis renders a stored diagnosis for inclusion in a prompt.
// Absent sections are omitted.
func FormatDiagnosis(d *model.DiagnosisResult) string {
	if d == nil {
		return NoPreviousDiagnosis
	}

	var parts []string
	if s := strings.TrimSpace(d.Summary); s != "" {
		parts = append(parts, "Summary: "+s)
	}
	if l := numbered("Strengths", d.Strengths); l != "" {
		parts = append(parts, l)
	}
	if l := numbered("Challenges", d.Challenges); l != "" {
		parts = append(parts, l)
	}
	if l := numbered("Recommendations", d.Recommendations); l != "" {
		parts = append(parts, l)
	}
	if s := strings.TrimSpace(d.SituationAnalysis); s != "" {
		parts = append(parts, "Situation Analysis:\n"+s)
	}

	if len(parts) == 0 {
		return NoPreviousDiagnosis
	}
	return strings.Join(parts, "\n\n")
}

func numbered(title string, items []string) string {
	var b strings.Builder
	n := 0
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		n++
		if n == 1 {
			b.WriteString(title + ":")
		}
		b.WriteString("\n" + strconv.Itoa(n) + ". " + item)
	}
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
