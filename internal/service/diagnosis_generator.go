package service

import (
	"context"
	"time"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/prompt"
	"workbook_coach_backend/internal/util"
	"workbook_coach_backend/pkg/logger"
	"workbook_coach_backend/pkg/monitoring"
	"workbook_coach_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 4000

	maxInitialPillars = 3
)

// FollowupDiagnosisResponse is the model output split into logical fields.
// Identity fields echo the request so the converter needs nothing else.
type FollowupDiagnosisResponse struct {
	Category model.FollowupCategory

	Summary                   string
	SituationAnalysis         string
	StrengthsAnalysis         string
	GrowthAreasAnalysis       string
	ActionableRecommendations string
	PillarRecommendations     string
	FollowupRecommendation    string

	PillarID               string
	PillarTitle            string
	FollowupWorksheetID    string
	FollowupWorksheetTitle string

	Sections map[prompt.Field]prompt.SectionStatus
	Raw      string
}

// DiagnosisGenerator turns prompt context into a parsed model response.
type DiagnosisGenerator struct {
	model   LanguageModel
	options func() CompletionOptions
}

func NewDiagnosisGenerator(lm LanguageModel, options func() CompletionOptions) *DiagnosisGenerator {
	return &DiagnosisGenerator{model: lm, options: options}
}

func (g *DiagnosisGenerator) completionOptions() CompletionOptions {
	opts := CompletionOptions{}
	if g.options != nil {
		opts = g.options()
	}
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return opts
}

// complete runs one traced, timed model call. Any error becomes
// util.ErrDiagnosisGenerationFailed after it is logged.
func (g *DiagnosisGenerator) complete(ctx context.Context, kind string, pair prompt.Pair, fields ...zap.Field) (string, error) {
	opts := g.completionOptions()
	ctx, span := tracing.StartDiagnosisSpan(ctx, kind,
		attribute.Float64("diagnosis.temperature", opts.Temperature),
		attribute.Int("diagnosis.max_tokens", opts.MaxTokens),
	)
	defer span.End()

	start := time.Now()
	text, err := g.model.Complete(ctx, pair.System, pair.User, opts)
	monitoring.DiagnosisDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		monitoring.DiagnosisGenerations.WithLabelValues(kind, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		logger.Log.Error("Diagnosis generation failed",
			append(fields,
				zap.String("kind", kind),
				zap.Float64("temperature", opts.Temperature),
				zap.Int("max_tokens", opts.MaxTokens),
				zap.Error(err),
			)...)
		return "", util.ErrDiagnosisGenerationFailed
	}

	monitoring.DiagnosisGenerations.WithLabelValues(kind, "success").Inc()
	span.SetAttributes(attribute.Int("diagnosis.response_length", len(text)))
	return text, nil
}

// Generate produces a follow-up diagnosis for the category.
func (g *DiagnosisGenerator) Generate(ctx context.Context, category model.FollowupCategory, data prompt.FollowupContextData) (*FollowupDiagnosisResponse, error) {
	pair, err := prompt.Assemble(category, data)
	if err != nil {
		return nil, err
	}

	kind := string(category)
	text, err := g.complete(ctx, kind, pair,
		zap.String("worksheet_id", data.WorksheetID),
		zap.String("pillar_id", data.PillarID),
	)
	if err != nil {
		return nil, err
	}

	sections := prompt.ExtractOutline(text, prompt.OutlineFor(category))
	resp := &FollowupDiagnosisResponse{
		Category:                  category,
		Summary:                   sections[prompt.FieldSummary].Text,
		SituationAnalysis:         sections[prompt.FieldSituationAnalysis].Text,
		StrengthsAnalysis:         sections[prompt.FieldStrengthsAnalysis].Text,
		GrowthAreasAnalysis:       sections[prompt.FieldGrowthAreasAnalysis].Text,
		ActionableRecommendations: sections[prompt.FieldActionableRecommendations].Text,
		PillarRecommendations:     sections[prompt.FieldPillarRecommendations].Text,
		FollowupRecommendation:    sections[prompt.FieldFollowupRecommendation].Text,
		PillarID:                  data.PillarID,
		PillarTitle:               data.PillarName,
		FollowupWorksheetID:       data.WorksheetID,
		FollowupWorksheetTitle:    data.WorksheetTitle,
		Sections:                  make(map[prompt.Field]prompt.SectionStatus, len(sections)),
		Raw:                       text,
	}
	for _, f := range prompt.FollowupFields {
		status := sections[f].Status
		resp.Sections[f] = status
		if status == prompt.SectionMissing {
			monitoring.MissingSections.WithLabelValues(kind, string(f)).Inc()
			logger.Log.Debug("Diagnosis section missing", zap.String("kind", kind), zap.String("field", string(f)))
		}
	}
	return resp, nil
}

// GenerateInitial produces the first diagnosis for a submitted worksheet.
func (g *DiagnosisGenerator) GenerateInitial(ctx context.Context, worksheetID string, data prompt.InitialData) (*model.DiagnosisResult, error) {
	text, err := g.complete(ctx, "initial", prompt.InitialPair(data), zap.String("worksheet_id", worksheetID))
	if err != nil {
		return nil, err
	}

	sections := prompt.ExtractOutline(text, prompt.InitialOutline())
	for f, res := range sections {
		if res.Status == prompt.SectionMissing {
			monitoring.MissingSections.WithLabelValues("initial", string(f)).Inc()
			logger.Log.Debug("Diagnosis section missing", zap.String("kind", "initial"), zap.String("field", string(f)))
		}
	}

	pillars := model.PillarIDsMentioned(sections[prompt.FieldFollowupWorksheets].Text)
	if len(pillars) > maxInitialPillars {
		pillars = pillars[:maxInitialPillars]
	}

	d := &model.DiagnosisResult{
		Summary:         sections[prompt.FieldSummary].Text,
		Strengths:       prompt.SplitItems(sections[prompt.FieldStrengths].Text),
		Challenges:      prompt.SplitItems(sections[prompt.FieldChallenges].Text),
		Recommendations: prompt.SplitItems(sections[prompt.FieldRecommendations].Text),
		FollowupWorksheets: model.FollowupWorksheets{
			Pillars:  pillars,
			Followup: model.FollowupWorksheetIDFor(worksheetID),
		},
		CreatedAt: time.Now(),
	}
	d.Normalize()
	return d, nil
}
