package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/prompt"
	"workbook_coach_backend/pkg/logger"

	"go.uber.org/zap"
)

// UserLookup finds the owner of a submission.
type UserLookup interface {
	FindByID(id uint) (*model.User, error)
}

// WorksheetLookup resolves worksheet metadata. A nil worksheet with a nil
// error means unknown.
type WorksheetLookup func(ctx context.Context, id string) (*model.Worksheet, error)

// ContextRequest names what a follow-up diagnosis is about.
type ContextRequest struct {
	Category            model.FollowupCategory
	Original            *model.Submission
	FollowupAnswers     model.Answers
	FollowupWorksheetID string
	PillarID            string
	TimeElapsed         string
}

// ContextBuilder gathers the prompt context for a follow-up diagnosis.
// Missing data resolves to defaults; Build never fails.
type ContextBuilder struct {
	users      UserLookup
	worksheets WorksheetLookup
	now        func() time.Time
}

func NewContextBuilder(users UserLookup, worksheets WorksheetLookup) *ContextBuilder {
	return &ContextBuilder{users: users, worksheets: worksheets, now: time.Now}
}

func (b *ContextBuilder) Build(ctx context.Context, req ContextRequest) prompt.FollowupContextData {
	data := prompt.FollowupContextData{
		FollowupAnswers: req.FollowupAnswers,
		WorksheetID:     req.FollowupWorksheetID,
		PillarID:        req.PillarID,
		TimeElapsed:     req.TimeElapsed,
	}
	if req.PillarID != "" {
		data.PillarName = model.PillarTitle(req.PillarID)
	}

	if ws := b.worksheet(ctx, req.FollowupWorksheetID); ws != nil {
		data.WorksheetTitle = ws.Title
		data.WorksheetDescription = ws.Description
	}

	orig := req.Original
	if orig == nil {
		data.OriginalAnswers = model.NewAnswers()
		data.ClientName = "Client"
		return data
	}

	answers, err := orig.AnswerSet()
	if err != nil {
		logger.Log.Warn("Unreadable answers on submission", zap.String("submission_id", orig.ID), zap.Error(err))
	}
	data.OriginalAnswers = answers

	diagnosis, err := orig.DiagnosisResult()
	if err != nil {
		logger.Log.Warn("Unreadable diagnosis on submission", zap.String("submission_id", orig.ID), zap.Error(err))
	}
	data.OriginalDiagnosis = diagnosis

	data.ClientName = ClientName(b.users, orig)
	if data.TimeElapsed == "" && orig.SubmittedAt != nil {
		data.TimeElapsed = FormatElapsed(b.now().Sub(*orig.SubmittedAt))
	}
	return data
}

func (b *ContextBuilder) worksheet(ctx context.Context, id string) *model.Worksheet {
	if id == "" || b.worksheets == nil {
		return nil
	}
	ws, err := b.worksheets(ctx, id)
	if err != nil {
		logger.Log.Warn("Worksheet lookup failed", zap.String("worksheet_id", id), zap.Error(err))
		return nil
	}
	return ws
}

// ClientName prefers the user record, then the name stored on the submission,
// then a preloaded user, then "Client".
func ClientName(users UserLookup, s *model.Submission) string {
	if users != nil && s.UserID != 0 {
		u, err := users.FindByID(s.UserID)
		if err != nil {
			logger.Log.Debug("User lookup failed", zap.Uint("user_id", s.UserID), zap.Error(err))
		} else if u != nil && strings.TrimSpace(u.Name) != "" {
			return u.Name
		}
	}
	if name := strings.TrimSpace(s.ClientName); name != "" {
		return name
	}
	if s.User != nil && strings.TrimSpace(s.User.Name) != "" {
		return s.User.Name
	}
	return "Client"
}

// FormatElapsed renders a duration the way the prompts phrase it, e.g. "3 months".
func FormatElapsed(d time.Duration) string {
	days := int(d.Hours() / 24)
	switch {
	case days < 1:
		return "less than a day"
	case days < 14:
		return plural(days, "day")
	case days < 60:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
