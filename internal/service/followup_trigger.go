package service

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	ReasonExplicitRequest = "User explicitly requested a follow-up"
	lowRatingsPrefix      = "Low ratings on "
	lowRatingsGeneric     = "self-assessment questions"
)

// TriggerPolicy decides when a submission is due for a follow-up.
type TriggerPolicy struct {
	TimeThresholdDays  int
	LowRatingThreshold float64
	RatingScaleMax     float64
}

func DefaultTriggerPolicy() TriggerPolicy {
	return TriggerPolicy{TimeThresholdDays: 90, LowRatingThreshold: 2, RatingScaleMax: 5}
}

// TriggerEngine inspects submission history and reports follow-up opportunities.
// It does no I/O.
type TriggerEngine struct {
	mu     sync.RWMutex
	policy TriggerPolicy
	now    func() time.Time
}

func NewTriggerEngine(policy TriggerPolicy) *TriggerEngine {
	return &TriggerEngine{policy: policy, now: time.Now}
}

// SetPolicy replaces the thresholds, used by config hot reload.
func (e *TriggerEngine) SetPolicy(p TriggerPolicy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policy = p
}

func (e *TriggerEngine) Policy() TriggerPolicy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.policy
}

// Evaluate returns trigger results in submission order. Per submission the
// order is explicit request, low ratings, elapsed time.
func (e *TriggerEngine) Evaluate(submissions []model.Submission) []model.TriggerResult {
	policy := e.Policy()
	now := e.now()

	var out []model.TriggerResult
	for i := range submissions {
		s := &submissions[i]
		if !s.IsSubmitted() {
			continue
		}

		worksheetID := OfferedFollowupWorksheet(s)
		base := model.TriggerResult{
			WorksheetID:          worksheetID,
			OriginalSubmissionID: s.ID,
			PillarIDs:            worksheetPillars(s.WorksheetID),
		}

		if s.FollowupRequested {
			r := base
			r.Reason = ReasonExplicitRequest
			r.ReasonKind = model.ReasonExplicitRequest
			out = append(out, r)
		}

		if pillars, low := lowRatings(s, policy); low {
			r := base
			r.ReasonKind = model.ReasonLowRatings
			if len(pillars) > 0 {
				r.PillarIDs = pillars
				titles := make([]string, len(pillars))
				for j, id := range pillars {
					titles[j] = model.PillarTitle(id)
				}
				r.Reason = lowRatingsPrefix + strings.Join(titles, ", ")
			} else {
				r.Reason = lowRatingsPrefix + lowRatingsGeneric
			}
			out = append(out, r)
		}

		if s.SubmittedAt != nil && policy.TimeThresholdDays > 0 {
			days := int(now.Sub(*s.SubmittedAt).Hours() / 24)
			if days >= policy.TimeThresholdDays {
				r := base
				r.Reason = fmt.Sprintf("Enough time has passed since your submission (%d days)", days)
				r.ReasonKind = model.ReasonTimeElapsed
				out = append(out, r)
			}
		}
	}
	return out
}

// OfferedFollowupWorksheet is the follow-up worksheet named by the diagnosis,
// or the default for the submission's worksheet.
func OfferedFollowupWorksheet(s *model.Submission) string {
	d, err := s.DiagnosisResult()
	if err != nil {
		logger.Log.Warn("Unreadable diagnosis on submission", zap.String("submission_id", s.ID), zap.Error(err))
	}
	if d != nil && d.FollowupWorksheets.Followup != "" {
		return d.FollowupWorksheets.Followup
	}
	return model.FollowupWorksheetIDFor(s.WorksheetID)
}

func worksheetPillars(worksheetID string) []string {
	if p, ok := model.PillarByID(worksheetID); ok {
		return []string{p.ID}
	}
	return nil
}

// lowRatings reports whether any rating answer is at or below the threshold
// and which pillars those answers belong to.
func lowRatings(s *model.Submission, policy TriggerPolicy) ([]string, bool) {
	answers, err := s.AnswerSet()
	if err != nil || policy.LowRatingThreshold <= 0 {
		return nil, false
	}

	var pillars []string
	seen := make(map[string]bool)
	low := false
	for _, key := range answers.Keys() {
		v, _ := answers.Get(key)
		n, ok := v.Number()
		if !ok || !isRatingKey(key) {
			continue
		}
		if n <= 0 || (policy.RatingScaleMax > 0 && n > policy.RatingScaleMax) {
			continue
		}
		if n > policy.LowRatingThreshold {
			continue
		}
		low = true

		id, ok := model.PillarIDFromAnswerKey(key)
		if !ok {
			if p, isPillar := model.PillarByID(s.WorksheetID); isPillar {
				id, ok = p.ID, true
			}
		}
		if ok && !seen[id] {
			seen[id] = true
			pillars = append(pillars, id)
		}
	}
	return pillars, low
}

func isRatingKey(key string) bool {
	k := strings.ToLower(key)
	if strings.Contains(k, "rating") || strings.Contains(k, "score") {
		return true
	}
	_, ok := model.PillarIDFromAnswerKey(k)
	return ok
}
