package model

import (
	"strings"
	"time"
)

type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// ReasonKind is the structured counterpart of a trigger's free-text reason.
type ReasonKind string

const (
	ReasonExplicitRequest ReasonKind = "explicit_request"
	ReasonLowRatings      ReasonKind = "low_ratings"
	ReasonTimeElapsed     ReasonKind = "time_elapsed"
	ReasonOther           ReasonKind = "other"
)

// PriorityForReason infers urgency from reason copy. First match wins.
func PriorityForReason(reason string) RecommendationPriority {
	switch {
	case strings.Contains(reason, "explicitly requested"):
		return PriorityHigh
	case strings.Contains(reason, "Low ratings"):
		return PriorityHigh
	case strings.Contains(reason, "time"):
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// ClassifyReason maps reason copy onto a ReasonKind using the same match order
// as PriorityForReason.
func ClassifyReason(reason string) ReasonKind {
	switch {
	case strings.Contains(reason, "explicitly requested"):
		return ReasonExplicitRequest
	case strings.Contains(reason, "Low ratings"):
		return ReasonLowRatings
	case strings.Contains(reason, "time"):
		return ReasonTimeElapsed
	default:
		return ReasonOther
	}
}

// TriggerResult is a follow-up opportunity found in a user's history, before ranking.
type TriggerResult struct {
	WorksheetID          string     `json:"worksheetId"`
	OriginalSubmissionID string     `json:"originalSubmissionId"`
	Reason               string     `json:"reason"`
	ReasonKind           ReasonKind `json:"reasonKind"`
	PillarIDs            []string   `json:"pillarIds,omitempty"`
}

// FollowupRecommendation is built per request and never stored.
// swagger:model FollowupRecommendation
type FollowupRecommendation struct {
	WorksheetID          string                 `json:"worksheetId"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	Category             WorksheetCategory      `json:"category"`
	OriginalSubmissionID string                 `json:"originalSubmissionId"`
	Reason               string                 `json:"reason"`
	ReasonKind           ReasonKind             `json:"reasonKind"`
	Priority             RecommendationPriority `json:"priority"`
	PillarIDs            []string               `json:"pillarIds,omitempty"`
	SubmissionDate       *time.Time             `json:"submissionDate,omitempty"`
}

// WorksheetRecommendation is a general worksheet suggestion carrying a relevance score.
// swagger:model WorksheetRecommendation
type WorksheetRecommendation struct {
	WorksheetID string            `json:"worksheetId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    WorksheetCategory `json:"category"`
	PillarID    string            `json:"pillarId,omitempty"`
	Score       float64           `json:"score"`
	Reason      string            `json:"reason,omitempty"`
}
