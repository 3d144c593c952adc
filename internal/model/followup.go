package model

import (
	"time"

	"gorm.io/datatypes"
)

type FollowupCategory string

const (
	CategoryPillar   FollowupCategory = "pillar"
	CategoryWorkbook FollowupCategory = "workbook"
)

func (c FollowupCategory) Valid() bool {
	return c == CategoryPillar || c == CategoryWorkbook
}

type FollowupStatus string

const (
	FollowupPending   FollowupStatus = "pending"
	FollowupCompleted FollowupStatus = "completed"
)

type FollowupMetadata struct {
	PillarID         string   `json:"pillarId,omitempty"`
	TimeElapsed      string   `json:"timeElapsed,omitempty"`
	ImprovementScore *float64 `json:"improvementScore,omitempty"`
	OriginalTitle    string   `json:"originalTitle,omitempty"`
	FollowupTitle    string   `json:"followupTitle,omitempty"`
}

// FollowupAssessment is the second pass on an original submission.
// There is at most one per (original submission, follow-up worksheet).
// swagger:model FollowupAssessment
type FollowupAssessment struct {
	UUIDBase
	UserID               uint                                 `gorm:"index" json:"userId"`
	OriginalSubmissionID string                               `gorm:"type:varchar(36);uniqueIndex:idx_followup_original_worksheet" json:"originalSubmissionId"`
	FollowupWorksheetID  string                               `gorm:"size:100;uniqueIndex:idx_followup_original_worksheet" json:"followupWorksheetId"`
	Category             FollowupCategory                     `gorm:"size:20" json:"category"`
	Status               FollowupStatus                       `gorm:"size:20;default:'pending';index" json:"status"`
	Answers              datatypes.JSON                       `gorm:"type:json" json:"answers" swaggertype:"object"`
	Diagnosis            datatypes.JSON                       `gorm:"type:json" json:"diagnosis,omitempty" swaggertype:"object"`
	Metadata             datatypes.JSONType[FollowupMetadata] `json:"metadata" swaggertype:"object"`
	ScheduledFor         *time.Time                           `json:"scheduledFor,omitempty"`
	CompletedAt          *time.Time                           `json:"completedAt,omitempty"`
	DiagnosisGeneratedAt *time.Time                           `json:"diagnosisGeneratedAt,omitempty"`
}

func (FollowupAssessment) TableName() string {
	return "followup_assessments"
}

func (f *FollowupAssessment) IsCompleted() bool {
	return f.Status == FollowupCompleted
}

func (f *FollowupAssessment) AnswerSet() (Answers, error) {
	return decodeAnswers(f.Answers)
}

func (f *FollowupAssessment) SetAnswers(a Answers) error {
	raw, err := encodeAnswers(a)
	if err != nil {
		return err
	}
	f.Answers = raw
	return nil
}

func (f *FollowupAssessment) DiagnosisResult() (*DiagnosisResult, error) {
	return decodeDiagnosis(f.Diagnosis)
}

func (f *FollowupAssessment) SetDiagnosis(d *DiagnosisResult) error {
	raw, err := encodeDiagnosis(d)
	if err != nil {
		return err
	}
	f.Diagnosis = raw
	return nil
}
