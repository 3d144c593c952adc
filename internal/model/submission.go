package model

import (
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	SubmissionDraft     SubmissionStatus = "draft"
	SubmissionSubmitted SubmissionStatus = "submitted"
)

type SubmissionKind string

const (
	KindWorkbook  SubmissionKind = "workbook"
	KindWorksheet SubmissionKind = "worksheet"
)

// Submission is a user's answer set to a workbook or a pillar worksheet.
// swagger:model Submission
type Submission struct {
	UUIDBase
	UserID               uint             `gorm:"index" json:"userId"`
	User                 *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	WorksheetID          string           `gorm:"size:100;index" json:"worksheetId"`
	Kind                 SubmissionKind   `gorm:"size:20;default:'worksheet'" json:"kind"`
	ClientName           string           `gorm:"size:100" json:"clientName,omitempty"`
	Status               SubmissionStatus `gorm:"size:20;default:'draft';index" json:"status"`
	Answers              datatypes.JSON   `gorm:"type:json" json:"answers" swaggertype:"object"`
	Diagnosis            datatypes.JSON   `gorm:"type:json" json:"diagnosis,omitempty" swaggertype:"object"`
	FollowupRequested    bool             `gorm:"default:false" json:"followupRequested"`
	SubmittedAt          *time.Time       `gorm:"index" json:"submittedAt,omitempty"`
	DiagnosisGeneratedAt *time.Time       `json:"diagnosisGeneratedAt,omitempty"`
	DiagnosisViewedAt    *time.Time       `json:"diagnosisViewedAt,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) IsSubmitted() bool {
	return s.Status == SubmissionSubmitted
}

func (s *Submission) AnswerSet() (Answers, error) {
	return decodeAnswers(s.Answers)
}

func (s *Submission) SetAnswers(a Answers) error {
	raw, err := encodeAnswers(a)
	if err != nil {
		return err
	}
	s.Answers = raw
	return nil
}

// DiagnosisResult returns the stored diagnosis, or nil when none has been generated.
func (s *Submission) DiagnosisResult() (*DiagnosisResult, error) {
	return decodeDiagnosis(s.Diagnosis)
}

func (s *Submission) SetDiagnosis(d *DiagnosisResult) error {
	raw, err := encodeDiagnosis(d)
	if err != nil {
		return err
	}
	s.Diagnosis = raw
	return nil
}
