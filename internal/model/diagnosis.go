package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// FollowupWorksheets points at the worksheets a diagnosis suggests next.
type FollowupWorksheets struct {
	Pillars  []string `json:"pillars"`
	Followup string   `json:"followup,omitempty"`
}

type StrengthDetail struct {
	Strength string `json:"strength"`
	Evidence string `json:"evidence"`
	Impact   string `json:"impact"`
	Leverage string `json:"leverage"`
}

type GrowthAreaDetail struct {
	Area      string `json:"area"`
	Evidence  string `json:"evidence"`
	Impact    string `json:"impact"`
	RootCause string `json:"rootCause"`
}

type ActionableRecommendation struct {
	Action         string `json:"action"`
	Implementation string `json:"implementation"`
	Outcome        string `json:"outcome"`
	Measurement    string `json:"measurement"`
}

type PillarRecommendation struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Reason   string `json:"reason"`
	Impact   string `json:"impact"`
	Exercise string `json:"exercise"`
}

type FollowupRecommendationDetail struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Reason     string `json:"reason"`
	Connection string `json:"connection"`
	Focus      string `json:"focus"`
}

// DiagnosisResult is persisted verbatim on submissions and follow-up assessments.
// The extended fields are only filled for follow-up diagnoses.
// swagger:model DiagnosisResult
type DiagnosisResult struct {
	Summary            string             `json:"summary"`
	Strengths          []string           `json:"strengths"`
	Challenges         []string           `json:"challenges"`
	Recommendations    []string           `json:"recommendations"`
	FollowupWorksheets FollowupWorksheets `json:"followupWorksheets"`
	CreatedAt          time.Time          `json:"createdAt"`

	SituationAnalysis         string                        `json:"situationAnalysis,omitempty"`
	StrengthsAnalysis         []StrengthDetail              `json:"strengthsAnalysis"`
	GrowthAreasAnalysis       []GrowthAreaDetail            `json:"growthAreasAnalysis"`
	ActionableRecommendations []ActionableRecommendation    `json:"actionableRecommendations"`
	PillarRecommendations     []PillarRecommendation        `json:"pillarRecommendations"`
	FollowupRecommendation    *FollowupRecommendationDetail `json:"followupRecommendation,omitempty"`
}

// Normalize replaces nil lists with empty ones so the stored shape is always complete.
func (d *DiagnosisResult) Normalize() {
	if d.Strengths == nil {
		d.Strengths = []string{}
	}
	if d.Challenges == nil {
		d.Challenges = []string{}
	}
	if d.Recommendations == nil {
		d.Recommendations = []string{}
	}
	if d.FollowupWorksheets.Pillars == nil {
		d.FollowupWorksheets.Pillars = []string{}
	}
	if d.StrengthsAnalysis == nil {
		d.StrengthsAnalysis = []StrengthDetail{}
	}
	if d.GrowthAreasAnalysis == nil {
		d.GrowthAreasAnalysis = []GrowthAreaDetail{}
	}
	if d.ActionableRecommendations == nil {
		d.ActionableRecommendations = []ActionableRecommendation{}
	}
	if d.PillarRecommendations == nil {
		d.PillarRecommendations = []PillarRecommendation{}
	}
}

func decodeAnswers(raw datatypes.JSON) (Answers, error) {
	if isNullJSON(raw) {
		return NewAnswers(), nil
	}
	var a Answers
	if err := json.Unmarshal(raw, &a); err != nil {
		return NewAnswers(), err
	}
	return a, nil
}

func encodeAnswers(a Answers) (datatypes.JSON, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func decodeDiagnosis(raw datatypes.JSON) (*DiagnosisResult, error) {
	if isNullJSON(raw) {
		return nil, nil
	}
	var d DiagnosisResult
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	d.Normalize()
	return &d, nil
}

func encodeDiagnosis(d *DiagnosisResult) (datatypes.JSON, error) {
	if d == nil {
		return nil, nil
	}
	d.Normalize()
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func isNullJSON(raw datatypes.JSON) bool {
	s := string(raw)
	return len(s) == 0 || s == "null"
}
