package model

import "time"

type WorksheetCategory string

const (
	WorksheetWorkbook WorksheetCategory = "workbook"
	WorksheetPillar   WorksheetCategory = "pillar"
	WorksheetFollowup WorksheetCategory = "followup"
)

const (
	WorkbookID           = "leadership-workbook"
	WorkbookFollowupID   = "workbook-followup"
	GenericFollowupID    = "followup-assessment"
	GenericFollowupTitle = "Follow-up Assessment"
	pillarFollowupSuffix = "-followup"
)

// swagger:model Worksheet
type Worksheet struct {
	ID               string            `gorm:"primaryKey;size:100" json:"id"`
	Title            string            `gorm:"size:255;not null" json:"title"`
	Description      string            `gorm:"type:text" json:"description"`
	Category         WorksheetCategory `gorm:"size:20;index" json:"category"`
	PillarID         string            `gorm:"size:100;index" json:"pillarId,omitempty"`
	FollowupCategory FollowupCategory  `gorm:"size:20" json:"followupCategory,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (Worksheet) TableName() string {
	return "worksheets"
}

// FollowupWorksheetIDFor returns the follow-up instrument offered after a worksheet.
func FollowupWorksheetIDFor(worksheetID string) string {
	if worksheetID == WorkbookID {
		return WorkbookFollowupID
	}
	if _, ok := PillarByID(worksheetID); ok {
		return worksheetID + pillarFollowupSuffix
	}
	return GenericFollowupID
}

// DefaultWorksheets is the catalog seeded on first migration.
func DefaultWorksheets() []Worksheet {
	out := []Worksheet{
		{
			ID:          WorkbookID,
			Title:       "Leadership Workbook",
			Description: "The complete self-assessment across all twelve leadership pillars.",
			Category:    WorksheetWorkbook,
		},
		{
			ID:               WorkbookFollowupID,
			Title:            "Workbook Follow-up",
			Description:      "Revisit the workbook and measure how your action plan has landed across pillars.",
			Category:         WorksheetFollowup,
			FollowupCategory: CategoryWorkbook,
		},
		{
			ID:               GenericFollowupID,
			Title:            GenericFollowupTitle,
			Description:      "A short check-in on the progress you have made since your last diagnosis.",
			Category:         WorksheetFollowup,
			FollowupCategory: CategoryWorkbook,
		},
	}
	for _, p := range Pillars {
		out = append(out,
			Worksheet{
				ID:          p.ID,
				Title:       p.Title,
				Description: "Deep-dive worksheet for the " + p.Title + " pillar.",
				Category:    WorksheetPillar,
				PillarID:    p.ID,
			},
			Worksheet{
				ID:               p.ID + pillarFollowupSuffix,
				Title:            p.Title + " Follow-up",
				Description:      "Check how your " + p.Title + " practice has changed since the original worksheet.",
				Category:         WorksheetFollowup,
				PillarID:         p.ID,
				FollowupCategory: CategoryPillar,
			},
		)
	}
	return out
}
