package entity

import "time"

// Report severities as produced by the crop analysis pipeline.
const (
	ReportSeverityLow      = "low"
	ReportSeverityModerate = "moderate"
	ReportSeverityHigh     = "high"
)

// Report is a crop-health report for a farm: the dominant detected disease,
// model confidence, severity and the share of the inspected area affected.
type Report struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	PublicID      string  `gorm:"size:36;not null;uniqueIndex" json:"public_id"`
	FarmID        uint    `gorm:"not null;index" json:"farm_id"`
	Disease       string  `gorm:"size:100;not null;default:''" json:"disease"`
	Confidence    float64 `gorm:"not null;default:0" json:"confidence"`
	Severity      string  `gorm:"size:20;not null;default:''" json:"severity"`
	AffectedShare float64 `gorm:"not null;default:0" json:"affected_share"`
	ImageCount    int     `gorm:"not null;default:0" json:"image_count"`
	Summary       string  `gorm:"type:text;not null;default:''" json:"summary"`

	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}
