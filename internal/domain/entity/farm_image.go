package entity

import "time"

// FarmImage is a metadata record for imagery attached to a farm. The binary
// itself lives in external storage; only its URL is tracked here.
type FarmImage struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PublicID   string     `gorm:"size:36;not null;uniqueIndex" json:"public_id"`
	FarmID     uint       `gorm:"not null;index" json:"farm_id"`
	URL        string     `gorm:"size:500;not null" json:"url"`
	CapturedAt *time.Time `gorm:"type:timestamp" json:"captured_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FarmImage) TableName() string {
	return "farm_images"
}
