package entity

import "time"

// Farm is a plot of land registered by an account owner.
type Farm struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OwnerID      uint    `gorm:"not null;index" json:"owner_id"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Location     string  `gorm:"size:255;not null;default:''" json:"location"`
	AreaHectares float64 `gorm:"not null;default:0" json:"area_hectares"`
	CropType     string  `gorm:"size:50;not null;default:''" json:"crop_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Farm) TableName() string {
	return "farms"
}
