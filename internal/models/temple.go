package models

import "github.com/google/uuid"

// Temple offers zero or more ceremonies, each priced separately.
type Temple struct {
	BaseModel
	Name          string  `gorm:"size:100;not null" json:"name"`
	Location      string  `gorm:"size:100;not null" json:"location"`
	State         string  `gorm:"size:100" json:"state"`
	ImageURL      string  `gorm:"size:200" json:"image_url"`
	Description   string  `json:"description"`
	Deity         string  `gorm:"size:100" json:"deity"`
	Significance  string  `json:"significance"`
	StartingPrice float64 `gorm:"default:999" json:"starting_price"`
	IsFeatured    bool    `json:"is_featured"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`

	Pujas []TemplePuja `gorm:"constraint:OnDelete:CASCADE" json:"pujas,omitempty"`
}

// TemplePuja is a ceremony offered by a temple.
type TemplePuja struct {
	BaseModel
	TempleID    uuid.UUID `gorm:"type:uuid;index;not null" json:"temple_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Duration    string    `gorm:"size:50" json:"duration"`
	Benefits    string    `json:"benefits"`
	Includes    string    `json:"includes"`
	ImageURL    string    `gorm:"size:200" json:"image_url"`
	IsPopular   bool      `json:"is_popular"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
}
