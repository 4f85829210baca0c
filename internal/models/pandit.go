package models

// Pandit is an officiant profile. Public signups start unapproved and stay
// hidden from the catalog until an admin approves them.
type Pandit struct {
	BaseModel
	Name         string `gorm:"size:250;not null" json:"name"`
	Experience   string `gorm:"size:250" json:"experience"`
	Age          int    `json:"age"`
	Location     string `gorm:"size:100" json:"location"`
	Availability bool   `json:"availability"`
	IsApproved   bool   `json:"is_approved"`
	Phone        string `gorm:"size:15" json:"phone"`
	Email        string `gorm:"size:150" json:"email"`
	Specialties  string `gorm:"size:250" json:"specialties"`
	ImageURL     string `gorm:"size:200" json:"image_url"`
	Rating       int    `gorm:"default:5" json:"rating"`
	Languages    string `gorm:"size:200" json:"languages"`
}
