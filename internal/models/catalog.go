package models

// PujaMaterial is a single ritual product in the catalog.
type PujaMaterial struct {
	BaseModel
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `gorm:"size:200" json:"image_url"`
	Price       float64 `gorm:"not null" json:"price"`
}

// Bundle groups several materials at a discounted price.
type Bundle struct {
	BaseModel
	Name            string  `gorm:"size:100;not null" json:"name"`
	Description     string  `json:"description"`
	ImageURL        string  `gorm:"size:200" json:"image_url"`
	OriginalPrice   float64 `gorm:"not null" json:"original_price"`
	DiscountedPrice float64 `gorm:"not null" json:"discounted_price"`
	Includes        string  `json:"includes"`
}

// Testimonial is a customer review shown on the home page.
type Testimonial struct {
	BaseModel
	Author      string `gorm:"size:100;not null" json:"author"`
	AuthorImage string `gorm:"size:200" json:"author_image"`
	Content     string `gorm:"not null" json:"content"`
	Rating      int    `gorm:"not null" json:"rating"`
	Location    string `gorm:"size:100" json:"location"`
}
