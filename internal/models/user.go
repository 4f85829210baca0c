package models

import (
	"time"
)

// Role values assigned to users.
const (
	RoleCustomer = "customer"
	RolePandit   = "pandit"
	RoleAdmin    = "admin"
)

// User represents a registered customer account.
type User struct {
	BaseModel
	Username      string  `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email         *string `gorm:"uniqueIndex;size:120" json:"email"`
	Phone         *string `gorm:"uniqueIndex;size:15" json:"phone"`
	PasswordHash  string  `json:"-"`
	FullName      string  `gorm:"size:150" json:"full_name"`
	ProfilePic    string  `gorm:"size:200;default:default_avatar.jpg" json:"profile_pic"`
	Address       string  `json:"address"`
	City          string  `gorm:"size:100" json:"city"`
	State         string  `gorm:"size:100" json:"state"`
	Pincode       string  `gorm:"size:10" json:"pincode"`
	Role          string  `gorm:"size:20;default:customer" json:"role"`
	EmailVerified bool    `json:"email_verified"`
	PhoneVerified bool    `json:"phone_verified"`

	Bookings []Booking `json:"bookings,omitempty"`
	Orders   []Order   `json:"orders,omitempty"`
}

// OTPTTL is how long an issued code stays valid.
const OTPTTL = 5 * time.Minute

// OTPCooldown is the minimum gap between two sends for the same email.
const OTPCooldown = 60 * time.Second

// OTP is a short-lived single-use email verification code.
type OTP struct {
	BaseModel
	Email     string    `gorm:"index;size:120;not null" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}

// Valid reports whether the code can still be redeemed.
func (o *OTP) Valid(now time.Time) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt)
}
