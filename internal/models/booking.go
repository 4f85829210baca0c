package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking status values.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// DefaultBookingFee is charged when a booking request carries no amount.
const DefaultBookingFee = 999

var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransitionBooking reports whether a booking may move from one status to another.
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking reserves a pandit for a ceremony on a date. Guests may book without
// an account, so the user link is optional.
type Booking struct {
	BaseModel
	UserID   *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User     *User      `json:"user,omitempty"`
	PanditID uuid.UUID  `gorm:"type:uuid;index;not null" json:"pandit_id"`
	Pandit   *Pandit    `json:"pandit,omitempty"`

	CustomerName string    `gorm:"size:150;not null" json:"customer_name"`
	Phone        string    `gorm:"size:15;not null" json:"phone"`
	Email        string    `gorm:"size:150" json:"email"`
	PujaType     string    `gorm:"size:100;not null" json:"puja_type"`
	Date         time.Time `gorm:"not null" json:"date"`
	Address      string    `gorm:"not null" json:"address"`
	Notes        string    `json:"notes"`

	BookingNumber   string     `gorm:"uniqueIndex;size:50" json:"booking_number"`
	Amount          float64    `gorm:"default:999" json:"amount"`
	PaymentStatus   string     `gorm:"size:50;default:pending" json:"payment_status"`
	Status          string     `gorm:"size:50;default:pending" json:"status"`
	RazorpayOrderID string     `gorm:"size:100" json:"razorpay_order_id"`
	PaymentRef      string     `gorm:"column:payment_reference;size:100" json:"payment_reference"`
	PaymentDate     *time.Time `json:"payment_date"`
}
