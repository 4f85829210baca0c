package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment status values shared by orders and bookings.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Order status values.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// orderTransitions lists every status change an admin may apply.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a cart checkout. The owning user is optional (guest checkout) and
// immutable once set.
type Order struct {
	BaseModel
	UserID          *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User            *User      `json:"user,omitempty"`
	OrderNumber     string     `gorm:"uniqueIndex;size:50;not null" json:"order_number"`
	CustomerName    string     `gorm:"size:150;not null" json:"customer_name"`
	CustomerEmail   string     `gorm:"size:150;not null" json:"customer_email"`
	CustomerPhone   string     `gorm:"size:15;not null" json:"customer_phone"`
	ShippingAddress string     `gorm:"not null" json:"shipping_address"`
	City            string     `gorm:"size:100;not null" json:"city"`
	State           string     `gorm:"size:100;not null" json:"state"`
	Pincode         string     `gorm:"size:10;not null" json:"pincode"`
	TotalAmount     float64    `gorm:"not null" json:"total_amount"`
	Status          string     `gorm:"size:50;default:pending" json:"status"`
	PaymentStatus   string     `gorm:"size:50;default:pending" json:"payment_status"`
	RazorpayOrderID string     `gorm:"size:100" json:"razorpay_order_id"`
	PaymentRef      string     `gorm:"column:payment_reference;size:100" json:"payment_reference"`
	PaymentDate     *time.Time `json:"payment_date"`
	Notes           string     `json:"notes"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem snapshots a catalog line at the moment the order was placed.
// Rows are created together with their order and never mutated afterwards.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	BundleID  *uuid.UUID `gorm:"type:uuid" json:"bundle_id"`
	ItemName  string     `gorm:"size:200;not null" json:"item_name"`
	UnitPrice float64    `gorm:"not null" json:"unit_price"`
	Quantity  int        `gorm:"not null;default:1" json:"quantity"`
	Subtotal  float64    `gorm:"not null" json:"subtotal"`
}
