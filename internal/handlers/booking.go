package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/middleware"
	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

// BookingHandler manages pandit booking requests.
type BookingHandler struct {
	db *gorm.DB
}

// NewBookingHandler constructs BookingHandler.
func NewBookingHandler(db *gorm.DB) *BookingHandler {
	return &BookingHandler{db: db}
}

type createBookingRequest struct {
	PanditID     string  `json:"pandit_id" validate:"required,uuid"`
	CustomerName string  `json:"customer_name" validate:"required,max=150"`
	Phone        string  `json:"phone" validate:"required,min=10,max=15"`
	Email        string  `json:"email" validate:"omitempty,email,max=150"`
	PujaType     string  `json:"puja_type" validate:"required,max=100"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Address      string  `json:"address" validate:"required"`
	Notes        string  `json:"notes"`
	Amount       float64 `json:"amount" validate:"omitempty,gt=0"`
}

// CreateBooking reserves a pandit for a ceremony date. The pandit must exist
// and be approved; the booking starts in pending/pending and moves to
// confirmed/paid only through payment verification.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	panditID, err := uuid.Parse(req.PanditID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pandit_id")
	}

	var pandit models.Pandit
	if err := h.db.First(&pandit, "id = ? AND is_approved = ?", panditID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "pandit not found")
		}
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	amount := req.Amount
	if amount == 0 {
		amount = models.DefaultBookingFee
	}

	number, err := utils.GenerateReference(utils.BookingRefPrefix)
	if err != nil {
		return err
	}

	booking := models.Booking{
		PanditID:      pandit.ID,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Email:         req.Email,
		PujaType:      req.PujaType,
		Date:          date,
		Address:       req.Address,
		Notes:         req.Notes,
		BookingNumber: number,
		Amount:        amount,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}

	if userID, ok := middleware.GetCurrentUserID(c); ok {
		booking.UserID = &userID
	}

	if err := h.db.Create(&booking).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             booking.ID,
			"booking_number": booking.BookingNumber,
			"pandit_name":    pandit.Name,
			"status":         booking.Status,
			"amount":         booking.Amount,
			"date":           booking.Date.Format("2006-01-02"),
		},
	})
}

// ListBookings returns the authenticated user's bookings.
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Booking{}).Where("user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var bookings []models.Booking
	if err := query.Preload("Pandit").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&bookings).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    bookings,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetBooking returns a single booking belonging to the authenticated user.
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var booking models.Booking
	if err := h.db.Preload("Pandit").
		First(&booking, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": booking})
}

// CancelBooking lets the owner cancel a booking that is still pending or
// confirmed. Completed and already-cancelled bookings stay as they are.
func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var booking models.Booking
	if err := h.db.First(&booking, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}

	if !models.CanTransitionBooking(booking.Status, models.BookingCancelled) {
		return fiber.NewError(fiber.StatusConflict, "booking cannot be cancelled from status "+booking.Status)
	}

	if err := h.db.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": booking})
}
