package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/services"
	"github.com/example/pujapath/internal/utils"
)

// PaymentHandler drives the two-step payment flow: create a gateway intent
// for an order or booking, then verify the signed callback and flip the
// record to paid/confirmed.
type PaymentHandler struct {
	db      *gorm.DB
	gateway services.PaymentGateway
	mailer  *services.Mailer
	log     *zap.Logger
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB, gateway services.PaymentGateway, mailer *services.Mailer, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		db:      db,
		gateway: gateway,
		mailer:  mailer,
		log:     log.With(zap.String("handler", "payment")),
	}
}

type checkoutRequest struct {
	Reference string `json:"reference" validate:"required,max=50"`
}

// Checkout creates (or reuses) a gateway intent for the referenced order or
// booking. Reusing the stored intent id keeps repeated calls from piling up
// duplicate open intents at the gateway.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	switch {
	case strings.HasPrefix(req.Reference, utils.OrderRefPrefix):
		return h.checkoutOrder(c, req.Reference)
	case strings.HasPrefix(req.Reference, utils.BookingRefPrefix):
		return h.checkoutBooking(c, req.Reference)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unrecognized reference")
	}
}

func (h *PaymentHandler) checkoutOrder(c *fiber.Ctx, reference string) error {
	var order models.Order
	if err := h.db.First(&order, "order_number = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.PaymentStatus == models.PaymentPaid {
		return fiber.NewError(fiber.StatusConflict, "order is already paid")
	}

	amountPaise := services.ToPaise(order.TotalAmount)

	if order.RazorpayOrderID == "" {
		intentID, err := h.gateway.CreateIntent(amountPaise, order.OrderNumber, map[string]interface{}{
			"kind":      "order",
			"reference": order.OrderNumber,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "payment gateway unavailable")
		}
		if err := h.db.Model(&order).Update("razorpay_order_id", intentID).Error; err != nil {
			return err
		}
		order.RazorpayOrderID = intentID
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"key":               h.gateway.KeyID(),
			"razorpay_order_id": order.RazorpayOrderID,
			"amount":            amountPaise,
			"currency":          services.Currency,
			"reference":         order.OrderNumber,
			"prefill": fiber.Map{
				"name":    order.CustomerName,
				"email":   order.CustomerEmail,
				"contact": order.CustomerPhone,
			},
		},
	})
}

func (h *PaymentHandler) checkoutBooking(c *fiber.Ctx, reference string) error {
	var booking models.Booking
	if err := h.db.First(&booking, "booking_number = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}

	if booking.PaymentStatus == models.PaymentPaid {
		return fiber.NewError(fiber.StatusConflict, "booking is already paid")
	}

	amountPaise := services.ToPaise(booking.Amount)

	if booking.RazorpayOrderID == "" {
		intentID, err := h.gateway.CreateIntent(amountPaise, booking.BookingNumber, map[string]interface{}{
			"kind":      "booking",
			"reference": booking.BookingNumber,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "payment gateway unavailable")
		}
		if err := h.db.Model(&booking).Update("razorpay_order_id", intentID).Error; err != nil {
			return err
		}
		booking.RazorpayOrderID = intentID
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"key":               h.gateway.KeyID(),
			"razorpay_order_id": booking.RazorpayOrderID,
			"amount":            amountPaise,
			"currency":          services.Currency,
			"reference":         booking.BookingNumber,
			"prefill": fiber.Map{
				"name":    booking.CustomerName,
				"email":   booking.Email,
				"contact": booking.Phone,
			},
		},
	})
}

type verifyRequest struct {
	Reference         string `json:"reference" validate:"required,max=50"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// Verify checks the gateway signature and, only then, marks the record paid
// and confirmed. A failed check changes nothing. Repeating a valid call is
// safe: an already-paid record returns success without mutating state or
// re-sending the confirmation email.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	switch {
	case strings.HasPrefix(req.Reference, utils.OrderRefPrefix):
		return h.verifyOrder(c, req)
	case strings.HasPrefix(req.Reference, utils.BookingRefPrefix):
		return h.verifyBooking(c, req)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unrecognized reference")
	}
}

func (h *PaymentHandler) verifyOrder(c *fiber.Ctx, req verifyRequest) error {
	var order models.Order
	if err := h.db.Preload("Items").First(&order, "order_number = ?", req.Reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	// The signature check runs even when the record is already paid; a bad
	// signature is rejected no matter what state the order is in.
	if !h.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		h.log.Warn("order signature verification failed", zap.String("reference", req.Reference))
		return fiber.NewError(fiber.StatusBadRequest, "payment verification failed")
	}

	if order.PaymentStatus == models.PaymentPaid {
		return c.JSON(fiber.Map{"success": true, "status": order.Status, "payment_status": order.PaymentStatus})
	}

	now := time.Now()
	result := h.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", order.ID, models.PaymentPending).
		Updates(map[string]any{
			"payment_status":    models.PaymentPaid,
			"status":            models.OrderConfirmed,
			"payment_reference": req.RazorpayPaymentID,
			"payment_date":      &now,
		})
	if result.Error != nil {
		return result.Error
	}

	// RowsAffected 0 means a concurrent verify won the race; the record is
	// paid either way and the email was already dispatched once.
	if result.RowsAffected > 0 {
		order.PaymentStatus = models.PaymentPaid
		order.Status = models.OrderConfirmed
		order.PaymentRef = req.RazorpayPaymentID
		order.PaymentDate = &now
		go h.mailer.SendOrderConfirmation(&order)
		h.log.Info("order paid", zap.String("reference", order.OrderNumber), zap.String("payment_id", req.RazorpayPaymentID))
	}

	return c.JSON(fiber.Map{"success": true, "status": models.OrderConfirmed, "payment_status": models.PaymentPaid})
}

func (h *PaymentHandler) verifyBooking(c *fiber.Ctx, req verifyRequest) error {
	var booking models.Booking
	if err := h.db.Preload("Pandit").First(&booking, "booking_number = ?", req.Reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}

	if !h.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		h.log.Warn("booking signature verification failed", zap.String("reference", req.Reference))
		return fiber.NewError(fiber.StatusBadRequest, "payment verification failed")
	}

	if booking.PaymentStatus == models.PaymentPaid {
		return c.JSON(fiber.Map{"success": true, "status": booking.Status, "payment_status": booking.PaymentStatus})
	}

	now := time.Now()
	result := h.db.Model(&models.Booking{}).
		Where("id = ? AND payment_status = ?", booking.ID, models.PaymentPending).
		Updates(map[string]any{
			"payment_status":    models.PaymentPaid,
			"status":            models.BookingConfirmed,
			"payment_reference": req.RazorpayPaymentID,
			"payment_date":      &now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		booking.PaymentStatus = models.PaymentPaid
		booking.Status = models.BookingConfirmed
		booking.PaymentRef = req.RazorpayPaymentID
		booking.PaymentDate = &now
		go h.mailer.SendBookingConfirmation(&booking)
		h.log.Info("booking paid", zap.String("reference", booking.BookingNumber), zap.String("payment_id", req.RazorpayPaymentID))
	}

	return c.JSON(fiber.Map{"success": true, "status": models.BookingConfirmed, "payment_status": models.PaymentPaid})
}
