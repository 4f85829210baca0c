package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/config"
	"github.com/example/pujapath/internal/middleware"
	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

// AdminHandler manages the session-gated back office.
type AdminHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks admin credentials and issues an opaque session cookie.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	var admin models.Admin
	if err := h.db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create session")
	}

	session := models.AdminSession{
		AdminID:   admin.ID,
		Token:     hex.EncodeToString(tokenBytes),
		ExpiresAt: time.Now().Add(h.cfg.AdminSessionTTL),
	}
	if err := h.db.Create(&session).Error; err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"success": true, "admin": admin})
}

// Logout deletes the server-side session and clears the cookie.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(middleware.AdminSessionCookie)
	if token != "" {
		h.db.Where("token = ?", token).Delete(&models.AdminSession{})
	}

	c.ClearCookie(middleware.AdminSessionCookie)
	return c.JSON(fiber.Map{"success": true})
}

// Dashboard returns aggregate counts for the back-office landing page.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	counts := map[string]int64{}
	tables := map[string]interface{}{
		"total_users":    &models.User{},
		"total_pandits":  &models.Pandit{},
		"total_bookings": &models.Booking{},
		"total_orders":   &models.Order{},
	}
	for key, model := range tables {
		var count int64
		if err := h.db.Model(model).Count(&count).Error; err != nil {
			return err
		}
		counts[key] = count
	}

	var pendingPandits int64
	if err := h.db.Model(&models.Pandit{}).Where("is_approved = ?", false).
		Count(&pendingPandits).Error; err != nil {
		return err
	}

	var orderRevenue, bookingRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ? AND status != ?", models.PaymentPaid, models.OrderCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&orderRevenue).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Booking{}).
		Where("payment_status = ? AND status != ?", models.PaymentPaid, models.BookingCancelled).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&bookingRevenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":     counts["total_users"],
			"total_pandits":   counts["total_pandits"],
			"pending_pandits": pendingPandits,
			"total_bookings":  counts["total_bookings"],
			"total_orders":    counts["total_orders"],
			"total_revenue":   orderRevenue + bookingRevenue,
		},
	})
}

// ListPandits returns every pandit, including unapproved signups.
func (h *AdminHandler) ListPandits(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Pandit{})
	if c.Query("pending") == "true" {
		query = query.Where("is_approved = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var pandits []models.Pandit
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&pandits).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pandits,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ApprovePandit marks a signup approved, making it publicly listed.
func (h *AdminHandler) ApprovePandit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Pandit{}).Where("id = ?", id).Update("is_approved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "pandit not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

// RejectPandit removes a signup entirely.
func (h *AdminHandler) RejectPandit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Pandit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "pandit not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UpdatePandit edits a pandit profile, including availability toggles.
func (h *AdminHandler) UpdatePandit(c *fiber.Ctx) error {
	return h.updateByID(c, &models.Pandit{}, "pandit not found")
}

// ListBookings returns all bookings, optionally filtered by status.
func (h *AdminHandler) ListBookings(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Booking{})
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

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateBookingStatus applies an admin status change, subject to the
// allowed-transition table.
func (h *AdminHandler) UpdateBookingStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	var booking models.Booking
	if err := h.db.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}

	if !models.CanTransitionBooking(booking.Status, req.Status) {
		return fiber.NewError(fiber.StatusConflict,
			"cannot change booking from "+booking.Status+" to "+req.Status)
	}

	if err := h.db.Model(&booking).Update("status", req.Status).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": booking})
}

// RefundBooking marks a paid booking refunded. The only allowed regression
// of payment_status, and only by an admin.
func (h *AdminHandler) RefundBooking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Booking{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentPaid).
		Update("payment_status", models.PaymentRefunded)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "only paid bookings can be refunded")
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListOrders returns all orders, optionally filtered by status.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// UpdateOrderStatus applies an admin status change, subject to the
// allowed-transition table.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !models.CanTransitionOrder(order.Status, req.Status) {
		return fiber.NewError(fiber.StatusConflict,
			"cannot change order from "+order.Status+" to "+req.Status)
	}

	if err := h.db.Model(&order).Update("status", req.Status).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// RefundOrder marks a paid order refunded.
func (h *AdminHandler) RefundOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentPaid).
		Update("payment_status", models.PaymentRefunded)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "only paid orders can be refunded")
	}

	return c.JSON(fiber.Map{"success": true})
}
