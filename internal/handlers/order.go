package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/middleware"
	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

// OrderHandler manages cart checkout and order listing.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"omitempty,uuid"`
	BundleID  string `json:"bundle_id" validate:"omitempty,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	CustomerName    string            `json:"customer_name" validate:"required,max=150"`
	CustomerEmail   string            `json:"customer_email" validate:"required,email,max=150"`
	CustomerPhone   string            `json:"customer_phone" validate:"required,min=10,max=15"`
	ShippingAddress string            `json:"shipping_address" validate:"required"`
	City            string            `json:"city" validate:"required,max=100"`
	State           string            `json:"state" validate:"required,max=100"`
	Pincode         string            `json:"pincode" validate:"required,max=10"`
	Notes           string            `json:"notes"`
	Items           []cartItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrder converts a cart into a persisted order. Every line is re-priced
// from the catalog; client-supplied prices are never trusted. Lines whose
// product or bundle no longer resolves are dropped; an order that ends up
// with no lines is rejected.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	order := models.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		Notes:           req.Notes,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
	}

	if userID, ok := middleware.GetCurrentUserID(c); ok {
		order.UserID = &userID
	}

	var total float64
	for _, line := range req.Items {
		item, ok := h.priceLine(line)
		if !ok {
			continue
		}
		total += item.Subtotal
		order.Items = append(order.Items, item)
	}

	if len(order.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}
	order.TotalAmount = total

	number, err := utils.GenerateReference(utils.OrderRefPrefix)
	if err != nil {
		return err
	}
	order.OrderNumber = number

	// Create writes the order and its items in one transaction.
	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"total_amount": order.TotalAmount,
			"items":        order.Items,
		},
	})
}

// priceLine resolves a cart line against the catalog. The boolean is false
// when the referenced product or bundle does not exist; callers drop such
// lines rather than failing the whole cart.
func (h *OrderHandler) priceLine(line cartItemRequest) (models.OrderItem, bool) {
	if line.ProductID != "" {
		id, err := uuid.Parse(line.ProductID)
		if err != nil {
			return models.OrderItem{}, false
		}
		var material models.PujaMaterial
		if err := h.db.First(&material, "id = ?", id).Error; err != nil {
			return models.OrderItem{}, false
		}
		return models.OrderItem{
			ProductID: &material.ID,
			ItemName:  material.Name,
			UnitPrice: material.Price,
			Quantity:  line.Quantity,
			Subtotal:  material.Price * float64(line.Quantity),
		}, true
	}

	if line.BundleID != "" {
		id, err := uuid.Parse(line.BundleID)
		if err != nil {
			return models.OrderItem{}, false
		}
		var bundle models.Bundle
		if err := h.db.First(&bundle, "id = ?", id).Error; err != nil {
			return models.OrderItem{}, false
		}
		return models.OrderItem{
			BundleID:  &bundle.ID,
			ItemName:  bundle.Name,
			UnitPrice: bundle.DiscountedPrice,
			Quantity:  line.Quantity,
			Subtotal:  bundle.DiscountedPrice * float64(line.Quantity),
		}, true
	}

	return models.OrderItem{}, false
}

// ListOrders returns the authenticated user's orders.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("user_id = ?", userID)

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

// GetOrder returns a single order belonging to the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
