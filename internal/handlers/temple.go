package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

// TempleHandler serves the public temple catalog.
type TempleHandler struct {
	db *gorm.DB
}

// NewTempleHandler constructs TempleHandler.
func NewTempleHandler(db *gorm.DB) *TempleHandler {
	return &TempleHandler{db: db}
}

// ListTemples returns active temples with their active pujas. Featured
// temples can be filtered with ?featured=true.
func (h *TempleHandler) ListTemples(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Temple{}).Where("is_active = ?", true)
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var temples []models.Temple
	if err := query.
		Preload("Pujas", "is_active = ?", true).
		Limit(pg.Limit).Offset(pg.Offset).
		Order("name asc").
		Find(&temples).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    temples,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetTemple returns one temple with all its active pujas.
func (h *TempleHandler) GetTemple(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var temple models.Temple
	if err := h.db.Preload("Pujas", "is_active = ?", true).
		First(&temple, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "temple not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": temple})
}
