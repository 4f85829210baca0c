package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

// CatalogHandler serves the public, read-only catalog: puja materials,
// bundles, and testimonials. Writes happen through the admin area.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListMaterials returns paginated puja materials.
func (h *CatalogHandler) ListMaterials(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var materials []models.PujaMaterial
	var total int64

	if err := h.db.Model(&models.PujaMaterial{}).Count(&total).Error; err != nil {
		return err
	}

	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&materials).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    materials,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetMaterial returns a single puja material by ID.
func (h *CatalogHandler) GetMaterial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var material models.PujaMaterial
	if err := h.db.First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "puja material not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": material})
}

// ListBundles returns all bundles.
func (h *CatalogHandler) ListBundles(c *fiber.Ctx) error {
	var bundles []models.Bundle
	if err := h.db.Order("created_at desc").Find(&bundles).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bundles})
}

// GetBundle returns a single bundle by ID.
func (h *CatalogHandler) GetBundle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var bundle models.Bundle
	if err := h.db.First(&bundle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "bundle not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bundle})
}

// ListTestimonials returns all testimonials, newest first.
func (h *CatalogHandler) ListTestimonials(c *fiber.Ctx) error {
	var testimonials []models.Testimonial
	if err := h.db.Order("created_at desc").Find(&testimonials).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": testimonials})
}
