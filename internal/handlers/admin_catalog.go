package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
)

// Catalog write endpoints. All sit behind the admin session middleware; the
// public read side lives in CatalogHandler and TempleHandler.

// CreateMaterial persists a new puja material.
func (h *AdminHandler) CreateMaterial(c *fiber.Ctx) error {
	var payload models.PujaMaterial
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" || payload.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive price are required")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateMaterial updates an existing puja material.
func (h *AdminHandler) UpdateMaterial(c *fiber.Ctx) error {
	return h.updateByID(c, &models.PujaMaterial{}, "puja material not found")
}

// DeleteMaterial removes a puja material.
func (h *AdminHandler) DeleteMaterial(c *fiber.Ctx) error {
	return h.deleteByID(c, &models.PujaMaterial{})
}

// CreateBundle persists a new bundle.
func (h *AdminHandler) CreateBundle(c *fiber.Ctx) error {
	var payload models.Bundle
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" || payload.DiscountedPrice <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive price are required")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateBundle updates an existing bundle.
func (h *AdminHandler) UpdateBundle(c *fiber.Ctx) error {
	return h.updateByID(c, &models.Bundle{}, "bundle not found")
}

// DeleteBundle removes a bundle.
func (h *AdminHandler) DeleteBundle(c *fiber.Ctx) error {
	return h.deleteByID(c, &models.Bundle{})
}

// CreateTestimonial persists a new testimonial.
func (h *AdminHandler) CreateTestimonial(c *fiber.Ctx) error {
	var payload models.Testimonial
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Author == "" || payload.Content == "" {
		return fiber.NewError(fiber.StatusBadRequest, "author and content are required")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// DeleteTestimonial removes a testimonial.
func (h *AdminHandler) DeleteTestimonial(c *fiber.Ctx) error {
	return h.deleteByID(c, &models.Testimonial{})
}

// CreateTemple persists a new temple, optionally with nested pujas.
func (h *AdminHandler) CreateTemple(c *fiber.Ctx) error {
	var payload models.Temple
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" || payload.Location == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and location are required")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateTemple updates an existing temple.
func (h *AdminHandler) UpdateTemple(c *fiber.Ctx) error {
	return h.updateByID(c, &models.Temple{}, "temple not found")
}

// DeleteTemple removes a temple; its pujas cascade.
func (h *AdminHandler) DeleteTemple(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	// Delete the pujas explicitly as well so the cascade holds on databases
	// migrated before the FK constraint existed.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TemplePuja{}, "temple_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Temple{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateTemplePuja adds a ceremony to a temple.
func (h *AdminHandler) CreateTemplePuja(c *fiber.Ctx) error {
	templeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var temple models.Temple
	if err := h.db.First(&temple, "id = ?", templeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "temple not found")
		}
		return err
	}

	var payload models.TemplePuja
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" || payload.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive price are required")
	}

	payload.TempleID = temple.ID
	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// DeleteTemplePuja removes a single ceremony.
func (h *AdminHandler) DeleteTemplePuja(c *fiber.Ctx) error {
	return h.deleteByID(c, &models.TemplePuja{})
}

// updateByID loads a record, applies the request body as a partial update,
// and returns the refreshed record.
func (h *AdminHandler) updateByID(c *fiber.Ctx, model interface{}, notFoundMsg string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.First(model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
		}
		return err
	}

	updates := map[string]interface{}{}
	if err := c.BodyParser(&updates); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	delete(updates, "id")
	delete(updates, "created_at")
	delete(updates, "updated_at")

	if len(updates) > 0 {
		if err := h.db.Model(model).Updates(updates).Error; err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": model})
}

func (h *AdminHandler) deleteByID(c *fiber.Ctx, model interface{}) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(model, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
