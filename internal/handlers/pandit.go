package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

// PanditHandler serves the public pandit directory and signup.
type PanditHandler struct {
	db *gorm.DB
}

// NewPanditHandler constructs PanditHandler.
func NewPanditHandler(db *gorm.DB) *PanditHandler {
	return &PanditHandler{db: db}
}

// ListPandits returns approved pandits. Unapproved signups stay hidden until
// an admin approves them; ?available=true narrows to available ones.
func (h *PanditHandler) ListPandits(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Pandit{}).Where("is_approved = ?", true)
	if c.Query("available") == "true" {
		query = query.Where("availability = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var pandits []models.Pandit
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("rating desc, name asc").
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

// GetPandit returns one approved pandit.
func (h *PanditHandler) GetPandit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var pandit models.Pandit
	if err := h.db.First(&pandit, "id = ? AND is_approved = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "pandit not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": pandit})
}

type panditSignupRequest struct {
	Name        string `json:"name" validate:"required,max=250"`
	Experience  string `json:"experience" validate:"required,max=250"`
	Age         int    `json:"age" validate:"required,gt=17"`
	Location    string `json:"location" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"required,min=10,max=15"`
	Email       string `json:"email" validate:"omitempty,email,max=150"`
	Specialties string `json:"specialties" validate:"max=250"`
	Languages   string `json:"languages" validate:"max=200"`
}

// Signup registers an unapproved pandit profile awaiting admin review.
func (h *PanditHandler) Signup(c *fiber.Ctx) error {
	var req panditSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	pandit := models.Pandit{
		Name:         req.Name,
		Experience:   req.Experience,
		Age:          req.Age,
		Location:     req.Location,
		Phone:        req.Phone,
		Email:        req.Email,
		Specialties:  req.Specialties,
		Languages:    req.Languages,
		Availability: true,
		IsApproved:   false,
	}

	if err := h.db.Create(&pandit).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    pandit,
		"message": "signup received, pending approval",
	})
}
