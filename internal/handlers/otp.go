package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/config"
	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/services"
	"github.com/example/pujapath/internal/utils"
)

// OTPHandler manages email one-time-passcode issuance and verification.
type OTPHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer *services.Mailer
}

// NewOTPHandler constructs an OTPHandler.
func NewOTPHandler(db *gorm.DB, cfg *config.Config, mailer *services.Mailer) *OTPHandler {
	return &OTPHandler{db: db, cfg: cfg, mailer: mailer}
}

type sendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Send issues a fresh code for the email, subject to a cooldown, and
// supersedes all older unused codes.
func (h *OTPHandler) Send(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	var latest models.OTP
	err := h.db.Where("email = ?", req.Email).Order("created_at desc").First(&latest).Error
	if err == nil && time.Since(latest.CreatedAt) < models.OTPCooldown {
		retryIn := models.OTPCooldown - time.Since(latest.CreatedAt)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":               "please wait before requesting another code",
			"retry_after_seconds": int(retryIn.Seconds()) + 1,
		})
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	otp, err := issueOTP(h.db, req.Email)
	if err != nil {
		return err
	}

	go h.mailer.SendOTP(req.Email, otp.Code)

	return c.JSON(fiber.Map{
		"success":    true,
		"expires_at": otp.ExpiresAt,
	})
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// Verify redeems a code: exact match, unused, unexpired. Marks the user's
// email verified and, when the email belongs to an account, logs it in.
func (h *OTPHandler) Verify(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	var otp models.OTP
	err := h.db.Where("email = ? AND code = ?", req.Email, req.Code).
		Order("created_at desc").First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid verification code")
		}
		return err
	}

	if !otp.Valid(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "verification code expired or already used")
	}

	// Redeem atomically. RowsAffected 0 means a concurrent verify of the
	// same code already consumed it.
	result := h.db.Model(&models.OTP{}).
		Where("id = ? AND is_used = ?", otp.ID, false).
		Update("is_used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "verification code expired or already used")
	}

	if err := h.db.Model(&models.User{}).Where("email = ?", req.Email).
		Update("email_verified", true).Error; err != nil {
		return err
	}

	resp := fiber.Map{"success": true, "verified": true}

	// Passwordless login when the email belongs to an account.
	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err == nil {
		token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
		}
		resp["token"] = token
		resp["user"] = user
	}

	return c.JSON(resp)
}

// issueOTP marks older unused codes for the email as used and creates a new
// one. Superseded codes are not checked first; a newer request always wins.
func issueOTP(db *gorm.DB, email string) (*models.OTP, error) {
	code, err := utils.GenerateOTPCode()
	if err != nil {
		return nil, err
	}

	otp := models.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(models.OTPTTL),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OTP{}).
			Where("email = ? AND is_used = ?", email, false).
			Update("is_used", true).Error; err != nil {
			return err
		}
		return tx.Create(&otp).Error
	})
	if err != nil {
		return nil, err
	}

	return &otp, nil
}
