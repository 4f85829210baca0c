package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
)

// AdminSessionCookie is the cookie carrying the opaque session token.
const AdminSessionCookie = "admin_session"

const adminContextKey = "currentAdmin"

// AdminMiddleware gates back-office routes behind a server-validated session
// cookie. The cookie holds only a random token; the session row is the
// source of truth.
func AdminMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AdminSessionCookie)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "admin login required")
		}

		var session models.AdminSession
		err := db.Preload("Admin").Where("token = ?", token).First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid session")
			}
			return err
		}

		if session.ExpiresAt.Before(time.Now()) {
			db.Delete(&session)
			return fiber.NewError(fiber.StatusUnauthorized, "session expired")
		}

		c.Locals(adminContextKey, session.Admin)
		return c.Next()
	}
}

// GetCurrentAdmin extracts the authenticated admin from context.
func GetCurrentAdmin(c *fiber.Ctx) (*models.Admin, bool) {
	admin, ok := c.Locals(adminContextKey).(*models.Admin)
	return admin, ok && admin != nil
}
