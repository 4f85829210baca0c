package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/middleware"
	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

func adminApp(db *gorm.DB) *fiber.App {
	app := newTestApp()
	h := NewAdminHandler(db, newTestConfig())

	admin := app.Group("/api/admin")
	admin.Post("/login", h.Login)
	admin.Post("/logout", h.Logout)

	backoffice := admin.Group("", middleware.AdminMiddleware(db))
	backoffice.Get("/dashboard", h.Dashboard)
	backoffice.Get("/pandits", h.ListPandits)
	backoffice.Post("/pandits/:id/approve", h.ApprovePandit)
	backoffice.Post("/pandits/:id/reject", h.RejectPandit)
	backoffice.Post("/bookings/:id/status", h.UpdateBookingStatus)
	backoffice.Post("/bookings/:id/refund", h.RefundBooking)
	backoffice.Post("/orders/:id/status", h.UpdateOrderStatus)
	backoffice.Post("/orders/:id/refund", h.RefundOrder)
	return app
}

func seedAdmin(t *testing.T, db *gorm.DB, password string) models.Admin {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := models.Admin{Username: "admin", Email: "admin@pujapath.local", PasswordHash: hash}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func adminLogin(t *testing.T, app *fiber.App, username, password string) *http.Cookie {
	t.Helper()

	resp, body := postJSON(t, app, "/api/admin/login", map[string]interface{}{
		"username": username,
		"password": password,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d, body = %v", resp.StatusCode, body)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.AdminSessionCookie {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in login response", middleware.AdminSessionCookie)
	return nil
}

func TestAdminLoginAndSessionGate(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "s3cret")
	app := adminApp(db)

	// No cookie, forged cookie, then a real session.
	resp, _ := getJSON(t, app, "/api/admin/dashboard")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("no cookie: status = %d, want 401", resp.StatusCode)
	}

	forged := &http.Cookie{Name: middleware.AdminSessionCookie, Value: "deadbeef"}
	resp, _ = getJSON(t, app, "/api/admin/dashboard", forged)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("forged cookie: status = %d, want 401", resp.StatusCode)
	}

	cookie := adminLogin(t, app, "admin", "s3cret")
	resp, body := getJSON(t, app, "/api/admin/dashboard", cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("with session: status = %d, body = %v", resp.StatusCode, body)
	}

	var sessions int64
	db.Model(&models.AdminSession{}).Count(&sessions)
	if sessions != 1 {
		t.Fatalf("sessions = %d, want 1", sessions)
	}
}

func TestAdminLoginBadCredentials(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "s3cret")
	app := adminApp(db)

	resp, _ := postJSON(t, app, "/api/admin/login", map[string]interface{}{
		"username": "admin",
		"password": "wrong",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	var sessions int64
	db.Model(&models.AdminSession{}).Count(&sessions)
	if sessions != 0 {
		t.Fatalf("sessions created on failed login: %d", sessions)
	}
}

func TestAdminLogoutInvalidatesSession(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "s3cret")
	app := adminApp(db)

	cookie := adminLogin(t, app, "admin", "s3cret")
	if resp, _ := postJSON(t, app, "/api/admin/logout", nil, cookie); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}

	resp, _ := getJSON(t, app, "/api/admin/dashboard", cookie)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("after logout: status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminApproveAndRejectPandit(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "s3cret")
	app := adminApp(db)
	cookie := adminLogin(t, app, "admin", "s3cret")

	pending := seedPandit(t, db, false)

	resp, _ := postJSON(t, app, "/api/admin/pandits/"+pending.ID.String()+"/approve", nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("approve status = %d", resp.StatusCode)
	}
	var reloaded models.Pandit
	db.First(&reloaded, "id = ?", pending.ID)
	if !reloaded.IsApproved {
		t.Fatalf("pandit still unapproved")
	}

	resp, _ = postJSON(t, app, "/api/admin/pandits/"+pending.ID.String()+"/reject", nil, cookie)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("reject status = %d, want 204", resp.StatusCode)
	}
	var count int64
	db.Model(&models.Pandit{}).Count(&count)
	if count != 0 {
		t.Fatalf("pandit not deleted")
	}

	// Rejecting again hits nothing.
	resp, _ = postJSON(t, app, "/api/admin/pandits/"+pending.ID.String()+"/reject", nil, cookie)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("repeat reject status = %d, want 404", resp.StatusCode)
	}
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "s3cret")
	app := adminApp(db)
	cookie := adminLogin(t, app, "admin", "s3cret")

	order := seedOrder(t, db)
	path := "/api/admin/orders/" + order.ID.String() + "/status"

	// pending cannot jump straight to shipped.
	resp, _ := postJSON(t, app, path, map[string]interface{}{"status": models.OrderShipped}, cookie)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("pending→shipped status = %d, want 409", resp.StatusCode)
	}

	for _, status := range []string{models.OrderConfirmed, models.OrderProcessing, models.OrderShipped, models.OrderDelivered} {
		resp, body := postJSON(t, app, path, map[string]interface{}{"status": status}, cookie)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("transition to %s: status = %d, body = %v", status, resp.StatusCode, body)
		}
	}

	// Delivered is terminal.
	resp, _ = postJSON(t, app, path, map[string]interface{}{"status": models.OrderCancelled}, cookie)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("delivered→cancelled status = %d, want 409", resp.StatusCode)
	}
}

func TestAdminRefundBookingOnlyWhenPaid(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "s3cret")
	app := adminApp(db)
	cookie := adminLogin(t, app, "admin", "s3cret")
	pandit := seedPandit(t, db, true)

	booking := models.Booking{
		PanditID:      pandit.ID,
		CustomerName:  "Vikram Singh",
		Phone:         "9876509876",
		PujaType:      "Rudrabhishek",
		Address:       "9 Temple Street",
		BookingNumber: "BKG-20260901-TESTAC",
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	path := "/api/admin/bookings/" + booking.ID.String() + "/refund"
	resp, _ := postJSON(t, app, path, nil, cookie)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("refund unpaid booking: status = %d, want 409", resp.StatusCode)
	}

	db.Model(&booking).Update("payment_status", models.PaymentPaid)
	resp, _ = postJSON(t, app, path, nil, cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("refund paid booking: status = %d", resp.StatusCode)
	}

	var reloaded models.Booking
	db.First(&reloaded, "id = ?", booking.ID)
	if reloaded.PaymentStatus != models.PaymentRefunded {
		t.Fatalf("payment_status = %s, want refunded", reloaded.PaymentStatus)
	}

	// A refund is terminal; repeating it finds no paid row.
	resp, _ = postJSON(t, app, path, nil, cookie)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("repeat refund: status = %d, want 409", resp.StatusCode)
	}
}
