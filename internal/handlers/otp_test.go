package handlers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
)

func otpApp(db *gorm.DB) *fiber.App {
	app := newTestApp()
	h := NewOTPHandler(db, newTestConfig(), newTestMailer())
	app.Post("/api/auth/otp/send", h.Send)
	app.Post("/api/auth/otp/verify", h.Verify)
	return app
}

func latestOTP(t *testing.T, db *gorm.DB, email string) models.OTP {
	t.Helper()

	var otp models.OTP
	if err := db.Where("email = ?", email).Order("created_at desc").First(&otp).Error; err != nil {
		t.Fatalf("load otp: %v", err)
	}
	return otp
}

func TestOTPSendAndVerify(t *testing.T) {
	db := newTestDB(t)
	app := otpApp(db)

	resp, body := postJSON(t, app, "/api/auth/otp/send", map[string]interface{}{"email": "priya@example.com"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("send status = %d, body = %v", resp.StatusCode, body)
	}

	otp := latestOTP(t, db, "priya@example.com")
	if len(otp.Code) != 6 {
		t.Fatalf("code = %q, want 6 digits", otp.Code)
	}
	if ttl := time.Until(otp.ExpiresAt); ttl <= 4*time.Minute || ttl > models.OTPTTL {
		t.Fatalf("expiry ttl = %v", ttl)
	}

	resp, body = postJSON(t, app, "/api/auth/otp/verify", map[string]interface{}{
		"email": "priya@example.com",
		"code":  otp.Code,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("verify status = %d, body = %v", resp.StatusCode, body)
	}
	if body["verified"] != true {
		t.Fatalf("verified = %v", body["verified"])
	}
}

func TestOTPSingleUse(t *testing.T) {
	db := newTestDB(t)
	app := otpApp(db)

	postJSON(t, app, "/api/auth/otp/send", map[string]interface{}{"email": "priya@example.com"})
	otp := latestOTP(t, db, "priya@example.com")

	payload := map[string]interface{}{"email": "priya@example.com", "code": otp.Code}
	if resp, _ := postJSON(t, app, "/api/auth/otp/verify", payload); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first redeem status = %d", resp.StatusCode)
	}
	if resp, _ := postJSON(t, app, "/api/auth/otp/verify", payload); resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("second redeem status = %d, want 400", resp.StatusCode)
	}
}

func TestOTPConcurrentRedeems(t *testing.T) {
	db := newTestDB(t)
	app := otpApp(db)

	postJSON(t, app, "/api/auth/otp/send", map[string]interface{}{"email": "priya@example.com"})
	otp := latestOTP(t, db, "priya@example.com")

	payload := fmt.Sprintf(`{"email":"priya@example.com","code":%q}`, otp.Code)

	const attempts = 8
	statuses := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(fiber.MethodPost, "/api/auth/otp/verify", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if err != nil {
				statuses <- 0
				return
			}
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	redeemed := 0
	for code := range statuses {
		if code == fiber.StatusOK {
			redeemed++
		}
	}
	if redeemed != 1 {
		t.Fatalf("concurrent redeems succeeded = %d, want exactly 1", redeemed)
	}
}

func TestOTPExpired(t *testing.T) {
	db := newTestDB(t)
	app := otpApp(db)

	otp := models.OTP{
		Email:     "priya@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := db.Create(&otp).Error; err != nil {
		t.Fatalf("seed otp: %v", err)
	}

	resp, _ := postJSON(t, app, "/api/auth/otp/verify", map[string]interface{}{
		"email": "priya@example.com",
		"code":  "123456",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for expired code", resp.StatusCode)
	}
}

func TestOTPWrongCode(t *testing.T) {
	db := newTestDB(t)
	app := otpApp(db)

	postJSON(t, app, "/api/auth/otp/send", map[string]interface{}{"email": "priya@example.com"})

	resp, _ := postJSON(t, app, "/api/auth/otp/verify", map[string]interface{}{
		"email": "priya@example.com",
		"code":  "000000",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for wrong code", resp.StatusCode)
	}
}

func TestOTPResendCooldown(t *testing.T) {
	db := newTestDB(t)
	app := otpApp(db)

	resp, _ := postJSON(t, app, "/api/auth/otp/send", map[string]interface{}{"email": "priya@example.com"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first send status = %d", resp.StatusCode)
	}
	first := latestOTP(t, db, "priya@example.com")

	resp, body := postJSON(t, app, "/api/auth/otp/send", map[string]interface{}{"email": "priya@example.com"})
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("resend status = %d, want 429", resp.StatusCode)
	}
	if body["retry_after_seconds"] == nil {
		t.Fatalf("no retry_after_seconds in %v", body)
	}

	// The throttled resend must not invalidate the outstanding code.
	resp, _ = postJSON(t, app, "/api/auth/otp/verify", map[string]interface{}{
		"email": "priya@example.com",
		"code":  first.Code,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("verify after throttled resend: status = %d", resp.StatusCode)
	}
}

func TestOTPVerifyMarksUserEmailVerified(t *testing.T) {
	db := newTestDB(t)
	app := otpApp(db)

	email := "rajesh@example.com"
	user := models.User{Username: "rajesh", Email: &email}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	postJSON(t, app, "/api/auth/otp/send", map[string]interface{}{"email": email})
	otp := latestOTP(t, db, email)

	resp, body := postJSON(t, app, "/api/auth/otp/verify", map[string]interface{}{
		"email": email,
		"code":  otp.Code,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["token"] == nil {
		t.Fatalf("no login token for account holder in %v", body)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if !reloaded.EmailVerified {
		t.Fatalf("email_verified not set")
	}
}
