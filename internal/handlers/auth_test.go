package handlers

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
)

func authApp(db *gorm.DB) *fiber.App {
	app := newTestApp()
	h := NewAuthHandler(db, newTestConfig(), newTestMailer())
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	return app
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	app := authApp(db)

	resp, body := postJSON(t, app, "/api/auth/register", map[string]interface{}{
		"username":  "priya",
		"email":     "priya@example.com",
		"password":  "password123",
		"full_name": "Priya Sharma",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d, body = %v", resp.StatusCode, body)
	}
	if body["token"] == nil {
		t.Fatalf("no token in register response")
	}

	var user models.User
	if err := db.First(&user, "username = ?", "priya").Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Role != models.RoleCustomer {
		t.Fatalf("role = %q, want customer", user.Role)
	}
	if user.PasswordHash == "password123" {
		t.Fatalf("password stored in plain text")
	}
	if user.EmailVerified {
		t.Fatalf("email verified before OTP redemption")
	}

	// Registering with an email cuts a verification code immediately.
	var otps int64
	db.Model(&models.OTP{}).Where("email = ?", "priya@example.com").Count(&otps)
	if otps != 1 {
		t.Fatalf("otps issued = %d, want 1", otps)
	}

	resp, body = postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"username": "priya",
		"password": "password123",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d, body = %v", resp.StatusCode, body)
	}
	if body["token"] == nil {
		t.Fatalf("no token in login response")
	}

	// Email works as the identifier too.
	resp, _ = postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"email":    "priya@example.com",
		"password": "password123",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login by email status = %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"username": "priya",
		"password": "wrong",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	db := newTestDB(t)
	app := authApp(db)

	payload := map[string]interface{}{
		"username": "priya",
		"email":    "priya@example.com",
		"password": "password123",
	}
	if resp, _ := postJSON(t, app, "/api/auth/register", payload); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first register status = %d", resp.StatusCode)
	}

	resp, body := postJSON(t, app, "/api/auth/register", payload)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("duplicate register status = %d, body = %v", resp.StatusCode, body)
	}

	// Same email under a different username is still a conflict.
	payload["username"] = "priya2"
	resp, _ = postJSON(t, app, "/api/auth/register", payload)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("duplicate email status = %d, want 409", resp.StatusCode)
	}
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	app := authApp(db)

	payload := `{"username":"priya","email":"priya@example.com","password":"password123"}`

	// Racing registrations can slip past the pre-insert checks and land on
	// the unique index; every loser must still come back as a 409, not 500.
	const attempts = 8
	statuses := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(fiber.MethodPost, "/api/auth/register", strings.NewReader(payload))
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

	created, conflicted := 0, 0
	for code := range statuses {
		switch code {
		case fiber.StatusCreated:
			created++
		case fiber.StatusConflict:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	if created != 1 || conflicted != attempts-1 {
		t.Fatalf("created = %d, conflicted = %d, want 1/%d", created, conflicted, attempts-1)
	}

	var users int64
	db.Model(&models.User{}).Where("username = ?", "priya").Count(&users)
	if users != 1 {
		t.Fatalf("users = %d, want 1", users)
	}
}

func TestLoginRequiresIdentifier(t *testing.T) {
	db := newTestDB(t)
	app := authApp(db)

	resp, _ := postJSON(t, app, "/api/auth/login", map[string]interface{}{"password": "whatever"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
