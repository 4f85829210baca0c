package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/pujapath/internal/config"
	"github.com/example/pujapath/internal/database"
	"github.com/example/pujapath/internal/middleware"
	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/services"
	"github.com/example/pujapath/internal/utils"
)

// authAs stamps a valid bearer token for the user onto each request and runs
// the real auth middleware over it.
func authAs(t *testing.T, cfg *config.Config, user models.User) fiber.Handler {
	t.Helper()

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, user.Role, cfg.TokenExpires)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	auth := middleware.AuthMiddleware(cfg)
	return func(c *fiber.Ctx) error {
		c.Request().Header.Set("Authorization", "Bearer "+token)
		return auth(c)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A second connection would see its own empty :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		TokenExpires:    time.Hour,
		AdminSessionTTL: time.Hour,
	}
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func newTestMailer() *services.Mailer {
	return services.NewMailer("localhost", 0, "", "", "test@pujapath.local", zap.NewNop())
}

// stubGateway mirrors the provider contract without the network: intents get
// deterministic ids and signatures are the same HMAC the real provider signs
// callbacks with.
type stubGateway struct {
	secret  string
	intents int
	fail    bool
}

func (g *stubGateway) CreateIntent(amountPaise int64, receipt string, notes map[string]interface{}) (string, error) {
	if g.fail {
		return "", fmt.Errorf("gateway down")
	}
	g.intents++
	return fmt.Sprintf("intent_%s_%d", receipt, g.intents), nil
}

func (g *stubGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(g.sign(gatewayOrderID, paymentID)))
}

func (g *stubGateway) KeyID() string { return "key_test" }

func (g *stubGateway) sign(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}, cookies ...*http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return doRequest(t, app, req)
}

func getJSON(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return doRequest(t, app, req)
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp, decoded
}
