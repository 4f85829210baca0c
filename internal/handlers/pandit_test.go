package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
)

func panditApp(db *gorm.DB) *fiber.App {
	app := newTestApp()
	h := NewPanditHandler(db)
	app.Get("/api/pandits", h.ListPandits)
	app.Get("/api/pandits/:id", h.GetPandit)
	app.Post("/api/pandits/signup", h.Signup)
	return app
}

func TestListPanditsHidesUnapproved(t *testing.T) {
	db := newTestDB(t)
	approved := seedPandit(t, db, true)
	unapproved := models.Pandit{Name: "Pandit Shankar Pandit", Location: "Pune", IsApproved: false}
	if err := db.Create(&unapproved).Error; err != nil {
		t.Fatalf("seed pandit: %v", err)
	}

	app := panditApp(db)

	resp, body := getJSON(t, app, "/api/pandits")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data := body["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("listed pandits = %d, want 1", len(data))
	}
	if data[0].(map[string]interface{})["id"] != approved.ID.String() {
		t.Fatalf("wrong pandit listed: %v", data[0])
	}

	// Direct fetch of an unapproved profile is also hidden.
	resp, _ = getJSON(t, app, "/api/pandits/"+unapproved.ID.String())
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("unapproved fetch status = %d, want 404", resp.StatusCode)
	}
}

func TestListPanditsAvailableFilter(t *testing.T) {
	db := newTestDB(t)
	seedPandit(t, db, true)
	busy := models.Pandit{Name: "Pandit Pankaj Jha", Location: "Bangalore", Availability: false, IsApproved: true}
	if err := db.Create(&busy).Error; err != nil {
		t.Fatalf("seed pandit: %v", err)
	}

	app := panditApp(db)

	_, body := getJSON(t, app, "/api/pandits?available=true")
	data := body["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("available pandits = %d, want 1", len(data))
	}
}

func TestPanditSignupStartsUnapproved(t *testing.T) {
	db := newTestDB(t)
	app := panditApp(db)

	resp, body := postJSON(t, app, "/api/pandits/signup", map[string]interface{}{
		"name":       "Pandit Medhansh Acharya",
		"experience": "10+ Years",
		"age":        38,
		"location":   "Mumbai, Maharashtra",
		"phone":      "9876512345",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("signup status = %d, body = %v", resp.StatusCode, body)
	}

	var pandit models.Pandit
	if err := db.First(&pandit, "name = ?", "Pandit Medhansh Acharya").Error; err != nil {
		t.Fatalf("load pandit: %v", err)
	}
	if pandit.IsApproved {
		t.Fatalf("signup approved without review")
	}

	// And hence not listed yet.
	_, listBody := getJSON(t, app, "/api/pandits")
	if data := listBody["data"].([]interface{}); len(data) != 0 {
		t.Fatalf("unapproved signup visible in listing")
	}
}
