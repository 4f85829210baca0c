package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/config"
	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

// OAuthHandler implements Google sign-in via goth. The gothic handlers speak
// net/http, so both routes are bridged into Fiber with the adaptor
// middleware.
type OAuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewOAuthHandler wires the goth provider and session store.
func NewOAuthHandler(db *gorm.DB, cfg *config.Config) *OAuthHandler {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options.HttpOnly = true
	store.MaxAge(600)
	gothic.Store = store

	if cfg.GoogleClientID != "" {
		goth.UseProviders(
			google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL, "email", "profile"),
		)
	}

	return &OAuthHandler{db: db, cfg: cfg}
}

// Begin redirects the browser to Google's consent screen.
func (h *OAuthHandler) Begin() fiber.Handler {
	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.RawQuery = "provider=google"
		gothic.BeginAuthHandler(w, r)
	})
}

// Callback completes the OAuth exchange, finds or creates the user, and
// returns a bearer token.
func (h *OAuthHandler) Callback() fiber.Handler {
	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("provider", "google")
		r.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "google authentication failed")
			return
		}

		if gothUser.Email == "" {
			writeJSONError(w, http.StatusBadRequest, "google account has no email")
			return
		}

		user, err := h.findOrCreateByEmail(gothUser.Email, gothUser.Name)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to load user")
			return
		}

		token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to generate token")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"token":"` + token + `"}`))
	})
}

// findOrCreateByEmail provisions an account for a first-time Google login.
// Google has already verified the email.
func (h *OAuthHandler) findOrCreateByEmail(email, name string) (*models.User, error) {
	var user models.User
	err := h.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if !user.EmailVerified {
			if err := h.db.Model(&user).Update("email_verified", true).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username := strings.SplitN(email, "@", 2)[0]
	user = models.User{
		Username:      username,
		Email:         &email,
		FullName:      name,
		Role:          models.RoleCustomer,
		EmailVerified: true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		// Username collision with an existing account: retry with a suffix.
		user.Username = username + "-" + user.ID.String()[:8]
		user.ID = uuid.Nil
		if err := h.db.Create(&user).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
