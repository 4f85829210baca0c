package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/pujapath/internal/config"
	"github.com/example/pujapath/internal/handlers"
	"github.com/example/pujapath/internal/middleware"
	"github.com/example/pujapath/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	mailer := services.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, log)
	gateway := services.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, log)

	authHandler := handlers.NewAuthHandler(db, cfg, mailer)
	otpHandler := handlers.NewOTPHandler(db, cfg, mailer)
	oauthHandler := handlers.NewOAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)
	templeHandler := handlers.NewTempleHandler(db)
	panditHandler := handlers.NewPanditHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	bookingHandler := handlers.NewBookingHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, gateway, mailer, log)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/otp/send", otpHandler.Send)
	auth.Post("/otp/verify", otpHandler.Verify)
	auth.Get("/google", oauthHandler.Begin())
	auth.Get("/google/callback", oauthHandler.Callback())

	// Public catalog
	materials := api.Group("/materials")
	materials.Get("/", catalogHandler.ListMaterials)
	materials.Get("/:id", catalogHandler.GetMaterial)

	bundles := api.Group("/bundles")
	bundles.Get("/", catalogHandler.ListBundles)
	bundles.Get("/:id", catalogHandler.GetBundle)

	api.Get("/testimonials", catalogHandler.ListTestimonials)

	temples := api.Group("/temples")
	temples.Get("/", templeHandler.ListTemples)
	temples.Get("/:id", templeHandler.GetTemple)

	pandits := api.Group("/pandits")
	pandits.Get("/", panditHandler.ListPandits)
	pandits.Post("/signup", panditHandler.Signup)
	pandits.Get("/:id", panditHandler.GetPandit)

	// Checkout and payments allow guests; a bearer token, when present,
	// links the record to the account.
	guest := api.Group("", middleware.OptionalAuthMiddleware(cfg))
	guest.Post("/orders", orderHandler.CreateOrder)
	guest.Post("/bookings", bookingHandler.CreateBooking)
	guest.Post("/payments/checkout", paymentHandler.Checkout)
	guest.Post("/payments/verify", paymentHandler.Verify)

	// Authenticated customer routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Get("/bookings", bookingHandler.ListBookings)
	protected.Get("/bookings/:id", bookingHandler.GetBooking)
	protected.Post("/bookings/:id/cancel", bookingHandler.CancelBooking)
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Put("/profile/password", profileHandler.ChangePassword)

	// Admin back office: session cookie, not bearer token
	admin := api.Group("/admin")
	admin.Post("/login", adminHandler.Login)
	admin.Post("/logout", adminHandler.Logout)

	backoffice := admin.Group("", middleware.AdminMiddleware(db))
	backoffice.Get("/dashboard", adminHandler.Dashboard)

	backoffice.Get("/pandits", adminHandler.ListPandits)
	backoffice.Post("/pandits/:id/approve", adminHandler.ApprovePandit)
	backoffice.Delete("/pandits/:id", adminHandler.RejectPandit)
	backoffice.Put("/pandits/:id", adminHandler.UpdatePandit)

	backoffice.Post("/materials", adminHandler.CreateMaterial)
	backoffice.Put("/materials/:id", adminHandler.UpdateMaterial)
	backoffice.Delete("/materials/:id", adminHandler.DeleteMaterial)

	backoffice.Post("/bundles", adminHandler.CreateBundle)
	backoffice.Put("/bundles/:id", adminHandler.UpdateBundle)
	backoffice.Delete("/bundles/:id", adminHandler.DeleteBundle)

	backoffice.Post("/testimonials", adminHandler.CreateTestimonial)
	backoffice.Delete("/testimonials/:id", adminHandler.DeleteTestimonial)

	backoffice.Post("/temples", adminHandler.CreateTemple)
	backoffice.Put("/temples/:id", adminHandler.UpdateTemple)
	backoffice.Delete("/temples/:id", adminHandler.DeleteTemple)
	backoffice.Post("/temples/:id/pujas", adminHandler.CreateTemplePuja)
	backoffice.Delete("/temple-pujas/:id", adminHandler.DeleteTemplePuja)

	backoffice.Get("/bookings", adminHandler.ListBookings)
	backoffice.Put("/bookings/:id/status", adminHandler.UpdateBookingStatus)
	backoffice.Post("/bookings/:id/refund", adminHandler.RefundBooking)

	backoffice.Get("/orders", adminHandler.ListOrders)
	backoffice.Put("/orders/:id/status", adminHandler.UpdateOrderStatus)
	backoffice.Post("/orders/:id/refund", adminHandler.RefundOrder)
}
