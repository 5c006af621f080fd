package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"jobboard/app/config"
	"jobboard/app/database"
	"jobboard/app/handlers"
	"jobboard/app/mail"
	"jobboard/app/middleware"
	"jobboard/app/platform/analytics"
	"jobboard/app/platform/otp"
	"jobboard/app/platform/user"
	"jobboard/app/platform/verify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var backend database.Backend
	if cfg.S3Bucket != "" {
		backend = database.NewObjectBackend(cfg.Storage())
	} else {
		backend, err = database.NewFileBackend(cfg.DataDir)
		if err != nil {
			log.Fatal(err)
		}
	}

	store := database.NewStore(backend)
	userService := user.NewService(store)
	analyticsService := analytics.NewService(store)
	otpStore := otp.NewStore()

	var verifier verify.Provider
	if cfg.HasTwilio() {
		verifier = verify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifyServiceSID)
	} else {
		log.Println("twilio not configured; mobile otp endpoints will report service not configured")
	}

	var mailer mail.Mailer
	if cfg.HasMailgun() {
		mailer = mail.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase)
	} else {
		log.Println("mailgun not configured; email otp endpoints will report service not configured")
	}

	if err := userService.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	app := fiber.New()

	app.Use(compress.New())
	app.Use(helmet.New())
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(healthcheck.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origin,
		AllowCredentials: true,
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("store", store)
		c.Locals("users", userService)
		c.Locals("analytics", analyticsService)
		c.Locals("otp", otpStore)
		if verifier != nil {
			c.Locals("verifier", verifier)
		}
		if mailer != nil {
			c.Locals("mailer", mailer)
		}
		return c.Next()
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "API server running",
			"endpoints": []string{
				"/api/auth/login",
				"/api/auth/register",
				"/api/auth/me",
				"/api/auth/logout",
			},
		})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/me", middleware.AuthMiddleware, handlers.GetCurrentUser)
	auth.Post("/send-otp", handlers.SendOtp)
	auth.Post("/send-otp-email", handlers.SendEmailOtp)
	auth.Post("/verify-otp-email", handlers.VerifyEmailOtp)

	tracking := api.Group("/analytics")
	tracking.Post("/application", middleware.AuthMiddleware, handlers.TrackApplication)
	tracking.Post("/pageview", middleware.AuthMiddleware, handlers.TrackPageView)
	tracking.Get("/summary", middleware.AuthMiddleware, middleware.AdminMiddleware, handlers.GetAnalyticsSummary)

	app.Use(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.ServerPort)))
}
