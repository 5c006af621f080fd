package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"jobboard/app/auth"
	"jobboard/app/config"
	"jobboard/app/mail"
	"jobboard/app/middleware"
	"jobboard/app/platform/analytics"
	"jobboard/app/platform/otp"
	"jobboard/app/platform/user"
	"jobboard/app/platform/verify"
	"jobboard/pkg/utils"
)

const sessionCookieMaxAge = 7 * 24 * 60 * 60

func setSessionCookie(c *fiber.Ctx, cfg *config.Config, token string) {
	sameSite := fiber.CookieSameSiteLaxMode
	if cfg.IsProduction() {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HTTPOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: sameSite,
	})
}

func clearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	sameSite := fiber.CookieSameSiteLaxMode
	if cfg.IsProduction() {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: sameSite,
	})
}

func Register(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	userService := c.Locals("users").(*user.Service)

	type RegisterInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Name     string `json:"name" validate:"required"`
		Mobile   string `json:"mobile" validate:"required"`
		OTP      string `json:"otp" validate:"required"`
	}

	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email, mobile, otp and password required"})
	}
	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email, mobile, otp and password required"})
	}

	mobile := utils.NormalizeMobile(input.Mobile)
	if mobile == "" || utils.DigitCount(mobile) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid mobile number"})
	}

	if _, err := userService.GetByEmail(input.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already exists"})
	}
	if _, err := userService.GetByMobile(mobile); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "mobile number already exists"})
	}

	v := c.Locals("verifier")
	if v == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "otp verification service not configured"})
	}
	provider := v.(verify.Provider)

	phoneNumber, err := verify.ToE164(mobile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mobile number must include country code (e.g., +91XXXXXXXXXX)"})
	}

	check, err := provider.Check(c.UserContext(), phoneNumber, input.OTP)
	if err != nil {
		log.Printf("otp: failed to check verification for %s: %v", phoneNumber, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to verify otp"})
	}
	if check.Status != verify.StatusApproved {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid or expired otp", "status": check.Status})
	}

	hash := utils.HashPassword(input.Password)

	created, err := userService.Create(input.Email, hash, "", input.Name, mobile)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already exists"})
		}
		if errors.Is(err, user.ErrMobileExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "mobile number already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}

	token, err := auth.GenerateToken(&created, cfg.JWTSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	setSessionCookie(c, cfg, token)

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":      created.ID,
			"email":   created.Email,
			"name":    created.Name,
			"mobile":  created.Mobile,
			"isAdmin": false,
		},
	})
}

func Login(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	userService := c.Locals("users").(*user.Service)
	analyticsService := c.Locals("analytics").(*analytics.Service)

	type LoginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password required"})
	}
	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password required"})
	}

	// Unknown email and wrong password collapse to one answer so the
	// endpoint cannot be used to probe which addresses are registered.
	found, err := userService.GetByEmail(input.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}
	if !utils.VerifyPassword(input.Password, found.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, err := auth.GenerateToken(found, cfg.JWTSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	setSessionCookie(c, cfg, token)

	// Admin logins are not tracked.
	if !found.IsAdmin() {
		if err := analyticsService.TrackLogin(found.ID, found.Email); err != nil {
			log.Printf("analytics: failed to track login for %s: %v", found.Email, err)
		}
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":      found.ID,
			"email":   found.Email,
			"name":    found.Name,
			"mobile":  found.Mobile,
			"isAdmin": found.IsAdmin(),
			"role":    found.Role,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)

	clearSessionCookie(c, cfg)

	return c.JSON(fiber.Map{"ok": true})
}

func GetCurrentUser(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"uid":     claims.UserID,
			"email":   claims.Email,
			"role":    claims.Role,
			"isAdmin": claims.Role == "admin",
		},
	})
}

func SendOtp(c *fiber.Ctx) error {
	userService := c.Locals("users").(*user.Service)

	type SendOtpInput struct {
		Mobile string `json:"mobile" validate:"required"`
	}

	var input SendOtpInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid mobile number required"})
	}
	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid mobile number required"})
	}

	mobile, err := verify.Normalize(input.Mobile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid mobile number required"})
	}

	if _, err := userService.GetByMobile(mobile); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "mobile number already exists"})
	}

	v := c.Locals("verifier")
	if v == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "otp sms service not configured"})
	}
	provider := v.(verify.Provider)

	phoneNumber, err := verify.ToE164(mobile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mobile number must include country code (e.g., +91XXXXXXXXXX)"})
	}

	verification, err := provider.Start(c.UserContext(), phoneNumber)
	if err != nil {
		log.Printf("otp: failed to start verification for %s: %v", phoneNumber, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send otp sms"})
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"verificationSid": verification.ID,
		"status":          verification.Status,
	})
}

func SendEmailOtp(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	otpStore := c.Locals("otp").(*otp.Store)

	type SendEmailOtpInput struct {
		Email string `json:"email" validate:"required,email"`
	}

	var input SendEmailOtpInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid email required"})
	}
	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid email required"})
	}

	m := c.Locals("mailer")
	if m == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "otp email service not configured"})
	}
	mailer := m.(mail.Mailer)

	code, expiresAt, err := otpStore.Create(input.Email)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid email required"})
	}

	message := mail.Email{
		Subject: "Your verification code",
		Body:    fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", code),
		From:    fmt.Sprintf("Jobboard <no-reply@%s>", cfg.MailgunDomain),
		To:      []string{utils.NormalizeEmail(input.Email)},
	}
	if err := mailer.SendMail(&message); err != nil {
		log.Printf("otp: failed to send email code to %s: %v", input.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send otp email"})
	}

	// The code itself travels only by email.
	return c.JSON(fiber.Map{"success": true, "expiresAt": expiresAt})
}

func VerifyEmailOtp(c *fiber.Ctx) error {
	otpStore := c.Locals("otp").(*otp.Store)

	type VerifyEmailOtpInput struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required"`
	}

	var input VerifyEmailOtpInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and otp required"})
	}
	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and otp required"})
	}

	if !otpStore.Verify(input.Email, input.OTP) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid or expired otp"})
	}

	return c.JSON(fiber.Map{"success": true})
}
