package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"jobboard/app/auth"
	"jobboard/app/config"
	"jobboard/app/database"
)

const testSecret = "test-secret"

func newTestApp() *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		return c.Next()
	})
	app.Get("/me", AuthMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/admin", AuthMiddleware, AdminMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()

	token, err := auth.GenerateToken(&database.User{ID: 1, Email: "seeker@example.com", Role: role}, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return token
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	if err != nil {
		t.Fatalf("Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d; want 401", resp.StatusCode)
	}
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.jwt")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d; want 401", resp.StatusCode)
	}
}

func TestAuthMiddlewareCookieTransport(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tokenFor(t, database.RoleUser)})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d; want 200", resp.StatusCode)
	}
}

func TestAuthMiddlewareBearerFallback(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenFor(t, database.RoleUser))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d; want 200", resp.StatusCode)
	}
}

func TestAuthMiddlewareCookieTakesPrecedence(t *testing.T) {
	app := newTestApp()

	// A valid cookie wins even when the header carries garbage.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tokenFor(t, database.RoleUser)})
	req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d; want 200", resp.StatusCode)
	}
}

func TestAdminMiddlewareRoleIsolation(t *testing.T) {
	app := newTestApp()

	// A valid user token is authenticated but forbidden, not unauthorized.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenFor(t, database.RoleUser))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d; want 403", resp.StatusCode)
	}
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenFor(t, database.RoleAdmin))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d; want 200", resp.StatusCode)
	}
}
