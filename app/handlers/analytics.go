package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"jobboard/app/auth"
	"jobboard/app/config"
	"jobboard/app/platform/analytics"
)

func TrackApplication(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)
	analyticsService := c.Locals("analytics").(*analytics.Service)

	type ApplicationInput struct {
		JobID    string `json:"jobId" validate:"required"`
		JobTitle string `json:"jobTitle" validate:"required"`
		Company  string `json:"company" validate:"required"`
	}

	var input ApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "jobId, jobTitle, and company required"})
	}
	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "jobId, jobTitle, and company required"})
	}

	if err := analyticsService.TrackApplication(claims.UserID, claims.Email, input.JobID, input.JobTitle, input.Company); err != nil {
		log.Printf("analytics: failed to track application for %s: %v", claims.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}

	return c.JSON(fiber.Map{"success": true})
}

func TrackPageView(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)
	analyticsService := c.Locals("analytics").(*analytics.Service)

	type PageViewInput struct {
		Page string `json:"page" validate:"required"`
	}

	var input PageViewInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "page required"})
	}
	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "page required"})
	}

	if err := analyticsService.TrackPageView(claims.UserID, claims.Email, input.Page); err != nil {
		log.Printf("analytics: failed to track page view for %s: %v", claims.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}

	return c.JSON(fiber.Map{"success": true})
}

func GetAnalyticsSummary(c *fiber.Ctx) error {
	analyticsService := c.Locals("analytics").(*analytics.Service)

	return c.JSON(analyticsService.Summarize())
}
