package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propestimator/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, formSvc *service.FormService, estimator *service.Estimator, repo service.ReferenceRepository) {
	handler := NewHandler(formSvc, estimator, repo)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// Form page
	app.Get("/", handler.Index)
	app.Post("/estimate", handler.Estimate)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/reference", handler.GetReference)
		api.Get("/zones/:zone/neighborhoods", handler.GetNeighborhoods)
		api.Post("/estimate", handler.EstimateJSON)
	}
}

// ErrorHandler maps handler errors to a JSON body
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
