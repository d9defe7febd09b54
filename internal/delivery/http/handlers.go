package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/propestimator/backend/internal/domain"
	"github.com/propestimator/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	formSvc   *service.FormService
	estimator *service.Estimator
	repo      service.ReferenceRepository
}

// NewHandler creates a new handler
func NewHandler(formSvc *service.FormService, estimator *service.Estimator, repo service.ReferenceRepository) *Handler {
	return &Handler{
		formSvc:   formSvc,
		estimator: estimator,
		repo:      repo,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx := c.UserContext()

	status := fiber.Map{
		"status":  "ok",
		"service": "property-estimator",
		"version": "1.0.0",
	}
	code := fiber.StatusOK

	if err := h.repo.Health(ctx); err != nil {
		log.Printf("Reference repository unhealthy: %v", err)
		status["status"] = "degraded"
		status["reference"] = err.Error()
		code = fiber.StatusServiceUnavailable
	}
	if err := h.estimator.Health(ctx); err != nil {
		log.Printf("Model unhealthy: %v", err)
		status["status"] = "degraded"
		status["model"] = err.Error()
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(status)
}

// Index renders the form; query values preserve the current selection across zone changes
func (h *Handler) Index(c *fiber.Ctx) error {
	var raw service.RawInput
	if err := c.QueryParser(&raw); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	return renderPage(c, page{State: h.formSvc.Collect(raw)})
}

// Estimate handles a form submission and renders the page with the result or the error
func (h *Handler) Estimate(c *fiber.Ctx) error {
	var raw service.RawInput
	if err := c.BodyParser(&raw); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form body")
	}

	st := h.formSvc.Collect(raw)
	p := page{State: st}
	if !st.CanSubmit() {
		return renderPage(c, p)
	}

	res, err := h.estimator.Estimate(c.UserContext(), st.Input)
	if err != nil {
		p.Error = err.Error()
		return renderPage(c, p)
	}

	view := service.Present(res)
	p.Result = &view
	return renderPage(c, p)
}

type zoneOptions struct {
	Zone          string   `json:"zone"`
	Neighborhoods []string `json:"neighborhoods"`
}

// GetReference returns the catalogs and field bounds
func (h *Handler) GetReference(c *fiber.Ctx) error {
	ref := h.formSvc.Reference()

	zones := make([]zoneOptions, 0)
	for _, z := range ref.SortedZones() {
		zones = append(zones, zoneOptions{Zone: z, Neighborhoods: ref.Neighborhoods(z)})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"zones":          zones,
			"property_types": ref.PropertyTypes(),
			"bounds":         fieldBounds,
			"defaults":       domain.DefaultPropertyInput(),
		},
	})
}

// GetNeighborhoods returns the neighborhood options of one zone
func (h *Handler) GetNeighborhoods(c *fiber.Ctx) error {
	zone, err := url.PathUnescape(c.Params("zone"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid zone")
	}

	ref := h.formSvc.Reference()
	if !ref.HasZone(zone) {
		return fiber.NewError(fiber.StatusNotFound, "Unknown zone")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    zoneOptions{Zone: zone, Neighborhoods: ref.Neighborhoods(zone)},
	})
}

// EstimateRequest is the JSON body of POST /api/v1/estimate.
// Omitted fields take the form defaults.
type EstimateRequest struct {
	Zone           string      `json:"zone"`
	Neighborhood   string      `json:"neighborhood"`
	PropertyType   string      `json:"property_type"`
	TotalSurface   json.Number `json:"total_surface"`
	CoveredSurface json.Number `json:"covered_surface"`
	Rooms          json.Number `json:"rooms"`
	Bedrooms       json.Number `json:"bedrooms"`
	Bathrooms      json.Number `json:"bathrooms"`
}

func (r EstimateRequest) raw() service.RawInput {
	return service.RawInput{
		Zone:           r.Zone,
		Neighborhood:   r.Neighborhood,
		PropertyType:   r.PropertyType,
		TotalSurface:   r.TotalSurface.String(),
		CoveredSurface: r.CoveredSurface.String(),
		Rooms:          r.Rooms.String(),
		Bedrooms:       r.Bedrooms.String(),
		Bathrooms:      r.Bathrooms.String(),
	}
}

// EstimateJSON runs the same flow as the form for JSON clients
func (h *Handler) EstimateJSON(c *fiber.Ctx) error {
	var req EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	st := h.formSvc.Collect(req.raw())
	if !st.CanSubmit() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":    true,
			"message":  st.Errors.Error(),
			"fields":   st.Errors,
			"warnings": st.Warnings,
		})
	}

	res, err := h.estimator.Estimate(c.UserContext(), st.Input)
	if err != nil {
		var perr *domain.PredictionError
		if errors.As(err, &perr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":   true,
				"message": perr.Error(),
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get prediction")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"data":     res,
		"display":  service.Present(res),
		"warnings": st.Warnings,
	})
}
