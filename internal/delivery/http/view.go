package http

import (
	"embed"
	"fmt"
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/propestimator/backend/internal/domain"
	"github.com/propestimator/backend/internal/service"
)

//go:embed templates/index.html
var templateFS embed.FS

const indexView = "templates/index"

// NewViews returns the template engine serving the embedded pages
func NewViews() fiber.Views {
	return html.NewFileSystem(nethttp.FS(templateFS), ".html")
}

// Bounds are the static field limits rendered into the form
type Bounds struct {
	MinSurface   float64 `json:"min_surface"`
	MaxSurface   float64 `json:"max_surface"`
	MinRooms     int     `json:"min_rooms"`
	MaxRooms     int     `json:"max_rooms"`
	MinBedrooms  int     `json:"min_bedrooms"`
	MinBathrooms int     `json:"min_bathrooms"`
	MaxBathrooms int     `json:"max_bathrooms"`
}

var fieldBounds = Bounds{
	MinSurface:   domain.MinSurface,
	MaxSurface:   domain.MaxSurface,
	MinRooms:     domain.MinRooms,
	MaxRooms:     domain.MaxRooms,
	MinBedrooms:  domain.MinBedrooms,
	MinBathrooms: domain.MinBathrooms,
	MaxBathrooms: domain.MaxBathrooms,
}

type page struct {
	State  service.FormState
	Bounds Bounds
	Result *service.ResultView
	Error  string
}

func renderPage(c *fiber.Ctx, p page) error {
	p.Bounds = fieldBounds
	if err := c.Render(indexView, p); err != nil {
		return fmt.Errorf("view: failed to render page: %w", err)
	}
	return nil
}
