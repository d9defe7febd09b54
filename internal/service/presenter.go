package service

import (
	"strconv"

	"github.com/propestimator/backend/internal/domain"
	"github.com/propestimator/backend/pkg/utils"
)

// SummaryLine is one echoed input value
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ResultView is a PredictionResult formatted for display
type ResultView struct {
	Price           string        `json:"price"`
	PricePerCovered string        `json:"price_per_covered"`
	PricePerTotal   string        `json:"price_per_total,omitempty"`
	Summary         []SummaryLine `json:"summary"`
}

// HasPricePerTotal reports whether the total-surface ratio applies
func (v ResultView) HasPricePerTotal() bool {
	return v.PricePerTotal != ""
}

// Present formats a result for the page and the JSON API
func Present(res domain.PredictionResult) ResultView {
	in := res.Input
	view := ResultView{
		Price:           utils.FormatMoney(res.Price),
		PricePerCovered: utils.FormatMoney(res.PricePerCoveredArea),
		Summary: []SummaryLine{
			{Label: "Zona", Value: in.Zone},
			{Label: "Barrio", Value: in.Neighborhood},
			{Label: "Tipo", Value: in.PropertyType},
			{Label: "Superficie total", Value: utils.FormatDecimal(in.TotalSurface) + " m²"},
			{Label: "Superficie cubierta", Value: utils.FormatDecimal(in.CoveredSurface) + " m²"},
			{Label: "Ambientes", Value: strconv.Itoa(in.Rooms)},
			{Label: "Habitaciones", Value: strconv.Itoa(in.Bedrooms)},
			{Label: "Baños", Value: strconv.Itoa(in.Bathrooms)},
		},
	}
	if res.PricePerTotalArea != nil {
		view.PricePerTotal = utils.FormatMoney(*res.PricePerTotalArea)
	}
	return view
}

