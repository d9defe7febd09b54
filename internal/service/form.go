package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/propestimator/backend/internal/domain"
)

// WarnCoveredAboveTotal is shown when covered surface exceeds total surface; it never blocks submission
const WarnCoveredAboveTotal = "La superficie cubierta no puede ser mayor que la superficie total."

// RawInput is the form as submitted, before parsing.
// Empty fields take their default.
type RawInput struct {
	Zone           string `form:"zone" query:"zone"`
	Neighborhood   string `form:"neighborhood" query:"neighborhood"`
	PropertyType   string `form:"property_type" query:"property_type"`
	TotalSurface   string `form:"total_surface" query:"total_surface"`
	CoveredSurface string `form:"covered_surface" query:"covered_surface"`
	Rooms          string `form:"rooms" query:"rooms"`
	Bedrooms       string `form:"bedrooms" query:"bedrooms"`
	Bathrooms      string `form:"bathrooms" query:"bathrooms"`
}

// FormState is everything needed to render or submit the form
type FormState struct {
	Input         domain.PropertyInput
	Zones         []string
	Neighborhoods []string
	PropertyTypes []string
	MaxBedrooms   int
	Errors        domain.ValidationErrors
	Warnings      []string
}

// CanSubmit reports whether the input may be sent to the model
func (s FormState) CanSubmit() bool {
	return len(s.Errors) == 0
}

// FormService resolves raw input against the reference catalogs
type FormService struct {
	ref *domain.ReferenceData
}

// NewFormService creates a new form service
func NewFormService(ref *domain.ReferenceData) *FormService {
	return &FormService{ref: ref}
}

// Reference returns the catalogs the form is built from
func (s *FormService) Reference() *domain.ReferenceData {
	return s.ref
}

// Initial returns the form with every field at its default
func (s *FormService) Initial() FormState {
	return s.Collect(RawInput{})
}

// Collect parses raw and applies field bounds and option lists
func (s *FormService) Collect(raw RawInput) FormState {
	st := FormState{
		Input:         domain.DefaultPropertyInput(),
		Zones:         s.ref.SortedZones(),
		PropertyTypes: s.ref.PropertyTypes(),
		Errors:        domain.ValidationErrors{},
	}

	s.collectLocation(&st, raw)

	st.Input.TotalSurface = parseFloatField(st.Errors, "total_surface", raw.TotalSurface,
		domain.DefaultTotalSurface, domain.MinSurface, domain.MaxSurface)
	st.Input.CoveredSurface = parseFloatField(st.Errors, "covered_surface", raw.CoveredSurface,
		domain.DefaultCoveredSurface, domain.MinSurface, domain.MaxSurface)
	st.Input.Rooms = parseIntField(st.Errors, "rooms", raw.Rooms,
		domain.DefaultRooms, domain.MinRooms, domain.MaxRooms)
	st.Input.Bathrooms = parseIntField(st.Errors, "bathrooms", raw.Bathrooms,
		domain.DefaultBathrooms, domain.MinBathrooms, domain.MaxBathrooms)

	// bedrooms is bounded by whatever rooms resolved to
	st.MaxBedrooms = st.Input.Rooms
	st.Input.Bedrooms = parseIntField(st.Errors, "bedrooms", raw.Bedrooms,
		domain.DefaultBedrooms, domain.MinBedrooms, -1)
	if st.Input.Bedrooms > st.MaxBedrooms {
		st.Input.Bedrooms = st.MaxBedrooms
	}

	if st.Input.CoveredSurface > st.Input.TotalSurface {
		st.Warnings = append(st.Warnings, WarnCoveredAboveTotal)
	}

	return st
}

func (s *FormService) collectLocation(st *FormState, raw RawInput) {
	zone := strings.TrimSpace(raw.Zone)
	if zone == "" && len(st.Zones) > 0 {
		zone = st.Zones[0]
	}
	if canonical, ok := lookup(st.Zones, zone); ok {
		zone = canonical
	} else {
		zone = strings.Clone(zone)
		st.Errors["zone"] = fmt.Sprintf("zona desconocida %q", zone)
	}
	st.Input.Zone = zone

	st.Neighborhoods = s.ref.Neighborhoods(zone)
	if len(st.Neighborhoods) == 0 {
		st.Errors["neighborhood"] = "no hay barrios disponibles para la zona seleccionada"
	} else {
		hood, ok := lookup(st.Neighborhoods, strings.TrimSpace(raw.Neighborhood))
		if !ok {
			hood = st.Neighborhoods[0]
		}
		st.Input.Neighborhood = hood
	}

	ptype := strings.TrimSpace(raw.PropertyType)
	if ptype == "" && len(st.PropertyTypes) > 0 {
		ptype = st.PropertyTypes[0]
	}
	if canonical, ok := lookup(st.PropertyTypes, ptype); ok {
		ptype = canonical
	} else {
		ptype = strings.Clone(ptype)
		st.Errors["property_type"] = fmt.Sprintf("tipo de propiedad desconocido %q", ptype)
	}
	st.Input.PropertyType = ptype
}

func parseFloatField(errs domain.ValidationErrors, field, raw string, def, min, max float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[field] = "debe ser un número"
		return def
	}
	// written this way so NaN fails too
	if !(v >= min && v <= max) {
		errs[field] = fmt.Sprintf("debe estar entre %g y %g", min, max)
		return def
	}
	return v
}

// parseIntField checks [min, max]; max < 0 means no upper bound
func parseIntField(errs domain.ValidationErrors, field, raw string, def, min, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs[field] = "debe ser un número entero"
		return def
	}
	if v < min || (max >= 0 && v > max) {
		if max >= 0 {
			errs[field] = fmt.Sprintf("debe estar entre %d y %d", min, max)
		} else {
			errs[field] = fmt.Sprintf("debe ser al menos %d", min)
		}
		return def
	}
	return v
}

// lookup returns the catalog's own copy of v; request strings may not outlive the request
func lookup(options []string, v string) (string, bool) {
	for _, o := range options {
		if o == v {
			return o, true
		}
	}
	return "", false
}
