package domain

import (
	"sort"
)

// Field bounds for a property submission
const (
	MinSurface   = 1.0
	MaxSurface   = 10000.0
	MinRooms     = 1
	MaxRooms     = 20
	MinBedrooms  = 0
	MinBathrooms = 1
	MaxBathrooms = 10
)

// Form defaults
const (
	DefaultTotalSurface   = 100.0
	DefaultCoveredSurface = 80.0
	DefaultRooms          = 3
	DefaultBedrooms       = 2
	DefaultBathrooms      = 1
)

// ReferenceData holds the static catalogs the form is built from.
// It is never mutated after NewReferenceData returns.
type ReferenceData struct {
	zones         map[string][]string
	sortedZones   []string
	propertyTypes []string
}

// NewReferenceData validates and copies the loaded catalogs
func NewReferenceData(zones map[string][]string, propertyTypes []string) (*ReferenceData, error) {
	if len(zones) == 0 {
		return nil, &MissingArtifactError{Artifact: ArtifactZoneData, Remedy: RemedyZoneData}
	}
	if len(propertyTypes) == 0 {
		return nil, &MissingArtifactError{Artifact: ArtifactTypeData, Remedy: RemedyTypeData}
	}

	ref := &ReferenceData{
		zones:         make(map[string][]string, len(zones)),
		sortedZones:   make([]string, 0, len(zones)),
		propertyTypes: append([]string(nil), propertyTypes...),
	}
	for zone, hoods := range zones {
		ref.zones[zone] = append([]string(nil), hoods...)
		ref.sortedZones = append(ref.sortedZones, zone)
	}
	sort.Strings(ref.sortedZones)

	return ref, nil
}

// SortedZones returns zone names in lexical order
func (r *ReferenceData) SortedZones() []string {
	return append([]string(nil), r.sortedZones...)
}

// Neighborhoods returns the ordered neighborhoods of a zone, nil if the zone is unknown
func (r *ReferenceData) Neighborhoods(zone string) []string {
	hoods, ok := r.zones[zone]
	if !ok {
		return nil
	}
	return append([]string(nil), hoods...)
}

// HasZone reports whether zone is a key of the mapping
func (r *ReferenceData) HasZone(zone string) bool {
	_, ok := r.zones[zone]
	return ok
}

// PropertyTypes returns the property type catalog in its stored order
func (r *ReferenceData) PropertyTypes() []string {
	return append([]string(nil), r.propertyTypes...)
}

// PropertyInput is one submission of the form
type PropertyInput struct {
	Zone           string  `json:"zone"`
	Neighborhood   string  `json:"neighborhood"`
	PropertyType   string  `json:"property_type"`
	TotalSurface   float64 `json:"total_surface"`
	CoveredSurface float64 `json:"covered_surface"`
	Rooms          int     `json:"rooms"`
	Bedrooms       int     `json:"bedrooms"`
	Bathrooms      int     `json:"bathrooms"`
}

// DefaultPropertyInput returns the initial form values
func DefaultPropertyInput() PropertyInput {
	return PropertyInput{
		TotalSurface:   DefaultTotalSurface,
		CoveredSurface: DefaultCoveredSurface,
		Rooms:          DefaultRooms,
		Bedrooms:       DefaultBedrooms,
		Bathrooms:      DefaultBathrooms,
	}
}

// FeatureRecord is the fixed-schema row the model is fed.
// Field order matches FeatureColumns.
type FeatureRecord struct {
	SurfaceTotal   float64 `json:"surface_total"`
	SurfaceCovered float64 `json:"surface_covered"`
	Rooms          int     `json:"rooms"`
	Bedrooms       int     `json:"bedrooms"`
	Bathrooms      int     `json:"bathrooms"`
	L2             string  `json:"l2"`
	L3             string  `json:"l3"`
	PropertyType   string  `json:"property_type"`
}

// FeatureColumns lists the model's input columns in order
var FeatureColumns = []string{
	"surface_total",
	"surface_covered",
	"rooms",
	"bedrooms",
	"bathrooms",
	"l2",
	"l3",
	"property_type",
}

// NewFeatureRecord maps a submission onto the model schema
func NewFeatureRecord(in PropertyInput) FeatureRecord {
	return FeatureRecord{
		SurfaceTotal:   in.TotalSurface,
		SurfaceCovered: in.CoveredSurface,
		Rooms:          in.Rooms,
		Bedrooms:       in.Bedrooms,
		Bathrooms:      in.Bathrooms,
		L2:             in.Zone,
		L3:             in.Neighborhood,
		PropertyType:   in.PropertyType,
	}
}

// Values returns the record's values in FeatureColumns order
func (f FeatureRecord) Values() []any {
	return []any{
		f.SurfaceTotal,
		f.SurfaceCovered,
		f.Rooms,
		f.Bedrooms,
		f.Bathrooms,
		f.L2,
		f.L3,
		f.PropertyType,
	}
}

// Numeric returns the value of a numeric column
func (f FeatureRecord) Numeric(column string) (float64, bool) {
	switch column {
	case "surface_total":
		return f.SurfaceTotal, true
	case "surface_covered":
		return f.SurfaceCovered, true
	case "rooms":
		return float64(f.Rooms), true
	case "bedrooms":
		return float64(f.Bedrooms), true
	case "bathrooms":
		return float64(f.Bathrooms), true
	}
	return 0, false
}

// Categorical returns the value of a string column
func (f FeatureRecord) Categorical(column string) (string, bool) {
	switch column {
	case "l2":
		return f.L2, true
	case "l3":
		return f.L3, true
	case "property_type":
		return f.PropertyType, true
	}
	return "", false
}

// PredictionResult is the outcome of one successful estimate
type PredictionResult struct {
	Input               PropertyInput `json:"input"`
	Price               float64       `json:"price"`
	PricePerCoveredArea float64       `json:"price_per_covered_area"`
	// PricePerTotalArea is nil when total and covered surface are equal
	PricePerTotalArea   *float64      `json:"price_per_total_area,omitempty"`
}

// NewPredictionResult derives the per-area prices from the model output
func NewPredictionResult(in PropertyInput, price float64) PredictionResult {
	res := PredictionResult{
		Input:               in,
		Price:               price,
		PricePerCoveredArea: price / in.CoveredSurface,
	}
	if in.TotalSurface != in.CoveredSurface {
		perTotal := price / in.TotalSurface
		res.PricePerTotalArea = &perTotal
	}
	return res
}
