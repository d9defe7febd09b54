package domain

import (
	"context"
)

// ReferenceRepository defines where the form catalogs come from.
// The domain defines the interface; adapters live under internal/repository.
type ReferenceRepository interface {
	// LoadZones returns zone name -> ordered neighborhood names
	LoadZones(ctx context.Context) (map[string][]string, error)

	// LoadPropertyTypes returns the ordered property type labels
	LoadPropertyTypes(ctx context.Context) ([]string, error)

	// Health checks the backing store
	Health(ctx context.Context) error
}

// Model is a pre-fitted regression model
type Model interface {
	// Predict returns the estimated price for one record
	Predict(ctx context.Context, record FeatureRecord) (float64, error)

	// Health checks the model is usable
	Health(ctx context.Context) error
}

// LoadReferenceData loads both catalogs from repo and validates them
func LoadReferenceData(ctx context.Context, repo ReferenceRepository) (*ReferenceData, error) {
	zones, err := repo.LoadZones(ctx)
	if err != nil {
		return nil, err
	}

	types, err := repo.LoadPropertyTypes(ctx)
	if err != nil {
		return nil, err
	}

	return NewReferenceData(zones, types)
}
