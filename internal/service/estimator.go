package service

import (
	"context"
	"fmt"
	"math"

	"github.com/propestimator/backend/internal/domain"
	"github.com/propestimator/backend/internal/platform/obs"
)

// Estimator runs one submission through the model
type Estimator struct {
	model domain.Model
}

// NewEstimator creates a new estimator
func NewEstimator(model domain.Model) *Estimator {
	return &Estimator{model: model}
}

// Estimate builds the feature record and asks the model for a price.
// Every failure, including a panic inside the model, comes back as *domain.PredictionError.
func (e *Estimator) Estimate(ctx context.Context, in domain.PropertyInput) (res domain.PredictionResult, err error) {
	ctx = obs.WithRequestID(ctx)
	done := obs.Time(ctx, "estimate")
	defer func() { done(&err) }()

	defer func() {
		if r := recover(); r != nil {
			err = &domain.PredictionError{Err: fmt.Errorf("%v", r)}
		}
	}()

	if e.model == nil {
		return domain.PredictionResult{}, &domain.PredictionError{Err: fmt.Errorf("no model configured")}
	}
	if in.CoveredSurface <= 0 || in.TotalSurface <= 0 {
		return domain.PredictionResult{}, &domain.PredictionError{Err: fmt.Errorf("surfaces must be positive")}
	}

	record := domain.NewFeatureRecord(in)

	price, err := e.model.Predict(ctx, record)
	if err != nil {
		return domain.PredictionResult{}, &domain.PredictionError{Err: err}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return domain.PredictionResult{}, &domain.PredictionError{Err: fmt.Errorf("model returned %v", price)}
	}

	return domain.NewPredictionResult(in, price), nil
}

// Health checks the underlying model
func (e *Estimator) Health(ctx context.Context) error {
	if e.model == nil {
		return fmt.Errorf("estimator: no model configured")
	}
	return e.model.Health(ctx)
}
