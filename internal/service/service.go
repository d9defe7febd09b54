package service

import (
	"github.com/propestimator/backend/internal/domain"
)

// ReferenceRepository and Model are re-exported from domain for convenience
type (
	ReferenceRepository = domain.ReferenceRepository
	Model               = domain.Model
)
