package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/propestimator/backend/internal/domain"
)

// PostgresRepository implements domain.ReferenceRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LoadZones reads the zone -> neighborhood catalog in stored order
func (r *PostgresRepository) LoadZones(ctx context.Context) (map[string][]string, error) {
	query := `
		SELECT zone, name
		FROM neighborhoods
		ORDER BY zone, position, name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactZoneData,
			Path:     "table neighborhoods",
			Remedy:   domain.RemedyZoneData,
			Err:      fmt.Errorf("postgres: failed to query neighborhoods: %w", err),
		}
	}
	defer rows.Close()

	var list []neighborhoodRow
	for rows.Next() {
		var row neighborhoodRow
		if err := rows.Scan(&row.Zone, &row.Name); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan neighborhood row: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: neighborhood row iteration: %w", err)
	}

	return groupNeighborhoods(list)
}

type neighborhoodRow struct {
	Zone string
	Name string
}

// groupNeighborhoods builds the zone catalog keeping row order within each zone
func groupNeighborhoods(rows []neighborhoodRow) (map[string][]string, error) {
	if len(rows) == 0 {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactZoneData,
			Path:     "table neighborhoods",
			Remedy:   domain.RemedyZoneData,
			Err:      errors.New("table has no rows"),
		}
	}

	zones := make(map[string][]string)
	for _, row := range rows {
		zones[row.Zone] = append(zones[row.Zone], row.Name)
	}
	return zones, nil
}

// LoadPropertyTypes reads the property type catalog in stored order
func (r *PostgresRepository) LoadPropertyTypes(ctx context.Context) ([]string, error) {
	query := `
		SELECT label
		FROM property_types
		ORDER BY position, label
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactTypeData,
			Path:     "table property_types",
			Remedy:   domain.RemedyTypeData,
			Err:      fmt.Errorf("postgres: failed to query property types: %w", err),
		}
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan property type row: %w", err)
		}
		types = append(types, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: property type row iteration: %w", err)
	}

	if len(types) == 0 {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactTypeData,
			Path:     "table property_types",
			Remedy:   domain.RemedyTypeData,
			Err:      errors.New("table has no rows"),
		}
	}

	return types, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
