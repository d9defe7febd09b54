package files

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/propestimator/backend/internal/domain"
)

// FileRepository implements domain.ReferenceRepository over JSON artifacts on disk
type FileRepository struct {
	zonesPath string
	typesPath string
}

// NewFileRepository creates a repository reading the two catalog files
func NewFileRepository(zonesPath, typesPath string) *FileRepository {
	return &FileRepository{zonesPath: zonesPath, typesPath: typesPath}
}

// LoadZones reads a {"zone": ["neighborhood", ...]} object
func (r *FileRepository) LoadZones(ctx context.Context) (map[string][]string, error) {
	var zones map[string][]string
	if err := readJSON(r.zonesPath, &zones); err != nil {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactZoneData,
			Path:     r.zonesPath,
			Remedy:   domain.RemedyZoneData,
			Err:      err,
		}
	}
	if len(zones) == 0 {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactZoneData,
			Path:     r.zonesPath,
			Remedy:   domain.RemedyZoneData,
			Err:      errors.New("file contains no zones"),
		}
	}
	return zones, nil
}

// LoadPropertyTypes reads a JSON array of labels
func (r *FileRepository) LoadPropertyTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := readJSON(r.typesPath, &types); err != nil {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactTypeData,
			Path:     r.typesPath,
			Remedy:   domain.RemedyTypeData,
			Err:      err,
		}
	}
	if len(types) == 0 {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactTypeData,
			Path:     r.typesPath,
			Remedy:   domain.RemedyTypeData,
			Err:      errors.New("file contains no property types"),
		}
	}
	return types, nil
}

// Health always succeeds; catalogs are read once at startup and held in memory
func (r *FileRepository) Health(ctx context.Context) error {
	return nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("files: file does not exist: %w", err)
	}
	if err != nil {
		return fmt.Errorf("files: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("files: decode %s: %w", path, err)
	}
	return nil
}
