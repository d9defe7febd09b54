package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Artifact identifies one of the reference artifacts loaded at startup
type Artifact string

const (
	ArtifactModel    Artifact = "model"
	ArtifactZoneData Artifact = "zone data"
	ArtifactTypeData Artifact = "property type data"
)

// Default remedies shown next to a missing artifact
const (
	RemedyModel    = "export the trained model first"
	RemedyZoneData = "run the neighborhood dictionary generation script first"
	RemedyTypeData = "run the property type generation script first"
)

// MissingArtifactError is fatal at startup: the form is never served
type MissingArtifactError struct {
	Artifact Artifact
	Path     string
	Remedy   string
	Err      error
}

func (e *MissingArtifactError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Artifact))
	b.WriteString(" not found")
	if e.Path != "" {
		fmt.Fprintf(&b, " at %q", e.Path)
	}
	if e.Remedy != "" {
		b.WriteString(": ")
		b.WriteString(e.Remedy)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	return b.String()
}

func (e *MissingArtifactError) Unwrap() error {
	return e.Err
}

// PredictionError is any failure while building the feature record or running inference
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return "Error al realizar la predicción: " + e.Err.Error()
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// ValidationErrors maps a form field to its problem
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}
