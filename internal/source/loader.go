package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	goskema "github.com/reoring/goskema"

	"github.com/MrSnakeDoc/layerlint/internal/domain"
)

// Loader reads and structurally validates source record files.
type Loader struct{}

// NewLoader creates a new source record loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses one source record file.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	return l.LoadBytes(ctx, path, data)
}

// LoadBytes parses one source record from raw bytes. name identifies
// the record in diagnostics (the file path for CLI runs).
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (*domain.Source, error) {
	doc, err := goskema.ParseFrom(ctx, featureSchema, goskema.JSONBytes(data), strictParse)
	if err != nil {
		return nil, fmt.Errorf("invalid source record: %w", err)
	}
	if doc.Type != "Feature" {
		return nil, fmt.Errorf("invalid source record: type %q is not a GeoJSON Feature", doc.Type)
	}

	geom, geomSet, err := decodeGeometry(data)
	if err != nil {
		return nil, err
	}

	return mapSource(name, doc.Properties, geom, geomSet), nil
}

// decodeGeometry extracts the geometry member, distinguishing a
// missing key from an explicit null from an actual shape.
func decodeGeometry(data []byte) (orb.Geometry, bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("failed to decode source record: %w", err)
	}
	rawGeom, ok := raw["geometry"]
	if !ok {
		return nil, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(rawGeom), []byte("null")) {
		return nil, true, nil
	}
	g, err := geojson.UnmarshalGeometry(rawGeom)
	if err != nil {
		return nil, true, fmt.Errorf("invalid geometry: %w", err)
	}
	return g.Geometry(), true, nil
}
