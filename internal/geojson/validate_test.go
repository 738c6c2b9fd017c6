package geojson

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := testCollection()
	if err := Validate(valid, "comunas"); err != nil {
		t.Fatalf("valid collection rejected: %v", err)
	}

	if err := Validate(&FeatureCollection{Type: TypeFeatureCollection, Features: []Feature{}}, "vacio"); err != nil {
		t.Errorf("empty feature list should be valid, got %v", err)
	}

	tests := []struct {
		name     string
		fc       *FeatureCollection
		wantPart string
	}{
		{
			name:     "nil document",
			fc:       nil,
			wantPart: "empty",
		},
		{
			name:     "wrong top level type",
			fc:       &FeatureCollection{Type: "Feature", Features: []Feature{}},
			wantPart: "type must be",
		},
		{
			name:     "missing features",
			fc:       &FeatureCollection{Type: TypeFeatureCollection},
			wantPart: "features must be an array",
		},
		{
			name: "first feature wrong type",
			fc: &FeatureCollection{Type: TypeFeatureCollection, Features: []Feature{
				{Type: "Punto", Geometry: &Geometry{Type: GeometryPoint}, Properties: map[string]any{}},
			}},
			wantPart: "feature type",
		},
		{
			name: "first feature missing geometry",
			fc: &FeatureCollection{Type: TypeFeatureCollection, Features: []Feature{
				{Type: TypeFeature, Properties: map[string]any{}},
			}},
			wantPart: "missing geometry",
		},
		{
			name: "first feature missing properties",
			fc: &FeatureCollection{Type: TypeFeatureCollection, Features: []Feature{
				{Type: TypeFeature, Geometry: &Geometry{Type: GeometryPoint}},
			}},
			wantPart: "missing properties",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fc, "barrios")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantPart) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantPart)
			}
			if !strings.Contains(err.Error(), "barrios") {
				t.Errorf("error %q does not name the dataset", err.Error())
			}
		})
	}
}
