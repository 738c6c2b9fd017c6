package geojson

import (
	"reflect"
	"testing"

	"github.com/calidata/monitor-inversiones/internal/logger"
)

func TestFixPosition(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want []float64
	}{
		{
			name: "swapped lat lng gets corrected",
			in:   []any{3.45, -76.53},
			want: []float64{-76.53, 3.45},
		},
		{
			name: "valid lng lat passes through",
			in:   []any{-76.53, 3.45},
			want: []float64{-76.53, 3.45},
		},
		{
			name: "out of region falls back",
			in:   []any{40.0, -3.7},
			want: FallbackCenter,
		},
		{
			name: "non numeric member falls back",
			in:   []any{"3.45", -76.53},
			want: FallbackCenter,
		},
		{
			name: "wrong length falls back",
			in:   []any{3.45},
			want: FallbackCenter,
		},
		{
			name: "empty falls back",
			in:   nil,
			want: FallbackCenter,
		},
		{
			name: "boundary lat excluded by open interval",
			in:   []any{2.0, -76.5},
			want: FallbackCenter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixPosition(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FixPosition(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFixPosition_Idempotent(t *testing.T) {
	once := FixPosition([]any{3.45, -76.53})

	asAny := []any{once[0], once[1]}
	twice := FixPosition(asAny)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed the position: once=%v twice=%v", once, twice)
	}
}

func TestValidatePosition(t *testing.T) {
	tests := []struct {
		name          string
		in            []any
		wantCorrected bool
		wantFormat    string
	}{
		{"swapped", []any{3.45, -76.53}, true, FormatLatLng},
		{"already valid", []any{-76.53, 3.45}, false, FormatLngLat},
		{"unrecognizable", []any{"x", "y"}, false, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePosition(tt.in)
			if got.Corrected != tt.wantCorrected {
				t.Errorf("Corrected = %v, want %v", got.Corrected, tt.wantCorrected)
			}
			if got.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", got.Format, tt.wantFormat)
			}
		})
	}
}

func TestFixLineString(t *testing.T) {
	in := []any{
		[]any{3.45, -76.53},
		[]any{-76.50, 3.40},
		[]any{"bad", "vertex"},
	}

	got := FixLineString(in)

	want := [][]float64{
		{-76.53, 3.45},
		{-76.50, 3.40},
		FallbackCenter,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FixLineString = %v, want %v", got, want)
	}
}

func testCollection() *FeatureCollection {
	return &FeatureCollection{
		Type: TypeFeatureCollection,
		Name: "comunas",
		Features: []Feature{
			{
				Type:       TypeFeature,
				Geometry:   &Geometry{Type: GeometryPoint, Coordinates: []any{3.45, -76.53}},
				Properties: map[string]any{"comuna": "Comuna 1"},
			},
			{
				Type:       TypeFeature,
				Geometry:   &Geometry{Type: GeometryLineString, Coordinates: []any{[]any{3.45, -76.53}, []any{3.46, -76.54}}},
				Properties: map[string]any{"via": "Calle 5"},
			},
			{
				Type:       TypeFeature,
				Geometry:   &Geometry{Type: "Polygon", Coordinates: []any{}},
				Properties: map[string]any{},
			},
		},
	}
}

func TestProcessCollection(t *testing.T) {
	proc := NewProcessor(logger.New(logger.LevelError))
	in := testCollection()

	out, report := proc.ProcessCollection(in)

	if out == in {
		t.Fatal("expected a new collection, got the input pointer")
	}
	if len(out.Features) != len(in.Features) {
		t.Fatalf("feature count changed: got %d, want %d", len(out.Features), len(in.Features))
	}

	// input must stay untouched
	origPoint := in.Features[0].Geometry.Coordinates.([]any)
	if origPoint[0] != 3.45 || origPoint[1] != -76.53 {
		t.Errorf("input point mutated: %v", origPoint)
	}

	gotPoint := out.Features[0].Geometry.Coordinates.([]float64)
	if gotPoint[0] != -76.53 || gotPoint[1] != 3.45 {
		t.Errorf("point not corrected: %v", gotPoint)
	}

	gotLine := out.Features[1].Geometry.Coordinates.([][]float64)
	if gotLine[0][0] != -76.53 || gotLine[0][1] != 3.45 {
		t.Errorf("line vertex not corrected: %v", gotLine[0])
	}

	// polygon passes through untouched
	if out.Features[2].Geometry.Type != "Polygon" {
		t.Errorf("polygon geometry type changed: %q", out.Features[2].Geometry.Type)
	}

	if report.Features != 3 || report.Points != 1 || report.Lines != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.Corrected != 1 {
		t.Errorf("Corrected = %d, want 1", report.Corrected)
	}
}

func TestProcessCollection_Empty(t *testing.T) {
	proc := NewProcessor(logger.New(logger.LevelError))

	empty := &FeatureCollection{Type: TypeFeatureCollection, Features: []Feature{}}
	out, report := proc.ProcessCollection(empty)

	if out != empty {
		t.Error("empty collection should be returned unchanged")
	}
	if report.Features != 0 {
		t.Errorf("report.Features = %d, want 0", report.Features)
	}

	if out, _ := proc.ProcessCollection(nil); out != nil {
		t.Error("nil collection should come back nil")
	}
}
