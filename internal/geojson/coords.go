package geojson

import (
	"encoding/json"
	"time"

	"github.com/calidata/monitor-inversiones/internal/logger"
	"github.com/calidata/monitor-inversiones/internal/metrics"
)

// Regional bounds for Cali (Valle del Cauca). The source files mix
// [lat,lng] and [lng,lat] order, and for this latitude/longitude band the two
// value ranges never overlap, so a pair can be classified by range alone.
// Bounds are open intervals and fixed for this deployment.
const (
	latMin = 2.0
	latMax = 5.0
	lngMin = -78.0
	lngMax = -75.0
)

// FallbackCenter is returned for any position that cannot be classified.
// Downtown Cali, so broken features still render inside the city.
var FallbackCenter = []float64{-76.5320, 3.4516}

// Position format labels reported by ValidatePosition
const (
	FormatLatLng  = "[lat,lng]"
	FormatLngLat  = "[lng,lat]"
	FormatUnknown = "unknown"
)

// PositionCheck reports how a raw position was classified
type PositionCheck struct {
	Position  []float64
	Corrected bool
	Format    string
}

func inLatRange(v float64) bool { return v > latMin && v < latMax }
func inLngRange(v float64) bool { return v > lngMin && v < lngMax }

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// asPositionSlice accepts the shapes a decoded coordinates value can take
func asPositionSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []float64:
		out := make([]any, len(s))
		for i, f := range s {
			out[i] = f
		}
		return out
	}
	return nil
}

// ValidatePosition classifies a raw 2-element position against the regional
// bounds and returns the corrected [lng,lat] pair. Never fails: anything
// unrecognizable maps to FallbackCenter with format "unknown".
func ValidatePosition(raw []any) PositionCheck {
	if len(raw) != 2 {
		return PositionCheck{Position: fallbackCopy(), Format: FormatUnknown}
	}

	a, okA := asFloat(raw[0])
	b, okB := asFloat(raw[1])
	if !okA || !okB {
		return PositionCheck{Position: fallbackCopy(), Format: FormatUnknown}
	}

	// [lat,lng]: swapped, fix it
	if inLatRange(a) && inLngRange(b) {
		return PositionCheck{Position: []float64{b, a}, Corrected: true, Format: FormatLatLng}
	}

	// [lng,lat]: already what GeoJSON mandates
	if inLngRange(a) && inLatRange(b) {
		return PositionCheck{Position: []float64{a, b}, Format: FormatLngLat}
	}

	return PositionCheck{Position: fallbackCopy(), Format: FormatUnknown}
}

// FixPosition returns the [lng,lat] form of a raw position, falling back to
// the regional center when the pair cannot be classified
func FixPosition(raw []any) []float64 {
	return ValidatePosition(raw).Position
}

// FixLineString corrects every vertex of a LineString coordinate list.
// Unrecognizable vertices silently become the fallback center.
func FixLineString(raw []any) [][]float64 {
	out := make([][]float64, 0, len(raw))
	for _, vertex := range raw {
		out = append(out, FixPosition(asPositionSlice(vertex)))
	}
	return out
}

func fallbackCopy() []float64 {
	return []float64{FallbackCenter[0], FallbackCenter[1]}
}

// ProcessReport summarizes one pass over a feature collection
type ProcessReport struct {
	Features  int
	Points    int
	Lines     int
	Corrected int
	Fallbacks int
	Elapsed   time.Duration
}

// Processor rewrites feature coordinates into [lng,lat] order
type Processor struct {
	log *logger.Logger
}

func NewProcessor(appLogger *logger.Logger) *Processor {
	return &Processor{log: appLogger}
}

// ProcessCollection returns a new collection whose Point and LineString
// geometries carry corrected coordinates. Other geometry types pass through
// untouched. The input collection is never mutated.
func (p *Processor) ProcessCollection(fc *FeatureCollection) (*FeatureCollection, ProcessReport) {
	const component = "CoordProcessor"
	start := time.Now()

	if fc == nil || len(fc.Features) == 0 {
		p.log.Warn(component, "Empty or missing features, returning collection unchanged: name=%s", collectionName(fc))
		report := ProcessReport{Elapsed: time.Since(start)}
		return fc, report
	}

	out := &FeatureCollection{
		Type:     fc.Type,
		Name:     fc.Name,
		Features: make([]Feature, len(fc.Features)),
	}

	report := ProcessReport{Features: len(fc.Features)}

	for i, f := range fc.Features {
		nf := f
		if f.Geometry != nil {
			switch f.Geometry.Type {
			case GeometryPoint:
				check := ValidatePosition(asPositionSlice(f.Geometry.Coordinates))
				nf.Geometry = &Geometry{Type: GeometryPoint, Coordinates: check.Position}
				report.Points++
				if check.Corrected {
					report.Corrected++
					metrics.CoordinatesCorrectedTotal.Inc()
				}
				if check.Format == FormatUnknown {
					report.Fallbacks++
					metrics.CoordinateFallbacksTotal.Inc()
					p.log.Warn(component, "Unrecognizable point coordinates, using fallback center: name=%s feature=%d", fc.Name, i)
				}
			case GeometryLineString:
				vertices := asPositionSlice(f.Geometry.Coordinates)
				nf.Geometry = &Geometry{Type: GeometryLineString, Coordinates: FixLineString(vertices)}
				report.Lines++
			}
		}
		out.Features[i] = nf
	}

	report.Elapsed = time.Since(start)
	p.log.Debug(component, "Collection processed: name=%s features=%d points=%d lines=%d corrected=%d fallbacks=%d elapsedMs=%d",
		fc.Name, report.Features, report.Points, report.Lines, report.Corrected, report.Fallbacks, report.Elapsed.Milliseconds())
	return out, report
}

func collectionName(fc *FeatureCollection) string {
	if fc == nil {
		return ""
	}
	return fc.Name
}
