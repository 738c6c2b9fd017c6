package geojson

// Minimal GeoJSON model (RFC 7946). Coordinates stay as decoded JSON values
// so malformed positions survive parsing and reach the corrector, which
// decides what to do with them.

type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates,omitempty"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Name     string    `json:"name,omitempty"`
	Features []Feature `json:"features"`
}

const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	GeometryPoint         = "Point"
	GeometryLineString    = "LineString"
)
