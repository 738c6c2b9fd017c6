package geojson

import "fmt"

// Validate checks the structural contract of a parsed dataset before it is
// cached or processed. Errors name the dataset and the violated property.
func Validate(fc *FeatureCollection, name string) error {
	if fc == nil {
		return fmt.Errorf("geojson %q: document is empty", name)
	}

	if fc.Type != TypeFeatureCollection {
		return fmt.Errorf("geojson %q: type must be %q, got %q", name, TypeFeatureCollection, fc.Type)
	}

	if fc.Features == nil {
		return fmt.Errorf("geojson %q: features must be an array", name)
	}

	// An empty collection is valid. Only the first feature is inspected, the
	// source generator is trusted to be internally consistent.
	if len(fc.Features) > 0 {
		first := fc.Features[0]
		if first.Type != TypeFeature {
			return fmt.Errorf("geojson %q: first feature type must be %q, got %q", name, TypeFeature, first.Type)
		}
		if first.Geometry == nil {
			return fmt.Errorf("geojson %q: first feature is missing geometry", name)
		}
		if first.Properties == nil {
			return fmt.Errorf("geojson %q: first feature is missing properties", name)
		}
	}

	return nil
}
