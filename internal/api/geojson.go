package api

// GeoJSON wire types for the map document. Coordinates follow the
// GeoJSON convention of [lon, lat] pairs.

// Geometry stores a GeoJSON geometry dictionary. Coordinates is
// []float64 for points and [][]float64 for line strings.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Properties stores a GeoJSON properties dictionary.
type Properties map[string]any

// Feature provides a GeoJSON feature struct.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// FeatureCollection provides a GeoJSON feature collection struct.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewPointFeature builds a point feature from a lat/lon pair.
func NewPointFeature(lat, lon float64, props Properties) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{lon, lat},
		},
		Properties: props,
	}
}

// NewLineFeature builds a line feature from ordered lat/lon pairs.
func NewLineFeature(coords [][]float64, props Properties) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "LineString",
			Coordinates: coords,
		},
		Properties: props,
	}
}

// NewFeatureCollection wraps features into a collection.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
