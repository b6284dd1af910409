package server

import (
	"context"
	"fmt"

	"dronemap/internal/api"
	"dronemap/internal/config"
	"dronemap/internal/models"
	"dronemap/internal/store"
)

// trackMarkerStride thins video tracks for display: every Nth
// telemetry point becomes a clickable marker alongside the line.
const trackMarkerStride = 30

// MapService assembles the GeoJSON document the viewer renders.
type MapService struct {
	store store.AssetStore
	cfg   config.MapConfig
}

// NewMapService constructs a MapService.
func NewMapService(assetStore store.AssetStore, cfg config.MapConfig) *MapService {
	return &MapService{store: assetStore, cfg: cfg}
}

// BuildDocument collects every geotagged asset into one map document.
// The center is the mean of all plotted coordinates; with nothing to
// plot it falls back to the configured center at the wide zoom.
func (m *MapService) BuildDocument(ctx context.Context) (*api.MapDocument, error) {
	assets, err := m.store.ListAssets(ctx, "")
	if err != nil {
		return nil, storeFailure(err)
	}

	collection := api.NewFeatureCollection(nil)
	var imagePath [][]float64
	var latSum, lonSum float64
	var coordCount int

	addCoord := func(lat, lon float64) {
		latSum += lat
		lonSum += lon
		coordCount++
	}

	for _, asset := range assets {
		switch asset.Kind {
		case string(models.AssetKindImage):
			if !asset.HasPosition() {
				continue
			}
			pos := *asset.Position
			feature := api.NewPointFeature(pos.Lat, pos.Lon, api.Properties{
				"id":       asset.ID,
				"kind":     asset.Kind,
				"filename": asset.Filename,
				"url":      "/uploads/" + asset.Filename,
				"alt":      pos.Alt,
			})
			if asset.CapturedAt != nil {
				feature.Properties["captured_at"] = asset.CapturedAt.Format("2006-01-02 15:04:05")
			}
			collection.Features = append(collection.Features, feature)
			imagePath = append(imagePath, []float64{pos.Lon, pos.Lat})
			addCoord(pos.Lat, pos.Lon)
		case string(models.AssetKindSubtitle):
			points, err := m.store.ListTrackPoints(ctx, asset.ID)
			if err != nil {
				return nil, storeFailure(err)
			}
			if len(points) == 0 {
				continue
			}
			m.appendTrackFeatures(&collection, asset, points)
			for _, p := range points {
				addCoord(p.Lat, p.Lon)
			}
		}
	}

	// Images taken in sequence form a flight path of their own.
	if len(imagePath) >= 2 {
		collection.Features = append(collection.Features, api.NewLineFeature(imagePath, api.Properties{
			"kind": "image_path",
		}))
	}

	doc := &api.MapDocument{Features: collection}
	if coordCount == 0 {
		doc.Center = models.Position{Lat: m.cfg.CenterLat, Lon: m.cfg.CenterLon}
		doc.Zoom = m.cfg.DefaultZoom
		return doc, nil
	}
	doc.Center = models.Position{
		Lat: latSum / float64(coordCount),
		Lon: lonSum / float64(coordCount),
	}
	doc.Zoom = config.DefaultFocusedZoom
	return doc, nil
}

// appendTrackFeatures emits one LineString for a telemetry track plus
// thinned point markers that deep-link into the paired video.
func (m *MapService) appendTrackFeatures(collection *api.FeatureCollection, asset models.Asset, points []models.TrackPoint) {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lon, p.Lat})
	}

	stem := asset.Stem()
	collection.Features = append(collection.Features, api.NewLineFeature(coords, api.Properties{
		"kind":     "track",
		"id":       asset.ID,
		"filename": asset.Filename,
		"stem":     stem,
	}))

	for i, p := range points {
		if i%trackMarkerStride != 0 {
			continue
		}
		collection.Features = append(collection.Features, api.NewPointFeature(p.Lat, p.Lon, api.Properties{
			"kind":     "track_point",
			"id":       fmt.Sprintf("%s:%d", asset.ID, p.Seq),
			"asset_id": asset.ID,
			"stem":     stem,
			"seq":      p.Seq,
			"cue":      p.Cue,
			"alt":      p.Alt,
		}))
	}
}
