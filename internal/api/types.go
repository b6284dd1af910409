package api

import (
	"time"

	"dronemap/internal/models"
	"dronemap/internal/store"
)

// ErrorResponse is the JSON error envelope returned by the HTTP API.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// AssetResponse is one uploaded asset as reported by the API.
type AssetResponse struct {
	ID              string           `json:"id"`
	Filename        string           `json:"filename"`
	Kind            string           `json:"kind"`
	MediaType       string           `json:"media_type,omitempty"`
	MediaTypeSource string           `json:"media_type_source,omitempty"`
	SizeBytes       int64            `json:"size_bytes"`
	SHA256          string           `json:"sha256"`
	Position        *models.Position `json:"position,omitempty"`
	CapturedAt      *time.Time       `json:"captured_at,omitempty"`
	TrackPoints     int              `json:"track_points,omitempty"`
	ContentURL      string           `json:"content_url"`
	CreatedAt       time.Time        `json:"created_at"`
}

// FromAsset converts a stored asset into its API representation.
func FromAsset(asset models.Asset, trackPoints int) AssetResponse {
	return AssetResponse{
		ID:              asset.ID,
		Filename:        asset.Filename,
		Kind:            asset.Kind,
		MediaType:       asset.MediaType,
		MediaTypeSource: asset.MediaTypeSource,
		SizeBytes:       asset.SizeBytes,
		SHA256:          asset.SHA256,
		Position:        asset.Position,
		CapturedAt:      asset.CapturedAt,
		TrackPoints:     trackPoints,
		ContentURL:      "/uploads/" + asset.Filename,
		CreatedAt:       asset.CreatedAt,
	}
}

// AssetDetailResponse adds the stored track to a subtitle asset.
type AssetDetailResponse struct {
	AssetResponse
	Track []models.TrackPoint `json:"track,omitempty"`
}

// UploadResult reports the outcome for one file in an upload request.
type UploadResult struct {
	Filename string         `json:"filename"`
	Asset    *AssetResponse `json:"asset,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// UploadResponse reports a whole multipart upload.
type UploadResponse struct {
	Uploaded int            `json:"uploaded"`
	Rejected int            `json:"rejected"`
	Results  []UploadResult `json:"results"`
}

// ClearResponse reports a clear-all-data run.
type ClearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

// InfoResponse reports server and store state.
type InfoResponse struct {
	DataDir       string         `json:"data_dir"`
	SchemaVersion int            `json:"schema_version"`
	AssetCounts   map[string]int `json:"asset_counts"`
	TotalAssets   int            `json:"total_assets"`
	TotalBytes    int64          `json:"total_bytes"`
	TrackPoints   int            `json:"track_points"`
}

// FromStoreInfo builds an InfoResponse from store counters.
func FromStoreInfo(dataDir string, info store.Info) InfoResponse {
	return InfoResponse{
		DataDir:       dataDir,
		SchemaVersion: info.SchemaVersion,
		AssetCounts:   info.AssetCounts,
		TotalAssets:   info.TotalAssets,
		TotalBytes:    info.TotalBytes,
		TrackPoints:   info.TrackPoints,
	}
}

// MapDocument is the map payload consumed by the viewer page.
type MapDocument struct {
	Center   models.Position   `json:"center"`
	Zoom     int               `json:"zoom"`
	Features FeatureCollection `json:"geojson"`
}
