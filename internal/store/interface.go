package store

import (
	"context"

	"dronemap/internal/models"
)

// AssetStore is the persistence surface the server depends on.
type AssetStore interface {
	AssetExists(id string) (bool, error)
	CreateAsset(ctx context.Context, asset *models.Asset) error
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	GetAssetByFilename(ctx context.Context, filename string) (*models.Asset, error)
	ListAssets(ctx context.Context, kind string) ([]models.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
	BlobKeyInUse(ctx context.Context, blobKey, excludeAssetID string) (bool, error)
	ClearAll(ctx context.Context) ([]string, error)
	ReplaceTrackPoints(ctx context.Context, assetID string, points []models.TrackPoint) error
	ListTrackPoints(ctx context.Context, assetID string) ([]models.TrackPoint, error)
	StoreInfo(ctx context.Context) (Info, error)
}

var _ AssetStore = (*Store)(nil)
