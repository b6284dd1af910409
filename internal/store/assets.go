package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dronemap/internal/models"
)

const assetColumns = "id, filename, kind, media_type, media_type_source, size_bytes, sha256, blob_key, lat, lon, alt, captured_at, created_at, updated_at"

// AssetExists checks whether an asset exists by id.
func (s *Store) AssetExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM assets WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateAsset inserts one asset row.
func (s *Store) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset == nil {
		return fmt.Errorf("asset is required")
	}

	now := time.Now().UTC()
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = now
	}
	if asset.UpdatedAt.IsZero() {
		asset.UpdatedAt = asset.CreatedAt
	}
	if strings.TrimSpace(asset.MediaTypeSource) == "" {
		asset.MediaTypeSource = string(models.MediaTypeSourceUnknown)
	}

	var lat, lon, alt any
	if asset.Position != nil {
		lat, lon, alt = asset.Position.Lat, asset.Position.Lon, asset.Position.Alt
	}
	var captured any
	if asset.CapturedAt != nil {
		captured = asset.CapturedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO assets (`+assetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID,
		asset.Filename,
		asset.Kind,
		nullIfEmpty(asset.MediaType),
		asset.MediaTypeSource,
		asset.SizeBytes,
		asset.SHA256,
		asset.BlobKey,
		lat, lon, alt,
		captured,
		asset.CreatedAt.Format(time.RFC3339Nano),
		asset.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// GetAsset returns one asset by id, or nil when absent.
func (s *Store) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	return scanAsset(row)
}

// GetAssetByFilename returns one asset by its unique filename, or nil.
func (s *Store) GetAssetByFilename(ctx context.Context, filename string) (*models.Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE filename = ?`, filename)
	return scanAsset(row)
}

// ListAssets lists assets, optionally filtered by kind, oldest first so
// image tracks follow upload order.
func (s *Store) ListAssets(ctx context.Context, kind string) ([]models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY created_at ASC, id ASC`
	args := []any{}
	if kind != "" {
		query = `SELECT ` + assetColumns + ` FROM assets WHERE kind = ? ORDER BY created_at ASC, id ASC`
		args = append(args, kind)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		if asset == nil {
			continue
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

// DeleteAsset deletes one asset row; track points cascade.
func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	return err
}

// BlobKeyInUse reports whether any other asset still references a blob.
func (s *Store) BlobKeyInUse(ctx context.Context, blobKey, excludeAssetID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM assets WHERE blob_key = ? AND id != ? LIMIT 1", blobKey, excludeAssetID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClearAll deletes every asset and track point and returns the blob keys
// that were referenced, so callers can remove the stored bytes.
func (s *Store) ClearAll(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT blob_key FROM assets")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM assets"); err != nil {
		return nil, err
	}
	return keys, nil
}

// Info summarizes stored assets for the info endpoint.
type Info struct {
	SchemaVersion int            `json:"schema_version"`
	AssetCounts   map[string]int `json:"asset_counts"`
	TotalAssets   int            `json:"total_assets"`
	TotalBytes    int64          `json:"total_bytes"`
	TrackPoints   int            `json:"track_points"`
}

// StoreInfo reports counts by kind, total payload size, and track points.
func (s *Store) StoreInfo(ctx context.Context) (Info, error) {
	info := Info{AssetCounts: map[string]int{}}

	version, err := s.SchemaVersion()
	if err != nil {
		return info, err
	}
	info.SchemaVersion = version

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*), COALESCE(SUM(size_bytes), 0) FROM assets GROUP BY kind")
	if err != nil {
		return info, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		var bytes int64
		if err := rows.Scan(&kind, &count, &bytes); err != nil {
			return info, err
		}
		info.AssetCounts[kind] = count
		info.TotalAssets += count
		info.TotalBytes += bytes
	}
	if err := rows.Err(); err != nil {
		return info, err
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM track_points").Scan(&info.TrackPoints)
	return info, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*models.Asset, error) {
	var asset models.Asset
	var mediaType, mediaTypeSource, capturedAt sql.NullString
	var lat, lon, alt sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(
		&asset.ID,
		&asset.Filename,
		&asset.Kind,
		&mediaType,
		&mediaTypeSource,
		&asset.SizeBytes,
		&asset.SHA256,
		&asset.BlobKey,
		&lat, &lon, &alt,
		&capturedAt,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	asset.MediaType = mediaType.String
	asset.MediaTypeSource = mediaTypeSource.String
	if lat.Valid && lon.Valid {
		asset.Position = &models.Position{Lat: lat.Float64, Lon: lon.Float64, Alt: alt.Float64}
	}
	if capturedAt.Valid && capturedAt.String != "" {
		if t, err := time.Parse(time.RFC3339Nano, capturedAt.String); err == nil {
			asset.CapturedAt = &t
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		asset.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		asset.UpdatedAt = t
	}

	return &asset, nil
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
