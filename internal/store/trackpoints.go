package store

import (
	"context"

	"dronemap/internal/models"
)

// ReplaceTrackPoints replaces the stored track for one subtitle asset.
func (s *Store) ReplaceTrackPoints(ctx context.Context, assetID string, points []models.TrackPoint) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM track_points WHERE asset_id = ?", assetID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO track_points (asset_id, seq, cue, lat, lon, alt) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, point := range points {
		if _, err = stmt.ExecContext(ctx, assetID, point.Seq, point.Cue, point.Lat, point.Lon, point.Alt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListTrackPoints returns the track for one asset in sequence order.
func (s *Store) ListTrackPoints(ctx context.Context, assetID string) ([]models.TrackPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT asset_id, seq, cue, lat, lon, alt FROM track_points WHERE asset_id = ? ORDER BY seq ASC", assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []models.TrackPoint{}
	for rows.Next() {
		var point models.TrackPoint
		if err := rows.Scan(&point.AssetID, &point.Seq, &point.Cue, &point.Lat, &point.Lon, &point.Alt); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}
