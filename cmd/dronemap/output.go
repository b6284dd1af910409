package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"dronemap/internal/api"
	"dronemap/internal/format"
)

var outputFormatter format.Formatter = format.JSONFormatter{Indent: "  "}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeAssetList(assets []api.AssetResponse) error {
	for _, asset := range assets {
		if err := writePlain("%s\n", formatAssetLine(asset)); err != nil {
			return err
		}
	}
	return nil
}

func writeAssetDetail(detail api.AssetDetailResponse) error {
	lines := []string{
		fmt.Sprintf("id: %s", detail.ID),
		fmt.Sprintf("filename: %s", detail.Filename),
		fmt.Sprintf("kind: %s", detail.Kind),
		fmt.Sprintf("size: %s", humanize.Bytes(uint64(detail.SizeBytes))),
		fmt.Sprintf("sha256: %s", detail.SHA256),
		fmt.Sprintf("created_at: %s", formatTime(detail.CreatedAt)),
	}
	if detail.MediaType != "" {
		lines = append(lines, fmt.Sprintf("media_type: %s (%s)", detail.MediaType, detail.MediaTypeSource))
	}
	if detail.Position != nil {
		lines = append(lines, fmt.Sprintf("position: %.6f, %.6f (alt %.1f m)",
			detail.Position.Lat, detail.Position.Lon, detail.Position.Alt))
	}
	if detail.CapturedAt != nil {
		lines = append(lines, fmt.Sprintf("captured_at: %s", formatTime(*detail.CapturedAt)))
	}
	if detail.TrackPoints > 0 {
		lines = append(lines, fmt.Sprintf("track_points: %d", detail.TrackPoints))
	}

	for _, line := range lines {
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func formatAssetLine(asset api.AssetResponse) string {
	marker := " "
	if asset.Position != nil {
		marker = "@"
	}
	extra := ""
	if asset.TrackPoints > 0 {
		extra = fmt.Sprintf(" (%d points)", asset.TrackPoints)
	}
	return fmt.Sprintf("%s %s [%s] %s %s%s",
		marker, asset.ID, asset.Kind, asset.Filename,
		humanize.Bytes(uint64(asset.SizeBytes)), extra)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
