package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// AssetKind describes what an uploaded file is.
type AssetKind string

const (
	AssetKindImage    AssetKind = "image"
	AssetKindVideo    AssetKind = "video"
	AssetKindSubtitle AssetKind = "subtitle"
)

// MediaTypeSource records how an asset media_type was determined.
type MediaTypeSource string

const (
	MediaTypeSourceSniffed  MediaTypeSource = "sniffed"
	MediaTypeSourceDeclared MediaTypeSource = "declared"
	MediaTypeSourceInferred MediaTypeSource = "inferred"
	MediaTypeSourceUnknown  MediaTypeSource = "unknown"
)

var validAssetKinds = map[AssetKind]struct{}{
	AssetKindImage:    {},
	AssetKindVideo:    {},
	AssetKindSubtitle: {},
}

var validMediaTypeSources = map[MediaTypeSource]struct{}{
	MediaTypeSourceSniffed:  {},
	MediaTypeSourceDeclared: {},
	MediaTypeSourceInferred: {},
	MediaTypeSourceUnknown:  {},
}

// kindByExtension maps the accepted upload extensions to asset kinds.
var kindByExtension = map[string]AssetKind{
	".jpg":  AssetKindImage,
	".jpeg": AssetKindImage,
	".png":  AssetKindImage,
	".mp4":  AssetKindVideo,
	".mov":  AssetKindVideo,
	".avi":  AssetKindVideo,
	".srt":  AssetKindSubtitle,
}

// Position is a decimal-degree GPS coordinate with altitude in meters.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt"`
}

// Asset is one uploaded media file and its extracted metadata.
type Asset struct {
	ID              string     `json:"id"`
	Filename        string     `json:"filename"`
	Kind            string     `json:"kind"`
	MediaType       string     `json:"media_type,omitempty"`
	MediaTypeSource string     `json:"media_type_source,omitempty"`
	SizeBytes       int64      `json:"size_bytes"`
	SHA256          string     `json:"sha256"`
	BlobKey         string     `json:"-"`
	Position        *Position  `json:"position,omitempty"`
	CapturedAt      *time.Time `json:"captured_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HasPosition reports whether the asset carries a GPS coordinate.
func (a *Asset) HasPosition() bool {
	return a != nil && a.Position != nil
}

// Stem returns the filename without its extension, used to pair a video
// with its telemetry subtitle file.
func (a *Asset) Stem() string {
	if a == nil {
		return ""
	}
	return FilenameStem(a.Filename)
}

func ParseAssetKind(raw string) (AssetKind, error) {
	value := AssetKind(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("asset kind is required")
	}
	if _, ok := validAssetKinds[value]; !ok {
		return "", fmt.Errorf("invalid asset kind: %s", value)
	}
	return value, nil
}

func ParseMediaTypeSource(raw string) (MediaTypeSource, error) {
	value := MediaTypeSource(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("media_type_source is required")
	}
	if _, ok := validMediaTypeSources[value]; !ok {
		return "", fmt.Errorf("invalid media_type_source: %s", value)
	}
	return value, nil
}

// KindForFilename classifies a filename by extension. The second return
// is false when the extension is not accepted for upload.
func KindForFilename(name string) (AssetKind, bool) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	kind, ok := kindByExtension[ext]
	return kind, ok
}

// AcceptedExtensions returns the upload extension whitelist.
func AcceptedExtensions() []string {
	out := make([]string, 0, len(kindByExtension))
	for ext := range kindByExtension {
		out = append(out, ext)
	}
	return out
}

// FilenameStem returns the base name without extension, lowercased.
func FilenameStem(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	ext := filepath.Ext(base)
	return strings.ToLower(strings.TrimSuffix(base, ext))
}
