package server

import (
	"context"
	"fmt"
	"io"
	"strings"

	"dronemap/internal/blobstore"
	"dronemap/internal/geotag"
	"dronemap/internal/models"
	"dronemap/internal/srt"
	"dronemap/internal/store"
)

const subtitleMediaType = "application/x-subrip"

// IngestService runs the upload pipeline: classify, persist bytes,
// extract GPS metadata, and index the asset.
type IngestService struct {
	store          store.AssetStore
	blobs          blobstore.BlobStore
	maxUploadBytes int64
}

// IngestInput describes one file from an upload request.
type IngestInput struct {
	Filename          string
	DeclaredMediaType string
	SniffedMediaType  string
	Reader            io.Reader
}

// NewIngestService constructs an IngestService.
func NewIngestService(assetStore store.AssetStore, blobs blobstore.BlobStore, maxUploadBytes int64) *IngestService {
	return &IngestService{store: assetStore, blobs: blobs, maxUploadBytes: maxUploadBytes}
}

// Ingest stores one uploaded file and returns the indexed asset. A
// re-uploaded filename replaces the previous asset, matching the
// viewer's overwrite-on-upload behavior.
func (s *IngestService) Ingest(ctx context.Context, in IngestInput) (models.Asset, error) {
	var zero models.Asset
	if s == nil || s.store == nil || s.blobs == nil {
		return zero, internalError(fmt.Errorf("ingest service is not configured"))
	}

	filename, err := sanitizeFilename(in.Filename)
	if err != nil {
		return zero, err
	}

	kind, ok := models.KindForFilename(filename)
	if !ok {
		return zero, badRequestCode(
			fmt.Errorf("unsupported file type: %s", filename), ErrCodeUnsupportedMediaType)
	}

	put, err := s.blobs.Put(ctx, in.Reader)
	if err != nil {
		return zero, blobFailure(err)
	}
	if s.maxUploadBytes > 0 && put.SizeBytes > s.maxUploadBytes {
		s.discardBlob(ctx, put.Key, "")
		return zero, badRequestCode(
			fmt.Errorf("%s exceeds the %d byte upload limit", filename, s.maxUploadBytes), ErrCodeFileTooLarge)
	}

	if err := s.replaceExisting(ctx, filename); err != nil {
		s.discardBlob(ctx, put.Key, "")
		return zero, err
	}

	id, err := store.GenerateAssetID(kind, s.store.AssetExists)
	if err != nil {
		s.discardBlob(ctx, put.Key, "")
		return zero, storeFailure(err)
	}

	asset := models.Asset{
		ID:        id,
		Filename:  filename,
		Kind:      string(kind),
		SizeBytes: put.SizeBytes,
		SHA256:    put.SHA256,
		BlobKey:   put.Key,
	}
	asset.MediaType, asset.MediaTypeSource = resolveMediaType(kind, in.DeclaredMediaType, in.SniffedMediaType)

	var track []models.TrackPoint
	switch kind {
	case models.AssetKindImage:
		s.extractImageMetadata(ctx, &asset)
	case models.AssetKindSubtitle:
		track, err = s.parseTelemetry(ctx, put.Key)
		if err != nil {
			s.discardBlob(ctx, put.Key, "")
			return zero, err
		}
	}

	if err := s.store.CreateAsset(ctx, &asset); err != nil {
		s.discardBlob(ctx, put.Key, "")
		if isUniqueFilenameViolation(err) {
			return zero, conflictCode(fmt.Errorf("filename already exists: %s", filename), ErrCodeFilenameExists)
		}
		return zero, storeFailure(err)
	}

	if len(track) > 0 {
		if err := s.store.ReplaceTrackPoints(ctx, asset.ID, track); err != nil {
			return zero, storeFailure(err)
		}
	}

	return asset, nil
}

// Delete removes one asset and its blob when no other asset shares it.
func (s *IngestService) Delete(ctx context.Context, id string) error {
	asset, err := s.store.GetAsset(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if asset == nil {
		return notFound(fmt.Errorf("asset not found: %s", id))
	}

	if err := s.store.DeleteAsset(ctx, id); err != nil {
		return storeFailure(err)
	}
	s.discardBlob(ctx, asset.BlobKey, id)
	return nil
}

// ClearAll removes every asset and stored payload.
func (s *IngestService) ClearAll(ctx context.Context) (int, error) {
	keys, err := s.store.ClearAll(ctx)
	if err != nil {
		return 0, storeFailure(err)
	}
	for _, key := range keys {
		// The index rows are already gone; an orphaned blob is the
		// lesser failure, so keep deleting.
		_ = s.blobs.Delete(ctx, key)
	}
	return len(keys), nil
}

func (s *IngestService) replaceExisting(ctx context.Context, filename string) error {
	existing, err := s.store.GetAssetByFilename(ctx, filename)
	if err != nil {
		return storeFailure(err)
	}
	if existing == nil {
		return nil
	}
	if err := s.store.DeleteAsset(ctx, existing.ID); err != nil {
		return storeFailure(err)
	}
	s.discardBlob(ctx, existing.BlobKey, existing.ID)
	return nil
}

// discardBlob deletes a blob unless another asset still references it.
func (s *IngestService) discardBlob(ctx context.Context, key, excludeAssetID string) {
	if key == "" {
		return
	}
	inUse, err := s.store.BlobKeyInUse(ctx, key, excludeAssetID)
	if err != nil || inUse {
		return
	}
	_ = s.blobs.Delete(ctx, key)
}

// extractImageMetadata attaches EXIF GPS data when present. Images
// without GPS are kept; they just never appear on the map.
func (s *IngestService) extractImageMetadata(ctx context.Context, asset *models.Asset) {
	rc, err := s.blobs.Open(ctx, asset.BlobKey)
	if err != nil {
		return
	}
	defer rc.Close()

	meta, err := geotag.Extract(rc)
	if err != nil {
		// Covers both unreadable EXIF and geotag.ErrNoGPS.
		return
	}
	position := meta.Position
	asset.Position = &position
	asset.CapturedAt = meta.CapturedAt
}

func (s *IngestService) parseTelemetry(ctx context.Context, blobKey string) ([]models.TrackPoint, error) {
	rc, err := s.blobs.Open(ctx, blobKey)
	if err != nil {
		return nil, blobFailure(err)
	}
	defer rc.Close()

	points, err := srt.Parse(rc)
	if err != nil {
		return nil, badRequest(fmt.Errorf("parse srt: %w", err))
	}
	return points, nil
}

// resolveMediaType picks the stored media type: subtitles are typed by
// extension, otherwise a declared type wins over the sniffed one.
func resolveMediaType(kind models.AssetKind, declared, sniffed string) (string, string) {
	if kind == models.AssetKindSubtitle {
		return subtitleMediaType, string(models.MediaTypeSourceInferred)
	}

	if normalized, err := normalizeMediaType(declared); err == nil && normalized != "" &&
		normalized != "application/octet-stream" {
		return normalized, string(models.MediaTypeSourceDeclared)
	}
	if normalized, err := normalizeMediaType(sniffed); err == nil && normalized != "" {
		return normalized, string(models.MediaTypeSourceSniffed)
	}
	return "", string(models.MediaTypeSourceUnknown)
}

// trimmedOrHeaderFilename picks the first usable filename candidate.
func trimmedOrHeaderFilename(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
