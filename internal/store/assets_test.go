package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"dronemap/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "dronemap.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testImageAsset(id, filename string) *models.Asset {
	return &models.Asset{
		ID:              id,
		Filename:        filename,
		Kind:            string(models.AssetKindImage),
		MediaType:       "image/jpeg",
		MediaTypeSource: string(models.MediaTypeSourceSniffed),
		SizeBytes:       1024,
		SHA256:          "deadbeef",
		BlobKey:         "sha256/de/deadbeef",
		Position:        &models.Position{Lat: 43.65, Lon: -79.38, Alt: 120},
	}
}

func TestAssetCRUD(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	captured := time.Date(2024, 6, 14, 10, 21, 5, 0, time.UTC)
	asset := testImageAsset("im-000001", "DJI_0001.JPG")
	asset.CapturedAt = &captured

	if err := st.CreateAsset(ctx, asset); err != nil {
		t.Fatalf("create asset: %v", err)
	}

	got, err := st.GetAsset(ctx, "im-000001")
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	if got == nil {
		t.Fatal("expected asset, got nil")
	}
	if got.Filename != "DJI_0001.JPG" || got.Kind != string(models.AssetKindImage) {
		t.Fatalf("unexpected asset: %+v", got)
	}
	if !got.HasPosition() || got.Position.Lat != 43.65 || got.Position.Lon != -79.38 {
		t.Fatalf("expected position to round trip, got %+v", got.Position)
	}
	if got.CapturedAt == nil || !got.CapturedAt.Equal(captured) {
		t.Fatalf("expected captured_at to round trip, got %v", got.CapturedAt)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	byName, err := st.GetAssetByFilename(ctx, "DJI_0001.JPG")
	if err != nil {
		t.Fatalf("get by filename: %v", err)
	}
	if byName == nil || byName.ID != "im-000001" {
		t.Fatalf("expected lookup by filename, got %+v", byName)
	}

	exists, err := st.AssetExists("im-000001")
	if err != nil || !exists {
		t.Fatalf("expected asset to exist, got %v %v", exists, err)
	}

	if err := st.DeleteAsset(ctx, "im-000001"); err != nil {
		t.Fatalf("delete asset: %v", err)
	}
	got, err = st.GetAsset(ctx, "im-000001")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestAssetWithoutPosition(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	asset := testImageAsset("im-000002", "no-gps.png")
	asset.Position = nil
	if err := st.CreateAsset(ctx, asset); err != nil {
		t.Fatalf("create asset: %v", err)
	}

	got, err := st.GetAsset(ctx, "im-000002")
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	if got.HasPosition() {
		t.Fatalf("expected no position, got %+v", got.Position)
	}
}

func TestDuplicateFilenameRejected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateAsset(ctx, testImageAsset("im-000003", "dup.jpg")); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := st.CreateAsset(ctx, testImageAsset("im-000004", "dup.jpg")); err == nil {
		t.Fatal("expected unique filename constraint violation")
	}
}

func TestListAssetsByKindInUploadOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := testImageAsset("im-000005", "a.jpg")
	first.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := testImageAsset("im-000006", "b.jpg")
	second.CreatedAt = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	video := testImageAsset("vd-000001", "c.mp4")
	video.Kind = string(models.AssetKindVideo)
	video.CreatedAt = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	for _, asset := range []*models.Asset{second, video, first} {
		if err := st.CreateAsset(ctx, asset); err != nil {
			t.Fatalf("create %s: %v", asset.ID, err)
		}
	}

	images, err := st.ListAssets(ctx, string(models.AssetKindImage))
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if len(images) != 2 || images[0].ID != "im-000005" || images[1].ID != "im-000006" {
		t.Fatalf("expected ordered images, got %+v", images)
	}

	all, err := st.ListAssets(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(all))
	}
}

func TestClearAllReturnsBlobKeys(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := testImageAsset("im-000007", "one.jpg")
	b := testImageAsset("im-000008", "two.jpg")
	b.BlobKey = "sha256/ab/abcd"
	if err := st.CreateAsset(ctx, a); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if err := st.CreateAsset(ctx, b); err != nil {
		t.Fatalf("create b: %v", err)
	}

	keys, err := st.ClearAll(ctx)
	if err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 blob keys, got %d", len(keys))
	}

	all, err := st.ListAssets(ctx, "")
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d assets", len(all))
	}
}

func TestBlobKeyInUse(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := testImageAsset("im-000009", "shared-a.jpg")
	b := testImageAsset("im-000010", "shared-b.jpg")
	if err := st.CreateAsset(ctx, a); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if err := st.CreateAsset(ctx, b); err != nil {
		t.Fatalf("create b: %v", err)
	}

	inUse, err := st.BlobKeyInUse(ctx, a.BlobKey, a.ID)
	if err != nil {
		t.Fatalf("blob key in use: %v", err)
	}
	if !inUse {
		t.Fatal("expected blob to be shared")
	}

	if err := st.DeleteAsset(ctx, b.ID); err != nil {
		t.Fatalf("delete b: %v", err)
	}
	inUse, err = st.BlobKeyInUse(ctx, a.BlobKey, a.ID)
	if err != nil {
		t.Fatalf("blob key in use after delete: %v", err)
	}
	if inUse {
		t.Fatal("expected blob to be exclusive after delete")
	}
}

func TestStoreInfo(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	image := testImageAsset("im-000011", "count.jpg")
	video := testImageAsset("vd-000002", "count.mp4")
	video.Kind = string(models.AssetKindVideo)
	video.SizeBytes = 4096
	for _, asset := range []*models.Asset{image, video} {
		if err := st.CreateAsset(ctx, asset); err != nil {
			t.Fatalf("create %s: %v", asset.ID, err)
		}
	}

	info, err := st.StoreInfo(ctx)
	if err != nil {
		t.Fatalf("store info: %v", err)
	}
	if info.TotalAssets != 2 {
		t.Fatalf("expected 2 assets, got %d", info.TotalAssets)
	}
	if info.AssetCounts["image"] != 1 || info.AssetCounts["video"] != 1 {
		t.Fatalf("unexpected counts: %+v", info.AssetCounts)
	}
	if info.TotalBytes != 1024+4096 {
		t.Fatalf("expected total bytes %d, got %d", 1024+4096, info.TotalBytes)
	}
	if info.SchemaVersion < 1 {
		t.Fatalf("expected schema version >= 1, got %d", info.SchemaVersion)
	}
}
