package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const digestPrefix = "sha256"

// DiskStore keeps media bytes in a local content-addressed tree under a
// single root. Re-uploading identical bytes dedupes to one file.
type DiskStore struct {
	root string
}

// NewDiskStore creates a disk store rooted at root.
func NewDiskStore(root string) (*DiskStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "incoming"), 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{root: abs}, nil
}

// Put streams bytes to a temp file, hashes them, and moves the file to
// its digest path. An existing blob with the same digest is kept as is.
func (d *DiskStore) Put(ctx context.Context, r io.Reader) (PutResult, error) {
	var zero PutResult
	if d == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(filepath.Join(d.root, "incoming"), "blob-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	discard := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		discard()
		return zero, err
	}
	if err := tmp.Close(); err != nil {
		discard()
		return zero, err
	}

	digest := hex.EncodeToString(h.Sum(nil))
	key := keyForDigest(digest)
	result := PutResult{SHA256: digest, SizeBytes: n, Key: key}

	dst := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		discard()
		return zero, err
	}

	if _, err := os.Stat(dst); err == nil {
		_ = os.Remove(tmpPath)
		return result, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		discard()
		return zero, err
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		// Concurrent Put of the same bytes may have won the rename.
		if _, statErr := os.Stat(dst); statErr == nil {
			_ = os.Remove(tmpPath)
			return result, nil
		}
		discard()
		return zero, err
	}

	return result, nil
}

// Open returns a reader over stored blob bytes.
func (d *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if d == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.pathForKey(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Stat reports stored blob size without opening it.
func (d *DiskStore) Stat(ctx context.Context, key string) (BlobInfo, error) {
	var zero BlobInfo
	if d == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	path, err := d.pathForKey(key)
	if err != nil {
		return zero, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return zero, err
	}
	return BlobInfo{SizeBytes: info.Size()}, nil
}

// Delete removes a blob. Missing blobs are not an error.
func (d *DiskStore) Delete(ctx context.Context, key string) error {
	if d == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := d.pathForKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func keyForDigest(digest string) string {
	return fmt.Sprintf("%s/%s/%s", digestPrefix, digest[0:2], digest)
}

func (d *DiskStore) pathForKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("blob key must be relative")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.Contains(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob key")
	}
	return filepath.Join(d.root, clean), nil
}
