package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"dronemap/internal/models"
)

// handleUploadedContent streams stored bytes under the filename the
// viewer and the map features reference.
func (s *Server) handleUploadedContent(w http.ResponseWriter, r *http.Request) {
	name, err := sanitizeFilename(r.PathValue("name"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	asset, err := s.store.GetAssetByFilename(r.Context(), name)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if asset == nil {
		s.writeServiceError(w, r, notFoundCode(
			fmt.Errorf("no uploaded file named %s", name), ErrCodeContentNotFound))
		return
	}

	rc, err := s.blobs.Open(r.Context(), asset.BlobKey)
	if err != nil {
		s.writeServiceError(w, r, blobFailure(err))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", mediaTypeForAsset(asset))
	if asset.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(asset.SizeBytes, 10))
	}
	if asset.Kind == string(models.AssetKindVideo) {
		w.Header().Set("Cache-Control", "private, max-age=3600")
	}

	if _, err := io.Copy(w, rc); err != nil {
		s.log().Debug("stream content interrupted", "filename", name, "error", err)
	}
}
