package server

import (
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"

	"dronemap/internal/models"
)

var assetIDRegex = regexp.MustCompile(`^(im|vd|st)-[0-9a-z]{6}$`)

func validateAssetID(id string) bool {
	return assetIDRegex.MatchString(id)
}

func normalizeKind(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	kind, err := models.ParseAssetKind(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidKind)
	}
	return string(kind), nil
}

// sanitizeFilename reduces a client-supplied filename to a safe base
// name. Uploads arrive from browsers and scripts; directory components
// and parent references are stripped, not rejected.
func sanitizeFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", badRequestCode(fmt.Errorf("invalid filename"), ErrCodeInvalidFilename)
	}
	if strings.ContainsAny(name, "\x00\n\r") {
		return "", badRequestCode(fmt.Errorf("invalid filename"), ErrCodeInvalidFilename)
	}
	return name, nil
}

func normalizeMediaType(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return "", err
	}
	return strings.ToLower(mediaType), nil
}

// mediaTypeForAsset resolves a Content-Type for serving stored bytes,
// falling back to the extension and then to octet-stream.
func mediaTypeForAsset(asset *models.Asset) string {
	if asset == nil {
		return "application/octet-stream"
	}
	if asset.MediaType != "" {
		return asset.MediaType
	}
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(asset.Filename))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
