package store

import (
	"crypto/rand"
	"fmt"

	"dronemap/internal/models"
)

const (
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idHashLength   = 6
	idMaxAttempts  = 20
)

// idPrefixByKind keeps asset IDs self-describing in logs and URLs.
var idPrefixByKind = map[models.AssetKind]string{
	models.AssetKindImage:    "im",
	models.AssetKindVideo:    "vd",
	models.AssetKindSubtitle: "st",
}

// GenerateAssetID returns a new asset ID with a kind-specific prefix.
// It retries on collisions using the provided exists function.
func GenerateAssetID(kind models.AssetKind, exists func(string) (bool, error)) (string, error) {
	prefix, ok := idPrefixByKind[kind]
	if !ok {
		return "", fmt.Errorf("unknown asset kind: %s", kind)
	}

	for i := 0; i < idMaxAttempts; i++ {
		hash, err := randomBase36(idHashLength)
		if err != nil {
			return "", err
		}
		id := fmt.Sprintf("%s-%s", prefix, hash)
		if exists == nil {
			return id, nil
		}
		ok, err := exists(id)
		if err != nil {
			return "", err
		}
		if !ok {
			return id, nil
		}
	}

	return "", fmt.Errorf("unable to generate unique id")
}

func randomBase36(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = base36Alphabet[int(b[i])%len(base36Alphabet)]
	}
	return string(out), nil
}
