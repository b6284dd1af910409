// Package geotag reads GPS metadata out of image EXIF blocks.
package geotag

import (
	"errors"
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"dronemap/internal/models"
)

// ErrNoGPS is returned for images that decode but carry no usable GPS
// coordinate. Such images are still stored; they just get no map marker.
var ErrNoGPS = errors.New("image has no gps metadata")

const exifTimeLayout = "2006:01:02 15:04:05"

func init() {
	exif.RegisterParsers(mknote.All...)
}

// Metadata is the GPS fix and capture time extracted from one image.
type Metadata struct {
	Position   models.Position
	CapturedAt *time.Time
}

// Extract decodes EXIF from an image stream. Images without an EXIF
// block or without GPS tags return ErrNoGPS.
func Extract(r io.Reader) (*Metadata, error) {
	decoded, err := exif.Decode(r)
	if err != nil {
		return nil, ErrNoGPS
	}

	lat, lon, err := decoded.LatLong()
	if err != nil {
		return nil, ErrNoGPS
	}

	meta := &Metadata{
		Position: models.Position{
			Lat: lat,
			Lon: lon,
			Alt: altitude(decoded),
		},
	}
	if t, err := capturedAt(decoded); err == nil {
		meta.CapturedAt = &t
	}
	return meta, nil
}

// altitude reads GPSAltitude as a decimal value, negated when
// GPSAltitudeRef marks it as below sea level. Missing or malformed
// tags yield 0, matching the viewer's treatment of unknown altitude.
func altitude(decoded *exif.Exif) float64 {
	tag, err := decoded.Get(exif.GPSAltitude)
	if err != nil {
		return 0
	}
	ratio, err := tag.Rat(0)
	if err != nil {
		return 0
	}
	alt, _ := ratio.Float64()

	if ref, err := decoded.Get(exif.GPSAltitudeRef); err == nil {
		if v, err := ref.Int(0); err == nil && v == 1 {
			alt = -alt
		}
	}
	return alt
}

func capturedAt(decoded *exif.Exif) (time.Time, error) {
	tag, err := decoded.Get(exif.DateTimeOriginal)
	if err != nil {
		tag, err = decoded.Get(exif.DateTime)
	}
	if err != nil {
		return time.Time{}, err
	}
	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(exifTimeLayout, raw)
}
