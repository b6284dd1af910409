package models

// TrackPoint is one GPS fix extracted from a DJI SRT telemetry file.
// Seq preserves subtitle block order; Cue is the block start timestamp
// as written in the cue line (HH:MM:SS,mmm).
type TrackPoint struct {
	AssetID string  `json:"asset_id,omitempty"`
	Seq     int     `json:"seq"`
	Cue     string  `json:"cue"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Alt     float64 `json:"alt"`
}
