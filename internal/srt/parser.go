// Package srt extracts GPS telemetry from DJI subtitle files.
//
// DJI drones write flight telemetry into the video's .srt sidecar. The
// payload format varies across firmware generations: coordinates appear
// as "[latitude: 43.6] [longitude: -79.3]" or bare "latitude: 43.6"
// pairs, often wrapped in font tags, with altitude reported as rel_alt
// and/or abs_alt in several spellings.
package srt

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"dronemap/internal/models"
)

// payloadScanWindow is how many lines after a cue line are searched for
// coordinates before giving up on the block.
const payloadScanWindow = 7

var (
	tagRe = regexp.MustCompile(`<[^>]*>`)
	latRe = regexp.MustCompile(`(?i)\[?latitude:\s*([+-]?\d+\.?\d*)\]?`)
	lonRe = regexp.MustCompile(`(?i)\[?longitude:\s*([+-]?\d+\.?\d*)\]?`)
	absRe = regexp.MustCompile(`(?i)abs[_\s-]?alt\s*[:=]\s*([+-]?\d+(?:\.\d+)?)`)
	relRe = regexp.MustCompile(`(?i)rel[_\s-]?alt\s*[:=]\s*([+-]?\d+(?:\.\d+)?)`)
)

// Parse reads an SRT stream and returns the GPS track in block order.
// Blocks without coordinates are skipped; a file with no telemetry
// yields an empty track, not an error.
func Parse(r io.Reader) ([]models.TrackPoint, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var points []models.TrackPoint
	for i, line := range lines {
		if !strings.Contains(line, "-->") {
			continue
		}
		cue := cueStart(line)

		end := i + 1 + payloadScanWindow
		if end > len(lines) {
			end = len(lines)
		}
		for j := i + 1; j < end; j++ {
			point, ok := parsePayloadLine(lines[j])
			if !ok {
				continue
			}
			point.Cue = cue
			point.Seq = len(points)
			points = append(points, point)
			break
		}
	}

	return points, nil
}

// cueStart returns the start timestamp of a "start --> end" cue line.
func cueStart(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// parsePayloadLine extracts one fix from a telemetry line. Altitude
// prefers abs_alt over rel_alt and defaults to 0 when absent.
func parsePayloadLine(line string) (models.TrackPoint, bool) {
	var zero models.TrackPoint

	clean := tagRe.ReplaceAllString(line, "")

	latMatch := latRe.FindStringSubmatch(clean)
	lonMatch := lonRe.FindStringSubmatch(clean)
	if latMatch == nil || lonMatch == nil {
		return zero, false
	}

	lat, err := strconv.ParseFloat(latMatch[1], 64)
	if err != nil {
		return zero, false
	}
	lon, err := strconv.ParseFloat(lonMatch[1], 64)
	if err != nil {
		return zero, false
	}

	alt := 0.0
	if m := absRe.FindStringSubmatch(clean); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			alt = v
		}
	} else if m := relRe.FindStringSubmatch(clean); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			alt = v
		}
	}

	return models.TrackPoint{Lat: lat, Lon: lon, Alt: alt}, true
}
