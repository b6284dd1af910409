package srt

import (
	"strings"
	"testing"
)

const bracketedSRT = `1
00:00:00,000 --> 00:00:01,000
[latitude: 43.651070] [longitude: -79.347015] [rel_alt: 52.3 abs_alt: 128.6]

2
00:00:01,000 --> 00:00:02,000
[latitude: 43.651200] [longitude: -79.347100] [rel_alt: 53.0 abs_alt: 129.1]
`

const taggedSRT = `1
00:00:00,000 --> 00:00:00,033
<font size="28">FrameCnt: 1, DiffTime: 33ms
2023-06-14 10:21:05,116
[iso: 100] [shutter: 1/640.0] [fnum: 2.8]
latitude: 43.641438 longitude: -79.389353 rel_alt: 41.800 abs_alt: 117.236</font>
`

func TestParseBracketedTelemetry(t *testing.T) {
	points, err := Parse(strings.NewReader(bracketedSRT))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	first := points[0]
	if first.Cue != "00:00:00,000" {
		t.Fatalf("expected cue 00:00:00,000, got %q", first.Cue)
	}
	if first.Seq != 0 || points[1].Seq != 1 {
		t.Fatalf("expected ordered seq, got %d and %d", first.Seq, points[1].Seq)
	}
	if first.Lat != 43.651070 || first.Lon != -79.347015 {
		t.Fatalf("unexpected coordinates: %+v", first)
	}
	if first.Alt != 128.6 {
		t.Fatalf("expected abs_alt preferred, got %v", first.Alt)
	}
}

func TestParseTagWrappedTelemetry(t *testing.T) {
	points, err := Parse(strings.NewReader(taggedSRT))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	p := points[0]
	if p.Lat != 43.641438 || p.Lon != -79.389353 {
		t.Fatalf("unexpected coordinates: %+v", p)
	}
	if p.Alt != 117.236 {
		t.Fatalf("expected abs_alt 117.236, got %v", p.Alt)
	}
}

func TestParseRelAltFallback(t *testing.T) {
	const input = `1
00:00:00,000 --> 00:00:01,000
[latitude: 1.5] [longitude: 2.5] [rel_alt: 10.5]
`
	points, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Alt != 10.5 {
		t.Fatalf("expected rel_alt fallback 10.5, got %v", points[0].Alt)
	}
}

func TestParseAltitudeDefaultsToZero(t *testing.T) {
	const input = `1
00:00:00,000 --> 00:00:01,000
latitude: -33.8688 longitude: 151.2093
`
	points, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Alt != 0 {
		t.Fatalf("expected alt 0, got %v", points[0].Alt)
	}
	if points[0].Lat != -33.8688 || points[0].Lon != 151.2093 {
		t.Fatalf("unexpected coordinates: %+v", points[0])
	}
}

func TestParseSkipsBlocksWithoutCoordinates(t *testing.T) {
	const input = `1
00:00:00,000 --> 00:00:01,000
ordinary subtitle text

2
00:00:01,000 --> 00:00:02,000
[latitude: 10.0] [longitude: 20.0]
`
	points, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Lat != 10.0 || points[0].Lon != 20.0 {
		t.Fatalf("unexpected coordinates: %+v", points[0])
	}
}

func TestParseScanWindowBound(t *testing.T) {
	// Coordinates past the scan window must not attach to the block.
	var b strings.Builder
	b.WriteString("1\n00:00:00,000 --> 00:00:01,000\n")
	for i := 0; i < payloadScanWindow; i++ {
		b.WriteString("filler text\n")
	}
	b.WriteString("[latitude: 1.0] [longitude: 2.0]\n")

	points, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("expected no points outside scan window, got %d", len(points))
	}
}

func TestParseEmptyInput(t *testing.T) {
	points, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("expected no points, got %d", len(points))
	}
}

func TestParseMalformedNumberSkipped(t *testing.T) {
	const input = `1
00:00:00,000 --> 00:00:01,000
[latitude: 43.] [longitude: not-a-number]
[latitude: 43.2] [longitude: -79.4]
`
	points, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Lat != 43.2 || points[0].Lon != -79.4 {
		t.Fatalf("unexpected coordinates: %+v", points[0])
	}
}
