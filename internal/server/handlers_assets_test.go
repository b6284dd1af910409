package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dronemap/internal/api"
)

func TestListAssetsFilterByKind(t *testing.T) {
	srv := newTestServer(t)
	seedAsset(t, srv, "flight.srt", testTelemetrySRT)
	seedAsset(t, srv, "clip.mp4", "not a real video")

	req := httptest.NewRequest(http.MethodGet, "/v1/assets?kind=subtitle", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var body struct {
		Assets []api.AssetResponse `json:"assets"`
		Count  int                 `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if body.Count != 1 || len(body.Assets) != 1 {
		t.Fatalf("expected exactly the subtitle asset, got %+v", body)
	}
	if body.Assets[0].Filename != "flight.srt" {
		t.Fatalf("unexpected asset: %+v", body.Assets[0])
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/assets?kind=bogus", nil)
	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid kind, got %d", w.Code)
	}
}

func TestGetAssetDetailIncludesTrack(t *testing.T) {
	srv := newTestServer(t)
	asset := seedAsset(t, srv, "flight.srt", testTelemetrySRT)

	req := httptest.NewRequest(http.MethodGet, "/v1/assets/"+asset.ID, nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var detail api.AssetDetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.TrackPoints != 2 || len(detail.Track) != 2 {
		t.Fatalf("expected 2 track points, got %d (%d in body)", detail.TrackPoints, len(detail.Track))
	}
	if detail.Track[0].Lat != 43.70011 {
		t.Fatalf("unexpected first point: %+v", detail.Track[0])
	}
}

func TestGetAssetInvalidAndMissingID(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/assets/not-an-id", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/assets/im-zzzzzz", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
	var errResp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.ErrorCode != ErrCodeAssetNotFound {
		t.Fatalf("expected error_code %d, got %d", ErrCodeAssetNotFound, errResp.ErrorCode)
	}
}

func TestGetTrackForVideoPairsByStem(t *testing.T) {
	srv := newTestServer(t)
	video := seedAsset(t, srv, "DJI_0042.MP4", "not a real video")
	seedAsset(t, srv, "dji_0042.srt", testTelemetrySRT)

	req := httptest.NewRequest(http.MethodGet, "/v1/assets/"+video.ID+"/track", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var body struct {
		Filename string `json:"filename"`
		Count    int    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode track response: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("expected 2 points, got %d", body.Count)
	}
	if body.Filename != "dji_0042.srt" {
		t.Fatalf("expected track resolved from subtitle file, got %q", body.Filename)
	}
}

func TestGetTrackVideoWithoutSubtitle(t *testing.T) {
	srv := newTestServer(t)
	video := seedAsset(t, srv, "lonely.mp4", "not a real video")

	req := httptest.NewRequest(http.MethodGet, "/v1/assets/"+video.ID+"/track", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
	}
	var errResp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.ErrorCode != ErrCodeTrackNotFound {
		t.Fatalf("expected error_code %d, got %d", ErrCodeTrackNotFound, errResp.ErrorCode)
	}
}

func TestDeleteAssetRemovesContent(t *testing.T) {
	srv := newTestServer(t)
	asset := seedAsset(t, srv, "flight.srt", testTelemetrySRT)

	req := httptest.NewRequest(http.MethodDelete, "/v1/assets/"+asset.ID, nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (%s)", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/flight.srt", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected deleted content to be gone, got %d", w.Code)
	}
}

func TestUploadedContentServed(t *testing.T) {
	srv := newTestServer(t)
	seedAsset(t, srv, "flight.srt", testTelemetrySRT)

	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/flight.srt", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "latitude: 43.70011") {
		t.Fatal("expected stored bytes to round trip")
	}
	if ct := w.Header().Get("Content-Type"); ct != subtitleMediaType {
		t.Fatalf("expected %s content type, got %q", subtitleMediaType, ct)
	}

	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.jpg", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown filename, got %d", w.Code)
	}
}

func TestClearDataRequiresConfirmation(t *testing.T) {
	srv := newTestServer(t)
	seedAsset(t, srv, "flight.srt", testTelemetrySRT)

	req := httptest.NewRequest(http.MethodPost, "/clear_data", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirmation, got %d", w.Code)
	}
	var errResp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.ErrorCode != ErrCodeConfirmRequired {
		t.Fatalf("expected error_code %d, got %d", ErrCodeConfirmRequired, errResp.ErrorCode)
	}
}

func TestClearDataRemovesEverything(t *testing.T) {
	srv := newTestServer(t)
	seedAsset(t, srv, "flight.srt", testTelemetrySRT)
	seedAsset(t, srv, "clip.mp4", "not a real video")

	req := httptest.NewRequest(http.MethodPost, "/clear_data", nil)
	req.Header.Set("X-Confirm", "true")
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var resp api.ClearResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode clear response: %v", err)
	}
	if !resp.Success || resp.Deleted != 2 {
		t.Fatalf("expected 2 deleted, got %+v", resp)
	}

	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/assets", nil))
	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if body.Count != 0 {
		t.Fatalf("expected empty store after clear, got %d assets", body.Count)
	}
}
