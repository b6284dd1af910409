package server

import (
	"fmt"
	"net/http"

	"dronemap/internal/api"
	"dronemap/internal/models"
)

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	kind := ""
	if raw := r.URL.Query().Get("kind"); raw != "" {
		parsed, err := normalizeKind(raw)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		kind = parsed
	}

	assets, err := s.store.ListAssets(r.Context(), kind)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	out := make([]api.AssetResponse, 0, len(assets))
	for _, asset := range assets {
		out = append(out, api.FromAsset(asset, s.trackPointCount(r, asset)))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"assets": out, "count": len(out)})
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	asset, err := s.store.GetAsset(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if asset == nil {
		s.writeServiceError(w, r, notFound(fmt.Errorf("asset not found: %s", id)))
		return
	}

	detail := api.AssetDetailResponse{AssetResponse: api.FromAsset(*asset, 0)}
	if asset.Kind == string(models.AssetKindSubtitle) {
		track, err := s.store.ListTrackPoints(r.Context(), id)
		if err != nil {
			s.writeStoreError(w, r, err)
			return
		}
		detail.TrackPoints = len(track)
		detail.Track = track
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	asset, err := s.store.GetAsset(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if asset == nil {
		s.writeServiceError(w, r, notFound(fmt.Errorf("asset not found: %s", id)))
		return
	}

	// Videos resolve to the subtitle asset sharing their filename stem.
	subject := asset
	if asset.Kind == string(models.AssetKindVideo) {
		subject, err = s.pairedSubtitle(r, asset)
		if err != nil {
			s.writeStoreError(w, r, err)
			return
		}
		if subject == nil {
			s.writeServiceError(w, r, notFoundCode(
				fmt.Errorf("no telemetry track for %s", asset.Filename), ErrCodeTrackNotFound))
			return
		}
	}
	if subject.Kind != string(models.AssetKindSubtitle) {
		s.writeServiceError(w, r, notFoundCode(
			fmt.Errorf("asset %s carries no telemetry track", id), ErrCodeTrackNotFound))
		return
	}

	track, err := s.store.ListTrackPoints(r.Context(), subject.ID)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if len(track) == 0 {
		s.writeServiceError(w, r, notFoundCode(
			fmt.Errorf("no telemetry track for %s", subject.Filename), ErrCodeTrackNotFound))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"asset_id": subject.ID,
		"filename": subject.Filename,
		"count":    len(track),
		"track":    track,
	})
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if err := s.ingest.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.log().Info("asset deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Confirm") != "true" && r.FormValue("confirm") != "true" {
		s.writeServiceError(w, r, badRequestCode(
			fmt.Errorf("clearing all data requires confirmation"), ErrCodeConfirmRequired))
		return
	}

	deleted, err := s.ingest.ClearAll(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.log().Info("all data cleared", "deleted", deleted)
	s.writeJSON(w, http.StatusOK, api.ClearResponse{
		Success: true,
		Message: "All data cleared successfully",
		Deleted: deleted,
	})
}

// pairedSubtitle finds the subtitle asset with the same filename stem
// as the given video, or nil when none was uploaded.
func (s *Server) pairedSubtitle(r *http.Request, video *models.Asset) (*models.Asset, error) {
	subtitles, err := s.store.ListAssets(r.Context(), string(models.AssetKindSubtitle))
	if err != nil {
		return nil, err
	}
	stem := video.Stem()
	for i := range subtitles {
		if subtitles[i].Stem() == stem {
			return &subtitles[i], nil
		}
	}
	return nil, nil
}

// trackPointCount is best effort for list output; failures read as 0.
func (s *Server) trackPointCount(r *http.Request, asset models.Asset) int {
	if asset.Kind != string(models.AssetKindSubtitle) {
		return 0
	}
	points, err := s.store.ListTrackPoints(r.Context(), asset.ID)
	if err != nil {
		return 0
	}
	return len(points)
}
