package server

import (
	"embed"
	"net/http"
)

//go:embed uiassets
var uiAssets embed.FS

// handleViewerIndex serves the single-page map viewer.
func (s *Server) handleViewerIndex(w http.ResponseWriter, r *http.Request) {
	page, err := uiAssets.ReadFile("uiassets/index.html")
	if err != nil {
		s.writeServiceError(w, r, internalError(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
