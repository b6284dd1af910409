package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Upload form endpoint and stored content.
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /uploads/{name...}", s.handleUploadedContent)

	// Assets.
	mux.HandleFunc("GET /v1/assets", s.handleListAssets)
	mux.HandleFunc("GET /v1/assets/{id}", s.handleGetAsset)
	mux.HandleFunc("DELETE /v1/assets/{id}", s.handleDeleteAsset)
	mux.HandleFunc("GET /v1/assets/{id}/track", s.handleGetTrack)

	// Map document for the viewer.
	mux.HandleFunc("GET /v1/map", s.handleMap)

	// Clear all uploaded data.
	mux.HandleFunc("POST /clear_data", s.handleClearData)

	// Viewer page.
	mux.HandleFunc("GET /{$}", s.handleViewerIndex)

	return s.withRequestLogging(mux)
}
