package server

import (
	"bufio"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"dronemap/internal/api"
)

// uploadFieldName is the multipart form field carrying the files.
const uploadFieldName = "files"

// sniffLen is how many leading bytes feed content-type detection.
const sniffLen = 512

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.acquireLimiter(s.uploadLimiter, w, r, "upload") {
		return
	}
	defer s.releaseLimiter(s.uploadLimiter)

	// The request body is capped at the single-file limit plus headroom
	// for multipart framing; individual files are checked again after
	// they are written out.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(s.multipartMaxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeServiceError(w, r, makeAPIError(http.StatusRequestEntityTooLarge, "request_too_large",
				ErrCodeFileTooLarge, fmt.Errorf("upload exceeds the %d byte limit", s.maxUploadBytes)))
			return
		}
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequest(fmt.Errorf("parse multipart form: %w", err)))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	headers := r.MultipartForm.File[uploadFieldName]
	if len(headers) == 0 {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequest(fmt.Errorf("no files in %q form field", uploadFieldName)))
		return
	}

	resp := api.UploadResponse{Results: make([]api.UploadResult, 0, len(headers))}
	for _, header := range headers {
		result := s.ingestPart(r, header)
		if result.Error != "" {
			resp.Rejected++
		} else {
			resp.Uploaded++
		}
		resp.Results = append(resp.Results, result)
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	status := http.StatusOK
	if resp.Uploaded == 0 {
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, resp)
}

// ingestPart runs one multipart file through the ingest pipeline and
// folds any failure into the per-file result.
func (s *Server) ingestPart(r *http.Request, header *multipart.FileHeader) api.UploadResult {
	filename := trimmedOrHeaderFilename(header.Filename)
	result := api.UploadResult{Filename: filename}

	file, err := header.Open()
	if err != nil {
		result.Error = fmt.Sprintf("open upload: %v", err)
		return result
	}
	defer file.Close()

	buffered := bufio.NewReader(file)
	sniffed := ""
	if peek, err := buffered.Peek(sniffLen); err == nil || len(peek) > 0 {
		sniffed = http.DetectContentType(peek)
	}

	asset, err := s.ingest.Ingest(r.Context(), IngestInput{
		Filename:          filename,
		DeclaredMediaType: header.Header.Get("Content-Type"),
		SniffedMediaType:  sniffed,
		Reader:            buffered,
	})
	if err != nil {
		s.log().Warn("upload rejected", "filename", filename, "error", err)
		result.Error = err.Error()
		return result
	}

	trackPoints := 0
	if points, err := s.store.ListTrackPoints(r.Context(), asset.ID); err == nil {
		trackPoints = len(points)
	}
	response := api.FromAsset(asset, trackPoints)
	result.Asset = &response
	s.log().Info("asset uploaded",
		"id", asset.ID, "filename", asset.Filename, "kind", asset.Kind, "size", asset.SizeBytes)
	return result
}
