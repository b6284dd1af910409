package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"dronemap/internal/blobstore"
	"dronemap/internal/config"
	"dronemap/internal/store"
)

const (
	allowRemoteEnvKey = "DRONEMAP_ALLOW_REMOTE"

	readHeaderTimeout = 5 * time.Second
	// Upload requests that cannot complete in this window are cut off.
	readTimeout  = 30 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 60 * time.Second

	uploadConcurrencyLimit = 4
)

// Server wraps HTTP handlers for the dronemap API and viewer.
type Server struct {
	addr    string
	store   store.AssetStore
	blobs   blobstore.BlobStore
	ingest  *IngestService
	maps    *MapService
	logger  *slog.Logger
	dataDir string

	maxUploadBytes     int64
	multipartMaxMemory int64

	uploadLimiter chan struct{}
}

// New creates a new server instance.
func New(addr string, assetStore store.AssetStore, blobs blobstore.BlobStore, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}

	return &Server{
		addr:               addr,
		store:              assetStore,
		blobs:              blobs,
		ingest:             NewIngestService(assetStore, blobs, cfg.Upload.MaxUploadBytes),
		maps:               NewMapService(assetStore, cfg.Map),
		logger:             logger,
		dataDir:            cfg.DataDir,
		maxUploadBytes:     cfg.Upload.MaxUploadBytes,
		multipartMaxMemory: cfg.Upload.MultipartMaxMemory,
		uploadLimiter:      make(chan struct{}, uploadConcurrencyLimit),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
