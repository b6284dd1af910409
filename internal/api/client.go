package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dronemap/internal/models"
)

const (
	// Uploads can be large; the default transfer timeout is generous.
	defaultHTTPTimeout = 120 * time.Second
	httpTimeoutEnvKey  = "DRONEMAP_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for the dronemap API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) GetInfo(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	err := c.do(ctx, http.MethodGet, "/v1/info", nil, nil, &resp)
	return resp, err
}

func (c *Client) ListAssets(ctx context.Context, kind string) ([]AssetResponse, error) {
	query := url.Values{}
	if kind != "" {
		query.Set("kind", kind)
	}
	var resp struct {
		Assets []AssetResponse `json:"assets"`
		Count  int             `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/assets", query, nil, &resp)
	return resp.Assets, err
}

func (c *Client) GetAsset(ctx context.Context, id string) (AssetDetailResponse, error) {
	var resp AssetDetailResponse
	err := c.do(ctx, http.MethodGet, "/v1/assets/"+url.PathEscape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/assets/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) GetTrack(ctx context.Context, id string) ([]models.TrackPoint, error) {
	var resp struct {
		AssetID  string              `json:"asset_id"`
		Filename string              `json:"filename"`
		Count    int                 `json:"count"`
		Track    []models.TrackPoint `json:"track"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/assets/"+url.PathEscape(id)+"/track", nil, nil, &resp)
	return resp.Track, err
}

func (c *Client) GetMap(ctx context.Context) (MapDocument, error) {
	var resp MapDocument
	err := c.do(ctx, http.MethodGet, "/v1/map", nil, nil, &resp)
	return resp, err
}

// ClearData deletes all uploaded assets. The confirm header guards the
// endpoint against accidental calls.
func (c *Client) ClearData(ctx context.Context) (ClearResponse, error) {
	var resp ClearResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/clear_data", nil)
	if err != nil {
		return resp, err
	}
	req.Header.Set("X-Confirm", "true")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

// Upload streams local files to the upload endpoint as one multipart
// request using the "files" field the web form uses.
func (c *Client) Upload(ctx context.Context, paths []string) (UploadResponse, error) {
	var resp UploadResponse
	if len(paths) == 0 {
		return resp, fmt.Errorf("at least one file is required")
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		for _, path := range paths {
			if err := writeFilePart(writer, path); err != nil {
				_ = pw.CloseWithError(err)
				return
			}
		}
		_ = pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return resp, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

func writeFilePart(writer *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.ErrorCode = payload.ErrorCode
		apiErr.Message = payload.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func httpTimeoutFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if raw == "" {
		return defaultHTTPTimeout
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		return parsed
	}
	return defaultHTTPTimeout
}
