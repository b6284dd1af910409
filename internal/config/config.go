package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL      = "http://127.0.0.1:7433"
	DefaultDataDirName = ".dronemap"
	DefaultLogLevel    = "info"
	DefaultConfigName  = ".dronemap.toml"
	DefaultZoom        = 12
	DefaultFocusedZoom = 15
	DefaultCenterLat   = 43.65
	DefaultCenterLon   = -79.38

	// Ceiling on single uploaded files.
	DefaultMaxUploadBytes     int64 = 500 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024

	configDirEnvKey = "DRONEMAP_CONFIG_DIR"
	apiURLEnvKey    = "DRONEMAP_API_URL"
	dataDirEnvKey   = "DRONEMAP_DATA_DIR"
	maxUploadEnvKey = "DRONEMAP_MAX_UPLOAD_BYTES"
)

// UploadConfig defines runtime limits for the upload endpoint.
type UploadConfig struct {
	MaxUploadBytes     int64 `toml:"max_upload_bytes"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory"`
}

// MapConfig defines the fallback map view used when nothing has GPS.
type MapConfig struct {
	CenterLat   float64 `toml:"center_lat"`
	CenterLon   float64 `toml:"center_lon"`
	DefaultZoom int     `toml:"default_zoom"`
}

// Config defines runtime configuration for dronemap.
type Config struct {
	APIURL   string       `toml:"api_url"`
	DataDir  string       `toml:"data_dir"`
	LogLevel string       `toml:"log_level"`
	Upload   UploadConfig `toml:"upload"`
	Map      MapConfig    `toml:"map"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		DataDir:  "",
		LogLevel: DefaultLogLevel,
		Upload: UploadConfig{
			MaxUploadBytes:     DefaultMaxUploadBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
		Map: MapConfig{
			CenterLat:   DefaultCenterLat,
			CenterLon:   DefaultCenterLon,
			DefaultZoom: DefaultZoom,
		},
	}
}

// DBPath returns the SQLite index location under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "dronemap.db")
}

// BlobRoot returns the blob storage root under the data directory.
func (c *Config) BlobRoot() string {
	return filepath.Join(c.DataDir, "blobs")
}

// Load reads config from the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if err := loadFileIfExists(path, &cfg); err != nil {
		return nil, err
	}

	if apiURL := strings.TrimSpace(os.Getenv(apiURLEnvKey)); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dataDir := strings.TrimSpace(os.Getenv(dataDirEnvKey)); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if raw := strings.TrimSpace(os.Getenv(maxUploadEnvKey)); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			cfg.Upload.MaxUploadBytes = parsed
		}
	}

	if cfg.DataDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DataDir = filepath.Join(cwd, DefaultDataDirName)
		}
	}

	cfg.normalizeDefaults()

	return &cfg, nil
}

// Path returns the location of the config file.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, DefaultConfigName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigName), nil
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalizeDefaults() {
	if c.Upload.MaxUploadBytes <= 0 {
		c.Upload.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Upload.MultipartMaxMemory <= 0 {
		c.Upload.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
	if c.Map.DefaultZoom <= 0 {
		c.Map.DefaultZoom = DefaultZoom
	}
	if c.Map.CenterLat == 0 && c.Map.CenterLon == 0 {
		c.Map.CenterLat = DefaultCenterLat
		c.Map.CenterLon = DefaultCenterLon
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
}

var allowedKeys = []string{
	"api_url",
	"data_dir",
	"log_level",
	"upload.max_upload_bytes",
	"upload.multipart_max_memory",
	"map.center_lat",
	"map.center_lon",
	"map.default_zoom",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "data_dir":
		return c.DataDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "upload.max_upload_bytes":
		return strconv.FormatInt(c.Upload.MaxUploadBytes, 10), nil
	case "upload.multipart_max_memory":
		return strconv.FormatInt(c.Upload.MultipartMaxMemory, 10), nil
	case "map.center_lat":
		return strconv.FormatFloat(c.Map.CenterLat, 'f', -1, 64), nil
	case "map.center_lon":
		return strconv.FormatFloat(c.Map.CenterLon, 'f', -1, 64), nil
	case "map.default_zoom":
		return strconv.Itoa(c.Map.DefaultZoom), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "upload.max_upload_bytes", "upload.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "map.default_zoom":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "map.center_lat", "map.center_lon":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}

	child, ok := data[parts[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		data[parts[0]] = child
	}
	return setNestedKey(child, parts[1:], value)
}
