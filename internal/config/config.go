// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
)

const appDirName = "canvasdue"

// Paths holds the resolved on-disk locations used by the file stores.
type Paths struct {
	ConfigDir string
	CacheDir  string
}

// CredentialFile returns the path of the stored access token.
func (p Paths) CredentialFile() string {
	return filepath.Join(p.ConfigDir, "credentials.yaml")
}

// CacheFile returns the snapshot path for the given kind.
func (p Paths) CacheFile(kind model.CacheKind) string {
	return filepath.Join(p.CacheDir, string(kind)+".json")
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	BaseURL            *url.URL
	Paths              Paths
	CourseCacheTTL     time.Duration
	AssignmentCacheTTL time.Duration
	RequestTimeout     time.Duration
	FetchConcurrency   int
	Undated            model.UndatedPolicy
	LogLevel           slog.Level
}

// TokenSettingsURL returns the Canvas page where users generate access tokens.
// It is derived from the API base URL by dropping the path.
func (c *Config) TokenSettingsURL() string {
	u := *c.BaseURL
	u.Path = "/profile/settings"
	u.RawQuery = ""
	u.Fragment = "access_tokens_holder"
	return u.String()
}

// CacheWindows returns the staleness window for each cache kind.
func (c *Config) CacheWindows() map[model.CacheKind]time.Duration {
	return map[model.CacheKind]time.Duration{
		model.CacheKindCourses:     c.CourseCacheTTL,
		model.CacheKindAssignments: c.AssignmentCacheTTL,
	}
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional:
// CANVASDUE_BASE_URL (https://uia.instructure.com/api/v1/),
// CANVASDUE_CONFIG_DIR (user config dir + "/canvasdue"),
// CANVASDUE_CACHE_DIR (user cache dir + "/canvasdue"),
// CANVASDUE_COURSE_CACHE_TTL (10m), CANVASDUE_ASSIGNMENT_CACHE_TTL (30m),
// CANVASDUE_REQUEST_TIMEOUT (15s), CANVASDUE_FETCH_CONCURRENCY (4),
// CANVASDUE_UNDATED (drop), CANVASDUE_LOG_LEVEL (warn).
func Load() (*Config, error) {
	rawBase := "https://uia.instructure.com/api/v1/"
	if v, ok := os.LookupEnv("CANVASDUE_BASE_URL"); ok && v != "" {
		rawBase = v
	}
	baseURL, err := parseBaseURL(rawBase)
	if err != nil {
		return nil, fmt.Errorf("CANVASDUE_BASE_URL is invalid: %w", err)
	}

	paths, err := resolvePaths()
	if err != nil {
		return nil, err
	}

	courseTTL, err := durationEnv("CANVASDUE_COURSE_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	assignmentTTL, err := durationEnv("CANVASDUE_ASSIGNMENT_CACHE_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := durationEnv("CANVASDUE_REQUEST_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	concurrency := 4
	if v, ok := os.LookupEnv("CANVASDUE_FETCH_CONCURRENCY"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("CANVASDUE_FETCH_CONCURRENCY must be a positive integer, got %q", v)
		}
		concurrency = parsed
	}

	undated := model.UndatedDrop
	if v, ok := os.LookupEnv("CANVASDUE_UNDATED"); ok && v != "" {
		parsed, err := model.ParseUndatedPolicy(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("CANVASDUE_UNDATED: %w", err)
		}
		undated = parsed
	}

	logLevel := slog.LevelWarn
	if v, ok := os.LookupEnv("CANVASDUE_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("CANVASDUE_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		BaseURL:            baseURL,
		Paths:              paths,
		CourseCacheTTL:     courseTTL,
		AssignmentCacheTTL: assignmentTTL,
		RequestTimeout:     requestTimeout,
		FetchConcurrency:   concurrency,
		Undated:            undated,
		LogLevel:           logLevel,
	}, nil
}

// parseBaseURL requires an absolute http(s) URL and normalizes the path to end
// in a slash so relative endpoint paths resolve beneath it.
func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("%q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

func resolvePaths() (Paths, error) {
	configDir := os.Getenv("CANVASDUE_CONFIG_DIR")
	if configDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolving config directory (set CANVASDUE_CONFIG_DIR): %w", err)
		}
		configDir = filepath.Join(base, appDirName)
	}

	cacheDir := os.Getenv("CANVASDUE_CACHE_DIR")
	if cacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolving cache directory (set CANVASDUE_CACHE_DIR): %w", err)
		}
		cacheDir = filepath.Join(base, appDirName)
	}

	return Paths{ConfigDir: configDir, CacheDir: cacheDir}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}
	return parsed, nil
}
