package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if err := ValidateURL(cfg.Olympics.MedalTableURL); err != nil {
		return fmt.Errorf("olympics.medal_table_url: %w", err)
	}
	if len(cfg.Olympics.Countries) == 0 {
		return fmt.Errorf("olympics.countries must not be empty")
	}
	switch cfg.Olympics.MedalKind {
	case "Gold", "Silver", "Bronze":
	default:
		return fmt.Errorf("olympics.medal_kind must be Gold, Silver or Bronze, got %q", cfg.Olympics.MedalKind)
	}
	if cfg.Olympics.Concurrency < 1 || cfg.Olympics.Concurrency > 32 {
		return fmt.Errorf("olympics.concurrency must be 1-32, got %d", cfg.Olympics.Concurrency)
	}

	if err := ValidateURL(cfg.Anniversaries.NamespaceURL); err != nil {
		return fmt.Errorf("anniversaries.namespace_url: %w", err)
	}

	switch cfg.Charts.Format {
	case "png", "html", "both":
	default:
		return fmt.Errorf("charts.format must be png, html or both, got %q", cfg.Charts.Format)
	}
	if cfg.Charts.Width <= 0 || cfg.Charts.Height <= 0 {
		return fmt.Errorf("charts.width and charts.height must be > 0")
	}

	validStorageTypes := map[string]bool{
		"none": true, "json": true, "jsonl": true, "csv": true, "mongodb": true,
	}
	storageTypes := StorageTypes(cfg.Storage.Type)
	if len(storageTypes) == 0 {
		return fmt.Errorf("storage.type must not be empty")
	}
	seenStorage := make(map[string]bool, len(storageTypes))
	for _, st := range storageTypes {
		if seenStorage[st] {
			return fmt.Errorf("storage.type %q is listed more than once", st)
		}
		seenStorage[st] = true
		if !validStorageTypes[st] {
			return fmt.Errorf("storage.type %q is not supported (valid: none, json, jsonl, csv, mongodb)", st)
		}
		if st == "mongodb" && cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for mongodb storage")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// StorageTypes splits a comma-separated storage.type value into trimmed,
// non-empty backend names.
func StorageTypes(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ValidateURL checks if a URL string is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
