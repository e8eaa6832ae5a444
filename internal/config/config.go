package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Version is set at build time via ldflags.
var Version = "dev"

// AppName names the config file, env prefix and cache directory.
const AppName = "wikistats"

// Config is the root configuration for WikiStats.
type Config struct {
	Fetcher       FetcherConfig       `mapstructure:"fetcher"       yaml:"fetcher"`
	Cache         CacheConfig         `mapstructure:"cache"         yaml:"cache"`
	Olympics      OlympicsConfig      `mapstructure:"olympics"      yaml:"olympics"`
	Anniversaries AnniversariesConfig `mapstructure:"anniversaries" yaml:"anniversaries"`
	Output        OutputConfig        `mapstructure:"output"        yaml:"output"`
	Charts        ChartsConfig        `mapstructure:"charts"        yaml:"charts"`
	Storage       StorageConfig       `mapstructure:"storage"       yaml:"storage"`
	Logging       LoggingConfig       `mapstructure:"logging"       yaml:"logging"`
}

// FetcherConfig controls how pages are fetched.
type FetcherConfig struct {
	Type             string        `mapstructure:"type"               yaml:"type"` // http, browser
	UserAgent        string        `mapstructure:"user_agent"         yaml:"user_agent"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"    yaml:"request_timeout"`
	FollowRedirects  bool          `mapstructure:"follow_redirects"   yaml:"follow_redirects"`
	MaxRedirects     int           `mapstructure:"max_redirects"      yaml:"max_redirects"`
	MaxBodySize      int64         `mapstructure:"max_body_size"      yaml:"max_body_size"`
	IdleConnTimeout  time.Duration `mapstructure:"idle_conn_timeout"  yaml:"idle_conn_timeout"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"     yaml:"max_idle_conns"`
	RespectRobotsTxt bool          `mapstructure:"respect_robots_txt" yaml:"respect_robots_txt"`
	Stealth          bool          `mapstructure:"stealth"            yaml:"stealth"`
}

// CacheConfig controls the URL-keyed page cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Persist bool   `mapstructure:"persist" yaml:"persist"`
	Dir     string `mapstructure:"dir"     yaml:"dir"`
}

// OlympicsConfig controls the medal statistics report.
type OlympicsConfig struct {
	MedalTableURL string   `mapstructure:"medal_table_url" yaml:"medal_table_url"`
	Countries     []string `mapstructure:"countries"       yaml:"countries"`
	Sports        []string `mapstructure:"sports"          yaml:"sports"`
	MedalKind     string   `mapstructure:"medal_kind"      yaml:"medal_kind"`
	Concurrency   int      `mapstructure:"concurrency"     yaml:"concurrency"`
}

// AnniversariesConfig controls the anniversary table builder.
type AnniversariesConfig struct {
	NamespaceURL string   `mapstructure:"namespace_url" yaml:"namespace_url"`
	Months       []string `mapstructure:"months"        yaml:"months"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	WorkDir string `mapstructure:"work_dir" yaml:"work_dir"`
}

// ChartsConfig controls bar chart rendering.
type ChartsConfig struct {
	Format string  `mapstructure:"format" yaml:"format"` // png, html, both
	Width  float64 `mapstructure:"width"  yaml:"width"`  // inches
	Height float64 `mapstructure:"height" yaml:"height"` // inches
}

// StorageConfig controls the optional raw record sink.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"` // none, json, jsonl, csv, mongodb
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	MongoURI   string `mapstructure:"mongo_uri"   yaml:"mongo_uri"`
	Database   string `mapstructure:"database"    yaml:"database"`
	Collection string `mapstructure:"collection"  yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultSports are the summer sports reported when none are configured.
var DefaultSports = []string{"Sailing", "Athletics", "Handball", "Football", "Cycling", "Archery"}

// DefaultCountries are the countries compared when none are configured.
var DefaultCountries = []string{"Norway", "Sweden", "Denmark"}

// DefaultMonths lists the pages of the selected anniversaries namespace.
var DefaultMonths = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetcher: FetcherConfig{
			Type:             "http",
			UserAgent:        "WikiStats/" + Version + " (+https://github.com/IshaanNene/WikiStats)",
			RequestTimeout:   30 * time.Second,
			FollowRedirects:  true,
			MaxRedirects:     10,
			MaxBodySize:      10 * 1024 * 1024, // 10MB
			IdleConnTimeout:  90 * time.Second,
			MaxIdleConns:     10,
			RespectRobotsTxt: true,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Olympics: OlympicsConfig{
			MedalTableURL: "https://en.wikipedia.org/wiki/All-time_Olympic_Games_medal_table",
			Countries:     append([]string(nil), DefaultCountries...),
			Sports:        append([]string(nil), DefaultSports...),
			MedalKind:     "Gold",
			Concurrency:   1,
		},
		Anniversaries: AnniversariesConfig{
			NamespaceURL: "https://en.wikipedia.org/wiki/Wikipedia:Selected_anniversaries",
			Months:       append([]string(nil), DefaultMonths...),
		},
		Output: OutputConfig{
			WorkDir: ".",
		},
		Charts: ChartsConfig{
			Format: "png",
			Width:  10,
			Height: 6,
		},
		Storage: StorageConfig{
			Type:       "none",
			OutputPath: "./output",
			Database:   AppName,
			Collection: "records",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// CacheDir returns the directory for persisted pages, defaulting to the
// XDG cache home.
func (c CacheConfig) CacheDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(xdg.CacheHome, AppName, "pages")
}
