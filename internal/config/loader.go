package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment over the defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flags are applied by the caller after Load.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+AppName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper so env vars can override them.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("fetcher.type", cfg.Fetcher.Type)
	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)
	v.SetDefault("fetcher.respect_robots_txt", cfg.Fetcher.RespectRobotsTxt)
	v.SetDefault("fetcher.stealth", cfg.Fetcher.Stealth)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.persist", cfg.Cache.Persist)
	v.SetDefault("cache.dir", cfg.Cache.Dir)

	v.SetDefault("olympics.medal_table_url", cfg.Olympics.MedalTableURL)
	v.SetDefault("olympics.countries", cfg.Olympics.Countries)
	v.SetDefault("olympics.sports", cfg.Olympics.Sports)
	v.SetDefault("olympics.medal_kind", cfg.Olympics.MedalKind)
	v.SetDefault("olympics.concurrency", cfg.Olympics.Concurrency)

	v.SetDefault("anniversaries.namespace_url", cfg.Anniversaries.NamespaceURL)
	v.SetDefault("anniversaries.months", cfg.Anniversaries.Months)

	v.SetDefault("output.work_dir", cfg.Output.WorkDir)

	v.SetDefault("charts.format", cfg.Charts.Format)
	v.SetDefault("charts.width", cfg.Charts.Width)
	v.SetDefault("charts.height", cfg.Charts.Height)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.database", cfg.Storage.Database)
	v.SetDefault("storage.collection", cfg.Storage.Collection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
