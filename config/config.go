// Package config loads the exporter configuration from defaults, an optional
// config file, a .env file and FOLLOWEXPORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "FOLLOWEXPORT"

const (
	SourceScrape = "scrape"
	SourceAPI    = "api"
)

type Config struct {
	Source    string       `mapstructure:"source"`
	OutputDir string       `mapstructure:"output_dir"`
	Log       LogConfig    `mapstructure:"log"`
	Menu      MenuConfig   `mapstructure:"menu"`
	Scrape    ScrapeConfig `mapstructure:"scrape"`
	API       APIConfig    `mapstructure:"api"`
	Server    ServerConfig `mapstructure:"server"`
}

type LogConfig struct {
	Verbose bool   `mapstructure:"verbose"`
	File    string `mapstructure:"file"`
}

type MenuConfig struct {
	// Delay is the pause between two menu iterations.
	Delay time.Duration `mapstructure:"delay"`
}

type ScrapeConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	PageSize          int           `mapstructure:"page_size"`
	RetryCount        int           `mapstructure:"retry_count"`
	MaxRateLimitWait  time.Duration `mapstructure:"max_rate_limit_wait"`
	ConsumerKey       string        `mapstructure:"consumer_key"`
	ConsumerSecret    string        `mapstructure:"consumer_secret"`
	AccessToken       string        `mapstructure:"access_token"`
	AccessTokenSecret string        `mapstructure:"access_token_secret"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source", SourceScrape)
	v.SetDefault("output_dir", "media")
	v.SetDefault("log.verbose", false)
	v.SetDefault("log.file", "")
	v.SetDefault("menu.delay", 2*time.Second)
	v.SetDefault("scrape.base_url", "https://twitter.com")
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("scrape.timeout", 10*time.Second)
	v.SetDefault("api.base_url", "https://api.twitter.com/1.1")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.page_size", 200)
	v.SetDefault("api.retry_count", 3)
	v.SetDefault("api.max_rate_limit_wait", 15*time.Minute)
	v.SetDefault("api.consumer_key", "")
	v.SetDefault("api.consumer_secret", "")
	v.SetDefault("api.access_token", "")
	v.SetDefault("api.access_token_secret", "")
	v.SetDefault("server.listen", ":5555")
}

// Options say where configuration comes from, zero values are skipped.
type Options struct {
	ConfigFile string
	EnvFile    string
	// Flags are bound by their name, e.g. "output-dir" -> output_dir.
	Flags *pflag.FlagSet
}

func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cannot load %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.Flags != nil {
		for key, flag := range flagKeys {
			if f := opts.Flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var flagKeys = map[string]string{
	"source":        "source",
	"output_dir":    "output-dir",
	"log.verbose":   "verbose",
	"log.file":      "log-file",
	"server.listen": "listen",
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Source {
	case SourceScrape, SourceAPI:
	default:
		errs = append(errs, fmt.Errorf("source must be %q or %q, got %q", SourceScrape, SourceAPI, c.Source))
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir must not be empty"))
	}
	if c.Menu.Delay < 0 {
		errs = append(errs, errors.New("menu.delay must not be negative"))
	}
	if c.Scrape.Timeout <= 0 {
		errs = append(errs, errors.New("scrape.timeout must be positive"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.API.PageSize <= 0 {
		errs = append(errs, errors.New("api.page_size must be positive"))
	}
	if c.API.RetryCount < 0 {
		errs = append(errs, errors.New("api.retry_count must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
