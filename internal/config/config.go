// Package config loads the app credentials and endpoints from an optional
// YAML file with environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to talk to the marketplace and serve the
// dashboard API.
type Config struct {
	AppKey      string `yaml:"app_key"`
	AppSecret   string `yaml:"app_secret"`
	APIBaseURL  string `yaml:"api_base_url"`
	AuthURL     string `yaml:"auth_url"`
	RedirectURL string `yaml:"redirect_url"`
	ListenAddr  string `yaml:"listen_addr"`
	DBPath      string `yaml:"db_path"`
}

// Defaults target the Philippines marketplace; override api_base_url per region.
const (
	defaultAPIBaseURL = "https://api.lazada.com.ph/rest"
	defaultAuthURL    = "https://auth.lazada.com/oauth/authorize"
	defaultListenAddr = "127.0.0.1:8080"
	defaultDBPath     = "lazgate.db"
)

// Load reads the YAML file at path (if any) and applies environment
// overrides. The app key, secret and redirect URL must be set one way or the
// other.
func Load(path string) (*Config, error) {
	cfg := &Config{
		APIBaseURL: defaultAPIBaseURL,
		AuthURL:    defaultAuthURL,
		ListenAddr: defaultListenAddr,
		DBPath:     defaultDBPath,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.AppKey == "" || cfg.AppSecret == "" {
		return nil, fmt.Errorf("app_key and app_secret must be set (config file or LAZADA_APP_KEY / LAZADA_APP_SECRET)")
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("redirect_url must be set (config file or LAZADA_REDIRECT_URL)")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.AppKey, "LAZADA_APP_KEY")
	override(&cfg.AppSecret, "LAZADA_APP_SECRET")
	override(&cfg.APIBaseURL, "LAZADA_API_URL")
	override(&cfg.AuthURL, "LAZADA_AUTH_URL")
	override(&cfg.RedirectURL, "LAZADA_REDIRECT_URL")
	override(&cfg.ListenAddr, "LAZGATE_ADDR")
	override(&cfg.DBPath, "LAZGATE_DB")
}
