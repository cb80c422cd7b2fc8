package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// TabVault specifics
	Storage StorageConfig
	GitHub  GitHubConfig
	OAuth   OAuthConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	RateLimitPerMin int
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// StorageConfig locates the on-disk document.
type StorageConfig struct {
	Path string
}

// GitHubConfig carries the OAuth app identity and API endpoints.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	APIURL       string
}

// OAuthConfig tunes the interactive authorization flow.
type OAuthConfig struct {
	AuthURL      string
	TokenURL     string
	Scope        string
	CallbackPort int
	OpenBrowser  bool
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.RateLimitPerMin = viper.GetInt("http_server.rate_limit_per_min")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Storage
	cfg.Storage.Path = viper.GetString("storage.path")
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath()
	}

	// GitHub OAuth app
	cfg.GitHub.ClientID = viper.GetString("github.client_id")
	cfg.GitHub.ClientSecret = viper.GetString("github.client_secret")
	cfg.GitHub.APIURL = viper.GetString("github.api_url")
	if clientID := viper.GetString("github_client_id"); clientID != "" {
		cfg.GitHub.ClientID = clientID
	}
	if clientSecret := viper.GetString("github_client_secret"); clientSecret != "" {
		cfg.GitHub.ClientSecret = clientSecret
	}

	// Authorization flow
	cfg.OAuth.AuthURL = viper.GetString("oauth.auth_url")
	cfg.OAuth.TokenURL = viper.GetString("oauth.token_url")
	cfg.OAuth.Scope = viper.GetString("oauth.scope")
	cfg.OAuth.CallbackPort = viper.GetInt("oauth.callback_port")
	cfg.OAuth.OpenBrowser = viper.GetBool("oauth.open_browser")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.rate_limit_per_min", 120)
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("github.api_url", "https://api.github.com")
	viper.SetDefault("oauth.scope", "gist")
	viper.SetDefault("oauth.callback_port", 0)
	viper.SetDefault("oauth.open_browser", true)
}

// defaultStoragePath places the document under the user config dir, falling
// back to the working directory when none is resolvable.
func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tabvault.json"
	}
	return filepath.Join(dir, "tabvault", "tabvault.json")
}
