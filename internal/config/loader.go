package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"

	"github.com/jharper/crmsync/internal/db"
)

// Config is the full application configuration. It is built once in main
// and passed into constructors; nothing reads viper after Load returns.
type Config struct {
	Server   ServerConfig
	Database db.Config
	Gong     GongConfig
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr string
	// BaseURL is the externally reachable URL of this CRM, used to build
	// deep links in exported records.
	BaseURL string
	// AuthToken guards mutating and sync endpoints when non-empty.
	AuthToken string
	// AllowedOrigins is the CORS allow list.
	AllowedOrigins []string
}

// GongConfig holds the remote CRM-ingestion API settings.
type GongConfig struct {
	APIURL          string
	AccessKey       string
	AccessKeySecret string
}

// Load reads config.yaml from configPath with CRM_-prefixed environment
// overrides (e.g. CRM_GONG.ACCESS_KEY, CRM_DATABASE.HOST).
func Load(configPath string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr:           ":8080",
			BaseURL:        "http://localhost:8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: db.DefaultConfig(),
	}

	if configPath == "" {
		configPath = "."
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("CRM")

	for _, key := range []string{
		"server.addr",
		"server.base_url",
		"server.auth_token",
		"server.allowed_origins",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"gong.api_url",
		"gong.access_key",
		"gong.access_key_secret",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config.yaml found, using defaults and env vars")
	} else {
		log.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.base_url") {
		cfg.Server.BaseURL = v.GetString("server.base_url")
	}
	if v.IsSet("server.auth_token") {
		cfg.Server.AuthToken = v.GetString("server.auth_token")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	cfg.Gong.APIURL = v.GetString("gong.api_url")
	cfg.Gong.AccessKey = v.GetString("gong.access_key")
	cfg.Gong.AccessKeySecret = v.GetString("gong.access_key_secret")

	return cfg, nil
}
