package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string   `env:"LISTEN_ADDR"`
	Port              string   `env:"PORT" envDefault:"8080"`
	DatabaseDriver    string   `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN       string   `env:"DATABASE_DSN" envDefault:"fundhouse.db"`
	SessionSecret     string   `env:"SESSION_SECRET" envDefault:"fundhouse-dev-secret"`
	SessionName       string   `env:"SESSION_NAME" envDefault:"fundhouse_session"`
	SessionMaxAge     int      `env:"SESSION_MAX_AGE" envDefault:"43200"`
	GinMode           string   `env:"GIN_MODE" envDefault:"release"`
	LogLevel          string   `env:"LOG_LEVEL" envDefault:"info"`
	UploadDir         string   `env:"UPLOAD_DIR" envDefault:"web/static/uploads"`
	UploadURLPath     string   `env:"UPLOAD_URL_PATH" envDefault:"/static/uploads"`
	MaxUploadBytes    int64    `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
	AllowedOrigins    []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	SuperRootUserName string   `env:"SUPER_ROOT_USER_NAME"`
	SuperRootPassword string   `env:"SUPER_ROOT_PASSWORD"`
}

// Load 读取 .env（若存在）与环境变量，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = fallback(c.Port, "8080")
	c.ListenAddr = fallback(c.ListenAddr, fmt.Sprintf(":%s", c.Port))
	c.DatabaseDriver = strings.ToLower(fallback(c.DatabaseDriver, "sqlite"))
	c.DatabaseDSN = fallback(c.DatabaseDSN, "fundhouse.db")
	c.SessionSecret = fallback(c.SessionSecret, "fundhouse-dev-secret")
	c.SessionName = fallback(c.SessionName, "fundhouse_session")
	c.GinMode = fallback(c.GinMode, "release")
	c.LogLevel = strings.ToLower(fallback(c.LogLevel, "info"))
	c.UploadDir = fallback(c.UploadDir, "web/static/uploads")
	c.UploadURLPath = "/" + strings.Trim(fallback(c.UploadURLPath, "/static/uploads"), "/")
	c.SuperRootUserName = strings.TrimSpace(c.SuperRootUserName)
	c.SuperRootPassword = strings.TrimSpace(c.SuperRootPassword)

	if c.SessionMaxAge <= 0 {
		c.SessionMaxAge = 43200
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 20 << 20
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins
}

func fallback(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}
