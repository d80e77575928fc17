package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	pkglogger "github.com/diwan-maarifa/diwan-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Storage       StorageConfig       `yaml:"storage"`
	CORS          CORSConfig          `yaml:"cors"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Upload        UploadConfig        `yaml:"upload"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// GetDSN returns the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // seconds
}

// ElasticsearchConfig search index settings
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

// StorageConfig S3-compatible attachment storage
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	PublicURL       string `yaml:"public_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// CORSConfig allowed origins, comma separated
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// RateLimitConfig per-user write limits
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

// UploadConfig attachment limits
type UploadConfig struct {
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

// MaxBytes returns the upload cap in bytes
func (u UploadConfig) MaxBytes() int64 {
	return u.MaxSizeMB * 1024 * 1024
}

// IsDevelopment reports whether the server runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// Load reads a YAML config file and applies environment overrides.
// A missing file is not an error: defaults plus environment are used.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		pkglogger.Warn("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Env: "local"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "diwan",
			DBName:          "diwan",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: 300,
		},
		Redis:         RedisConfig{Host: "localhost", Port: 6379, PoolSize: 20},
		JWT:           JWTConfig{ExpiresIn: 3600},
		Elasticsearch: ElasticsearchConfig{Index: "diwan-content"},
		Storage:       StorageConfig{Region: "us-east-1", BasePath: "uploads/"},
		CORS:          CORSConfig{AllowOrigins: "http://localhost:3000"},
		RateLimit:     RateLimitConfig{Enabled: true, RequestsPerMinute: 30},
		Upload:        UploadConfig{MaxSizeMB: 10},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "APP_ENV")
	setInt(&cfg.Server.Port, "PORT")

	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.ExpiresIn, "JWT_EXPIRES_IN")

	if v := os.Getenv("ELASTICSEARCH_ADDRESSES"); v != "" {
		cfg.Elasticsearch.Addresses = splitAndTrim(v)
		cfg.Elasticsearch.Enabled = true
	}
	setString(&cfg.Elasticsearch.Username, "ELASTICSEARCH_USERNAME")
	setString(&cfg.Elasticsearch.Password, "ELASTICSEARCH_PASSWORD")

	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	setString(&cfg.Storage.PublicURL, "S3_PUBLIC_URL")

	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		pkglogger.Warn("ignoring %s=%q: not an integer", key, v)
		return
	}
	*dst = n
}

// SplitOrigins returns the configured CORS origins
func (c CORSConfig) SplitOrigins() []string {
	return splitAndTrim(c.AllowOrigins)
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LogResolved logs the effective configuration with secrets masked
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_host", cfg.Database.Host).
		Int("db_port", cfg.Database.Port).
		Str("db_user", cfg.Database.User).
		Str("db_password", mask(cfg.Database.Password)).
		Str("db_name", cfg.Database.DBName).
		Str("redis", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)).
		Str("jwt_secret", mask(cfg.JWT.Secret)).
		Bool("elasticsearch", cfg.Elasticsearch.Enabled).
		Bool("storage", cfg.Storage.Enabled).
		Str("storage_secret", mask(cfg.Storage.SecretAccessKey)).
		Bool("rate_limit", cfg.RateLimit.Enabled).
		Msg("resolved config")
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****"
}
