// Package config は環境変数（+ 任意の TOML ファイル）から設定を読む。
// 優先順位: 環境変数 > TODO_CONFIG の TOML > デフォルト値
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

const (
	BackendMongo  = "mongo"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type Config struct {
	AppEnv      string `toml:"app_env"`
	ServiceName string `toml:"service_name"`

	HTTPAddr    string `toml:"http_addr"`
	OpsGRPCAddr string `toml:"ops_grpc_addr"`
	MetricsAddr string `toml:"metrics_addr"`

	// 各 HTTP リクエストの上限（store 呼び出しまで ctx で伝播）
	HTTPRequestTimeout time.Duration `toml:"http_request_timeout"`

	StoreBackend string      `toml:"store_backend"`
	Mongo        MongoConfig `toml:"mongo"`
	DB           DBConfig    `toml:"mysql"`
	Redis        RedisConfig `toml:"redis"`

	// RateRPS <= 0 ならレート制限しない
	RateRPS   float64 `toml:"rate_rps"`
	RateBurst int     `toml:"rate_burst"`

	CORSAllowedOrigin string `toml:"cors_allowed_origin"`
	TracingEnabled    bool   `toml:"tracing_enabled"`
}

func Default() Config {
	return Config{
		AppEnv:             "prod",
		ServiceName:        "todo-api",
		HTTPAddr:           ":8080",
		OpsGRPCAddr:        ":50051",
		MetricsAddr:        ":9464",
		HTTPRequestTimeout: 3 * time.Second,
		StoreBackend:       BackendMongo,
		Mongo: MongoConfig{
			URI:        "mongodb://127.0.0.1:27017",
			Database:   "tododb",
			Collection: "todo",
		},
		DB: DBConfig{
			Host:     "127.0.0.1",
			Port:     "3306",
			User:     "root",
			Password: "root",
			Name:     "tododb",
		},
		Redis: RedisConfig{
			Addr:   "127.0.0.1:6379",
			Prefix: "todo",
		},
		RateBurst:         20,
		CORSAllowedOrigin: "*",
	}
}

// Load は Default → TOML → env の順に重ねる。
// 値の parse 失敗は起動失敗にせず、warn してその層の値を使わない。
func Load(logger *zap.Logger) (Config, error) {
	return load(logger, os.LookupEnv)
}

func load(logger *zap.Logger, lookup func(string) (string, bool)) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := Default()

	if path, ok := lookup("TODO_CONFIG"); ok && path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
		logger.Info("loaded config file", zap.String("path", path))
	}

	e := envReader{lookup: lookup, logger: logger}

	e.str("APP_ENV", &cfg.AppEnv)
	e.str("SERVICE_NAME", &cfg.ServiceName)
	e.str("HTTP_ADDR", &cfg.HTTPAddr)
	e.str("OPS_GRPC_ADDR", &cfg.OpsGRPCAddr)
	e.str("METRICS_ADDR", &cfg.MetricsAddr)
	e.duration("HTTP_REQUEST_TIMEOUT", &cfg.HTTPRequestTimeout)

	e.str("STORE_BACKEND", &cfg.StoreBackend)
	e.str("MONGO_URI", &cfg.Mongo.URI)
	e.str("MONGO_DATABASE", &cfg.Mongo.Database)
	e.str("MONGO_COLLECTION", &cfg.Mongo.Collection)

	e.str("DB_HOST", &cfg.DB.Host)
	e.str("DB_PORT", &cfg.DB.Port)
	e.str("DB_USER", &cfg.DB.User)
	e.str("DB_PASSWORD", &cfg.DB.Password)
	e.str("DB_NAME", &cfg.DB.Name)

	e.str("REDIS_ADDR", &cfg.Redis.Addr)
	e.str("REDIS_PASSWORD", &cfg.Redis.Password)
	e.int("REDIS_DB", &cfg.Redis.DB)
	e.str("REDIS_PREFIX", &cfg.Redis.Prefix)

	e.float("RATE_RPS", &cfg.RateRPS)
	e.int("RATE_BURST", &cfg.RateBurst)
	e.str("CORS_ALLOWED_ORIGIN", &cfg.CORSAllowedOrigin)
	e.bool("TRACING_ENABLED", &cfg.TracingEnabled)

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMongo, BackendMySQL, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("config: HTTP_ADDR is required")
	}
	if c.RateRPS > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("config: RATE_BURST must be > 0 when RATE_RPS is set")
	}
	return nil
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// ---- env helpers ----

type envReader struct {
	lookup func(string) (string, bool)
	logger *zap.Logger
}

func (e envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e envReader) duration(key string, dst *time.Duration) {
	raw, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		e.logger.Warn("invalid duration, fallback to default",
			zap.String("key", key),
			zap.String("raw", raw),
			zap.Duration("default", *dst),
			zap.Error(err),
		)
		return
	}
	*dst = d
}

func (e envReader) int(key string, dst *int) {
	raw, ok := e.get(key)
	if !ok {
		return
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		e.logger.Warn("invalid int, fallback to default",
			zap.String("key", key),
			zap.String("raw", raw),
			zap.Int("default", *dst),
		)
		return
	}
	*dst = i
}

func (e envReader) float(key string, dst *float64) {
	raw, ok := e.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.logger.Warn("invalid float, fallback to default",
			zap.String("key", key),
			zap.String("raw", raw),
			zap.Float64("default", *dst),
		)
		return
	}
	*dst = f
}

func (e envReader) bool(key string, dst *bool) {
	raw, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		e.logger.Warn("invalid bool, fallback to default",
			zap.String("key", key),
			zap.String("raw", raw),
			zap.Bool("default", *dst),
		)
		return
	}
	*dst = b
}
