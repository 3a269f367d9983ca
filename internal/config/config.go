package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yuzvak/product-limits/internal/domain/settings"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"

	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	Database  DatabaseConfig  `json:"database" yaml:"database"`
	Redis     RedisConfig     `json:"redis" yaml:"redis"`
	Function  FunctionConfig  `json:"function" yaml:"function"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
}

type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type StorageConfig struct {
	Backend string `json:"backend" yaml:"backend"`
}

type DatabaseConfig struct {
	Driver         string `json:"driver" yaml:"driver"`
	Host           string `json:"host" yaml:"host"`
	Port           int    `json:"port" yaml:"port"`
	User           string `json:"user" yaml:"user"`
	Password       string `json:"password" yaml:"password"`
	DBName         string `json:"dbname" yaml:"dbname"`
	SSLMode        string `json:"sslmode" yaml:"sslmode"`
	MigrationsPath string `json:"migrations_path" yaml:"migrations_path"`
}

type RedisConfig struct {
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

type FunctionConfig struct {
	MetafieldNamespace string `json:"metafield_namespace" yaml:"metafield_namespace"`
	MetafieldKey       string `json:"metafield_key" yaml:"metafield_key"`
}

type RateLimitConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	RPS     float64 `json:"rps" yaml:"rps"`
	Burst   int     `json:"burst" yaml:"burst"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
		Log:     LogConfig{Level: "INFO"},
		Storage: StorageConfig{Backend: StorageMemory},
		Database: DatabaseConfig{
			Driver:         DriverPQ,
			Host:           "localhost",
			Port:           5432,
			SSLMode:        "disable",
			MigrationsPath: "migrations",
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379, KeyPrefix: "metafield"},
		Function: FunctionConfig{
			MetafieldNamespace: settings.DefaultNamespace,
			MetafieldKey:       settings.DefaultKey,
		},
		RateLimit: RateLimitConfig{Enabled: false, RPS: 100, Burst: 200},
	}
}

// LoadConfig reads a JSON or YAML file, chosen by extension, over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Database.Driver {
	case DriverPQ, DriverPGX:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Function.MetafieldNamespace == "" || c.Function.MetafieldKey == "" {
		return fmt.Errorf("function metafield namespace and key are required")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	return nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
