package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration loaded from YAML with
// environment variable overrides.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Billing  BillingConfig  `mapstructure:"billing"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // seconds
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret       string `mapstructure:"secret"`
	ExpireHours  int    `mapstructure:"expire_hours"`
	RefreshHours int    `mapstructure:"refresh_hours"`
}

// ExpiresIn returns the access token lifetime
func (j JWTConfig) ExpiresIn() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

// RefreshIn returns the refresh token lifetime
func (j JWTConfig) RefreshIn() time.Duration {
	return time.Duration(j.RefreshHours) * time.Hour
}

type BillingConfig struct {
	Provider string `mapstructure:"provider"`
}

type CORSConfig struct {
	AllowOrigins string `mapstructure:"allow_origins"`
}

// IsDevelopment reports whether the app runs in a dev-like environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "" || c.App.Env == "local" || c.App.Env == "development" || c.App.Env == "dev"
}

// Load reads config from the given YAML file. A config.local.yaml sitting
// next to it wins when present (real secrets, not committed). Environment
// variables override file values (APP_PORT, DATABASE_PASSWORD, ...).
func Load(configPath string) (*Config, error) {
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	return &cfg, nil
}
