// Package config loads the service configuration from the environment with
// sensible defaults for local development.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Runtime modes.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
)

// Config holds every knob the service reads at startup.
type Config struct {
	Port       int    `mapstructure:"PORT"`
	Mode       string `mapstructure:"APP_ENV"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	CORSOrigin string `mapstructure:"CORS_ORIGIN"`

	// Either a full DSN, or the user/password/host/name parts the DSN is
	// composed from when DB_DSN is empty.
	DBDSN      string `mapstructure:"DB_DSN"`
	DBUser     string `mapstructure:"DBUSER"`
	DBPassword string `mapstructure:"DBPWD"`
	DBHost     string `mapstructure:"DBHOST"`
	DBName     string `mapstructure:"DBNAME"`

	DBMaxOpenConns    int `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime int `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
}

// Load reads the configuration from environment variables. Every key has a
// default so the service starts unconfigured against a local database.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_ENV", ModeDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGIN", "http://localhost:5173")

	v.SetDefault("DB_DSN", "")
	v.SetDefault("DBUSER", "root")
	v.SetDefault("DBPWD", "")
	v.SetDefault("DBHOST", "localhost:3306")
	v.SetDefault("DBNAME", "contacts")

	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns the MySQL data source name, composing it from the individual
// parts unless DB_DSN was set explicitly. parseTime makes the driver scan
// timestamp columns into time.Time.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", c.DBUser, c.DBPassword, c.DBHost, c.DBName)
}

// IsDevelopment reports whether error responses should carry debug fields.
func (c *Config) IsDevelopment() bool {
	return c.Mode == ModeDevelopment
}
