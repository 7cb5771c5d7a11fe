package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "multisib/backend/libs/config"
	"multisib/backend/libs/db"
	"multisib/backend/libs/logging"
)

// DefaultPath is read when CONFIG_FILE is not set.
const DefaultPath = "ConfigMultiSIBControl.json"

const (
	defaultInterval       = 2 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultDBTimeout      = 10 * time.Second
	defaultHTTPPort       = "8090"
	defaultRedisTTL       = 5 * time.Minute
	defaultMQTTTopic      = "multisib/live"
)

// Endpoint is the MultiSIB controller serving the live data page.
type Endpoint struct {
	AddressIP string `yaml:"AddressIP" env:"MULTISIB_ADDRESS_IP"`
	APIKey    string `yaml:"APIKey" env:"MULTISIB_API_KEY"`
	Port      string `yaml:"Port" env:"MULTISIB_PORT"`
}

// Database is the SQL server receiving one row per tick.
type Database struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Database string `yaml:"database" env:"DB_DATABASE"`
	Table    string `yaml:"table" env:"DB_TABLE"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
	// DSN, when set, is used verbatim instead of the fields above.
	DSN string `yaml:"dsn" env:"DB_DSN"`
}

// Poll tunes the loop. Zero timeouts leave the calls unbounded.
type Poll struct {
	Interval       time.Duration `yaml:"interval" env:"POLL_INTERVAL"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"POLL_REQUEST_TIMEOUT"`
	DBTimeout      time.Duration `yaml:"db_timeout" env:"POLL_DB_TIMEOUT"`
}

// HTTP is the status server. An empty port disables it.
type HTTP struct {
	Port string `yaml:"port" env:"COLLECTOR_HTTP_PORT"`
}

// Redis mirrors the latest record. An empty addr disables it.
type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	Key      string        `yaml:"key" env:"REDIS_KEY"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL"`
}

// MQTT mirrors the latest record. An empty broker disables it.
type MQTT struct {
	Broker   string `yaml:"broker" env:"MQTT_BROKER"`
	ClientID string `yaml:"client_id" env:"MQTT_CLIENT_ID"`
	Username string `yaml:"username" env:"MQTT_USERNAME"`
	Password string `yaml:"password" env:"MQTT_PASSWORD"`
	Topic    string `yaml:"topic" env:"MQTT_TOPIC"`
}

// Log configures the logger.
type Log struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
}

// Config defines collector service configuration.
type Config struct {
	Endpoint Endpoint `yaml:"MultiSIBControl"`
	Database Database `yaml:"DB"`
	Poll     Poll     `yaml:"poll"`
	HTTP     HTTP     `yaml:"http"`
	Redis    Redis    `yaml:"redis"`
	MQTT     MQTT     `yaml:"mqtt"`
	Log      Log      `yaml:"log"`
}

// Load configuration using shared helper.
func Load() (*Config, error) {
	cfg := &Config{
		Poll: Poll{
			Interval:       defaultInterval,
			RequestTimeout: defaultRequestTimeout,
			DBTimeout:      defaultDBTimeout,
		},
		HTTP:  HTTP{Port: defaultHTTPPort},
		Redis: Redis{TTL: defaultRedisTTL},
		MQTT:  MQTT{Topic: defaultMQTTTopic},
	}

	if err := libconfig.LoadConfig(cfg, DefaultPath); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing required setting.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Endpoint.AddressIP) == "" {
		missing = append(missing, "MultiSIBControl.AddressIP")
	}
	if strings.TrimSpace(c.Endpoint.APIKey) == "" {
		missing = append(missing, "MultiSIBControl.APIKey")
	}
	if strings.TrimSpace(c.Endpoint.Port) == "" {
		missing = append(missing, "MultiSIBControl.Port")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		if strings.TrimSpace(c.Database.Host) == "" {
			missing = append(missing, "DB.host")
		}
		if strings.TrimSpace(c.Database.Database) == "" {
			missing = append(missing, "DB.database")
		}
	}
	if strings.TrimSpace(c.Database.Table) == "" {
		missing = append(missing, "DB.table")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	if c.Poll.Interval <= 0 {
		return errors.New("config: poll interval must be positive")
	}
	return nil
}

// DSN returns the configured DSN or one built from the DB group.
func (c *Config) DSN() (string, error) {
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return db.Params{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Database: c.Database.Database,
		SSLMode:  c.Database.SSLMode,
	}.DSN()
}

// HTTPAddress returns :port style, or "" when the status server is disabled.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		return ""
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// LoggingOptions maps the log group onto the shared logger options.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		Format:     c.Log.Format,
	}
}
