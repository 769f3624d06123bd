package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "NEXUS"

const (
	BackendFile   = "file"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	MySQL     MySQLConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Assistant AssistantConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case BackendFile, BackendMySQL, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if strings.EqualFold(c.Store.Backend, BackendMySQL) && c.MySQL.Host == "" {
		return fmt.Errorf("mysql backend requires NEXUS_MYSQL_HOST")
	}
	return nil
}

// AppConfig binds to loopback unless NEXUS_APP_HOST says otherwise. The
// server holds a single shared session, so any client that reaches it acts
// as the signed-in user.
type AppConfig struct {
	Host      string `envconfig:"NEXUS_APP_HOST" default:"127.0.0.1"`
	Port      string `envconfig:"NEXUS_APP_PORT" default:"8080"`
	LogLevel  string `envconfig:"NEXUS_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"NEXUS_LOG_FORMAT" default:"json"`
}

func (a AppConfig) Addr() string {
	return net.JoinHostPort(a.Host, a.Port)
}

type StoreConfig struct {
	Backend string `envconfig:"NEXUS_STORE_BACKEND" default:"file"`
	Dir     string `envconfig:"NEXUS_STORE_DIR" default:"./data"`
}

type MySQLConfig struct {
	User     string `envconfig:"NEXUS_MYSQL_USER"`
	Password string `envconfig:"NEXUS_MYSQL_PASSWORD"`
	Host     string `envconfig:"NEXUS_MYSQL_HOST"`
	Port     string `envconfig:"NEXUS_MYSQL_PORT" default:"3306"`
	Database string `envconfig:"NEXUS_MYSQL_DATABASE" default:"nexus"`
}

func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", m.User, m.Password, m.Host, m.Port, m.Database)
}

type RedisConfig struct {
	Addr         string        `envconfig:"NEXUS_REDIS_ADDR" default:"localhost:6379"`
	DB           int           `envconfig:"NEXUS_REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"NEXUS_REDIS_DIAL_TIMEOUT" default:"2s"`
	ReadTimeout  time.Duration `envconfig:"NEXUS_REDIS_READ_TIMEOUT" default:"500ms"`
	WriteTimeout time.Duration `envconfig:"NEXUS_REDIS_WRITE_TIMEOUT" default:"500ms"`
}

// RabbitMQConfig is optional; an empty URL disables order events.
type RabbitMQConfig struct {
	URL      string `envconfig:"NEXUS_RABBITMQ_URL"`
	Exchange string `envconfig:"NEXUS_RABBITMQ_EXCHANGE" default:"nexus.exchange"`
}

type AssistantConfig struct {
	APIKey  string        `envconfig:"NEXUS_ASSISTANT_API_KEY"`
	Model   string        `envconfig:"NEXUS_ASSISTANT_MODEL" default:"gemini-3-flash-preview"`
	BaseURL string        `envconfig:"NEXUS_ASSISTANT_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `envconfig:"NEXUS_ASSISTANT_TIMEOUT" default:"15s"`
}
