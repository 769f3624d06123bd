package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.App.Addr())
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "./data", cfg.Store.Dir)
	assert.Equal(t, "nexus.exchange", cfg.RabbitMQ.Exchange)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, 15*time.Second, cfg.Assistant.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NEXUS_STORE_BACKEND", "redis")
	t.Setenv("NEXUS_REDIS_ADDR", "cache:6380")
	t.Setenv("NEXUS_APP_HOST", "0.0.0.0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "file", cfg: Config{Store: StoreConfig{Backend: "file"}}},
		{name: "memory upper case", cfg: Config{Store: StoreConfig{Backend: "MEMORY"}}},
		{name: "unknown", cfg: Config{Store: StoreConfig{Backend: "s3"}}, wantErr: "unknown store backend"},
		{name: "mysql without host", cfg: Config{Store: StoreConfig{Backend: "mysql"}}, wantErr: "NEXUS_MYSQL_HOST"},
		{name: "mysql with host", cfg: Config{Store: StoreConfig{Backend: "mysql"}, MySQL: MySQLConfig{Host: "db"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMySQLConfig_DSN(t *testing.T) {
	m := MySQLConfig{User: "u", Password: "p", Host: "h", Port: "3306", Database: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=Local", m.DSN())
}
