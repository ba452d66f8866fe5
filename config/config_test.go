package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_HOST", "localhost")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, time.Hour, cfg.Storage.PresignExpiry)
	assert.Equal(t, StorageProviderS3, cfg.Storage.Provider)
	assert.Equal(t, "0 18 * * *", cfg.Jobs.ReminderSpec)
	assert.Equal(t, "file://migrations", cfg.DB.MigrationsPath)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("APP_REQUEST_TIMEOUT", "2s")
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")
	t.Setenv("STORAGE_PROVIDER", "cloudinary")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, StorageProviderCloudinary, cfg.Storage.Provider)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:     AppConfig{Timezone: "UTC"},
			DB:      DBConfig{Host: "localhost"},
			JWT:     JWTConfig{Secret: "secret"},
			Storage: StorageConfig{Provider: StorageProviderS3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing jwt secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET is required"},
		{"missing db host", func(c *Config) { c.DB.Host = "" }, "DB_HOST is required"},
		{"unknown storage", func(c *Config) { c.Storage.Provider = "ftp" }, "STORAGE_PROVIDER"},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, "APP_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
