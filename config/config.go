package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Storage StorageConfig
	Mail    MailConfig
	Jobs    JobsConfig
}

type AppConfig struct {
	Port           string
	Env            string
	Timezone       string
	RequestTimeout time.Duration
}

type DBConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	MigrationsPath string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StorageConfig selects the blob store backend. Provider is "s3" or "cloudinary".
type StorageConfig struct {
	Provider            string
	AWSRegion           string
	AWSBucket           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	PresignExpiry       time.Duration
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type JobsConfig struct {
	CacheResyncSpec string
	ReminderSpec    string
}

const (
	StorageProviderS3         = "s3"
	StorageProviderCloudinary = "cloudinary"
)

func LoadConfig() (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Environment specific file first, plain env vars always win over both.
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err == nil {
		logrus.Infof("Loaded configuration from %s", envFile)
	}

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
		logrus.Info("No .env file found, using system environment variables")
	}

	config := &Config{
		App: AppConfig{
			Port:           viper.GetString("APP_PORT"),
			Env:            viper.GetString("APP_ENV"),
			Timezone:       viper.GetString("APP_TIMEZONE"),
			RequestTimeout: parseDuration("APP_REQUEST_TIMEOUT", 5*time.Second),
		},
		DB: DBConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			Name:           viper.GetString("DB_NAME"),
			MigrationsPath: viper.GetString("DB_MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  parseDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: parseDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Storage: StorageConfig{
			Provider:            viper.GetString("STORAGE_PROVIDER"),
			AWSRegion:           viper.GetString("AWS_REGION"),
			AWSBucket:           viper.GetString("AWS_S3_BUCKET"),
			AWSAccessKeyID:      viper.GetString("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey:  viper.GetString("AWS_SECRET_ACCESS_KEY"),
			PresignExpiry:       parseDuration("STORAGE_PRESIGN_EXPIRY", time.Hour),
			CloudinaryCloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
			CloudinaryAPIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			CloudinaryAPISecret: viper.GetString("CLOUDINARY_API_SECRET"),
			CloudinaryFolder:    viper.GetString("CLOUDINARY_FOLDER"),
		},
		Mail: MailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USERNAME"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Jobs: JobsConfig{
			CacheResyncSpec: viper.GetString("JOB_CACHE_RESYNC_SPEC"),
			ReminderSpec:    viper.GetString("JOB_REMINDER_SPEC"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("STORAGE_PROVIDER", StorageProviderS3)
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("CLOUDINARY_FOLDER", "belezure")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("JOB_CACHE_RESYNC_SPEC", "*/30 * * * *")
	viper.SetDefault("JOB_REMINDER_SPEC", "0 18 * * *")
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DB.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	switch c.Storage.Provider {
	case StorageProviderS3, StorageProviderCloudinary:
	default:
		return fmt.Errorf("STORAGE_PROVIDER must be %q or %q", StorageProviderS3, StorageProviderCloudinary)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Location returns the configured business timezone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
