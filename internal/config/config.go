package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Decoder  DecoderConfig
	Analysis AnalysisConfig
	Database DatabaseConfig
	Archive  ArchiveConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string   `validate:"required,numeric"`
	Env            string   `validate:"required"`
	LogLevel       string   `validate:"required,oneof=trace debug info warn error"`
	AllowedOrigins []string `validate:"min=1"`
	MaxUploadBytes int64    `validate:"gt=0"`
	MetricsEnabled bool
}

// DecoderConfig holds transcoder configuration
type DecoderConfig struct {
	FFmpegPath     string        `validate:"required"`
	Timeout        time.Duration `validate:"gt=0"`
	MinUploadBytes int           `validate:"gte=0"`
	SampleRate     int           `validate:"gt=0"`
}

// AnalysisConfig holds pitch analysis parameters
type AnalysisConfig struct {
	VoiceBandLowHz    float64 `validate:"gt=0"`
	VoiceBandHighHz   float64 `validate:"gtfield=VoiceBandLowHz"`
	GenderThresholdHz float64 `validate:"gt=0"`
}

// DatabaseConfig holds database configuration; an empty URL disables the analysis log
type DatabaseConfig struct {
	URL string
}

// ArchiveConfig holds recording archive configuration; an empty backend disables it
type ArchiveConfig struct {
	Backend         string `validate:"omitempty,oneof=s3 minio"`
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string `validate:"required_with=Backend"`
	Endpoint        string
	UseSSL          bool
}

// Enabled reports whether uploads should be archived
func (c ArchiveConfig) Enabled() bool {
	return c.Backend != ""
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_BYTES", 20*1024*1024)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("FFMPEG_TIMEOUT", "30s")
	v.SetDefault("MIN_UPLOAD_BYTES", 1000)
	v.SetDefault("TARGET_SAMPLE_RATE", 44100)
	v.SetDefault("VOICE_BAND_LOW_HZ", 100.0)
	v.SetDefault("VOICE_BAND_HIGH_HZ", 450.0)
	v.SetDefault("GENDER_THRESHOLD_HZ", 175.0)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ARCHIVE_BACKEND", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_USE_SSL", false)

	// Environment variables override .env file values
	v.AutomaticEnv()

	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	// Try to read .env file for the current environment
	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read .env.%s: %w", env, err)
		}
	}

	var config Config
	config.Server.Port = v.GetString("PORT")
	config.Server.Env = env
	config.Server.LogLevel = strings.ToLower(v.GetString("LOG_LEVEL"))
	config.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	config.Server.MaxUploadBytes = v.GetInt64("MAX_UPLOAD_BYTES")
	config.Server.MetricsEnabled = v.GetBool("METRICS_ENABLED")
	config.Decoder.FFmpegPath = v.GetString("FFMPEG_PATH")
	config.Decoder.Timeout = v.GetDuration("FFMPEG_TIMEOUT")
	config.Decoder.MinUploadBytes = v.GetInt("MIN_UPLOAD_BYTES")
	config.Decoder.SampleRate = v.GetInt("TARGET_SAMPLE_RATE")
	config.Analysis.VoiceBandLowHz = v.GetFloat64("VOICE_BAND_LOW_HZ")
	config.Analysis.VoiceBandHighHz = v.GetFloat64("VOICE_BAND_HIGH_HZ")
	config.Analysis.GenderThresholdHz = v.GetFloat64("GENDER_THRESHOLD_HZ")
	config.Database.URL = v.GetString("DATABASE_URL")
	config.Archive.Backend = strings.ToLower(v.GetString("ARCHIVE_BACKEND"))
	config.Archive.Region = v.GetString("AWS_REGION")
	config.Archive.AccessKeyID = v.GetString("AWS_ACCESS_KEY_ID")
	config.Archive.SecretAccessKey = v.GetString("AWS_SECRET_ACCESS_KEY")
	config.Archive.Bucket = v.GetString("S3_BUCKET")
	config.Archive.Endpoint = v.GetString("S3_ENDPOINT")
	config.Archive.UseSSL = v.GetBool("S3_USE_SSL")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
