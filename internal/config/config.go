package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	ArtifactSource     string
	ArtifactDir        string
	ScalerArtifact     string
	ClassifierArtifact string
	DatabaseURL        string

	StaticDir    string
	MaxBodyBytes int64
	CORSOrigins  []string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ARTIFACT_SOURCE", SourceFile)
	v.SetDefault("ARTIFACT_DIR", "")
	v.SetDefault("SCALER_ARTIFACT", "models/scaler.json")
	v.SetDefault("CLASSIFIER_ARTIFACT", "models/classifier.json")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("CORS_ORIGINS", "*")
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		GinMode:            v.GetString("GIN_MODE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		ArtifactSource:     strings.ToLower(v.GetString("ARTIFACT_SOURCE")),
		ArtifactDir:        v.GetString("ARTIFACT_DIR"),
		ScalerArtifact:     v.GetString("SCALER_ARTIFACT"),
		ClassifierArtifact: v.GetString("CLASSIFIER_ARTIFACT"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		StaticDir:          v.GetString("STATIC_DIR"),
		MaxBodyBytes:       v.GetInt64("MAX_BODY_BYTES"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ArtifactSource {
	case SourceFile:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when ARTIFACT_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown ARTIFACT_SOURCE %q", c.ArtifactSource)
	}
	if c.ScalerArtifact == "" || c.ClassifierArtifact == "" {
		return fmt.Errorf("SCALER_ARTIFACT and CLASSIFIER_ARTIFACT must be set")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
