package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/Skufu/healthrisk/internal/model"
)

type Config struct {
	Port          string
	GinMode       string
	ModelDir      string
	ModelManifest string
	LogLevel      string
	LogFile       string
	StaticDir     string
	DatabaseURL   string
	EnableDB      bool
}

// Manifest optionally overrides artifact file names per disease.
type Manifest struct {
	Models map[string]struct {
		Path string `yaml:"path"`
	} `yaml:"models"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		GinMode:       getEnv("GIN_MODE", "release"),
		ModelDir:      getEnv("MODEL_DIR", "."),
		ModelManifest: os.Getenv("MODEL_MANIFEST"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		StaticDir:     os.Getenv("STATIC_DIR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		EnableDB:      strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

// ArtifactPaths returns the model file for each disease, applying the manifest when set.
func (c *Config) ArtifactPaths() (map[model.Disease]string, error) {
	overrides := map[model.Disease]string{}
	if c.ModelManifest != "" {
		m, err := LoadManifest(c.ModelManifest)
		if err != nil {
			return nil, err
		}
		for name, entry := range m.Models {
			d := model.Disease(strings.ToLower(name))
			if !isKnownDisease(d) {
				return nil, fmt.Errorf("manifest: unknown model %q", name)
			}
			overrides[d] = entry.Path
		}
	}
	return model.ArtifactPaths(c.ModelDir, overrides), nil
}

func LoadManifest(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	var m Manifest
	if err := yaml.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

func isKnownDisease(d model.Disease) bool {
	for _, known := range model.Diseases {
		if d == known {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
