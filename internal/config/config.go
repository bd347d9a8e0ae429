package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	API       APIConfig       `json:"api"`
	Storage   StorageConfig   `json:"storage"`
	Log       LogConfig       `json:"log"`
	DevServer DevServerConfig `json:"dev_server"`
}

// APIConfig configures the remote student-helper backend.
type APIConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// StorageConfig configures the local key-value store that keeps the
// session token between runs.
type StorageConfig struct {
	Dir string `json:"dir"`
}

// LogConfig configures logrus output.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// DevServerConfig configures the bundled development backend.
type DevServerConfig struct {
	Addr        string `json:"addr"`
	JWTSecret   string `json:"jwt_secret"`
	OpenAIKey   string `json:"openai_key,omitempty"`
	OpenAIModel string `json:"openai_model"`
}

// Load reads configuration from an optional config file, a .env file, and
// STUDENTHELPER_* environment variables, falling back to defaults.
func Load() (*Config, error) {
	// A .env next to the binary is a development convenience; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".studenthelper"))
	}

	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", "60s")
	v.SetDefault("storage.dir", defaultStorageDir(homeDir))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("dev_server.addr", "localhost:5000")
	v.SetDefault("dev_server.jwt_secret", "change-me-in-production")
	v.SetDefault("dev_server.openai_model", "gpt-4o-mini")

	v.SetEnvPrefix("STUDENTHELPER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Storage: StorageConfig{
			Dir: v.GetString("storage.dir"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		DevServer: DevServerConfig{
			Addr:        v.GetString("dev_server.addr"),
			JWTSecret:   v.GetString("dev_server.jwt_secret"),
			OpenAIKey:   v.GetString("dev_server.openai_key"),
			OpenAIModel: v.GetString("dev_server.openai_model"),
		},
	}

	loadEnvOverrides(cfg)

	return cfg, nil
}

func defaultStorageDir(homeDir string) string {
	if homeDir == "" {
		return ".studenthelper"
	}
	return filepath.Join(homeDir, ".studenthelper")
}

func loadEnvOverrides(cfg *Config) {
	if url := os.Getenv("STUDENTHELPER_API_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.DevServer.OpenAIKey = key
	}
	if secret := os.Getenv("STUDENTHELPER_JWT_SECRET"); secret != "" {
		cfg.DevServer.JWTSecret = secret
	}
}
