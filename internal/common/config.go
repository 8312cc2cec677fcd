package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig
	FX      FXConfig
	Match   MatchConfig
	Raster  RasterConfig
	Extract ExtractConfig
}

// LLMConfig holds model-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// FXConfig holds exchange-rate configuration
type FXConfig struct {
	BaseCurrency string
	RatesFile    string
	APIURL       string
	APITimeout   time.Duration
}

// MatchConfig holds verification configuration
type MatchConfig struct {
	Tolerance float64
}

// RasterConfig holds PDF rasterization configuration
type RasterConfig struct {
	PdftoppmPath string
	DPI          int
}

// ExtractConfig holds extraction-stage configuration
type ExtractConfig struct {
	Workers int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		FX: FXConfig{
			BaseCurrency: getEnv("BASE_CURRENCY", "USD"),
			RatesFile:    getEnv("FX_RATES_FILE", "data/fx_rates.csv"),
			APIURL:       getEnv("FX_API_URL", "https://api.exchangerate-api.com/v4/latest"),
			APITimeout:   getEnvAsDuration("FX_API_TIMEOUT", 5*time.Second),
		},
		Match: MatchConfig{
			Tolerance: getEnvAsFloat64("MATCH_TOLERANCE", 0.01),
		},
		Raster: RasterConfig{
			PdftoppmPath: getEnv("PDFTOPPM_PATH", "pdftoppm"),
			DPI:          getEnvAsInt("RASTER_DPI", 200),
		},
		Extract: ExtractConfig{
			Workers: getEnvAsInt("EXTRACT_WORKERS", 1),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("OPENAI_API_KEY", c.LLM.APIKey, Required)
	v.Field("BASE_CURRENCY", c.FX.BaseCurrency, CurrencyCode)
	if c.Match.Tolerance < 0 {
		return NewAppError("CONFIG_ERROR", "MATCH_TOLERANCE must not be negative", ErrInvalidInput)
	}
	if c.Raster.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "RASTER_DPI must be positive", ErrInvalidInput)
	}
	if c.Extract.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "EXTRACT_WORKERS must be at least 1", ErrInvalidInput)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
